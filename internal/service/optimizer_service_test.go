package service

import (
	"context"
	"strings"
	"testing"

	"github.com/meio-shop/backend-go/internal/dataset"
	"github.com/meio-shop/backend-go/internal/pipeline/safetystock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() safetystock.Parameters {
	return safetystock.Parameters{
		ServiceLevel:              0.95,
		MinSafetyStock:            0,
		MaxSafetyStockMultiplier:  4,
		DemandVariabilityFactor:   1,
		LeadTimeVariabilityFactor: 1,
	}
}

func loadAll(t *testing.T, svc *OptimizerService) {
	t.Helper()
	load := func(role dataset.Role, csv string) {
		require.NoError(t, svc.LoadDataset(role, strings.NewReader(csv)))
	}
	load(dataset.RoleSalesHistory, "material_shop,demand_std\nA1_Shop1,10\nA2_Shop1,0\n")
	load(dataset.RoleSalesForecast, "material_shop,forecast_note\nA1_Shop1,steady\n")
	load(dataset.RoleProductsMaster, "material_shop,category\nA1_Shop1,beauty\nA2_Shop1,care\n")
	load(dataset.RoleProductLifecycle, "material_shop,stage\nA1_Shop1,mature\nA2_Shop1,launch\n")
	load(dataset.RoleLeadtimeHistory, "material_shop,avg_lead_time,lead_time_std\nA1_Shop1,4,1\nA2_Shop1,0,0\n")
}

func TestRunRequiresAllDatasets(t *testing.T) {
	svc := NewOptimizerService(testParams(), nil, nil)
	require.NoError(t, svc.LoadDataset(dataset.RoleSalesHistory,
		strings.NewReader("material_shop,units\nA1_Shop1,10\n")))

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, dataset.ErrIncompleteDatasets)
}

func TestRunRequiresJoinKey(t *testing.T) {
	svc := NewOptimizerService(testParams(), nil, nil)
	loadAll(t, svc)
	// Replace sales history with a table lacking any accepted alias.
	require.NoError(t, svc.LoadDataset(dataset.RoleSalesHistory,
		strings.NewReader("sku,units\nA1,10\n")))

	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, safetystock.ErrMissingJoinKey)
}

func TestRunEndToEnd(t *testing.T) {
	svc := NewOptimizerService(testParams(), nil, nil)
	loadAll(t, svc)

	results, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "material_shop", svc.JoinKey())

	// demand_std is canonical in sales history; with avg_monthly_demand
	// absent the first numeric column (demand_std itself) becomes the
	// demand proxy. avg_lead_time/lead_time_std come from the lead time
	// history merge.
	r1 := results[0]
	assert.Equal(t, "A1_Shop1", r1.Key)
	assert.Equal(t, 10.0, r1.AvgMonthlyDemand)
	assert.Equal(t, 11.0, r1.RiskIndex)
	z := 0.85 + (0.95-0.80)*(2.33-0.85)/(0.99-0.80)
	assert.InDelta(t, z*11*2, r1.SSRaw, 1e-9)
	// Raw exceeds the upper bound 4 x 10.
	assert.Equal(t, 40.0, r1.SSOptimal)

	r2 := results[1]
	assert.Equal(t, "A2_Shop1", r2.Key)
	assert.Equal(t, 0.0, r2.SSOptimal)
}

func TestRunIsReproducible(t *testing.T) {
	svc := NewOptimizerService(testParams(), nil, nil)
	loadAll(t, svc)

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFilterAndExportAfterRun(t *testing.T) {
	svc := NewOptimizerService(testParams(), nil, nil)
	loadAll(t, svc)
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	filtered := svc.Filter("a1", 0)
	require.Len(t, filtered, 1)
	assert.Equal(t, "A1_Shop1", filtered[0].Key)

	var buf strings.Builder
	require.NoError(t, svc.ExportCSV(&buf, "", 1))
	exported, err := dataset.ReadTable(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, "material_shop", exported.Columns[0])
	require.Equal(t, 1, exported.Len())
	assert.Equal(t, "A1_Shop1", exported.Cell(0, 0))
}

func TestSetParametersBecomesSessionDefault(t *testing.T) {
	svc := NewOptimizerService(testParams(), nil, nil)

	p := testParams()
	p.ServiceLevel = 0.80
	svc.SetParameters(p)
	assert.Equal(t, p, svc.Parameters())
}

// countingCache records cache traffic to verify the run fingerprint.
type countingCache struct {
	store map[string][]safetystock.Result
	sets  int
	hits  int
}

func newCountingCache() *countingCache {
	return &countingCache{store: make(map[string][]safetystock.Result)}
}

func (c *countingCache) Get(_ context.Context, fp string) ([]safetystock.Result, bool, error) {
	results, ok := c.store[fp]
	if ok {
		c.hits++
	}
	return results, ok, nil
}

func (c *countingCache) Set(_ context.Context, fp string, results []safetystock.Result) error {
	c.sets++
	c.store[fp] = results
	return nil
}

func TestRunUsesCacheForIdenticalInputs(t *testing.T) {
	cacheImpl := newCountingCache()
	svc := NewOptimizerService(testParams(), cacheImpl, nil)
	loadAll(t, svc)

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, cacheImpl.sets)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cacheImpl.hits)
	assert.Equal(t, first, second)

	// Changing parameters changes the fingerprint.
	p := testParams()
	p.ServiceLevel = 0.80
	svc.SetParameters(p)
	_, err = svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, cacheImpl.sets)
}

func TestFingerprintEncodesCellBoundaries(t *testing.T) {
	table := func(cells ...string) *dataset.Table {
		return dataset.NewTable([]string{"material_shop", "note"}, [][]string{cells})
	}
	a := map[dataset.Role]*dataset.Table{dataset.RoleSalesHistory: table("A1", "b c")}
	b := map[dataset.Role]*dataset.Table{dataset.RoleSalesHistory: table("A1 b", "c")}

	assert.NotEqual(t, runFingerprint(a, testParams()), runFingerprint(b, testParams()))
}
