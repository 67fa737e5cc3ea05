package safetystock

import (
	"testing"

	"github.com/meio-shop/backend-go/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const key = "material_shop"

func salesTable() *dataset.Table {
	return dataset.NewTable([]string{key, "units", "category"}, [][]string{
		{"A1_Shop1", "10", "beauty"},
		{"A2_Shop1", "20", "beauty"},
		{"A3_Shop2", "30", "care"},
	})
}

func TestJoinPreservesLeftCardinality(t *testing.T) {
	base := salesTable()

	// Duplicate keys and unknown keys on the right must not change the
	// output row count.
	master := dataset.NewTable([]string{key, "supplier"}, [][]string{
		{"A1_Shop1", "acme"},
		{"A1_Shop1", "other"},
		{"ZZ_Shop9", "ghost"},
	})

	out := Join(base, []JoinSource{{Role: dataset.RoleProductsMaster, Table: master, Suffix: "_pm"}}, key)
	require.Equal(t, base.Len(), out.Len())

	// First right row per key wins.
	supplier := out.ColumnIndex("supplier")
	assert.Equal(t, "acme", out.Cell(0, supplier))

	// Unmatched keys get the missing marker, never a silent zero.
	assert.Equal(t, dataset.Missing, out.Cell(1, supplier))
	assert.Equal(t, dataset.Missing, out.Cell(2, supplier))
}

func TestJoinRenamesCollidingColumns(t *testing.T) {
	base := salesTable()
	master := dataset.NewTable([]string{key, "category", "supplier"}, [][]string{
		{"A1_Shop1", "cosmetics", "acme"},
	})

	out := Join(base, []JoinSource{{Role: dataset.RoleProductsMaster, Table: master, Suffix: "_pm"}}, key)

	// Both the left and the renamed right column survive.
	require.True(t, out.HasColumn("category"))
	require.True(t, out.HasColumn("category_pm"))
	assert.Equal(t, "beauty", out.Cell(0, out.ColumnIndex("category")))
	assert.Equal(t, "cosmetics", out.Cell(0, out.ColumnIndex("category_pm")))
}

func TestJoinMergeOrderAndSuffixes(t *testing.T) {
	base := salesTable()
	aux := func(col string) *dataset.Table {
		return dataset.NewTable([]string{key, col}, [][]string{{"A1_Shop1", "v"}})
	}
	tables := map[dataset.Role]*dataset.Table{
		dataset.RoleSalesForecast:    aux("units"),
		dataset.RoleProductsMaster:   aux("units"),
		dataset.RoleProductLifecycle: aux("units"),
		dataset.RoleLeadtimeHistory:  aux("units"),
	}

	out := Join(base, Sources(tables), key)

	for _, col := range []string{"units", "units_fcst", "units_pm", "units_pl", "units_lt"} {
		assert.True(t, out.HasColumn(col), "expected column %s", col)
	}
	assert.Equal(t, base.Len(), out.Len())
}

func TestJoinSkipsNilSources(t *testing.T) {
	base := salesTable()
	out := Join(base, Sources(map[dataset.Role]*dataset.Table{}), key)

	assert.Equal(t, base.Columns, out.Columns)
	assert.Equal(t, base.Len(), out.Len())
}

func TestJoinDoesNotMutateInputs(t *testing.T) {
	base := salesTable()
	master := dataset.NewTable([]string{key, "category"}, [][]string{{"A1_Shop1", "x"}})

	_ = Join(base, []JoinSource{{Role: dataset.RoleProductsMaster, Table: master, Suffix: "_pm"}}, key)

	assert.Equal(t, []string{key, "units", "category"}, base.Columns)
	assert.Equal(t, []string{key, "category"}, master.Columns)
}
