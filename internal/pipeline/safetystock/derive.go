package safetystock

import (
	"math"
	"strconv"

	"github.com/meio-shop/backend-go/internal/dataset"
)

// Canonical statistic column names. When a merged source already
// supplies one of these, its values are used untouched; the fallbacks
// below only fill in absent columns.
const (
	ColAvgMonthlyDemand = "avg_monthly_demand"
	ColDemandStd        = "demand_std"
	ColAvgLeadTime      = "avg_lead_time"
	ColLeadTimeStd      = "lead_time_std"
)

// Statistics holds the four canonical measures for one working record.
type Statistics struct {
	Key              string
	AvgMonthlyDemand float64
	DemandStd        float64
	AvgLeadTime      float64
	LeadTimeStd      float64
}

// FallbackPolicy is the best-effort heuristic used when canonical
// statistic columns are missing from the working table. It keeps the
// pipeline runnable on incomplete schemas; it is not schema validation.
// Each measure falls back independently of the others.
type FallbackPolicy struct {
	// DemandStdRatio scales the derived average demand into a proxy
	// standard deviation when demand_std is absent.
	DemandStdRatio float64
	// DefaultLeadTime is the constant used when avg_lead_time is absent.
	DefaultLeadTime float64
	// LeadTimeStdRatio scales the derived lead time into a proxy
	// standard deviation when lead_time_std is absent.
	LeadTimeStdRatio float64
}

// DefaultFallbacks is the documented fallback policy.
var DefaultFallbacks = FallbackPolicy{
	DemandStdRatio:   0.5,
	DefaultLeadTime:  1.0,
	LeadTimeStdRatio: 0.3,
}

// Deriver computes the canonical statistics for a working table.
type Deriver struct {
	Policy FallbackPolicy
}

// NewDeriver returns a deriver with the default fallback policy.
func NewDeriver() *Deriver {
	return &Deriver{Policy: DefaultFallbacks}
}

// Derive annotates a copy of the working table with the four canonical
// statistic columns and returns per-row statistics keyed by the join
// key column. The input table is not modified.
func (d *Deriver) Derive(t *dataset.Table, key string) (*dataset.Table, []Statistics) {
	out := t.Clone()
	n := out.Len()
	keyIdx := out.ColumnIndex(key)

	demand := d.deriveDemand(out)
	demandStd := d.deriveColumn(out, ColDemandStd, func(i int) float64 {
		return d.Policy.DemandStdRatio * demand[i]
	})
	leadTime := d.deriveColumn(out, ColAvgLeadTime, func(int) float64 {
		return d.Policy.DefaultLeadTime
	})
	leadTimeStd := d.deriveColumn(out, ColLeadTimeStd, func(i int) float64 {
		return d.Policy.LeadTimeStdRatio * leadTime[i]
	})

	appendIfMissing(out, ColAvgMonthlyDemand, demand)
	appendIfMissing(out, ColDemandStd, demandStd)
	appendIfMissing(out, ColAvgLeadTime, leadTime)
	appendIfMissing(out, ColLeadTimeStd, leadTimeStd)

	stats := make([]Statistics, n)
	for i := 0; i < n; i++ {
		stats[i] = Statistics{
			Key:              out.Cell(i, keyIdx),
			AvgMonthlyDemand: demand[i],
			DemandStd:        demandStd[i],
			AvgLeadTime:      leadTime[i],
			LeadTimeStd:      leadTimeStd[i],
		}
	}
	return out, stats
}

// deriveDemand reads avg_monthly_demand when present, otherwise falls
// back to the absolute value of the first purely numeric column, and
// to zero when no numeric column exists at all.
func (d *Deriver) deriveDemand(t *dataset.Table) []float64 {
	n := t.Len()
	values := make([]float64, n)
	if idx := t.ColumnIndex(ColAvgMonthlyDemand); idx >= 0 {
		for i := 0; i < n; i++ {
			values[i] = t.Float(i, idx)
		}
		return values
	}
	if idx := t.FirstNumericColumn(); idx >= 0 {
		for i := 0; i < n; i++ {
			values[i] = math.Abs(t.Float(i, idx))
		}
	}
	return values
}

// deriveColumn reads the named canonical column when present, otherwise
// computes each row's value with the fallback function.
func (d *Deriver) deriveColumn(t *dataset.Table, name string, fallback func(row int) float64) []float64 {
	n := t.Len()
	values := make([]float64, n)
	if idx := t.ColumnIndex(name); idx >= 0 {
		for i := 0; i < n; i++ {
			values[i] = t.Float(i, idx)
		}
		return values
	}
	for i := 0; i < n; i++ {
		values[i] = fallback(i)
	}
	return values
}

func appendIfMissing(t *dataset.Table, name string, values []float64) {
	if t.HasColumn(name) {
		return
	}
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	t.AddColumn(name, cells)
}
