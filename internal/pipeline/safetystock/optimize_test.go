package safetystock

import (
	"math"
	"testing"
)

func baseParams() Parameters {
	return Parameters{
		ServiceLevel:              0.95,
		MinSafetyStock:            0,
		MaxSafetyStockMultiplier:  4,
		DemandVariabilityFactor:   1,
		LeadTimeVariabilityFactor: 1,
	}
}

func TestOptimizeTwoRowExample(t *testing.T) {
	stats := []Statistics{
		{Key: "A1_Shop1", AvgMonthlyDemand: 20, DemandStd: 10, AvgLeadTime: 4, LeadTimeStd: 1},
		{Key: "A2_Shop1"},
	}

	results := Optimize(stats, baseParams())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	// z = 0.85 + 0.15 * (2.33-0.85)/(0.99-0.80) ~= 2.0184
	wantZ := 0.85 + (0.95-0.80)*(2.33-0.85)/(0.99-0.80)

	r1 := results[0]
	if r1.RiskIndex != 11 {
		t.Errorf("risk_index: want 11, got %v", r1.RiskIndex)
	}
	wantRaw := wantZ * 11 * 2
	if math.Abs(r1.SSRaw-wantRaw) > 1e-9 {
		t.Errorf("ss_raw: want %v, got %v", wantRaw, r1.SSRaw)
	}
	// Upper bound 4*20=80 does not bind here.
	if r1.SSOptimal != r1.SSRaw {
		t.Errorf("ss_optimal: want unclipped %v, got %v", r1.SSRaw, r1.SSOptimal)
	}

	// All-zero statistics clip to zero.
	r2 := results[1]
	if r2.SSOptimal != 0 {
		t.Errorf("zero-statistics row: want ss_optimal 0, got %v", r2.SSOptimal)
	}
}

func TestOptimizeUpperBoundClips(t *testing.T) {
	stats := []Statistics{
		{Key: "A1_Shop1", AvgMonthlyDemand: 1, DemandStd: 100, AvgLeadTime: 4, LeadTimeStd: 10},
	}
	p := baseParams()

	results := Optimize(stats, p)
	upper := p.MaxSafetyStockMultiplier * stats[0].AvgMonthlyDemand
	if results[0].SSOptimal != upper {
		t.Errorf("want ss_optimal clipped to %v, got %v", upper, results[0].SSOptimal)
	}
	if results[0].SSRaw <= upper {
		t.Fatalf("test setup broken: raw %v should exceed upper %v", results[0].SSRaw, upper)
	}
}

func TestOptimizeLowerBoundWinsOnInversion(t *testing.T) {
	// avg demand 0 gives upper bound 0 below min_safety_stock 5; the
	// lower bound wins, the clip never inverts.
	stats := []Statistics{{Key: "A1_Shop1"}}
	p := baseParams()
	p.MinSafetyStock = 5

	results := Optimize(stats, p)
	if results[0].SSOptimal != 5 {
		t.Errorf("want ss_optimal 5, got %v", results[0].SSOptimal)
	}
}

func TestOptimizeBoundMonotonicity(t *testing.T) {
	stats := []Statistics{
		{Key: "A", AvgMonthlyDemand: 50, DemandStd: 5, AvgLeadTime: 2, LeadTimeStd: 0.5},
		{Key: "B", AvgMonthlyDemand: 0, DemandStd: 3, AvgLeadTime: 1, LeadTimeStd: 0.2},
		{Key: "C", AvgMonthlyDemand: 2, DemandStd: 80, AvgLeadTime: 9, LeadTimeStd: 4},
	}
	p := baseParams()
	p.MinSafetyStock = 1

	for _, r := range Optimize(stats, p) {
		upper := p.MaxSafetyStockMultiplier * r.AvgMonthlyDemand
		if upper >= p.MinSafetyStock {
			if r.SSOptimal < p.MinSafetyStock || r.SSOptimal > upper {
				t.Errorf("%s: ss_optimal %v outside [%v, %v]", r.Key, r.SSOptimal, p.MinSafetyStock, upper)
			}
		} else if r.SSOptimal != p.MinSafetyStock {
			t.Errorf("%s: inverted bounds should yield min_safety_stock, got %v", r.Key, r.SSOptimal)
		}
	}
}

func TestOptimizeDeterministic(t *testing.T) {
	stats := []Statistics{
		{Key: "A1_Shop1", AvgMonthlyDemand: 20, DemandStd: 10, AvgLeadTime: 4, LeadTimeStd: 1},
		{Key: "A3_Shop2", AvgMonthlyDemand: 7.25, DemandStd: 3.125, AvgLeadTime: 1.5, LeadTimeStd: 0.5},
	}
	p := baseParams()

	first := Optimize(stats, p)
	second := Optimize(stats, p)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d: results differ between identical runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestOptimizeServiceLevelMonotonicity(t *testing.T) {
	stats := []Statistics{
		{Key: "A1_Shop1", AvgMonthlyDemand: 1000, DemandStd: 10, AvgLeadTime: 4, LeadTimeStd: 1},
	}
	p := baseParams()

	prev := -1.0
	for sl := 0.80; sl <= 0.99+1e-9; sl += 0.01 {
		p.ServiceLevel = sl
		got := Optimize(stats, p)[0].SSOptimal
		if got < prev {
			t.Errorf("service level %.2f: ss_optimal decreased from %v to %v", sl, prev, got)
		}
		prev = got
	}
}

func TestZFactorClampsAtZero(t *testing.T) {
	// Far below the reference range the linear extrapolation dips
	// negative and must clamp.
	if z := zFactor(0.01); z != 0 {
		t.Errorf("want z clamped to 0, got %v", z)
	}
	if z := zFactor(0.99); math.Abs(z-2.33) > 1e-9 {
		t.Errorf("want z 2.33 at the 99%% reference point, got %v", z)
	}
	if z := zFactor(0.80); math.Abs(z-0.85) > 1e-9 {
		t.Errorf("want z 0.85 at the 80%% reference point, got %v", z)
	}
}
