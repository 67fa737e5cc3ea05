package safetystock

import "math"

// Parameters tunes one optimization run. Ranges are validated at the
// transport boundary, not here: the optimizer assumes service_level in
// (0,1], non-negative bounds and positive variability factors.
type Parameters struct {
	ServiceLevel              float64 `json:"service_level"`
	MinSafetyStock            float64 `json:"min_safety_stock"`
	MaxSafetyStockMultiplier  float64 `json:"max_safety_stock_multiplier"`
	DemandVariabilityFactor   float64 `json:"demand_variability_factor"`
	LeadTimeVariabilityFactor float64 `json:"lead_time_variability_factor"`
}

// Result is the optimizer output for one working record.
type Result struct {
	Key              string  `json:"key"`
	AvgMonthlyDemand float64 `json:"avg_monthly_demand"`
	DemandStd        float64 `json:"demand_std"`
	AvgLeadTime      float64 `json:"avg_lead_time"`
	LeadTimeStd      float64 `json:"lead_time_std"`
	RiskIndex        float64 `json:"risk_index"`
	SSRaw            float64 `json:"ss_raw"`
	SSOptimal        float64 `json:"ss_optimal"`
}

// zFactor linearly maps the [80%, 99%] service-level range onto the
// approximate [0.85, 2.33] one-sided normal quantile range, clamped at
// zero. This is a documented linear approximation, kept as-is rather
// than substituted with the exact inverse CDF.
func zFactor(serviceLevel float64) float64 {
	z := 0.85 + (serviceLevel-0.80)*(2.33-0.85)/(0.99-0.80)
	if z < 0 {
		z = 0
	}
	return z
}

// clip bounds v into [lower, upper]. When the upper bound falls below
// the lower bound the lower bound wins; the interval never inverts.
func clip(v, lower, upper float64) float64 {
	if v > upper {
		v = upper
	}
	if v < lower {
		v = lower
	}
	return v
}

// Optimize computes a bounded safety-stock recommendation per record.
// It is a pure function of its two arguments: identical inputs yield
// bit-identical outputs, and no state is carried across calls.
func Optimize(stats []Statistics, p Parameters) []Result {
	z := zFactor(p.ServiceLevel)
	results := make([]Result, len(stats))
	for i, s := range stats {
		risk := s.DemandStd*p.DemandVariabilityFactor + s.LeadTimeStd*p.LeadTimeVariabilityFactor
		raw := z * risk * math.Sqrt(s.AvgLeadTime)
		upper := p.MaxSafetyStockMultiplier * s.AvgMonthlyDemand
		results[i] = Result{
			Key:              s.Key,
			AvgMonthlyDemand: s.AvgMonthlyDemand,
			DemandStd:        s.DemandStd,
			AvgLeadTime:      s.AvgLeadTime,
			LeadTimeStd:      s.LeadTimeStd,
			RiskIndex:        risk,
			SSRaw:            raw,
			SSOptimal:        clip(raw, p.MinSafetyStock, upper),
		}
	}
	return results
}
