package domain

import "time"

// DatasetStatus reports the load state of one dataset role.
type DatasetStatus struct {
	Role    string `json:"role"`
	Loaded  bool   `json:"loaded"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// OptimizationRun is the persisted header of one optimizer run.
type OptimizationRun struct {
	ID                  int64     `json:"id" db:"id"`
	JoinKey             string    `json:"join_key" db:"join_key"`
	RecordCount         int       `json:"record_count" db:"record_count"`
	ServiceLevel        float64   `json:"service_level" db:"service_level"`
	MinSafetyStock      float64   `json:"min_safety_stock" db:"min_safety_stock"`
	MaxSafetyStockMult  float64   `json:"max_safety_stock_multiplier" db:"max_safety_stock_multiplier"`
	DemandVariability   float64   `json:"demand_variability_factor" db:"demand_variability_factor"`
	LeadTimeVariability float64   `json:"lead_time_variability_factor" db:"lead_time_variability_factor"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
}

// SafetyStockRecord is one persisted per-record optimizer result.
type SafetyStockRecord struct {
	ID               int64   `json:"id" db:"id"`
	RunID            int64   `json:"run_id" db:"run_id"`
	MaterialShop     string  `json:"material_shop" db:"material_shop"`
	AvgMonthlyDemand float64 `json:"avg_monthly_demand" db:"avg_monthly_demand"`
	DemandStd        float64 `json:"demand_std" db:"demand_std"`
	AvgLeadTime      float64 `json:"avg_lead_time" db:"avg_lead_time"`
	LeadTimeStd      float64 `json:"lead_time_std" db:"lead_time_std"`
	RiskIndex        float64 `json:"risk_index" db:"risk_index"`
	SSRaw            float64 `json:"ss_raw" db:"ss_raw"`
	SSOptimal        float64 `json:"ss_optimal" db:"ss_optimal"`
}
