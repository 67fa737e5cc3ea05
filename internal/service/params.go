package service

import (
	"fmt"

	"github.com/meio-shop/backend-go/internal/config"
	"github.com/meio-shop/backend-go/internal/pipeline/safetystock"
)

// ValidateParameters enforces the parameter ranges on behalf of the
// transport layer; the optimizer itself assumes valid inputs.
func ValidateParameters(p safetystock.Parameters, bounds config.OptimizerConfig) error {
	if p.ServiceLevel < bounds.ServiceLevelMin || p.ServiceLevel > bounds.ServiceLevelMax {
		return fmt.Errorf("service_level %.4f out of range [%.2f, %.2f]",
			p.ServiceLevel, bounds.ServiceLevelMin, bounds.ServiceLevelMax)
	}
	if p.MinSafetyStock < 0 {
		return fmt.Errorf("min_safety_stock must be >= 0, got %.4f", p.MinSafetyStock)
	}
	if p.MaxSafetyStockMultiplier < bounds.MaxSafetyStockMultMin || p.MaxSafetyStockMultiplier > bounds.MaxSafetyStockMultMax {
		return fmt.Errorf("max_safety_stock_multiplier %.4f out of range [%.2f, %.2f]",
			p.MaxSafetyStockMultiplier, bounds.MaxSafetyStockMultMin, bounds.MaxSafetyStockMultMax)
	}
	if p.DemandVariabilityFactor < bounds.VariabilityFactorMin || p.DemandVariabilityFactor > bounds.VariabilityFactorMax {
		return fmt.Errorf("demand_variability_factor %.4f out of range [%.2f, %.2f]",
			p.DemandVariabilityFactor, bounds.VariabilityFactorMin, bounds.VariabilityFactorMax)
	}
	if p.LeadTimeVariabilityFactor < bounds.VariabilityFactorMin || p.LeadTimeVariabilityFactor > bounds.VariabilityFactorMax {
		return fmt.Errorf("lead_time_variability_factor %.4f out of range [%.2f, %.2f]",
			p.LeadTimeVariabilityFactor, bounds.VariabilityFactorMin, bounds.VariabilityFactorMax)
	}
	return nil
}

// DefaultParameters builds the session default parameter set from the
// optimizer configuration.
func DefaultParameters(cfg config.OptimizerConfig) safetystock.Parameters {
	return safetystock.Parameters{
		ServiceLevel:              cfg.ServiceLevel,
		MinSafetyStock:            cfg.MinSafetyStock,
		MaxSafetyStockMultiplier:  cfg.MaxSafetyStockMult,
		DemandVariabilityFactor:   cfg.DemandVariability,
		LeadTimeVariabilityFactor: cfg.LeadTimeVariability,
	}
}
