package service

import (
	"testing"

	"github.com/meio-shop/backend-go/internal/config"
	"github.com/meio-shop/backend-go/internal/pipeline/safetystock"
	"github.com/stretchr/testify/assert"
)

func testBounds() config.OptimizerConfig {
	return config.OptimizerConfig{
		ServiceLevelMin:       0.80,
		ServiceLevelMax:       0.99,
		MaxSafetyStockMultMin: 1.0,
		MaxSafetyStockMultMax: 10.0,
		VariabilityFactorMin:  0.5,
		VariabilityFactorMax:  3.0,
	}
}

func validParams() safetystock.Parameters {
	return safetystock.Parameters{
		ServiceLevel:              0.95,
		MinSafetyStock:            0,
		MaxSafetyStockMultiplier:  4,
		DemandVariabilityFactor:   1,
		LeadTimeVariabilityFactor: 1,
	}
}

func TestValidateParameters(t *testing.T) {
	assert.NoError(t, ValidateParameters(validParams(), testBounds()))

	cases := []struct {
		name   string
		mutate func(*safetystock.Parameters)
	}{
		{"service level too low", func(p *safetystock.Parameters) { p.ServiceLevel = 0.5 }},
		{"service level too high", func(p *safetystock.Parameters) { p.ServiceLevel = 1.0 }},
		{"negative min safety stock", func(p *safetystock.Parameters) { p.MinSafetyStock = -1 }},
		{"multiplier too small", func(p *safetystock.Parameters) { p.MaxSafetyStockMultiplier = 0.5 }},
		{"multiplier too large", func(p *safetystock.Parameters) { p.MaxSafetyStockMultiplier = 11 }},
		{"demand variability out of range", func(p *safetystock.Parameters) { p.DemandVariabilityFactor = 0.1 }},
		{"lead time variability out of range", func(p *safetystock.Parameters) { p.LeadTimeVariabilityFactor = 3.5 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)
			assert.Error(t, ValidateParameters(p, testBounds()))
		})
	}
}
