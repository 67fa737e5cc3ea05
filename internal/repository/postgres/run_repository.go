package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/meio-shop/backend-go/internal/domain"
	"github.com/meio-shop/backend-go/internal/pipeline/safetystock"
)

// RunRepository persists optimization runs and their per-record
// results as immutable snapshots.
type RunRepository struct {
	db *DB
}

// NewRunRepository creates a repository on an established pool.
func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// SaveRun inserts a run header plus all of its result rows in one
// transaction and returns the run id.
func (r *RunRepository) SaveRun(ctx context.Context, joinKey string, params safetystock.Parameters, results []safetystock.Result) (int64, error) {
	var runID int64
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO optimization_runs (
				join_key, record_count, service_level, min_safety_stock,
				max_safety_stock_multiplier, demand_variability_factor,
				lead_time_variability_factor, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING id`,
			joinKey, len(results), params.ServiceLevel, params.MinSafetyStock,
			params.MaxSafetyStockMultiplier, params.DemandVariabilityFactor,
			params.LeadTimeVariabilityFactor,
		)
		if err := row.Scan(&runID); err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO safety_stock_results (
				run_id, material_shop, avg_monthly_demand, demand_std,
				avg_lead_time, lead_time_std, risk_index, ss_raw, ss_optimal
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
		if err != nil {
			return fmt.Errorf("failed to prepare result insert: %w", err)
		}
		defer stmt.Close()

		for _, res := range results {
			if _, err := stmt.ExecContext(ctx, runID, res.Key,
				res.AvgMonthlyDemand, res.DemandStd, res.AvgLeadTime,
				res.LeadTimeStd, res.RiskIndex, res.SSRaw, res.SSOptimal); err != nil {
				return fmt.Errorf("failed to insert result for %s: %w", res.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return runID, nil
}

// GetRun fetches a run header by id.
func (r *RunRepository) GetRun(ctx context.Context, id int64) (*domain.OptimizationRun, error) {
	var run domain.OptimizationRun
	err := r.db.GetContext(ctx, &run, `
		SELECT id, join_key, record_count, service_level, min_safety_stock,
		       max_safety_stock_multiplier, demand_variability_factor,
		       lead_time_variability_factor, created_at
		FROM optimization_runs WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run %d: %w", id, err)
	}
	return &run, nil
}

// GetRunResults fetches the persisted result rows of a run.
func (r *RunRepository) GetRunResults(ctx context.Context, runID int64) ([]domain.SafetyStockRecord, error) {
	records := make([]domain.SafetyStockRecord, 0)
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, run_id, material_shop, avg_monthly_demand, demand_std,
		       avg_lead_time, lead_time_std, risk_index, ss_raw, ss_optimal
		FROM safety_stock_results WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch results for run %d: %w", runID, err)
	}
	return records, nil
}
