package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/meio-shop/backend-go/internal/config"
	"github.com/meio-shop/backend-go/internal/dataset"
	"github.com/meio-shop/backend-go/internal/repository/postgres"
	"github.com/meio-shop/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

// seedRunCommand loads a previously exported results CSV into Postgres
// so dashboards can query historical runs.
func seedRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed-run",
		Usage: "Persist an exported safety stock results CSV into the database",
		Flags: append([]cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{
				Name:     "input",
				Usage:    "Exported results CSV",
				Required: true,
			},
		}, paramFlags()...),
		Action: runSeed,
	}
}

// showRunCommand prints a persisted run and its records.
func showRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "show-run",
		Usage: "Print a persisted optimization run",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "id",
				Usage:    "Run id",
				Required: true,
			},
		},
		Action: runShow,
	}
}

func runShow(c *cli.Context) error {
	cfg := config.Load()
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repo := postgres.NewRunRepository(db)
	ctx := context.Background()

	run, err := repo.GetRun(ctx, c.Int64("id"))
	if err != nil {
		return err
	}
	records, err := repo.GetRunResults(ctx, run.ID)
	if err != nil {
		return err
	}

	fmt.Printf("run %d (%s): %d record(s), service level %.2f\n",
		run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.RecordCount, run.ServiceLevel)
	for _, rec := range records {
		fmt.Printf("%s\tss_optimal=%.4f\trisk=%.4f\n", rec.MaterialShop, rec.SSOptimal, rec.RiskIndex)
	}
	return nil
}

func runSeed(c *cli.Context) error {
	t, err := dataset.ReadTableFile(c.String("input"))
	if err != nil {
		return err
	}
	if len(t.Columns) < 8 {
		return fmt.Errorf("results CSV must carry the key plus seven statistic columns, got %d", len(t.Columns))
	}

	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	params := paramsFromFlags(c)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO optimization_runs (
			join_key, record_count, service_level, min_safety_stock,
			max_safety_stock_multiplier, demand_variability_factor,
			lead_time_variability_factor, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id`,
		t.Columns[0], t.Len(), params.ServiceLevel, params.MinSafetyStock,
		params.MaxSafetyStockMultiplier, params.DemandVariabilityFactor,
		params.LeadTimeVariabilityFactor,
	).Scan(&runID)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range t.Rows {
		floats := make([]float64, 7)
		for j := 0; j < 7; j++ {
			v, err := strconv.ParseFloat(t.Cell(i, j+1), 64)
			if err != nil {
				return fmt.Errorf("row %d column %s: %w", i+2, t.Columns[j+1], err)
			}
			floats[j] = v
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO safety_stock_results (
				run_id, material_shop, avg_monthly_demand, demand_std,
				avg_lead_time, lead_time_std, risk_index, ss_raw, ss_optimal
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			runID, t.Cell(i, 0), floats[0], floats[1], floats[2],
			floats[3], floats[4], floats[5], floats[6]); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+2, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	logger.Log.Info().Int64("run_id", runID).Int("records", t.Len()).Msg("results seeded")
	return nil
}
