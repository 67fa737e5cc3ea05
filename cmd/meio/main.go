package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/meio-shop/backend-go/internal/config"
	"github.com/meio-shop/backend-go/internal/dataset"
	"github.com/meio-shop/backend-go/internal/pipeline/safetystock"
	"github.com/meio-shop/backend-go/internal/service"
	"github.com/meio-shop/backend-go/internal/storage"
	"github.com/meio-shop/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err == nil {
		logger.Log.Debug().Msg("loaded .env")
	}

	app := &cli.App{
		Name:  "meio",
		Usage: "Safety stock optimization over the retail network datasets",
		Commands: []*cli.Command{
			{
				Name:  "preview",
				Usage: "Print the first rows of a CSV file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "CSV file to preview", Required: true},
					&cli.IntFlag{Name: "rows", Usage: "Maximum rows to show", Value: 100},
				},
				Action: runPreview,
			},
			{
				Name:  "run",
				Usage: "Run the optimizer over a baseline dataset directory and export results",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "data-dir", Usage: "Directory holding the baseline CSVs", Value: "."},
					&cli.StringFlag{Name: "out", Usage: "Output CSV path (default stdout)"},
					&cli.StringFlag{Name: "key", Usage: "Filter: key substring (case-insensitive)"},
					&cli.Float64Flag{Name: "min-ss", Usage: "Filter: minimum ss_optimal"},
				}, paramFlags()...),
				Action: runOptimize,
			},
			{
				Name:  "fetch",
				Usage: "Download the baseline CSVs from object storage",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix", Usage: "Object key prefix", Value: ""},
					&cli.StringFlag{Name: "dest", Usage: "Destination directory", Value: "."},
				},
				Action: runFetch,
			},
			seedRunCommand(),
			showRunCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

func paramFlags() []cli.Flag {
	cfg := config.Load().Optimizer
	return []cli.Flag{
		&cli.Float64Flag{Name: "service-level", Usage: "Target service level (0.80-0.99)", Value: cfg.ServiceLevel},
		&cli.Float64Flag{Name: "min-safety-stock", Usage: "Lower bound on ss_optimal", Value: cfg.MinSafetyStock},
		&cli.Float64Flag{Name: "max-ss-multiplier", Usage: "Upper bound multiplier on avg monthly demand", Value: cfg.MaxSafetyStockMult},
		&cli.Float64Flag{Name: "demand-variability", Usage: "Demand variability factor", Value: cfg.DemandVariability},
		&cli.Float64Flag{Name: "leadtime-variability", Usage: "Lead time variability factor", Value: cfg.LeadTimeVariability},
	}
}

func runPreview(c *cli.Context) error {
	t, err := dataset.ReadTableFile(c.String("file"))
	if err != nil {
		return err
	}
	preview := t.Preview(c.Int("rows"))
	if err := dataset.WriteTable(os.Stdout, preview); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "showing %d of %d row(s)\n", preview.Len(), t.Len())
	return nil
}

func runOptimize(c *cli.Context) error {
	cfg := config.Load()

	params := paramsFromFlags(c)
	if err := service.ValidateParameters(params, cfg.Optimizer); err != nil {
		return err
	}

	registry, err := dataset.LoadBaselineDir(c.Context, c.String("data-dir"))
	if err != nil {
		return err
	}

	svc := service.NewOptimizerService(params, nil, nil)
	svc.UseRegistry(registry)

	results, err := svc.Run(c.Context)
	if err != nil {
		return err
	}
	logger.Log.Info().Int("records", len(results)).Str("join_key", svc.JoinKey()).Msg("optimization complete")

	out := os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}
	return svc.ExportCSV(out, c.String("key"), c.Float64("min-ss"))
}

func paramsFromFlags(c *cli.Context) safetystock.Parameters {
	return safetystock.Parameters{
		ServiceLevel:              c.Float64("service-level"),
		MinSafetyStock:            c.Float64("min-safety-stock"),
		MaxSafetyStockMultiplier:  c.Float64("max-ss-multiplier"),
		DemandVariabilityFactor:   c.Float64("demand-variability"),
		LeadTimeVariabilityFactor: c.Float64("leadtime-variability"),
	}
}

func runFetch(c *cli.Context) error {
	cfg := config.Load()

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return err
	}
	return storage.FetchBaseline(context.Background(), client, c.String("prefix"), c.String("dest"))
}
