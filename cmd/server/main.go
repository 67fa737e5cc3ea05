package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meio-shop/backend-go/internal/api"
	"github.com/meio-shop/backend-go/internal/cache"
	"github.com/meio-shop/backend-go/internal/config"
	"github.com/meio-shop/backend-go/internal/dataset"
	"github.com/meio-shop/backend-go/internal/repository/postgres"
	"github.com/meio-shop/backend-go/internal/service"
	"github.com/meio-shop/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Result cache (noop unless Redis is configured)
	resultCache, err := cache.NewResultCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("result cache unavailable, continuing without it")
		resultCache = cache.NewNoopResultCache()
	}

	// Optional run persistence
	var runs service.RunStore
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		runs = postgres.NewRunRepository(db)
	}

	// Initialize service with session defaults
	svc := service.NewOptimizerService(service.DefaultParameters(cfg.Optimizer), resultCache, runs)

	// Preload baseline datasets found in the data directory
	if registry, err := dataset.LoadBaselineDir(context.Background(), cfg.App.BaselineDir); err != nil {
		logger.Log.Warn().Err(err).Msg("baseline preload failed")
	} else {
		svc.UseRegistry(registry)
		if missing := registry.Missing(); len(missing) > 0 {
			logger.Log.Info().Interface("missing", missing).Msg("baseline datasets incomplete, waiting for uploads")
		}
	}

	// Initialize HTTP server
	router := api.NewRouter(svc, cfg)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
