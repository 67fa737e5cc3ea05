package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meio-shop/backend-go/internal/api/handlers"
	"github.com/meio-shop/backend-go/internal/api/middleware"
	"github.com/meio-shop/backend-go/internal/config"
	"github.com/meio-shop/backend-go/internal/service"
)

// NewRouter assembles the gin engine for the optimizer API.
func NewRouter(svc *service.OptimizerService, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(cfg.Server.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	h := handlers.NewOptimizeHandler(svc, cfg.Optimizer)
	datasets := apiGroup.Group("/datasets")
	{
		datasets.GET("", h.GetDatasets)
		datasets.POST("/:role", h.UploadDataset)
		datasets.GET("/:role/preview", h.PreviewDataset)
	}

	apiGroup.GET("/params", h.GetParameters)
	apiGroup.PUT("/params", h.SetParameters)
	apiGroup.POST("/optimize", h.RunOptimization)

	results := apiGroup.Group("/results")
	{
		results.GET("", h.GetResults)
		results.GET("/export", h.ExportResults)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
