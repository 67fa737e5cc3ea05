package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/meio-shop/backend-go/internal/config"
	"github.com/meio-shop/backend-go/internal/dataset"
	"github.com/meio-shop/backend-go/internal/domain"
	"github.com/meio-shop/backend-go/internal/pipeline/safetystock"
	"github.com/meio-shop/backend-go/internal/service"
	"github.com/rs/zerolog/log"
)

const defaultPreviewRows = 100

// OptimizeHandler exposes the dataset registry and the safety-stock
// pipeline over HTTP.
type OptimizeHandler struct {
	service *service.OptimizerService
	bounds  config.OptimizerConfig
}

func NewOptimizeHandler(svc *service.OptimizerService, bounds config.OptimizerConfig) *OptimizeHandler {
	return &OptimizeHandler{service: svc, bounds: bounds}
}

// UploadDataset accepts a multipart CSV upload for one dataset role.
func (h *OptimizeHandler) UploadDataset(c *gin.Context) {
	role, err := dataset.ParseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
		return
	}
	defer f.Close()

	if err := h.service.LoadDataset(role, f); err != nil {
		log.Error().Err(err).Str("role", string(role)).Msg("dataset upload failed")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":     role,
		"filename": fileHeader.Filename,
		"rows":     h.service.Dataset(role).Len(),
	})
}

// GetDatasets reports the load state of all five roles.
func (h *OptimizeHandler) GetDatasets(c *gin.Context) {
	statuses := make([]domain.DatasetStatus, 0, len(dataset.Roles))
	for _, role := range dataset.Roles {
		s := domain.DatasetStatus{Role: string(role)}
		if t := h.service.Dataset(role); t != nil {
			s.Loaded = true
			s.Rows = t.Len()
			s.Columns = len(t.Columns)
		}
		statuses = append(statuses, s)
	}
	c.JSON(http.StatusOK, gin.H{
		"datasets": statuses,
		"ready":    len(h.service.Missing()) == 0,
	})
}

// PreviewDataset returns the first rows of a loaded dataset.
func (h *OptimizeHandler) PreviewDataset(c *gin.Context) {
	role, err := dataset.ParseRole(c.Param("role"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := h.service.Dataset(role)
	if t == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset not loaded"})
		return
	}

	n := defaultPreviewRows
	if raw := strings.TrimSpace(c.Query("rows")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			n = v
		}
	}

	preview := t.Preview(n)
	c.JSON(http.StatusOK, gin.H{
		"columns": preview.Columns,
		"rows":    preview.Rows,
		"total":   t.Len(),
	})
}

// SetParameters validates and stores the session parameter set.
func (h *OptimizeHandler) SetParameters(c *gin.Context) {
	var params safetystock.Parameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parameter payload"})
		return
	}

	if err := service.ValidateParameters(params, h.bounds); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	h.service.SetParameters(params)
	c.JSON(http.StatusOK, gin.H{"parameters": params})
}

// GetParameters returns the current session parameter set.
func (h *OptimizeHandler) GetParameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parameters": h.service.Parameters()})
}

// RunOptimization triggers one synchronous batch run.
func (h *OptimizeHandler) RunOptimization(c *gin.Context) {
	results, err := h.service.Run(c.Request.Context())
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dataset.ErrIncompleteDatasets) || errors.Is(err, safetystock.ErrMissingJoinKey) {
			status = http.StatusConflict
		}
		log.Error().Err(err).Msg("optimization run failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"join_key": h.service.JoinKey(),
		"count":    len(results),
		"results":  results,
	})
}

// GetResults filters the last run's results.
func (h *OptimizeHandler) GetResults(c *gin.Context) {
	sub, minSS := h.parseFilter(c)
	filtered := h.service.Filter(sub, minSS)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(filtered),
		"results": filtered,
	})
}

// ExportResults streams the filtered results as a CSV download.
func (h *OptimizeHandler) ExportResults(c *gin.Context) {
	sub, minSS := h.parseFilter(c)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="safety_stock_results.csv"`)
	if err := h.service.ExportCSV(c.Writer, sub, minSS); err != nil {
		log.Error().Err(err).Msg("result export failed")
		c.Status(http.StatusInternalServerError)
	}
}

func (h *OptimizeHandler) parseFilter(c *gin.Context) (string, float64) {
	sub := strings.TrimSpace(c.Query("key"))
	minSS := 0.0
	if raw := strings.TrimSpace(c.Query("min_ss")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			minSS = v
		}
	}
	return sub, minSS
}
