package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"crewinsight/internal/model"
)

const version = "1.0.0"

type ResultStore interface {
	Create(req model.AnalysisRequest) string
	Get(id string) (*model.AnalysisResult, bool)
	Delete(id string) bool
	List(limit int) []model.AnalysisResult
}

type AnalysisRunner interface {
	Start(id string, req model.AnalysisRequest)
}

// SummaryProber reports text-generation provider connectivity for the
// health endpoint.
type SummaryProber interface {
	Probe() error
	ProviderName() string
}

type AnalysisHandler struct {
	store  ResultStore
	runner AnalysisRunner
	prober SummaryProber
	apiKey string
}

func NewAnalysisHandler(store ResultStore, runner AnalysisRunner, prober SummaryProber, apiKey string) *AnalysisHandler {
	return &AnalysisHandler{store: store, runner: runner, prober: prober, apiKey: apiKey}
}

func (h *AnalysisHandler) authorized(apiKey string) bool {
	return apiKey == h.apiKey
}

// Analyze accepts an analysis request, creates the job record, and
// starts the background pipeline. The response carries the id to poll;
// pipeline failures surface through the results endpoint, not here.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !h.authorized(req.APIKey) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	if strings.TrimSpace(req.Market) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Market parameter cannot be empty"})
		return
	}

	region := model.Region(req.Region)
	if !region.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid region"})
		return
	}

	timeframe := model.Timeframe(req.Timeframe)
	if !timeframe.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid timeframe"})
		return
	}

	analysisReq := model.AnalysisRequest{
		Market:    req.Market,
		Region:    region,
		Timeframe: timeframe,
	}

	id := h.store.Create(analysisReq)
	h.runner.Start(id, analysisReq)

	slog.Info("analysis started", "analysis_id", id, "market", req.Market, "region", req.Region, "timeframe", req.Timeframe)

	c.JSON(http.StatusOK, AnalyzeResponse{
		AnalysisID:          id,
		Status:              model.StatusProcessing,
		Message:             "Analysis started successfully",
		EstimatedCompletion: "30-60 seconds",
	})
}

func (h *AnalysisHandler) GetResult(c *gin.Context) {
	if !h.authorized(c.Query("api_key")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	id := c.Param("id")
	result, ok := h.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found or expired"})
		return
	}

	c.JSON(http.StatusOK, toResultResponse(*result))
}

func (h *AnalysisHandler) ListResults(c *gin.Context) {
	if !h.authorized(c.Query("api_key")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	limit := getQueryLimit(c)

	results := h.store.List(limit)
	res := make([]ResultResponse, 0, len(results))
	for _, r := range results {
		res = append(res, toResultResponse(r))
	}

	c.JSON(http.StatusOK, res)
}

func (h *AnalysisHandler) DeleteResult(c *gin.Context) {
	if !h.authorized(c.Query("api_key")) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return
	}

	id := c.Param("id")
	if !h.store.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	slog.Info("analysis deleted", "analysis_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted successfully"})
}

func (h *AnalysisHandler) GetHealth(c *gin.Context) {
	if err := h.prober.Probe(); err != nil {
		slog.Error("health check failed", "provider", h.prober.ProviderName(), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "unhealthy",
			"error":     "summary provider unreachable",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services": gin.H{
			"summary_provider": h.prober.ProviderName(),
			"storage":          "active",
			"data_collectors":  "ready",
		},
		"version": version,
	})
}

func (h *AnalysisHandler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "CrewInsight - Business Analyst Agent",
		"version": version,
		"endpoints": gin.H{
			"analyze": "POST /analyze",
			"results": "GET /results/{id}",
			"health":  "GET /health",
		},
		"supported_regions":    model.Regions(),
		"supported_timeframes": model.Timeframes(),
	})
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		slog.Warn("invalid limit parameter, using default", "value", raw, "default", defaultLimit)
		return defaultLimit
	}
	if limit > maxLimit {
		slog.Warn("limit parameter exceeds max, clamping", "value", limit, "max", maxLimit)
		return maxLimit
	}
	return limit
}
