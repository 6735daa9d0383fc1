package handlers

import (
	"net/http"
	"strconv"

	"fatigue-go/internal/metrics"
	"fatigue-go/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

// AnalysisHandler exposes on-demand fusion and the persisted history.
type AnalysisHandler struct {
	log      *zap.Logger
	analyzer *services.Analyzer
}

func NewAnalysisHandler(log *zap.Logger, analyzer *services.Analyzer) *AnalysisHandler {
	return &AnalysisHandler{log: log, analyzer: analyzer}
}

type analyzeRequest struct {
	UserID string `json:"user_id" binding:"required"`
	// InputData is a fully-specified metric override for stateless one-shot
	// analysis without a live session. Omitted means "use live buffers".
	InputData *metrics.Snapshot `json:"input_data"`
}

func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	analysis := h.analyzer.Analyze(req.UserID, req.InputData)
	c.JSON(http.StatusOK, analysis)
}

func (h *AnalysisHandler) History(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	analyses, err := h.analyzer.History(userID, limit)
	if err != nil {
		h.log.Error("Loading analysis history failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load analyses"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}
