package handlers

import (
	"errors"
	"net/http"

	"fatigue-go/internal/recommend"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecommendationHandler exposes intervention selection and feedback.
type RecommendationHandler struct {
	log      *zap.Logger
	selector *recommend.Selector
}

func NewRecommendationHandler(log *zap.Logger, selector *recommend.Selector) *RecommendationHandler {
	return &RecommendationHandler{log: log, selector: selector}
}

func (h *RecommendationHandler) Get(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	rec, err := h.selector.Select(userID, nil)
	if err != nil {
		h.log.Error("Selecting recommendation failed", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to select recommendation"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

type feedbackRequest struct {
	RecommendationID string   `json:"recommendation_id" binding:"required"`
	Implemented      bool     `json:"implemented"`
	Effectiveness    *float64 `json:"effectiveness" binding:"required"`
}

func (h *RecommendationHandler) Feedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recommendation_id and effectiveness are required"})
		return
	}
	if *req.Effectiveness < 0 || *req.Effectiveness > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "effectiveness must be between 0 and 1"})
		return
	}

	err := h.selector.Feedback(req.RecommendationID, req.Implemented, *req.Effectiveness)
	if errors.Is(err, recommend.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "recommendation not found"})
		return
	}
	if err != nil {
		h.log.Error("Recording feedback failed", zap.String("recommendation_id", req.RecommendationID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record feedback"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}
