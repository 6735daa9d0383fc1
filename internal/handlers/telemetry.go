package handlers

import (
	"encoding/json"
	"net/http"

	"fatigue-go/internal/models"
	"fatigue-go/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TelemetryHandler exposes session lifecycle, event ingest and the live
// metric snapshot.
type TelemetryHandler struct {
	log  *zap.Logger
	orch *session.Orchestrator
}

func NewTelemetryHandler(log *zap.Logger, orch *session.Orchestrator) *TelemetryHandler {
	return &TelemetryHandler{log: log, orch: orch}
}

type startStopRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func (h *TelemetryHandler) StartSession(c *gin.Context) {
	var req startStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if h.orch.Start(req.UserID) {
		c.JSON(http.StatusOK, gin.H{"status": "started"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "already_running"})
}

func (h *TelemetryHandler) StopSession(c *gin.Context) {
	var req startStopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if h.orch.Stop(req.UserID) {
		c.JSON(http.StatusOK, gin.H{"status": "stopped"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "not_running"})
}

type submitEventRequest struct {
	UserID   string          `json:"user_id" binding:"required"`
	Modality models.Modality `json:"modality" binding:"required"`
	Event    json.RawMessage `json:"event" binding:"required"`
}

func (h *TelemetryHandler) SubmitEvent(c *gin.Context) {
	var req submitEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, modality and event are required"})
		return
	}

	if err := h.orch.SubmitEvent(req.UserID, req.Modality, req.Event); err != nil {
		h.log.Warn("Rejected raw event",
			zap.String("user_id", req.UserID),
			zap.String("modality", string(req.Modality)),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *TelemetryHandler) CurrentMetrics(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	snap, ok := h.orch.CurrentMetrics(userID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
