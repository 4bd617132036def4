package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cloudguard-ml/internal/logger"
	"github.com/OldStager01/cloudguard-ml/internal/predictor"
	"github.com/OldStager01/cloudguard-ml/internal/twin"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

type PredictionHandler struct {
	orchestrator *twin.Orchestrator
	retrainer    *predictor.Retrainer
	cache        SnapshotCache
}

func NewPredictionHandler(orchestrator *twin.Orchestrator, retrainer *predictor.Retrainer, cache SnapshotCache) *PredictionHandler {
	return &PredictionHandler{
		orchestrator: orchestrator,
		retrainer:    retrainer,
		cache:        cache,
	}
}

type PredictRequest struct {
	ResourceID     string                `json:"resource_id" binding:"required"`
	Metrics        []models.MetricSample `json:"metrics"`
	PredictionType models.TaskType       `json:"prediction_type"`
}

type PredictResponse struct {
	ResourceID     string                   `json:"resource_id"`
	PredictionType models.TaskType          `json:"prediction_type"`
	Result         *models.PredictionResult `json:"result"`
	Timestamp      string                   `json:"timestamp"`
}

func (h *PredictionHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.PredictionType == "" {
		req.PredictionType = models.TaskPerformance
	}
	if !req.PredictionType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prediction type"})
		return
	}

	result, err := h.orchestrator.Predict(req.ResourceID, req.Metrics, req.PredictionType)
	if err != nil {
		if errors.Is(err, predictor.ErrInvalidTask) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prediction type"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}

	if h.cache != nil {
		if err := h.cache.SetPrediction(c.Request.Context(), result); err != nil {
			logger.WithResource(req.ResourceID).Warnf("Failed to cache prediction: %v", err)
		}
	}

	c.JSON(http.StatusOK, PredictResponse{
		ResourceID:     req.ResourceID,
		PredictionType: req.PredictionType,
		Result:         result,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *PredictionHandler) Train(c *gin.Context) {
	h.retrainer.Trigger()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "model retraining started",
		"status":  "initiated",
	})
}
