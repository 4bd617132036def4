package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cloudguard-ml/internal/logger"
	"github.com/OldStager01/cloudguard-ml/internal/twin"
	"github.com/OldStager01/cloudguard-ml/pkg/cache"
	"github.com/OldStager01/cloudguard-ml/pkg/models"
)

// SnapshotCache is the cache collaborator the handler layer uses to front the
// core with cached twin snapshots and prediction results.
type SnapshotCache interface {
	SetTwin(ctx context.Context, twin *models.DigitalTwinState) error
	GetTwin(ctx context.Context, resourceID string) (*models.DigitalTwinState, error)
	SetPrediction(ctx context.Context, result *models.PredictionResult) error
}

type TwinHandler struct {
	orchestrator *twin.Orchestrator
	cache        SnapshotCache
}

func NewTwinHandler(orchestrator *twin.Orchestrator, cache SnapshotCache) *TwinHandler {
	return &TwinHandler{
		orchestrator: orchestrator,
		cache:        cache,
	}
}

type CreateTwinRequest struct {
	ResourceID   string                 `json:"resource_id" binding:"required"`
	InitialState map[string]interface{} `json:"initial_state"`
}

type UpdateTwinRequest struct {
	ResourceID string                `json:"resource_id" binding:"required"`
	Metrics    []models.MetricSample `json:"metrics" binding:"required"`
}

func (h *TwinHandler) Create(c *gin.Context) {
	var req CreateTwinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.InitialState == nil {
		req.InitialState = map[string]interface{}{"status": "active"}
	}

	snapshot := h.orchestrator.CreateTwin(req.ResourceID, req.InitialState)
	h.cacheTwin(c.Request.Context(), snapshot)

	c.JSON(http.StatusCreated, snapshot)
}

func (h *TwinHandler) Update(c *gin.Context) {
	var req UpdateTwinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	snapshot := h.orchestrator.UpdateTwin(c.Request.Context(), req.ResourceID, req.Metrics)
	h.cacheTwin(c.Request.Context(), snapshot)

	c.JSON(http.StatusOK, snapshot)
}

func (h *TwinHandler) List(c *gin.Context) {
	ids := h.orchestrator.ListTwins()
	c.JSON(http.StatusOK, gin.H{
		"resource_ids": ids,
		"count":        len(ids),
	})
}

func (h *TwinHandler) Get(c *gin.Context) {
	resourceID := c.Param("id")
	ctx := c.Request.Context()

	if h.cache != nil {
		if cached, err := h.cache.GetTwin(ctx, resourceID); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		} else if err != cache.ErrMiss {
			logger.WithResource(resourceID).Warnf("Twin cache read failed: %v", err)
		}
	}

	snapshot, ok := h.orchestrator.GetTwin(resourceID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "digital twin not found"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// cacheTwin is best-effort: a cache failure never fails the request.
func (h *TwinHandler) cacheTwin(ctx context.Context, snapshot *models.DigitalTwinState) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetTwin(ctx, snapshot); err != nil {
		logger.WithResource(snapshot.ResourceID).Warnf("Failed to cache twin snapshot: %v", err)
	}
}
