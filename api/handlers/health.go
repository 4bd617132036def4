package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is any collaborator with a connectivity check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	serviceName   string
	paramsVersion func() string
	cache         Pinger
	timeseries    Pinger
}

func NewHealthHandler(serviceName string, paramsVersion func() string, cache, timeseries Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName:   serviceName,
		paramsVersion: paramsVersion,
		cache:         cache,
		timeseries:    timeseries,
	}
}

type HealthResponse struct {
	Status        string            `json:"status"`
	Service       string            `json:"service"`
	ParamsVersion string            `json:"params_version,omitempty"`
	Timestamp     string            `json:"timestamp"`
	Checks        map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	status := "healthy"

	check := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.Ping(ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			status = "unhealthy"
		} else {
			checks[name] = "healthy"
		}
	}

	check("cache", h.cache)
	check("timeseries", h.timeseries)

	statusCode := http.StatusOK
	if status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:        status,
		Service:       h.serviceName,
		ParamsVersion: h.paramsVersion(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Checks:        checks,
	})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if h.timeseries != nil {
		if err := h.timeseries.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Status:    "not ready",
				Service:   h.serviceName,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ready",
		Service:   h.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "alive",
		Service:   h.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
