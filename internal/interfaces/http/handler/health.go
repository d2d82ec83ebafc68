package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck probes one dependency of the service
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string            `json:"status"`
	Time       string            `json:"time"`
	Components map[string]string `json:"components"`
}

// HealthHandler reports whether the service and its dependencies are usable
type HealthHandler struct {
	checks []HealthCheck
	clock  shared.Clock
}

// NewHealthHandler creates a HealthHandler running the given checks on every request
func NewHealthHandler(clock shared.Clock, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks: checks,
		clock:  clock,
	}
}

// Health handles GET /health. Any failing check turns the answer into 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     "healthy",
		Time:       h.clock().Format(time.RFC3339),
		Components: make(map[string]string, len(h.checks)),
	}
	status := http.StatusOK
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			logger.L(c.Request.Context()).Warn("Health check failed",
				zap.String("component", check.Name),
				zap.Error(err),
			)
			resp.Components[check.Name] = "error"
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Components[check.Name] = "ok"
	}
	c.JSON(status, resp)
}
