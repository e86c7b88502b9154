// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/application/adapter"
)

// Probe checks that one dependency is reachable. A nil Probe always passes.
type Probe func(ctx context.Context) error

const probeTimeout = 2 * time.Second

// HealthController reports whether the instance can serve traffic.
type HealthController struct {
	database        Probe
	realtime        Probe
	realtimeBackend string
	clock           adapter.Clock
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status          string `json:"status"`
	Database        string `json:"database"`
	Realtime        string `json:"realtime"`
	RealtimeBackend string `json:"realtime_backend"`
	Timestamp       string `json:"timestamp"`
}

// NewHealthController creates a health controller.
func NewHealthController(database, realtime Probe, realtimeBackend string, clock adapter.Clock) *HealthController {
	return &HealthController{
		database:        database,
		realtime:        realtime,
		realtimeBackend: realtimeBackend,
		clock:           clock,
	}
}

// Check handles GET /health. Any failed probe answers 503 "degraded".
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:          "ok",
		Database:        runProbe(ctx, "database", h.database),
		Realtime:        runProbe(ctx, "realtime", h.realtime),
		RealtimeBackend: h.realtimeBackend,
		Timestamp:       h.clock.Now().UTC().Format(time.RFC3339),
	}

	code := http.StatusOK
	if resp.Database != "connected" || resp.Realtime != "connected" {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func runProbe(ctx context.Context, name string, probe Probe) string {
	if probe == nil {
		return "connected"
	}
	if err := probe(ctx); err != nil {
		slog.Warn("Health probe failed", "dependency", name, "error", err)
		return "disconnected"
	}
	return "connected"
}
