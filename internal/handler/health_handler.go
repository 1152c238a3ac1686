package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_console/internal/sse"
	"github.com/GTDGit/gtd_console/internal/utils"
)

var startTime = time.Now()

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	store ProductStore
	hub   *sse.Hub
	redis Pinger
}

// NewHealthHandler creates a new HealthHandler. redis may be nil when the
// session store is not Redis-backed.
func NewHealthHandler(s ProductStore, hub *sse.Hub, redis Pinger) *HealthHandler {
	return &HealthHandler{store: s, hub: hub, redis: redis}
}

// GetHealth responds with process uptime, the store's pending flags and the
// session store status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	s := h.store.GetState()

	redisStatus := "disabled"
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		redisStatus = "connected"
		if err := h.redis.Ping(ctx); err != nil {
			redisStatus = "disconnected"
		}
	}

	sseClients := 0
	if h.hub != nil {
		sseClients = h.hub.ClientCount()
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
		"store": gin.H{
			"products": len(s.Products),
			"loading":  s.Listing,
			"writing":  s.Writing(),
			"deleting": s.Deleting,
			"error":    s.Error,
		},
		"redis":      redisStatus,
		"sseClients": sseClients,
	})
}
