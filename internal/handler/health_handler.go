package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/offline_console/internal/utils"
)

var startTime = time.Now()

// Pinger is a dependency whose reachability is reported by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health endpoint.
type HealthHandler struct {
	redis         Pinger
	activityLog   bool
	workspaceSize func() int
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(redis Pinger, activityLog bool, workspaceSize func() int) *HealthHandler {
	return &HealthHandler{redis: redis, activityLog: activityLog, workspaceSize: workspaceSize}
}

// GetHealth responds with service and Redis status.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	redisStatus := "connected"
	if err := h.redis.Ping(ctx); err != nil {
		redisStatus = "disconnected"
	}

	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":      "healthy",
		"uptime":      int(time.Since(startTime).Seconds()),
		"redis":       redisStatus,
		"activityLog": h.activityLog,
		"workspaces":  h.workspaceSize(),
	})
}
