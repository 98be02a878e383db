package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"todos/pkg/config"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	version string
	logger  *config.LokiLogger
}

func NewHealthHandler(db Pinger, version string, logger *config.LokiLogger) *HealthHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &HealthHandler{
		db:      db,
		version: version,
		logger:  logger,
	}
}

// Health GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Logger.Ctx(ctx).Error("Health check failed", zap.Error(err))

		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"database": "down",
			"version":  h.version,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "up",
		"version":  h.version,
	})
}
