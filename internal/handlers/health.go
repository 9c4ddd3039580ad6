package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/logger"
)

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

func Health(ping Pinger, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				log.Error("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
