package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/logger"
	"storefront/internal/middleware"
)

const (
	requestTimeout        = 5 * time.Second
	internalServerMessage = "Internal server error"
)

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func handlePanic(c *gin.Context, log *logger.Logger, route string) {
	if r := recover(); r != nil {
		log.Error("panic recovered", "route", route, "panic", r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": internalServerMessage})
	}
}

func respondWithError(c *gin.Context, log *logger.Logger, status int, route string, message string) {
	log.Warn("request failed", "route", route, "status", status, "message", message)
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

// respondInternal logs the underlying error and hides it from the client.
func respondInternal(c *gin.Context, log *logger.Logger, route string, err error) {
	log.Error("request failed", "route", route, "status", http.StatusInternalServerError, "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": internalServerMessage})
}

func requireUserID(c *gin.Context, log *logger.Logger, route string) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		respondWithError(c, log, http.StatusUnauthorized, route, "unauthorized")
		return "", false
	}
	return userID, true
}

func parseProductID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
