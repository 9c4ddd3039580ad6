package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/logger"
)

const UserIDKey = "userId"

// UserAuth validates user JWT tokens and injects the userId claim into the
// context. The id is treated as an opaque string.
func UserAuth(secret string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := bearerClaims(c, secret)
		if err != nil {
			log.Warn("token rejected", "path", c.FullPath(), "reason", err.Error())
			message := "unauthorized"
			if errors.Is(err, errMissingToken) {
				message = "missing token"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message})
			return
		}

		userID, ok := claims[UserIDKey].(string)
		if !ok || strings.TrimSpace(userID) == "" {
			log.Warn("token rejected", "path", c.FullPath(), "reason", "userId claim missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// UserID returns the identity placed on the context by UserAuth.
func UserID(c *gin.Context) (string, bool) {
	userID := c.GetString(UserIDKey)
	return userID, userID != ""
}
