package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/logger"
	"storefront/internal/store"
)

type editEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// requireSelf only lets a caller act on its own account.
func requireSelf(c *gin.Context, log *logger.Logger, route string) (string, bool) {
	callerID, ok := requireUserID(c, log, route)
	if !ok {
		return "", false
	}
	target := strings.TrimSpace(c.Param("userId"))
	if target != callerID {
		respondWithError(c, log, http.StatusForbidden, route, "forbidden")
		return "", false
	}
	return target, true
}

func DeleteUser(users UserStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/users/:userId"
		defer handlePanic(c, log, route)

		userID, ok := requireSelf(c, log, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := users.Delete(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, log, http.StatusNotFound, route, "User not found")
				return
			}
			respondInternal(c, log, route, err)
			return
		}

		log.Info("user deleted", "user_id", userID)
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

func EditEmail(users UserStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/:userId/edit-email"
		defer handlePanic(c, log, route)

		userID, ok := requireSelf(c, log, route)
		if !ok {
			return
		}

		var req editEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.UpdateEmail(ctx, userID, strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				respondWithError(c, log, http.StatusNotFound, route, "User not found")
			case errors.Is(err, store.ErrDuplicate):
				respondWithError(c, log, http.StatusConflict, route, "email already registered")
			default:
				respondInternal(c, log, route, err)
			}
			return
		}

		log.Info("user email updated", "user_id", userID)
		c.JSON(http.StatusOK, user)
	}
}
