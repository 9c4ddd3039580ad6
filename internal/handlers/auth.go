package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/store"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenIssuer signs access tokens carrying the userId claim read by
// middleware.UserAuth.
type TokenIssuer struct {
	Secret    string
	AccessTTL time.Duration
}

func (t TokenIssuer) issue(userID primitive.ObjectID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID.Hex(),
		"email":  email,
		"iat":    now.Unix(),
		"exp":    now.Add(t.AccessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(t.Secret))
}

func Register(users UserStore, tokens TokenIssuer, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/register"
		defer handlePanic(c, log, route)

		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		username := strings.TrimSpace(req.Username)
		if username == "" {
			respondWithError(c, log, http.StatusBadRequest, route, "username is required")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.Create(ctx, models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
		})
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondWithError(c, log, http.StatusConflict, route, "email already registered")
				return
			}
			respondInternal(c, log, route, err)
			return
		}

		token, err := tokens.issue(user.ID, user.Email)
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		log.Info("user registered", "user_id", user.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully",
			"token":   token,
			"user":    user,
		})
	}
}

func Login(users UserStore, tokens TokenIssuer, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/login"
		defer handlePanic(c, log, route)

		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, log, http.StatusUnauthorized, route, "invalid credentials")
				return
			}
			respondInternal(c, log, route, err)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			respondWithError(c, log, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		token, err := tokens.issue(user.ID, user.Email)
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		log.Info("user logged in", "user_id", user.ID.Hex())
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  user,
		})
	}
}
