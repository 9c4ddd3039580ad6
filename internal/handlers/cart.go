package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/store"
)

// Both fields accept JSON numbers or numeric strings.
type addToCartRequest struct {
	ProductID *models.Number `json:"productId" binding:"required"`
	Quantity  *models.Number `json:"quantity" binding:"required"`
}

// AddToCart merges the quantity into the caller's line for the product,
// creating the line on first add.
func AddToCart(carts CartStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/add"
		defer handlePanic(c, log, route)

		userID, ok := requireUserID(c, log, route)
		if !ok {
			return
		}

		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, ok := req.ProductID.Int64()
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "productId must be an integer")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		line, created, err := carts.AddOrMerge(ctx, userID, productID, req.Quantity.Float64())
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		if created {
			log.Info("cart line created", "user_id", userID, "product_id", line.ProductID)
			c.JSON(http.StatusCreated, gin.H{
				"message":  "Item added to cart successfully",
				"cartItem": line,
			})
			return
		}

		log.Info("cart line merged", "user_id", userID, "product_id", line.ProductID, "quantity", line.Quantity)
		c.JSON(http.StatusOK, gin.H{
			"message":  "Quantity updated successfully",
			"cartItem": line,
		})
	}
}

func GetCart(carts CartStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, log, route)

		userID, ok := requireUserID(c, log, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		lines, err := carts.ListByUser(ctx, userID)
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, lines)
	}
}

// RemoveFromCart deletes the caller's line for the product in the path.
func RemoveFromCart(carts CartStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/remove/:productId"
		defer handlePanic(c, log, route)

		userID, ok := requireUserID(c, log, route)
		if !ok {
			return
		}

		productID, ok := parseProductID(c.Param("productId"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := carts.Remove(ctx, userID, productID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, log, http.StatusNotFound, route, "Cart item not found")
				return
			}
			respondInternal(c, log, route, err)
			return
		}

		log.Info("cart line removed", "user_id", userID, "product_id", productID)
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed successfully"})
	}
}

func ClearCart(carts CartStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/clear"
		defer handlePanic(c, log, route)

		userID, ok := requireUserID(c, log, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		removed, err := carts.Clear(ctx, userID)
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		log.Info("cart cleared", "user_id", userID, "removed", removed)
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
	}
}
