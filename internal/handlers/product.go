package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/store"
)

type productRequest struct {
	Title       string        `json:"title" binding:"required"`
	Price       float64       `json:"price"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Rating      models.Rating `json:"rating"`
}

func CreateProduct(products ProductStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, log, route)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.Create(ctx, models.Product{
			Title:       strings.TrimSpace(req.Title),
			Price:       req.Price,
			Description: req.Description,
			Category:    req.Category,
			Image:       req.Image,
			Rating:      req.Rating,
		})
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		log.Info("product created", "product_id", product.ID)
		c.JSON(http.StatusCreated, gin.H{
			"message": "Product added successfully",
			"product": product,
		})
	}
}

// ListProducts returns the whole catalog, or one page of it when page or
// limit is given.
func ListProducts(products ProductStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, log, route)

		skip, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, log, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := products.List(ctx, skip, limit)
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func GetProduct(products ProductStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:productId"
		defer handlePanic(c, log, route)

		id, ok := parseProductID(c.Param("productId"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, log, http.StatusNotFound, route, "Product not found")
				return
			}
			respondInternal(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(products ProductStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:productId"
		defer handlePanic(c, log, route)

		id, ok := parseProductID(c.Param("productId"))
		if !ok {
			respondWithError(c, log, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := products.Delete(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, log, http.StatusNotFound, route, "Product not found")
				return
			}
			respondInternal(c, log, route, err)
			return
		}

		log.Info("product deleted", "product_id", id)
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
