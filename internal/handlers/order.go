package handlers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	publishTimeout = 2 * time.Second
	totalTolerance = 0.005
)

type placeOrderRequest struct {
	Address    models.AddressFields `json:"address"`
	CartItems  models.IDList        `json:"cartItems"`
	TotalPrice models.Number        `json:"totalPrice"`
}

type productNotFoundError struct {
	ProductID string
}

func (e productNotFoundError) Error() string {
	return fmt.Sprintf("product %q not found", e.ProductID)
}

type totalMismatchError struct {
	Expected float64
	Received float64
}

func (e totalMismatchError) Error() string {
	return "total price does not match catalog prices"
}

// verifyTotal checks the submitted total against one catalog price per
// product occurrence.
func verifyTotal(ctx context.Context, catalog ProductReader, products models.IDList, total float64) error {
	expected := 0.0
	for _, raw := range products {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return productNotFoundError{ProductID: raw}
		}
		product, err := catalog.FindByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return productNotFoundError{ProductID: raw}
		}
		if err != nil {
			return err
		}
		expected += product.Price
	}

	if math.Abs(expected-total) > totalTolerance {
		return totalMismatchError{Expected: math.Round(expected*100) / 100, Received: total}
	}
	return nil
}

func publishOrderEvent(c *gin.Context, publisher events.Publisher, log *logger.Logger, t events.Type, order models.Order) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), publishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, events.NewOrderEvent(t, order)); err != nil {
		log.Warn("order event not published", "type", string(t), "order_id", order.ID.Hex(), "error", err)
	}
}

// PlaceOrder stores the client supplied snapshot as is. When catalog is not
// nil the total is checked against catalog prices first.
func PlaceOrder(orders OrderStore, catalog ProductReader, publisher events.Publisher, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, log, route)

		userID, ok := requireUserID(c, log, route)
		if !ok {
			return
		}

		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if catalog != nil {
			if err := verifyTotal(ctx, catalog, req.CartItems, req.TotalPrice.Float64()); err != nil {
				var notFound productNotFoundError
				if errors.As(err, &notFound) {
					log.Warn("order rejected", "route", route, "user_id", userID, "product_id", notFound.ProductID)
					c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
						"message":   "Product not found",
						"productId": notFound.ProductID,
					})
					return
				}
				var mismatch totalMismatchError
				if errors.As(err, &mismatch) {
					log.Warn("order rejected", "route", route, "user_id", userID, "expected", mismatch.Expected, "received", mismatch.Received)
					c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
						"message":  "Total price does not match",
						"expected": mismatch.Expected,
						"received": mismatch.Received,
					})
					return
				}
				respondInternal(c, log, route, err)
				return
			}
		}

		order, err := orders.Place(ctx, userID, req.Address, req.CartItems, req.TotalPrice.Float64())
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		log.Info("order placed", "user_id", userID, "order_id", order.ID.Hex(), "items", len(order.Products))
		publishOrderEvent(c, publisher, log, events.OrderPlaced, order)

		c.JSON(http.StatusCreated, gin.H{
			"message": "Order placed successfully",
			"order":   order,
		})
	}
}

func GetUserOrders(orders OrderStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/getorder"
		defer handlePanic(c, log, route)

		userID, ok := requireUserID(c, log, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := orders.ListByUser(ctx, userID)
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func GetAllOrders(orders OrderStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/getallorders"
		defer handlePanic(c, log, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := orders.ListAll(ctx)
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

// MarkOrderDelivered moves the order to delivered. Repeating the call is a
// no-op apart from the updatedAt stamp.
func MarkOrderDelivered(orders OrderStore, publisher events.Publisher, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:orderId/update-delivery-status"
		defer handlePanic(c, log, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		order, err := orders.MarkDelivered(ctx, strings.TrimSpace(c.Param("orderId")))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, log, http.StatusNotFound, route, "Order not found")
				return
			}
			respondInternal(c, log, route, err)
			return
		}

		log.Info("order delivered", "order_id", order.ID.Hex(), "state", order.DeliveryState())
		publishOrderEvent(c, publisher, log, events.OrderDelivered, order)

		c.JSON(http.StatusOK, gin.H{
			"message": "Delivery status updated successfully",
			"order":   order,
		})
	}
}
