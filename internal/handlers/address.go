package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/store"
)

func AddAddress(addresses AddressStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/addresses"
		defer handlePanic(c, log, route)

		userID, ok := requireUserID(c, log, route)
		if !ok {
			return
		}

		var fields models.AddressFields
		if err := c.ShouldBindJSON(&fields); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		address, err := addresses.Add(ctx, userID, fields)
		if err != nil {
			respondInternal(c, log, route, err)
			return
		}

		log.Info("address added", "user_id", userID, "address_id", address.ID.Hex())
		c.JSON(http.StatusCreated, gin.H{
			"message": "Address added successfully",
			"address": address,
		})
	}
}

// GetAddresses answers 404 when the caller has no saved address.
func GetAddresses(addresses AddressStore, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/getaddress"
		defer handlePanic(c, log, route)

		userID, ok := requireUserID(c, log, route)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := addresses.ListByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, log, http.StatusNotFound, route, "No addresses found for the user ID")
				return
			}
			respondInternal(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": list})
	}
}
