package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is an immutable snapshot of a purchase. Only DeliveryStatus (and the
// UpdatedAt stamp that goes with it) changes after creation, false to true.
type Order struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID         string             `bson:"userId" json:"userId"`
	Address        AddressFields      `bson:"address" json:"address"`
	Products       IDList             `bson:"products" json:"products"`
	TotalPrice     float64            `bson:"totalPrice" json:"totalPrice"`
	DeliveryStatus bool               `bson:"deliveryStatus" json:"deliveryStatus"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type DeliveryState string

const (
	DeliveryPending   DeliveryState = "pending"
	DeliveryDelivered DeliveryState = "delivered"
)

func (o Order) DeliveryState() DeliveryState {
	if o.DeliveryStatus {
		return DeliveryDelivered
	}
	return DeliveryPending
}
