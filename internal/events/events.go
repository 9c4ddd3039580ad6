package events

import (
	"context"
	"time"

	"storefront/internal/models"
)

type Type string

const (
	OrderPlaced    Type = "order.placed"
	OrderDelivered Type = "order.delivered"
)

// OrderEvent is the payload published after an order changes.
type OrderEvent struct {
	Type           Type                 `json:"type"`
	OrderID        string               `json:"orderId"`
	UserID         string               `json:"userId"`
	TotalPrice     float64              `json:"totalPrice"`
	DeliveryStatus bool                 `json:"deliveryStatus"`
	State          models.DeliveryState `json:"state"`
	OccurredAt     time.Time            `json:"occurredAt"`
}

func NewOrderEvent(t Type, order models.Order) OrderEvent {
	return OrderEvent{
		Type:           t,
		OrderID:        order.ID.Hex(),
		UserID:         order.UserID,
		TotalPrice:     order.TotalPrice,
		DeliveryStatus: order.DeliveryStatus,
		State:          order.DeliveryState(),
		OccurredAt:     time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, OrderEvent) error { return nil }
func (Noop) Close() error                              { return nil }
