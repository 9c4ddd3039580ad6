package handlers

import (
	"context"

	"storefront/internal/models"
)

type CartStore interface {
	AddOrMerge(ctx context.Context, userID string, productID int64, quantity float64) (models.CartLine, bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.CartLine, error)
	Remove(ctx context.Context, userID string, productID int64) error
	Clear(ctx context.Context, userID string) (int64, error)
}

type AddressStore interface {
	Add(ctx context.Context, userID string, fields models.AddressFields) (models.Address, error)
	ListByUser(ctx context.Context, userID string) ([]models.Address, error)
}

type OrderStore interface {
	Place(ctx context.Context, userID string, address models.AddressFields, products models.IDList, totalPrice float64) (models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	MarkDelivered(ctx context.Context, orderID string) (models.Order, error)
}

// ProductReader is the catalog lookup used by order total verification.
type ProductReader interface {
	FindByID(ctx context.Context, id int64) (models.Product, error)
}

type ProductStore interface {
	ProductReader
	Create(ctx context.Context, product models.Product) (models.Product, error)
	List(ctx context.Context, skip, limit int64) ([]models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Delete(ctx context.Context, userID string) error
	UpdateEmail(ctx context.Context, userID, email string) (models.User, error)
}
