package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

type Addresses struct {
	coll *mongo.Collection
}

func NewAddresses(db *mongo.Database) *Addresses {
	return &Addresses{coll: db.Collection(database.AddressesCollection)}
}

func (s *Addresses) Add(ctx context.Context, userID string, fields models.AddressFields) (models.Address, error) {
	address := models.Address{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		AddressFields: fields,
	}
	if _, err := s.coll.InsertOne(ctx, address); err != nil {
		return models.Address{}, fmt.Errorf("insert address: %w", err)
	}
	return address, nil
}

// ListByUser returns ErrNotFound when the user has no stored address.
func (s *Addresses) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find addresses: %w", err)
	}
	defer cursor.Close(ctx)

	addresses := make([]models.Address, 0)
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}
	if len(addresses) == 0 {
		return nil, ErrNotFound
	}
	return addresses, nil
}
