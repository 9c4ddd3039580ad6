package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

type Orders struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{
		coll: db.Collection(database.OrdersCollection),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Place persists the snapshot as given. Address, products and total price are
// whatever the caller asserted; only identity, status and timestamps are set
// here.
func (s *Orders) Place(ctx context.Context, userID string, address models.AddressFields, products models.IDList, totalPrice float64) (models.Order, error) {
	if products == nil {
		products = models.IDList{}
	}
	now := s.now()
	order := models.Order{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		Address:        address,
		Products:       products,
		TotalPrice:     totalPrice,
		DeliveryStatus: false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := s.coll.InsertOne(ctx, order); err != nil {
		return models.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

// ListByUser returns the user's orders oldest first.
func (s *Orders) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	return s.find(ctx, bson.M{"userId": userID})
}

// ListAll returns every order oldest first.
func (s *Orders) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.find(ctx, bson.M{})
}

func (s *Orders) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: 1},
		{Key: "_id", Value: 1},
	})
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

// MarkDelivered sets deliveryStatus to true whatever its current value and
// returns the updated order. Ids that are not ObjectIDs cannot name an order
// and yield ErrNotFound.
func (s *Orders) MarkDelivered(ctx context.Context, orderID string) (models.Order, error) {
	id, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return models.Order{}, ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"deliveryStatus": true,
		"updatedAt":      s.now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("mark order delivered: %w", err)
	}
	return order, nil
}
