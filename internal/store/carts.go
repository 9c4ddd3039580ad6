package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

type Carts struct {
	coll *mongo.Collection
}

func NewCarts(db *mongo.Database) *Carts {
	return &Carts{coll: db.Collection(database.CartsCollection)}
}

// AddOrMerge increments the quantity of the (userID, productID) line, creating
// it when absent, in one server-side upsert. created reports whether the line
// was inserted by this call. Quantity is stored as given, without bounds.
func (s *Carts) AddOrMerge(ctx context.Context, userID string, productID int64, quantity float64) (models.CartLine, bool, error) {
	filter := bson.M{"userId": userID, "productId": productID}
	update := bson.M{"$inc": bson.M{"quantity": quantity}}
	opts := options.Update().SetUpsert(true)

	var (
		res *mongo.UpdateResult
		err error
	)
	// Two concurrent upserts can race on the unique index; the loser's retry
	// matches the line the winner inserted.
	for attempt := 0; attempt < 2; attempt++ {
		res, err = s.coll.UpdateOne(ctx, filter, update, opts)
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			break
		}
	}
	if err != nil {
		return models.CartLine{}, false, fmt.Errorf("upsert cart line: %w", err)
	}

	var line models.CartLine
	if err := s.coll.FindOne(ctx, filter).Decode(&line); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.CartLine{}, false, fmt.Errorf("read back cart line: %w", ErrNotFound)
		}
		return models.CartLine{}, false, fmt.Errorf("read back cart line: %w", err)
	}
	return line, res.UpsertedCount > 0, nil
}

func (s *Carts) ListByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find cart lines: %w", err)
	}
	defer cursor.Close(ctx)

	lines := make([]models.CartLine, 0)
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("decode cart lines: %w", err)
	}
	return lines, nil
}

// Remove deletes the caller's line for productID. Lines owned by other users
// are never matched.
func (s *Carts) Remove(ctx context.Context, userID string, productID int64) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"userId": userID, "productId": productID})
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear deletes every line of userID and returns how many were removed.
func (s *Carts) Clear(ctx context.Context, userID string) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.DeletedCount, nil
}
