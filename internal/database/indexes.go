package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/logger"
)

const (
	CartsCollection     = "carts"
	AddressesCollection = "addresses"
	OrdersCollection    = "orders"
	ProductsCollection  = "products"
	UsersCollection     = "users"
	CountersCollection  = "counters"
)

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

func indexSpecs() []indexSpec {
	return []indexSpec{
		{
			// Backs the one-line-per-product invariant of the cart upsert.
			collection: CartsCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}},
				Options: options.Index().SetName("userId_productId_unique").SetUnique(true),
			},
		},
		{
			collection: AddressesCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetName("userId_index"),
			},
		},
		{
			collection: OrdersCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
				Options: options.Index().SetName("userId_createdAt_index"),
			},
		},
		{
			collection: ProductsCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetName("id_unique").SetUnique(true),
			},
		},
		{
			collection: UsersCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_unique").SetUnique(true),
			},
		},
	}
}

// EnsureIndexes creates every index the stores rely on. Failures are logged
// and the first one is returned; the remaining indexes are still attempted.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	var firstErr error
	for _, spec := range indexSpecs() {
		if err := ensureIndex(ctx, db, spec, log); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func ensureIndex(ctx context.Context, db *mongo.Database, spec indexSpec, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	name := ""
	if spec.model.Options != nil && spec.model.Options.Name != nil {
		name = *spec.model.Options.Name
	}

	log.Debug("creating index", "collection", spec.collection, "index", name)
	if _, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model); err != nil {
		log.Warn("index creation failed", "collection", spec.collection, "index", name, "error", err)
		return err
	}
	log.Info("index ready", "collection", spec.collection, "index", name)
	return nil
}
