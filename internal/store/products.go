package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

const productCounterKey = "products"

// maxIDAttempts bounds how many counter values Create burns through when
// older documents already occupy the allocated ids.
const maxIDAttempts = 5

type Products struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewProducts(db *mongo.Database) *Products {
	return &Products{
		coll:     db.Collection(database.ProductsCollection),
		counters: db.Collection(database.CountersCollection),
	}
}

func (s *Products) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": productCounterKey},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocate product id: %w", err)
	}
	return counter.Seq, nil
}

// Create assigns the next free numeric id and inserts the product.
func (s *Products) Create(ctx context.Context, product models.Product) (models.Product, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.nextID(ctx)
		if err != nil {
			return models.Product{}, err
		}
		product.ObjectID = primitive.NewObjectID()
		product.ID = id

		_, err = s.coll.InsertOne(ctx, product)
		if err == nil {
			return product, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return models.Product{}, fmt.Errorf("insert product: %w", err)
		}
	}
	return models.Product{}, fmt.Errorf("insert product: %w", ErrDuplicate)
}

// List returns products ordered by id. A limit of zero means no limit.
func (s *Products) List(ctx context.Context, skip, limit int64) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *Products) FindByID(ctx context.Context, id int64) (models.Product, error) {
	var product models.Product
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product: %w", err)
	}
	return product, nil
}

func (s *Products) Delete(ctx context.Context, id int64) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
