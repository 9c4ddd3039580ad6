package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"storefront/internal/database"
	"storefront/internal/models"
)

func counterResponse(seq int64) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
		{Key: "_id", Value: productCounterKey},
		{Key: "seq", Value: seq},
	}})
}

func TestProductsCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("allocates the next id", func(mt *mtest.T) {
		mt.AddMockResponses(counterResponse(21), mtest.CreateSuccessResponse())

		product, err := NewProducts(mt.DB).Create(context.Background(), models.Product{Title: "Mug", Price: 9.5})
		require.NoError(mt, err)
		assert.Equal(mt, int64(21), product.ID)
		assert.False(mt, product.ObjectID.IsZero())
		assert.Equal(mt, "Mug", product.Title)
	})

	mt.Run("skips ids taken by older documents", func(mt *mtest.T) {
		mt.AddMockResponses(
			counterResponse(1), duplicateKeyResponse(),
			counterResponse(2), mtest.CreateSuccessResponse(),
		)

		product, err := NewProducts(mt.DB).Create(context.Background(), models.Product{Title: "Mug"})
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), product.ID)
	})

	mt.Run("gives up after repeated collisions", func(mt *mtest.T) {
		for i := int64(1); i <= maxIDAttempts; i++ {
			mt.AddMockResponses(counterResponse(i), duplicateKeyResponse())
		}

		_, err := NewProducts(mt.DB).Create(context.Background(), models.Product{Title: "Mug"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})
}

func TestProductsFindAndDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.ProductsCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "id", Value: int64(3)},
			{Key: "title", Value: "Lamp"},
			{Key: "rating", Value: bson.D{{Key: "rate", Value: 4.5}, {Key: "count", Value: int64(10)}}},
		}))

		product, err := NewProducts(mt.DB).FindByID(context.Background(), 3)
		require.NoError(mt, err)
		assert.Equal(mt, "Lamp", product.Title)
		assert.Equal(mt, 4.5, product.Rating.Rate)
	})

	mt.Run("find missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.ProductsCollection), mtest.FirstBatch))

		_, err := NewProducts(mt.DB).FindByID(context.Background(), 3)
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		mt.AddMockResponses(deletedResponse(0))
		assert.ErrorIs(mt, NewProducts(mt.DB).Delete(context.Background(), 3), ErrNotFound)
	})
}

func TestProductsListPaging(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("skip and limit reach the server", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.ProductsCollection), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "id", Value: int64(21)},
			{Key: "title", Value: "Pen"},
		}))

		products, err := NewProducts(mt.DB).List(context.Background(), 20, 10)
		require.NoError(mt, err)
		require.Len(mt, products, 1)
		assert.Equal(mt, int64(21), products[0].ID)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, int64(20), started.Command.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(10), started.Command.Lookup("limit").AsInt64())
		assert.Equal(mt, "id", started.Command.Lookup("sort").Document().Index(0).Key())
	})

	mt.Run("zero limit sends no paging", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.ProductsCollection), mtest.FirstBatch))

		products, err := NewProducts(mt.DB).List(context.Background(), 0, 0)
		require.NoError(mt, err)
		assert.Empty(mt, products)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		_, hasSkip := started.Command.Lookup("skip").Int64OK()
		_, hasLimit := started.Command.Lookup("limit").Int64OK()
		assert.False(mt, hasSkip)
		assert.False(mt, hasLimit)
	})
}
