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
)

func TestCartsAddOrMerge(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("creates missing line", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 0},
				bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: id}}}},
			),
			mtest.CreateCursorResponse(0, ns(mt, database.CartsCollection), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "userId", Value: "u1"},
				{Key: "productId", Value: int64(42)},
				{Key: "quantity", Value: float64(2)},
			}),
		)

		line, created, err := NewCarts(mt.DB).AddOrMerge(ctx, "u1", 42, 2)
		require.NoError(mt, err)
		assert.True(mt, created)
		assert.Equal(mt, id, line.ID)
		assert.Equal(mt, 2.0, line.Quantity)
	})

	mt.Run("merges existing line", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, ns(mt, database.CartsCollection), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "userId", Value: "u1"},
				{Key: "productId", Value: int64(42)},
				{Key: "quantity", Value: float64(5)},
			}),
		)

		line, created, err := NewCarts(mt.DB).AddOrMerge(ctx, "u1", 42, 3)
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, 5.0, line.Quantity)
	})

	mt.Run("retries once after losing the unique index race", func(mt *mtest.T) {
		mt.AddMockResponses(
			duplicateKeyResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, ns(mt, database.CartsCollection), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "userId", Value: "u1"},
				{Key: "productId", Value: int64(7)},
				{Key: "quantity", Value: float64(2)},
			}),
		)

		line, created, err := NewCarts(mt.DB).AddOrMerge(ctx, "u1", 7, 1)
		require.NoError(mt, err)
		assert.False(mt, created)
		assert.Equal(mt, 2.0, line.Quantity)
	})

	mt.Run("persistence failure is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Message: "boom", Name: "BadValue",
		}))

		_, _, err := NewCarts(mt.DB).AddOrMerge(ctx, "u1", 7, 1)
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
	})
}

func TestCartsListByUserReturnsEmptySlice(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt, database.CartsCollection), mtest.FirstBatch))

		lines, err := NewCarts(mt.DB).ListByUser(context.Background(), "nobody")
		require.NoError(mt, err)
		assert.NotNil(mt, lines)
		assert.Empty(mt, lines)
	})
}

func TestCartsRemove(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(deletedResponse(1))
		assert.NoError(mt, NewCarts(mt.DB).Remove(context.Background(), "u1", 42))
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(deletedResponse(0))
		assert.ErrorIs(mt, NewCarts(mt.DB).Remove(context.Background(), "u1", 42), ErrNotFound)
	})
}

func TestCartsClearIsIdempotent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("clear", func(mt *mtest.T) {
		mt.AddMockResponses(deletedResponse(3), deletedResponse(0))
		carts := NewCarts(mt.DB)

		n, err := carts.Clear(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)

		n, err = carts.Clear(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Zero(mt, n)
	})
}
