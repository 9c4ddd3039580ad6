package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func ns(mt *mtest.T, collection string) string {
	return mt.DB.Name() + "." + collection
}

func duplicateKeyResponse() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    11000,
		Message: "E11000 duplicate key error",
	})
}

func deletedResponse(n int32) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n})
}
