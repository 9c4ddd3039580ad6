package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartLine is one product quantity held by one user. At most one line exists
// per (UserID, ProductID).
type CartLine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId" json:"userId"`
	ProductID int64              `bson:"productId" json:"productId"`
	Quantity  float64            `bson:"quantity" json:"quantity"`
}
