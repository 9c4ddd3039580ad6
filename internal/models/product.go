package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Rating struct {
	Rate  float64 `bson:"rate" json:"rate"`
	Count int64   `bson:"count" json:"count"`
}

// Product is a catalog entry keyed by its application-assigned numeric ID.
type Product struct {
	ObjectID    primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ID          int64              `bson:"id" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Image       string             `bson:"image" json:"image"`
	Rating      Rating             `bson:"rating" json:"rating"`
}
