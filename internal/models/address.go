package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AddressFields are the free-form shipping fields shared by stored addresses
// and order snapshots.
type AddressFields struct {
	Name        string `bson:"name" json:"name"`
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
	Pincode     string `bson:"pincode" json:"pincode"`
	Locality    string `bson:"locality" json:"locality"`
	Address     string `bson:"address" json:"address"`
	City        string `bson:"city" json:"city"`
	Country     string `bson:"country" json:"country"`
}

// Address is a shipping destination stored in a user's address book.
type Address struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID        string             `bson:"userId" json:"userId"`
	AddressFields `bson:",inline"`
}
