package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is the embedded address document of a customer.
type Address struct {
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Country string `bson:"country" json:"country"`
}

// Customer is a customer record stored in the customers collection.
// ImageURL and VideoURL are pointers so that a customer without media
// round-trips as an explicit null, not an empty string.
type Customer struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Email              string             `bson:"email" json:"email"`
	Phone              string             `bson:"phone" json:"phone"`
	Address            Address            `bson:"address" json:"address"`
	ImageURL           *string            `bson:"imageUrl" json:"imageUrl"`
	VideoURL           *string            `bson:"videoUrl" json:"videoUrl"`
	TermsAndConditions bool               `bson:"termsAndConditions" json:"termsAndConditions"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
