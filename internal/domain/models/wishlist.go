package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wishlist holds the products a user saved for later, one document per user.
type Wishlist struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Products  []primitive.ObjectID `bson:"products" json:"products"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Contains reports whether the product is already on the list.
func (w *Wishlist) Contains(productID primitive.ObjectID) bool {
	for _, id := range w.Products {
		if id == productID {
			return true
		}
	}
	return false
}
