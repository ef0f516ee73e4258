package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a shopping cart.
type CartItem struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Quantity int    `json:"quantity" bson:"quantity"`
	Origin   string `json:"origin,omitempty" bson:"origin,omitempty"`
}

// Cart is the per-user shopping cart document.
type Cart struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Items     []CartItem         `json:"items" bson:"items"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// EmptyCart returns the default cart served before the first item is added.
func EmptyCart(userID string) *Cart {
	return &Cart{UserID: userID, Items: []CartItem{}}
}
