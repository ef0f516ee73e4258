package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PantryItem is something the user already has at home.
type PantryItem struct {
	ID             string     `json:"id" bson:"id"`
	Name           string     `json:"name" bson:"name"`
	Quantity       int        `json:"quantity" bson:"quantity"`
	Origin         string     `json:"origin,omitempty" bson:"origin,omitempty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty" bson:"expirationDate,omitempty"`
}

// Pantry is the per-user pantry document.
type Pantry struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string             `json:"userId" bson:"userId"`
	Items     []PantryItem       `json:"items" bson:"items"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// EmptyPantry returns the default pantry served before the first item is added.
func EmptyPantry(userID string) *Pantry {
	return &Pantry{UserID: userID, Items: []PantryItem{}}
}
