package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mealplan/internal/db"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
)

// CartRepository defines shopping cart document operations.
type CartRepository interface {
	// Get returns nil, nil when the user has no cart yet.
	Get(ctx context.Context, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, userID string, item model.CartItem) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type cartRepository struct {
	docs userDocuments
}

// NewCartRepository creates a Mongo-backed cart repository.
func NewCartRepository(database *mongo.Database) CartRepository {
	return &cartRepository{docs: userDocuments{col: database.Collection(db.CartsCollection)}}
}

func (r *cartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	found, err := r.docs.find(ctx, userID, &cart)
	if err != nil || !found {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return &cart, nil
}

// AddItem appends the item. Carts accept repeated ids.
func (r *cartRepository) AddItem(ctx context.Context, userID string, item model.CartItem) error {
	return r.docs.push(ctx, userID, "items", item)
}

func (r *cartRepository) RemoveItem(ctx context.Context, userID, itemID string) error {
	docFound, itemFound, err := r.docs.removeItem(ctx, userID, itemID)
	switch {
	case err != nil:
		return err
	case !docFound:
		return apperrors.ErrCartNotFound
	case !itemFound:
		return apperrors.ErrItemNotFound
	}
	return nil
}

// Clear empties the cart; a user without a cart is left untouched.
func (r *cartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.docs.update(ctx, byUser(userID), bson.M{"$set": bson.M{"items": []model.CartItem{}}})
	return err
}
