package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mealplan/internal/db"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
)

// PantryRepository defines pantry document operations.
type PantryRepository interface {
	// Get returns nil, nil when the user has no pantry yet.
	Get(ctx context.Context, userID string) (*model.Pantry, error)
	AddItem(ctx context.Context, userID string, item model.PantryItem) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	SetExpiration(ctx context.Context, userID, itemID string, expiration *time.Time) error
}

type pantryRepository struct {
	docs userDocuments
}

// NewPantryRepository creates a Mongo-backed pantry repository.
func NewPantryRepository(database *mongo.Database) PantryRepository {
	return &pantryRepository{docs: userDocuments{col: database.Collection(db.PantriesCollection)}}
}

func (r *pantryRepository) Get(ctx context.Context, userID string) (*model.Pantry, error) {
	var pantry model.Pantry
	found, err := r.docs.find(ctx, userID, &pantry)
	if err != nil || !found {
		return nil, err
	}
	if pantry.Items == nil {
		pantry.Items = []model.PantryItem{}
	}
	return &pantry, nil
}

// AddItem appends the item, rejecting an id that is already in the pantry.
func (r *pantryRepository) AddItem(ctx context.Context, userID string, item model.PantryItem) error {
	duplicate, err := r.docs.pushUnlessItem(ctx, userID, item.ID, item)
	if err != nil {
		return err
	}
	if duplicate {
		return apperrors.ErrDuplicateItem
	}
	return nil
}

func (r *pantryRepository) RemoveItem(ctx context.Context, userID, itemID string) error {
	docFound, itemFound, err := r.docs.removeItem(ctx, userID, itemID)
	return pantryLookupError(docFound, itemFound, err)
}

// SetExpiration sets or, when expiration is nil, clears one item's expiration date.
func (r *pantryRepository) SetExpiration(ctx context.Context, userID, itemID string, expiration *time.Time) error {
	ops := bson.M{"$unset": bson.M{"items.$.expirationDate": ""}}
	if expiration != nil {
		ops = bson.M{"$set": bson.M{"items.$.expirationDate": expiration.UTC()}}
	}
	docFound, itemFound, err := r.docs.updateItem(ctx, userID, itemID, ops)
	return pantryLookupError(docFound, itemFound, err)
}

func pantryLookupError(docFound, itemFound bool, err error) error {
	switch {
	case err != nil:
		return err
	case !docFound:
		return apperrors.ErrPantryNotFound
	case !itemFound:
		return apperrors.ErrItemNotFound
	}
	return nil
}
