package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
	"mealplan/internal/repository"
)

// PantryService manages a user's pantry.
type PantryService interface {
	Get(ctx context.Context, userID string) (*model.Pantry, error)
	AddItem(ctx context.Context, userID string, in ItemInput) (*model.PantryItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	SetExpiration(ctx context.Context, userID, itemID string, expiration *time.Time) error
}

type pantryService struct {
	repo repository.PantryRepository
}

// NewPantryService creates a new pantry service.
func NewPantryService(repo repository.PantryRepository) PantryService {
	return &pantryService{repo: repo}
}

// Get returns the pantry, or an empty one when the user has none yet.
func (s *pantryService) Get(ctx context.Context, userID string) (*model.Pantry, error) {
	pantry, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get pantry: %w", err)
	}
	if pantry == nil {
		return model.EmptyPantry(userID), nil
	}
	return pantry, nil
}

// AddItem appends an item, failing with ErrDuplicateItem when the id is taken.
func (s *pantryService) AddItem(ctx context.Context, userID string, in ItemInput) (*model.PantryItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	item := model.PantryItem{
		ID:             in.ItemID,
		Name:           in.Name,
		Quantity:       in.Quantity,
		Origin:         in.Origin,
		ExpirationDate: utcDate(in.ExpirationDate),
	}
	if err := s.repo.AddItem(ctx, userID, item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *pantryService) RemoveItem(ctx context.Context, userID, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return apperrors.NewValidationError("itemId is required")
	}
	return s.repo.RemoveItem(ctx, userID, itemID)
}

// SetExpiration sets one item's expiration date; nil clears it.
func (s *pantryService) SetExpiration(ctx context.Context, userID, itemID string, expiration *time.Time) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return apperrors.NewValidationError("itemId is required")
	}
	return s.repo.SetExpiration(ctx, userID, itemID, utcDate(expiration))
}

// utcDate keeps the calendar day of t as written and stores it as UTC midnight.
func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	u := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &u
}
