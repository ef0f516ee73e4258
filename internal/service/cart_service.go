package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
	"mealplan/internal/repository"
)

// ItemInput describes a cart or pantry item to add. ItemID is generated when empty.
type ItemInput struct {
	ItemID         string
	Name           string
	Quantity       int
	Origin         string
	ExpirationDate *time.Time
}

func (in *ItemInput) normalize() error {
	in.ItemID = strings.TrimSpace(in.ItemID)
	in.Name = strings.TrimSpace(in.Name)
	in.Origin = strings.TrimSpace(in.Origin)
	if in.Name == "" {
		return apperrors.NewValidationError("itemName is required")
	}
	if in.Quantity < 1 {
		return apperrors.NewValidationError("quantity must be at least 1")
	}
	if in.ItemID == "" {
		in.ItemID = uuid.NewString()
	}
	return nil
}

// CartService manages a user's shopping cart.
type CartService interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, userID string, in ItemInput) (*model.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	Clear(ctx context.Context, userID string) error
}

type cartService struct {
	repo repository.CartRepository
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{repo: repo}
}

// Get returns the cart, or an empty one when the user has none yet.
func (s *cartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	if cart == nil {
		return model.EmptyCart(userID), nil
	}
	return cart, nil
}

// AddItem appends an item. Repeated ids are allowed in a cart.
func (s *cartService) AddItem(ctx context.Context, userID string, in ItemInput) (*model.CartItem, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	item := model.CartItem{
		ID:       in.ItemID,
		Name:     in.Name,
		Quantity: in.Quantity,
		Origin:   in.Origin,
	}
	if err := s.repo.AddItem(ctx, userID, item); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	return &item, nil
}

// RemoveItem deletes every cart line carrying itemID.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return apperrors.NewValidationError("itemId is required")
	}
	return s.repo.RemoveItem(ctx, userID, itemID)
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
