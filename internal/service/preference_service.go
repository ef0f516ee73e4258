package service

import (
	"context"
	"fmt"

	"mealplan/internal/client"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
	"mealplan/internal/repository"
)

// FavoriteRecipes is the favorites listing: the stored ids plus whatever
// details could be resolved.
type FavoriteRecipes struct {
	RecipeIDs []int64         `json:"recipeIds"`
	Recipes   []client.Recipe `json:"recipes"`
}

// PreferenceService manages a user's preference document.
type PreferenceService interface {
	Get(ctx context.Context, userID string) (*model.Preferences, error)
	SetList(ctx context.Context, userID string, field model.PreferenceField, values []string) (*model.Preferences, error)
	AddFavorite(ctx context.Context, userID string, recipeID int64) error
	RemoveFavorite(ctx context.Context, userID string, recipeID int64) error
	Favorites(ctx context.Context, userID string) (*FavoriteRecipes, error)
}

type preferenceService struct {
	repo    repository.PreferencesRepository
	recipes RecipeService
}

// NewPreferenceService creates a new preference service.
func NewPreferenceService(repo repository.PreferencesRepository, recipes RecipeService) PreferenceService {
	return &preferenceService{repo: repo, recipes: recipes}
}

// Get returns the stored preferences, or empty defaults when none exist.
func (s *preferenceService) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	prefs, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	if prefs == nil {
		return model.EmptyPreferences(userID), nil
	}
	return prefs, nil
}

// SetList overwrites one preference list wholesale with exactly the submitted values.
func (s *preferenceService) SetList(ctx context.Context, userID string, field model.PreferenceField, values []string) (*model.Preferences, error) {
	if values == nil {
		return nil, apperrors.NewValidationError(string(field) + " is required")
	}
	if err := s.repo.SetList(ctx, userID, field, values); err != nil {
		return nil, fmt.Errorf("set %s: %w", field, err)
	}
	return s.Get(ctx, userID)
}

// AddFavorite adds recipeID to the favorites unless already present.
func (s *preferenceService) AddFavorite(ctx context.Context, userID string, recipeID int64) error {
	if recipeID <= 0 {
		return apperrors.NewValidationError("recipeId must be a positive integer")
	}
	if err := s.repo.AddFavorite(ctx, userID, recipeID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes recipeID; an id that is not a favorite is a no-op.
func (s *preferenceService) RemoveFavorite(ctx context.Context, userID string, recipeID int64) error {
	if recipeID <= 0 {
		return apperrors.NewValidationError("recipeId must be a positive integer")
	}
	if err := s.repo.RemoveFavorite(ctx, userID, recipeID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

// Favorites lists favorite ids with best-effort recipe details.
func (s *preferenceService) Favorites(ctx context.Context, userID string) (*FavoriteRecipes, error) {
	prefs, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &FavoriteRecipes{RecipeIDs: prefs.FavoriteRecipes, Recipes: []client.Recipe{}}
	if len(prefs.FavoriteRecipes) > 0 && s.recipes != nil {
		out.Recipes = s.recipes.Bulk(ctx, prefs.FavoriteRecipes)
	}
	return out, nil
}
