package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
	"mealplan/internal/repository"
)

// CreateRecipeInput carries a curated recipe.
type CreateRecipeInput struct {
	Title          string
	Summary        string
	ReadyInMinutes *int
	Instructions   string
	Ingredients    []string
	Diets          []string
	Cuisines       []string
}

// AdminRecipeService manages curated recipes.
type AdminRecipeService interface {
	Create(ctx context.Context, in CreateRecipeInput) (*model.AdminRecipe, error)
	AttachCuisines(ctx context.Context, recipeID string, cuisines []string) (*model.AdminRecipe, error)
	AttachDiets(ctx context.Context, recipeID string, diets []string) (*model.AdminRecipe, error)
	List(ctx context.Context) ([]model.AdminRecipe, error)
}

type adminRecipeService struct {
	repo repository.AdminRecipeRepository
}

// NewAdminRecipeService creates a new admin recipe service.
func NewAdminRecipeService(repo repository.AdminRecipeRepository) AdminRecipeService {
	return &adminRecipeService{repo: repo}
}

// Create stores a new recipe. Titles are unique.
func (s *adminRecipeService) Create(ctx context.Context, in CreateRecipeInput) (*model.AdminRecipe, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required")
	}
	if strings.TrimSpace(in.Instructions) == "" {
		return nil, apperrors.NewValidationError("instructions are required")
	}
	ingredients := cleanValues(in.Ingredients)
	if len(ingredients) == 0 {
		return nil, apperrors.NewValidationError("at least one ingredient is required")
	}
	if in.ReadyInMinutes != nil && *in.ReadyInMinutes < 0 {
		return nil, apperrors.NewValidationError("readyInMinutes must not be negative")
	}
	cuisines, err := parseCuisines(in.Cuisines)
	if err != nil {
		return nil, err
	}
	diets, err := parseDiets(in.Diets)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByTitle(ctx, title)
	if err == nil && existing != nil {
		return nil, apperrors.ErrRecipeExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check recipe title: %w", err)
	}

	recipe := &model.AdminRecipe{
		ID:             uuid.New(),
		Title:          title,
		Summary:        strings.TrimSpace(in.Summary),
		ReadyInMinutes: in.ReadyInMinutes,
		Instructions:   strings.TrimSpace(in.Instructions),
		Ingredients:    ingredients,
		Diets:          diets,
		Cuisines:       cuisines,
	}
	if err := s.repo.Create(ctx, recipe); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrRecipeExists
		}
		return nil, fmt.Errorf("create recipe: %w", err)
	}
	return recipe, nil
}

// AttachCuisines adds cuisines to a recipe, ignoring ones it already has.
func (s *adminRecipeService) AttachCuisines(ctx context.Context, recipeID string, cuisines []string) (*model.AdminRecipe, error) {
	parsed, err := parseCuisines(cuisines)
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, apperrors.NewValidationError("cuisines are required")
	}
	return s.update(ctx, recipeID, func(r *model.AdminRecipe) {
		r.Cuisines = union(r.Cuisines, parsed)
	})
}

// AttachDiets adds diets to a recipe, ignoring ones it already has.
func (s *adminRecipeService) AttachDiets(ctx context.Context, recipeID string, diets []string) (*model.AdminRecipe, error) {
	parsed, err := parseDiets(diets)
	if err != nil {
		return nil, err
	}
	if len(parsed) == 0 {
		return nil, apperrors.NewValidationError("diets are required")
	}
	return s.update(ctx, recipeID, func(r *model.AdminRecipe) {
		r.Diets = union(r.Diets, parsed)
	})
}

func (s *adminRecipeService) List(ctx context.Context) ([]model.AdminRecipe, error) {
	recipes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	if recipes == nil {
		recipes = []model.AdminRecipe{}
	}
	return recipes, nil
}

func (s *adminRecipeService) update(ctx context.Context, recipeID string, apply func(*model.AdminRecipe)) (*model.AdminRecipe, error) {
	id, err := uuid.Parse(strings.TrimSpace(recipeID))
	if err != nil {
		return nil, apperrors.ErrRecipeNotFound
	}
	recipe, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("find recipe: %w", err)
	}

	apply(recipe)
	if err := s.repo.Update(ctx, recipe); err != nil {
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return recipe, nil
}

func parseCuisines(values []string) ([]model.Cuisine, error) {
	out := make([]model.Cuisine, 0, len(values))
	for _, v := range values {
		c, ok := model.ParseCuisine(v)
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown cuisine %q", v))
		}
		out = append(out, c)
	}
	return union(nil, out), nil
}

func parseDiets(values []string) ([]model.Diet, error) {
	out := make([]model.Diet, 0, len(values))
	for _, v := range values {
		d, ok := model.ParseDiet(v)
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown diet %q", v))
		}
		out = append(out, d)
	}
	return union(nil, out), nil
}

// union appends the elements of add missing from base, preserving order.
func union[T comparable](base, add []T) []T {
	out := make([]T, 0, len(base)+len(add))
	seen := make(map[T]struct{}, len(base)+len(add))
	for _, list := range [][]T{base, add} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// cleanValues trims entries, drops blanks and removes case-insensitive repeats,
// keeping the first spelling.
func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
