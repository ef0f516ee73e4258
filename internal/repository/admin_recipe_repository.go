package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mealplan/internal/model"
)

// AdminRecipeRepository defines curated recipe persistence operations.
type AdminRecipeRepository interface {
	Create(ctx context.Context, recipe *model.AdminRecipe) error
	Update(ctx context.Context, recipe *model.AdminRecipe) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AdminRecipe, error)
	FindByTitle(ctx context.Context, title string) (*model.AdminRecipe, error)
	List(ctx context.Context) ([]model.AdminRecipe, error)
}

type adminRecipeRepository struct {
	db *gorm.DB
}

// NewAdminRecipeRepository creates a new admin recipe repository.
func NewAdminRecipeRepository(db *gorm.DB) AdminRecipeRepository {
	return &adminRecipeRepository{db: db}
}

// Create creates a new recipe.
func (r *adminRecipeRepository) Create(ctx context.Context, recipe *model.AdminRecipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// Update saves every column of an existing recipe.
func (r *adminRecipeRepository) Update(ctx context.Context, recipe *model.AdminRecipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}

// FindByID finds a recipe by ID.
func (r *adminRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AdminRecipe, error) {
	var recipe model.AdminRecipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// FindByTitle finds a recipe by its unique title.
func (r *adminRecipeRepository) FindByTitle(ctx context.Context, title string) (*model.AdminRecipe, error) {
	var recipe model.AdminRecipe
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List returns all curated recipes, newest first.
func (r *adminRecipeRepository) List(ctx context.Context) ([]model.AdminRecipe, error) {
	var recipes []model.AdminRecipe
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
