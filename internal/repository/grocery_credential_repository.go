package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mealplan/internal/model"
)

// GroceryCredentialRepository persists retailer OAuth tokens per user.
type GroceryCredentialRepository interface {
	Upsert(ctx context.Context, cred *model.GroceryCredential) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.GroceryCredential, error)
}

type groceryCredentialRepository struct {
	db *gorm.DB
}

// NewGroceryCredentialRepository creates a new grocery credential repository.
func NewGroceryCredentialRepository(db *gorm.DB) GroceryCredentialRepository {
	return &groceryCredentialRepository{db: db}
}

// Upsert inserts the credential or replaces the token fields of the user's existing one.
func (r *groceryCredentialRepository) Upsert(ctx context.Context, cred *model.GroceryCredential) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "token_type", "expiry", "updated_at"}),
	}).Create(cred).Error
}

// FindByUserID finds the credential stored for a user.
func (r *groceryCredentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.GroceryCredential, error) {
	var cred model.GroceryCredential
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cred).Error; err != nil {
		return nil, err
	}
	return &cred, nil
}
