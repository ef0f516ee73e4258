package repository

import (
	"context"

	"gorm.io/gorm"

	"mealplan/internal/model"
)

// BannedWordRepository defines banned word persistence operations.
type BannedWordRepository interface {
	Create(ctx context.Context, word *model.BannedWord) error
	FindByWord(ctx context.Context, word string) (*model.BannedWord, error)
	List(ctx context.Context) ([]model.BannedWord, error)
	Delete(ctx context.Context, word string) (bool, error)
}

type bannedWordRepository struct {
	db *gorm.DB
}

// NewBannedWordRepository creates a new banned word repository.
func NewBannedWordRepository(db *gorm.DB) BannedWordRepository {
	return &bannedWordRepository{db: db}
}

// Create stores a new banned word.
func (r *bannedWordRepository) Create(ctx context.Context, word *model.BannedWord) error {
	return r.db.WithContext(ctx).Create(word).Error
}

// FindByWord finds a banned word by its exact lowercase value.
func (r *bannedWordRepository) FindByWord(ctx context.Context, word string) (*model.BannedWord, error) {
	var bw model.BannedWord
	if err := r.db.WithContext(ctx).Where("word = ?", word).First(&bw).Error; err != nil {
		return nil, err
	}
	return &bw, nil
}

// List returns every banned word in alphabetical order.
func (r *bannedWordRepository) List(ctx context.Context) ([]model.BannedWord, error) {
	var words []model.BannedWord
	if err := r.db.WithContext(ctx).Order("word").Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

// Delete removes a banned word and reports whether it existed.
func (r *bannedWordRepository) Delete(ctx context.Context, word string) (bool, error) {
	res := r.db.WithContext(ctx).Where("word = ?", word).Delete(&model.BannedWord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
