package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
	"mealplan/internal/repository"
)

// Violation reports the profile fields of one user that contain a banned word.
type Violation struct {
	UserID        string   `json:"userId"`
	Username      string   `json:"username"`
	MatchedFields []string `json:"matchedFields"`
}

// FindViolations scans each user's username, first name and last name for any
// banned word as a case-insensitive substring. Words must already be lowercase.
// A field is reported once as "field: value" however many words it contains.
func FindViolations(users []model.User, words []string) []Violation {
	violations := []Violation{}
	if len(words) == 0 {
		return violations
	}

	for _, u := range users {
		fields := []struct{ name, value string }{
			{"username", u.Username},
			{"firstName", u.FirstName},
			{"lastName", u.LastName},
		}

		var matched []string
		for _, f := range fields {
			lower := strings.ToLower(f.value)
			for _, w := range words {
				if w != "" && strings.Contains(lower, w) {
					matched = append(matched, f.name+": "+f.value)
					break
				}
			}
		}
		if len(matched) > 0 {
			violations = append(violations, Violation{
				UserID:        u.ID.String(),
				Username:      u.Username,
				MatchedFields: matched,
			})
		}
	}
	return violations
}

// ModerationService manages the banned-word list and reports offending users.
type ModerationService interface {
	AddWord(ctx context.Context, word, addedBy string) (*model.BannedWord, error)
	ListWords(ctx context.Context) ([]model.BannedWord, error)
	RemoveWord(ctx context.Context, word string) error
	Violations(ctx context.Context) ([]Violation, error)
}

type moderationService struct {
	words repository.BannedWordRepository
	users repository.UserRepository
}

// NewModerationService creates a new moderation service.
func NewModerationService(words repository.BannedWordRepository, users repository.UserRepository) ModerationService {
	return &moderationService{words: words, users: users}
}

func normalizeWord(word string) (string, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "", apperrors.NewValidationError("word is required")
	}
	return word, nil
}

// AddWord bans a word, stored lowercase.
func (s *moderationService) AddWord(ctx context.Context, word, addedBy string) (*model.BannedWord, error) {
	word, err := normalizeWord(word)
	if err != nil {
		return nil, err
	}

	existing, err := s.words.FindByWord(ctx, word)
	if err == nil && existing != nil {
		return nil, apperrors.ErrBannedWordExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check banned word: %w", err)
	}

	bw := &model.BannedWord{Word: word, AddedBy: addedBy}
	if err := s.words.Create(ctx, bw); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrBannedWordExists
		}
		return nil, fmt.Errorf("create banned word: %w", err)
	}
	return bw, nil
}

func (s *moderationService) ListWords(ctx context.Context) ([]model.BannedWord, error) {
	words, err := s.words.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banned words: %w", err)
	}
	if words == nil {
		words = []model.BannedWord{}
	}
	return words, nil
}

func (s *moderationService) RemoveWord(ctx context.Context, word string) error {
	word, err := normalizeWord(word)
	if err != nil {
		return err
	}
	deleted, err := s.words.Delete(ctx, word)
	if err != nil {
		return fmt.Errorf("delete banned word: %w", err)
	}
	if !deleted {
		return apperrors.ErrBannedWordNotFound
	}
	return nil
}

// Violations checks every user against every banned word.
func (s *moderationService) Violations(ctx context.Context) ([]Violation, error) {
	banned, err := s.words.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list banned words: %w", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	words := make([]string, len(banned))
	for i, bw := range banned {
		words[i] = bw.Word
	}
	return FindViolations(users, words), nil
}
