package service

import (
	"context"
	"fmt"

	"mealplan/internal/model"
	"mealplan/internal/repository"
)

const (
	defaultTopFavorites = 10
	maxTopFavorites     = 100
)

// TopFavorite is one leaderboard row, with the title when it could be resolved.
type TopFavorite struct {
	RecipeID int64  `json:"recipeId"`
	Count    int    `json:"count"`
	Title    string `json:"title,omitempty"`
	Image    string `json:"image,omitempty"`
}

// StatsService reports aggregate preference statistics for admins.
type StatsService interface {
	TopFavorites(ctx context.Context, limit int) ([]TopFavorite, error)
	UserPreferences(ctx context.Context) (map[model.PreferenceField][]model.ValueCount, error)
}

type statsService struct {
	prefs   repository.PreferencesRepository
	recipes RecipeService
}

// NewStatsService creates a new stats service.
func NewStatsService(prefs repository.PreferencesRepository, recipes RecipeService) StatsService {
	return &statsService{prefs: prefs, recipes: recipes}
}

// TopFavorites returns the most favorited recipes, most popular first.
func (s *statsService) TopFavorites(ctx context.Context, limit int) ([]TopFavorite, error) {
	if limit <= 0 {
		limit = defaultTopFavorites
	}
	if limit > maxTopFavorites {
		limit = maxTopFavorites
	}

	counts, err := s.prefs.TopFavorites(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("top favorites: %w", err)
	}

	out := make([]TopFavorite, len(counts))
	ids := make([]int64, len(counts))
	for i, c := range counts {
		out[i] = TopFavorite{RecipeID: c.RecipeID, Count: c.Count}
		ids[i] = c.RecipeID
	}
	if len(ids) == 0 || s.recipes == nil {
		return out, nil
	}

	details := s.recipes.Bulk(ctx, ids)
	titles := make(map[int64]int, len(details))
	for i, r := range details {
		titles[r.ID] = i
	}
	for i := range out {
		if j, ok := titles[out[i].RecipeID]; ok {
			out[i].Title = details[j].Title
			out[i].Image = details[j].Image
		}
	}
	return out, nil
}

// UserPreferences counts users per value for every preference list.
func (s *statsService) UserPreferences(ctx context.Context) (map[model.PreferenceField][]model.ValueCount, error) {
	out := make(map[model.PreferenceField][]model.ValueCount, len(model.PreferenceFields))
	for _, field := range model.PreferenceFields {
		counts, err := s.prefs.CountValues(ctx, field)
		if err != nil {
			return nil, fmt.Errorf("user preferences: %w", err)
		}
		out[field] = counts
	}
	return out, nil
}
