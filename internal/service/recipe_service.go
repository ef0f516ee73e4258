package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mealplan/internal/cache"
	"mealplan/internal/client"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/repository"
)

const (
	recipeSearchCacheTTL = 10 * time.Minute
	recipeInfoCacheTTL   = time.Hour
	defaultSearchNumber  = 10
	maxSearchNumber      = 100
)

// RecipeQuery is a recipe search request. Empty filters are filled from the
// caller's stored preferences.
type RecipeQuery struct {
	Query        string
	Cuisine      string
	Diet         string
	Intolerances string
	Number       int
}

// RecipeService looks recipes up through the external recipe API.
type RecipeService interface {
	Search(ctx context.Context, userID string, q RecipeQuery) (*client.SearchResult, error)
	Get(ctx context.Context, id int64) (*client.Recipe, error)
	// Bulk returns details for as many ids as can be resolved.
	Bulk(ctx context.Context, ids []int64) []client.Recipe
}

type recipeService struct {
	api       client.RecipeAPI
	prefsRepo repository.PreferencesRepository
	cache     *cache.Client
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(api client.RecipeAPI, prefsRepo repository.PreferencesRepository, cache *cache.Client) RecipeService {
	return &recipeService{api: api, prefsRepo: prefsRepo, cache: cache}
}

func searchCacheKey(p client.SearchParams) string {
	return strings.ToLower(fmt.Sprintf("recipes:search:%s|%s|%s|%s|%s|%d",
		p.Query, p.Cuisine, p.ExcludeCuisine, p.Diet, p.Intolerances, p.Number))
}

func infoCacheKey(id int64) string {
	return fmt.Sprintf("recipes:info:%d", id)
}

// Search runs a recipe search. Upstream failures degrade to an empty result.
func (s *recipeService) Search(ctx context.Context, userID string, q RecipeQuery) (*client.SearchResult, error) {
	params := client.SearchParams{
		Query:        strings.TrimSpace(q.Query),
		Cuisine:      q.Cuisine,
		Diet:         q.Diet,
		Intolerances: q.Intolerances,
		Number:       q.Number,
	}
	if params.Number <= 0 {
		params.Number = defaultSearchNumber
	}
	if params.Number > maxSearchNumber {
		params.Number = maxSearchNumber
	}
	s.applyPreferences(ctx, userID, &params)

	key := searchCacheKey(params)
	var cached client.SearchResult
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := s.api.Search(ctx, params)
	if err != nil {
		log.Printf("recipes: search %q failed: %v", params.Query, err)
		return &client.SearchResult{Results: []client.RecipeSummary{}, Number: params.Number}, nil
	}
	s.cache.SetJSON(ctx, key, result, recipeSearchCacheTTL)
	return result, nil
}

func (s *recipeService) applyPreferences(ctx context.Context, userID string, params *client.SearchParams) {
	if userID == "" {
		return
	}
	prefs, err := s.prefsRepo.Get(ctx, userID)
	if err != nil {
		log.Printf("recipes: load preferences for %s: %v", userID, err)
		return
	}
	if prefs == nil {
		return
	}
	if params.Cuisine == "" {
		params.Cuisine = strings.Join(prefs.CuisineLike, ",")
	}
	if params.ExcludeCuisine == "" {
		params.ExcludeCuisine = strings.Join(prefs.CuisineDislike, ",")
	}
	if params.Diet == "" {
		params.Diet = strings.Join(prefs.Diet, ",")
	}
	if params.Intolerances == "" {
		params.Intolerances = strings.Join(prefs.Intolerances, ",")
	}
}

// Get returns one recipe's details.
func (s *recipeService) Get(ctx context.Context, id int64) (*client.Recipe, error) {
	var cached client.Recipe
	if s.cache.GetJSON(ctx, infoCacheKey(id), &cached) {
		return &cached, nil
	}

	recipe, err := s.api.Information(ctx, id)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, apperrors.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	s.cache.SetJSON(ctx, infoCacheKey(id), recipe, recipeInfoCacheTTL)
	return recipe, nil
}

// Bulk resolves ids from the cache first and fetches the rest in one call.
// Results keep the order of ids; unresolved ids are skipped.
func (s *recipeService) Bulk(ctx context.Context, ids []int64) []client.Recipe {
	byID := make(map[int64]client.Recipe, len(ids))
	var missing []int64
	for _, id := range ids {
		var cached client.Recipe
		if s.cache.GetJSON(ctx, infoCacheKey(id), &cached) {
			byID[id] = cached
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := s.api.InformationBulk(ctx, missing)
		if err != nil {
			log.Printf("recipes: bulk lookup of %d ids failed: %v", len(missing), err)
		}
		for _, r := range fetched {
			byID[r.ID] = r
			s.cache.SetJSON(ctx, infoCacheKey(r.ID), r, recipeInfoCacheTTL)
		}
	}

	out := make([]client.Recipe, 0, len(byID))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out
}
