package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const recipeService = "recipe-api"

// RecipeSummary is one hit of a recipe search.
type RecipeSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

// SearchResult is a page of recipe search hits.
type SearchResult struct {
	Results      []RecipeSummary `json:"results"`
	Offset       int             `json:"offset"`
	Number       int             `json:"number"`
	TotalResults int             `json:"totalResults"`
}

// Ingredient is one ingredient line of a recipe.
type Ingredient struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Original string  `json:"original"`
}

// Recipe is the full information of one recipe.
type Recipe struct {
	ID                  int64        `json:"id"`
	Title               string       `json:"title"`
	Image               string       `json:"image,omitempty"`
	Summary             string       `json:"summary,omitempty"`
	ReadyInMinutes      int          `json:"readyInMinutes"`
	Servings            int          `json:"servings"`
	SourceURL           string       `json:"sourceUrl,omitempty"`
	Cuisines            []string     `json:"cuisines"`
	Diets               []string     `json:"diets"`
	Instructions        string       `json:"instructions,omitempty"`
	ExtendedIngredients []Ingredient `json:"extendedIngredients"`
}

// SearchParams filters a recipe search. List filters are comma separated.
type SearchParams struct {
	Query          string
	Cuisine        string
	ExcludeCuisine string
	Diet           string
	Intolerances   string
	Number         int
}

// RecipeAPI is the recipe lookup surface used by the services.
type RecipeAPI interface {
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	Information(ctx context.Context, id int64) (*Recipe, error)
	InformationBulk(ctx context.Context, ids []int64) ([]Recipe, error)
}

// RecipeClient calls a Spoonacular-compatible recipe API.
type RecipeClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ RecipeAPI = (*RecipeClient)(nil)

// NewRecipeClient creates a recipe API client.
func NewRecipeClient(baseURL, apiKey string) *RecipeClient {
	return &RecipeClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Search calls GET /recipes/complexSearch.
func (c *RecipeClient) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	q := url.Values{}
	setIf(q, "query", params.Query)
	setIf(q, "cuisine", params.Cuisine)
	setIf(q, "excludeCuisine", params.ExcludeCuisine)
	setIf(q, "diet", params.Diet)
	setIf(q, "intolerances", params.Intolerances)
	if params.Number > 0 {
		q.Set("number", strconv.Itoa(params.Number))
	}

	var result SearchResult
	if err := c.get(ctx, "/recipes/complexSearch", q, &result); err != nil {
		return nil, err
	}
	if result.Results == nil {
		result.Results = []RecipeSummary{}
	}
	return &result, nil
}

// Information calls GET /recipes/{id}/information.
func (c *RecipeClient) Information(ctx context.Context, id int64) (*Recipe, error) {
	var recipe Recipe
	path := fmt.Sprintf("/recipes/%d/information", id)
	if err := c.get(ctx, path, url.Values{}, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// InformationBulk calls GET /recipes/informationBulk. Unknown ids are simply
// absent from the result.
func (c *RecipeClient) InformationBulk(ctx context.Context, ids []int64) ([]Recipe, error) {
	if len(ids) == 0 {
		return []Recipe{}, nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	q := url.Values{}
	q.Set("ids", strings.Join(parts, ","))

	var recipes []Recipe
	if err := c.get(ctx, "/recipes/informationBulk", q, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (c *RecipeClient) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.apiKey != "" {
		q.Set("apiKey", c.apiKey)
	}
	endpoint := c.baseURL + path
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s %s: %w", recipeService, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", recipeService, path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, recipeService, path); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", recipeService, path, err)
	}
	return nil
}

func setIf(q url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		q.Set(key, value)
	}
}
