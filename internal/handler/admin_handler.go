package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mealplan/internal/service"
)

// AdminHandler serves moderation, curated recipes and statistics.
type AdminHandler struct {
	moderation service.ModerationService
	recipes    service.AdminRecipeService
	stats      service.StatsService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(moderation service.ModerationService, recipes service.AdminRecipeService, stats service.StatsService) *AdminHandler {
	return &AdminHandler{moderation: moderation, recipes: recipes, stats: stats}
}

// BanWordRequest names a word to ban.
type BanWordRequest struct {
	Word string `json:"word" validate:"required"`
}

// CreateRecipeRequest represents a curated recipe.
type CreateRecipeRequest struct {
	Title          string   `json:"title" validate:"required"`
	Summary        string   `json:"summary"`
	ReadyInMinutes *int     `json:"readyInMinutes" validate:"omitempty,gte=0"`
	Instructions   string   `json:"instructions" validate:"required"`
	Ingredients    []string `json:"ingredients" validate:"required,min=1"`
	Diets          []string `json:"diets"`
	Cuisines       []string `json:"cuisines"`
}

// AttachCuisinesRequest adds cuisines to a curated recipe.
type AttachCuisinesRequest struct {
	RecipeID string   `json:"recipeId" validate:"required"`
	Cuisines []string `json:"cuisines" validate:"required,min=1"`
}

// AttachDietsRequest adds diets to a curated recipe.
type AttachDietsRequest struct {
	RecipeID string   `json:"recipeId" validate:"required"`
	Diets    []string `json:"diets" validate:"required,min=1"`
}

// TopFavoritesRequest bounds the leaderboard size.
type TopFavoritesRequest struct {
	Limit int `query:"limit" validate:"gte=0,lte=100"`
}

// AddBannedWord godoc
// @Summary Ban a word
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BanWordRequest true "Word"
// @Success 201 {object} model.BannedWord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/adminBan/add [post]
func (h *AdminHandler) AddBannedWord(c echo.Context) error {
	claims, herr := currentClaims(c)
	if herr != nil {
		return herr
	}
	var req BanWordRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}

	word, err := h.moderation.AddWord(c.Request().Context(), req.Word, claims.Username)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, word)
}

// ListBannedWords godoc
// @Summary List banned words
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.BannedWord
// @Failure 403 {object} errors.ErrorResponse
// @Router /api/adminBan/list [get]
func (h *AdminHandler) ListBannedWords(c echo.Context) error {
	words, err := h.moderation.ListWords(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, words)
}

// RemoveBannedWord godoc
// @Summary Unban a word
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param word path string true "Word"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/adminBan/{word} [delete]
func (h *AdminHandler) RemoveBannedWord(c echo.Context) error {
	if err := h.moderation.RemoveWord(c.Request().Context(), c.Param("word")); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "word removed"})
}

// Violations godoc
// @Summary List users whose profile contains a banned word
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.Violation
// @Failure 403 {object} errors.ErrorResponse
// @Router /api/adminBan/violations [get]
func (h *AdminHandler) Violations(c echo.Context) error {
	violations, err := h.moderation.Violations(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, violations)
}

// CreateRecipe godoc
// @Summary Create a curated recipe
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateRecipeRequest true "Recipe"
// @Success 201 {object} model.AdminRecipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/adminCreateRecipe [post]
func (h *AdminHandler) CreateRecipe(c echo.Context) error {
	var req CreateRecipeRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}

	recipe, err := h.recipes.Create(c.Request().Context(), service.CreateRecipeInput{
		Title:          req.Title,
		Summary:        req.Summary,
		ReadyInMinutes: req.ReadyInMinutes,
		Instructions:   req.Instructions,
		Ingredients:    req.Ingredients,
		Diets:          req.Diets,
		Cuisines:       req.Cuisines,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, recipe)
}

// AttachCuisines godoc
// @Summary Add cuisines to a curated recipe
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AttachCuisinesRequest true "Recipe and cuisines"
// @Success 200 {object} model.AdminRecipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/adminCuisine [post]
func (h *AdminHandler) AttachCuisines(c echo.Context) error {
	var req AttachCuisinesRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}
	recipe, err := h.recipes.AttachCuisines(c.Request().Context(), req.RecipeID, req.Cuisines)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}

// AttachDiets godoc
// @Summary Add diets to a curated recipe
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AttachDietsRequest true "Recipe and diets"
// @Success 200 {object} model.AdminRecipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/adminDiet [post]
func (h *AdminHandler) AttachDiets(c echo.Context) error {
	var req AttachDietsRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}
	recipe, err := h.recipes.AttachDiets(c.Request().Context(), req.RecipeID, req.Diets)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}

// ListRecipes godoc
// @Summary List curated recipes
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.AdminRecipe
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/adminRecipes [get]
func (h *AdminHandler) ListRecipes(c echo.Context) error {
	recipes, err := h.recipes.List(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, recipes)
}

// TopFavorites godoc
// @Summary Most favorited recipes
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max rows (default 10)"
// @Success 200 {array} service.TopFavorite
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /api/adminTop/top-favorites [get]
func (h *AdminHandler) TopFavorites(c echo.Context) error {
	var req TopFavoritesRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}
	top, err := h.stats.TopFavorites(c.Request().Context(), req.Limit)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, top)
}

// UserPreferences godoc
// @Summary Preference value counts across users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]model.ValueCount
// @Failure 403 {object} errors.ErrorResponse
// @Router /api/adminTop/user-preferences [get]
func (h *AdminHandler) UserPreferences(c echo.Context) error {
	stats, err := h.stats.UserPreferences(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
