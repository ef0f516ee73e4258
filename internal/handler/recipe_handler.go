package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"mealplan/internal/errors"
	"mealplan/internal/service"
)

// RecipeHandler proxies recipe lookups to the external recipe API.
type RecipeHandler struct {
	recipeService service.RecipeService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// RecipeSearchRequest holds search filters. Empty filters fall back to the
// caller's preferences.
type RecipeSearchRequest struct {
	Query        string `query:"query"`
	Cuisine      string `query:"cuisine"`
	Diet         string `query:"diet"`
	Intolerances string `query:"intolerances"`
	Number       int    `query:"number" validate:"gte=0"`
}

// Search godoc
// @Summary Search recipes
// @Description Filters left empty are filled from the caller's preferences. An upstream failure yields an empty result.
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param query query string false "Free text"
// @Param cuisine query string false "Comma separated cuisines"
// @Param diet query string false "Comma separated diets"
// @Param intolerances query string false "Comma separated intolerances"
// @Param number query int false "Max results"
// @Success 200 {object} client.SearchResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/recipes/search [get]
func (h *RecipeHandler) Search(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	var req RecipeSearchRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}

	result, err := h.recipeService.Search(c.Request().Context(), userID, service.RecipeQuery{
		Query:        req.Query,
		Cuisine:      req.Cuisine,
		Diet:         req.Diet,
		Intolerances: req.Intolerances,
		Number:       req.Number,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary Get recipe details
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} client.Recipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/recipes/{id} [get]
func (h *RecipeHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid recipe id",
			Code:    "VALIDATION_ERROR",
		})
	}

	recipe, err := h.recipeService.Get(c.Request().Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, recipe)
}
