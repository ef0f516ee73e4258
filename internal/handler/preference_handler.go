package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mealplan/internal/model"
	"mealplan/internal/service"
)

// PreferenceHandler serves the caller's preferences and favorite recipes.
type PreferenceHandler struct {
	prefService service.PreferenceService
}

// NewPreferenceHandler creates a new preference handler.
func NewPreferenceHandler(prefService service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefService: prefService}
}

// PreferenceListRequest carries one replacement list. Only the key matching
// the endpoint is read.
type PreferenceListRequest struct {
	CuisineLike    []string `json:"cuisineLike"`
	CuisineDislike []string `json:"cuisineDislike"`
	Diet           []string `json:"diet"`
	Intolerances   []string `json:"intolerances"`
}

func (r *PreferenceListRequest) values(field model.PreferenceField) []string {
	switch field {
	case model.FieldCuisineLike:
		return r.CuisineLike
	case model.FieldCuisineDislike:
		return r.CuisineDislike
	case model.FieldDiet:
		return r.Diet
	case model.FieldIntolerances:
		return r.Intolerances
	}
	return nil
}

// FavoriteRequest names a recipe of the external recipe API.
type FavoriteRequest struct {
	RecipeID int64 `json:"recipeId" query:"recipeId" validate:"required,gt=0"`
}

// GetPreferences godoc
// @Summary Get the caller's preferences
// @Tags preferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Preferences
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/preferences [get]
func (h *PreferenceHandler) GetPreferences(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	prefs, err := h.prefService.Get(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, prefs)
}

// SetList returns a handler replacing one preference list wholesale.
// @Summary Replace a preference list
// @Description Backs POST /api/cuisineLike, /api/cuisineDislike, /api/diet and /api/intolerance.
// @Tags preferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PreferenceListRequest true "Replacement list under the endpoint's key"
// @Success 200 {object} model.Preferences
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/cuisineLike [post]
func (h *PreferenceHandler) SetList(field model.PreferenceField) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, herr := currentUserID(c)
		if herr != nil {
			return herr
		}

		var req PreferenceListRequest
		if herr := bindAndValidate(c, &req); herr != nil {
			return herr
		}

		prefs, err := h.prefService.SetList(c.Request().Context(), userID, field, req.values(field))
		if err != nil {
			return handleServiceError(c, err)
		}
		return c.JSON(http.StatusOK, prefs)
	}
}

// GetFavorites godoc
// @Summary List favorite recipes with best-effort details
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.FavoriteRecipes
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/favoriteRecipe [get]
func (h *PreferenceHandler) GetFavorites(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	favs, err := h.prefService.Favorites(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, favs)
}

// AddFavorite godoc
// @Summary Add a favorite recipe
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FavoriteRequest true "Recipe"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/favoriteRecipe [post]
func (h *PreferenceHandler) AddFavorite(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	var req FavoriteRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}
	if err := h.prefService.AddFavorite(c.Request().Context(), userID, req.RecipeID); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "favorite added"})
}

// RemoveFavorite godoc
// @Summary Remove a favorite recipe
// @Description Removing a recipe that is not a favorite succeeds.
// @Tags favorites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body FavoriteRequest true "Recipe"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/favoriteRecipe [delete]
func (h *PreferenceHandler) RemoveFavorite(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	var req FavoriteRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}
	if err := h.prefService.RemoveFavorite(c.Request().Context(), userID, req.RecipeID); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "favorite removed"})
}
