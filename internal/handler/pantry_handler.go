package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"mealplan/internal/errors"
	"mealplan/internal/service"
)

// PantryHandler serves the caller's pantry.
type PantryHandler struct {
	pantryService service.PantryService
}

// NewPantryHandler creates a new pantry handler.
func NewPantryHandler(pantryService service.PantryService) *PantryHandler {
	return &PantryHandler{pantryService: pantryService}
}

// AddPantryItemRequest adds one item to the pantry. itemId is generated when omitted.
type AddPantryItemRequest struct {
	ItemID         string  `json:"itemId"`
	ItemName       string  `json:"itemName" validate:"required"`
	Quantity       int     `json:"quantity" validate:"required,min=1"`
	Origin         string  `json:"origin"`
	ExpirationDate *string `json:"expirationDate" example:"2026-03-01"`
}

// SetExpirationRequest sets or, with a null date, clears an item's expiration.
type SetExpirationRequest struct {
	ItemID         string  `json:"itemId" validate:"required"`
	ExpirationDate *string `json:"expirationDate" example:"2026-03-01"`
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	s := strings.TrimSpace(*raw)
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.NewValidationError("expirationDate must be YYYY-MM-DD or RFC 3339")
}

// GetPantry godoc
// @Summary Get the caller's pantry
// @Tags pantry
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Pantry
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/pantry [get]
func (h *PantryHandler) GetPantry(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	pantry, err := h.pantryService.Get(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, pantry)
}

// AddItem godoc
// @Summary Add an item to the pantry
// @Tags pantry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddPantryItemRequest true "Item"
// @Success 201 {object} model.PantryItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/pantry [post]
func (h *PantryHandler) AddItem(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	var req AddPantryItemRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}
	expiration, err := parseDate(req.ExpirationDate)
	if err != nil {
		return handleServiceError(c, err)
	}

	item, err := h.pantryService.AddItem(c.Request().Context(), userID, service.ItemInput{
		ItemID:         req.ItemID,
		Name:           req.ItemName,
		Quantity:       req.Quantity,
		Origin:         req.Origin,
		ExpirationDate: expiration,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// RemoveItem godoc
// @Summary Remove an item from the pantry
// @Tags pantry
// @Produce json
// @Security BearerAuth
// @Param itemId path string true "Item ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/pantry/{itemId} [delete]
func (h *PantryHandler) RemoveItem(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	if err := h.pantryService.RemoveItem(c.Request().Context(), userID, c.Param("itemId")); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "item removed"})
}

// SetExpiration godoc
// @Summary Set or clear a pantry item's expiration date
// @Tags pantry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetExpirationRequest true "Item and date"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/pantry/expiration [put]
func (h *PantryHandler) SetExpiration(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	var req SetExpirationRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}
	expiration, err := parseDate(req.ExpirationDate)
	if err != nil {
		return handleServiceError(c, err)
	}

	if err := h.pantryService.SetExpiration(c.Request().Context(), userID, req.ItemID, expiration); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "expiration updated"})
}
