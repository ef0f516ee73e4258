package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mealplan/internal/service"
)

// GroceryHandler prices carts at the retailer and links retailer accounts.
type GroceryHandler struct {
	groceryService service.GroceryService
}

// NewGroceryHandler creates a new grocery handler.
func NewGroceryHandler(groceryService service.GroceryService) *GroceryHandler {
	return &GroceryHandler{groceryService: groceryService}
}

// PriceCartRequest names the area whose nearest store prices the cart.
type PriceCartRequest struct {
	ZipCode string `json:"zipCode" validate:"required"`
}

// LoginURLResponse carries the retailer login page to open.
type LoginURLResponse struct {
	URL string `json:"url"`
}

// CallbackRequest is the retailer's OAuth redirect.
type CallbackRequest struct {
	Code  string `query:"code" validate:"required"`
	State string `query:"state" validate:"required"`
}

// PriceCart godoc
// @Summary Price the caller's cart at the nearest store
// @Description Items without a match are listed in not_found and excluded from total_cost.
// @Tags grocery
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PriceCartRequest true "Zip code"
// @Success 200 {object} service.PriceReport
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/krogerCart/prices [post]
func (h *GroceryHandler) PriceCart(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	var req PriceCartRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}

	report, err := h.groceryService.PriceCart(c.Request().Context(), userID, req.ZipCode)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

// ClearCart godoc
// @Summary Empty the caller's cart
// @Tags grocery
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/krogerCart/clear [post]
func (h *GroceryHandler) ClearCart(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	if err := h.groceryService.ClearCart(c.Request().Context(), userID); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "cart cleared"})
}

// Login godoc
// @Summary Start linking a retailer account
// @Tags grocery
// @Produce json
// @Security BearerAuth
// @Success 200 {object} LoginURLResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/krogerLogin [get]
func (h *GroceryHandler) Login(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	url, err := h.groceryService.LoginURL(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, LoginURLResponse{URL: url})
}

// Callback godoc
// @Summary Finish linking a retailer account
// @Tags grocery
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by krogerLogin"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/krogerCallback [get]
func (h *GroceryHandler) Callback(c echo.Context) error {
	var req CallbackRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}
	if err := h.groceryService.HandleCallback(c.Request().Context(), req.Code, req.State); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "grocery account linked"})
}
