package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mealplan/internal/service"
)

// CartHandler serves the caller's shopping cart.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddCartItemRequest adds one line to the cart. itemId is generated when omitted.
type AddCartItemRequest struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Origin   string `json:"origin"`
}

// GetCart godoc
// @Summary Get the caller's shopping cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Cart
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/shoppingCart [get]
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	cart, err := h.cartService.Get(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem godoc
// @Summary Append an item to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddCartItemRequest true "Item"
// @Success 201 {object} model.CartItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /api/shoppingCart [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	var req AddCartItemRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}

	item, err := h.cartService.AddItem(c.Request().Context(), userID, service.ItemInput{
		ItemID:   req.ItemID,
		Name:     req.ItemName,
		Quantity: req.Quantity,
		Origin:   req.Origin,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// RemoveItem godoc
// @Summary Remove an item from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param itemId path string true "Item ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/shoppingCart/{itemId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}
	if err := h.cartService.RemoveItem(c.Request().Context(), userID, c.Param("itemId")); err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "item removed"})
}
