package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"mealplan/internal/auth"
	"mealplan/internal/errors"
)

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// handleServiceError maps a service error to an HTTP error. Failures that end
// up as 5xx are logged with the request id and answered with a generic message.
func handleServiceError(c echo.Context, err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s (request %s): %v",
			c.Request().Method, c.Path(), c.Response().Header().Get(echo.HeaderXRequestID), err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bindAndValidate decodes the request into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) *echo.HTTPError {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: "invalid request body",
			Code:    "INVALID_REQUEST",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Message: err.Error(),
			Code:    "VALIDATION_ERROR",
		})
	}
	return nil
}

// currentClaims returns the claims the JWT middleware stored for this request.
func currentClaims(c echo.Context) (*auth.Claims, *echo.HTTPError) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Message: "missing or invalid token",
			Code:    "UNAUTHORIZED",
		})
	}
	return claims, nil
}

// currentUserID is currentClaims narrowed to the caller's id.
func currentUserID(c echo.Context) (string, *echo.HTTPError) {
	claims, herr := currentClaims(c)
	if herr != nil {
		return "", herr
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Message: "missing or invalid token",
			Code:    "UNAUTHORIZED",
		})
	}
	return claims.UserID, nil
}
