package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrCartNotFound is returned when the user has no cart yet.
	ErrCartNotFound = errors.New("cart not found")
	// ErrPantryNotFound is returned when the user has no pantry yet.
	ErrPantryNotFound = errors.New("pantry not found")
	// ErrItemNotFound is returned when a cart or pantry item does not exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrDuplicateItem is returned when a pantry item with the same id already exists.
	ErrDuplicateItem = errors.New("item already exists")
	// ErrBannedWordExists is returned when a banned word is added twice.
	ErrBannedWordExists = errors.New("word is already banned")
	// ErrBannedWordNotFound is returned when removing a word that is not banned.
	ErrBannedWordNotFound = errors.New("banned word not found")
	// ErrRecipeExists is returned when an admin recipe title is already taken.
	ErrRecipeExists = errors.New("recipe with this title already exists")
	// ErrRecipeNotFound is returned when a recipe is not found.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrInvalidOAuthState is returned when a grocery OAuth callback carries an unknown state.
	ErrInvalidOAuthState = errors.New("invalid or expired authorization state")
	// ErrUpstream is returned when an external API call fails and cannot be absorbed.
	ErrUpstream = errors.New("upstream service unavailable")
)

// ValidationError carries a human readable message about malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Anything unrecognised becomes a generic 500 so storage internals never leak.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return NewHTTPError(http.StatusBadRequest, verr.Message, "VALIDATION_ERROR")
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrCartNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CART_NOT_FOUND")
	case errors.Is(err, ErrPantryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PANTRY_NOT_FOUND")
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ITEM_NOT_FOUND")
	case errors.Is(err, ErrDuplicateItem):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_ITEM")
	case errors.Is(err, ErrBannedWordExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "BANNED_WORD_EXISTS")
	case errors.Is(err, ErrBannedWordNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BANNED_WORD_NOT_FOUND")
	case errors.Is(err, ErrRecipeExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "RECIPE_EXISTS")
	case errors.Is(err, ErrRecipeNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RECIPE_NOT_FOUND")
	case errors.Is(err, ErrInvalidOAuthState):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_OAUTH_STATE")
	case errors.Is(err, ErrUpstream):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
