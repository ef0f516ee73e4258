package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mealplan/internal/model"
	"mealplan/internal/service"
)

// AuthHandler handles signup, login and profile endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required,alpha"`
	LastName  string `json:"lastName" validate:"required,alpha"`
	Username  string `json:"username" validate:"required,min=3,max=20,nowhitespace"`
	Password  string `json:"password" validate:"required,min=5"`
	Email     string `json:"email" validate:"required,email"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries optional profile changes. A password field is ignored.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,alpha"`
	LastName  *string `json:"lastName" validate:"omitempty,alpha"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Location  *string `json:"location"`
	Username  *string `json:"username" validate:"omitempty,min=3,max=20,nowhitespace"`
}

// TokenResponse is returned by signup and login.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ProfileResponse is the public view of a user.
type ProfileResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Location  string     `json:"location"`
	Role      model.Role `json:"role"`
}

func toProfileResponse(u *model.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Location:  u.Location,
		Role:      u.Role,
	}
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Registration data"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}

	token, _, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Message: "user registered successfully",
		Token:   token,
	})
}

// Login godoc
// @Summary Log in and receive an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(http.StatusOK, TokenResponse{
		Message: "login successful",
		Token:   token,
	})
}

// Profile godoc
// @Summary Get the caller's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/updateProfile [put]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, herr := currentUserID(c)
	if herr != nil {
		return herr
	}

	var req UpdateProfileRequest
	if herr := bindAndValidate(c, &req); herr != nil {
		return herr
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), userID, service.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Location:  req.Location,
		Username:  req.Username,
	})
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toProfileResponse(user))
}
