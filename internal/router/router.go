package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"mealplan/internal/auth"
	"mealplan/internal/errors"
	"mealplan/internal/handler"
	"mealplan/internal/model"
	"mealplan/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Preferences *handler.PreferenceHandler
	Cart        *handler.CartHandler
	Pantry      *handler.PantryHandler
	Recipes     *handler.RecipeHandler
	Grocery     *handler.GroceryHandler
	Admin       *handler.AdminHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, jwtService *auth.JWTService, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireToken := JWTMiddleware(jwtService)

	authGroup := e.Group("/auth")
	authGroup.POST("/signup", h.Auth.Signup)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/profile", h.Auth.Profile, requireToken)
	authGroup.PUT("/updateProfile", h.Auth.UpdateProfile, requireToken)
	authGroup.GET("/krogerLogin", h.Grocery.Login, requireToken)
	// The retailer redirects the browser here, so no bearer token is present.
	authGroup.GET("/krogerCallback", h.Grocery.Callback)

	api := e.Group("/api", requireToken)

	api.GET("/preferences", h.Preferences.GetPreferences)
	api.POST("/cuisineLike", h.Preferences.SetList(model.FieldCuisineLike))
	api.POST("/cuisineDislike", h.Preferences.SetList(model.FieldCuisineDislike))
	api.POST("/diet", h.Preferences.SetList(model.FieldDiet))
	api.POST("/intolerance", h.Preferences.SetList(model.FieldIntolerances))

	api.GET("/favoriteRecipe", h.Preferences.GetFavorites)
	api.POST("/favoriteRecipe", h.Preferences.AddFavorite)
	api.DELETE("/favoriteRecipe", h.Preferences.RemoveFavorite)

	api.GET("/shoppingCart", h.Cart.GetCart)
	api.POST("/shoppingCart", h.Cart.AddItem)
	api.DELETE("/shoppingCart/:itemId", h.Cart.RemoveItem)

	api.GET("/pantry", h.Pantry.GetPantry)
	api.POST("/pantry", h.Pantry.AddItem)
	api.PUT("/pantry/expiration", h.Pantry.SetExpiration)
	api.DELETE("/pantry/:itemId", h.Pantry.RemoveItem)

	api.GET("/recipes/search", h.Recipes.Search)
	api.GET("/recipes/:id", h.Recipes.Get)

	api.POST("/krogerCart/prices", h.Grocery.PriceCart)
	api.POST("/krogerCart/clear", h.Grocery.ClearCart)

	api.GET("/adminRecipes", h.Admin.ListRecipes)

	api.POST("/adminBan/add", h.Admin.AddBannedWord, AdminOnly)
	api.Match([]string{http.MethodGet, http.MethodPost}, "/adminBan/list", h.Admin.ListBannedWords, AdminOnly)
	api.Match([]string{http.MethodGet, http.MethodPost}, "/adminBan/violations", h.Admin.Violations, AdminOnly)
	api.DELETE("/adminBan/:word", h.Admin.RemoveBannedWord, AdminOnly)
	api.POST("/adminCreateRecipe", h.Admin.CreateRecipe, AdminOnly)
	api.POST("/adminCuisine", h.Admin.AttachCuisines, AdminOnly)
	api.POST("/adminDiet", h.Admin.AttachDiets, AdminOnly)
	api.GET("/adminTop/top-favorites", h.Admin.TopFavorites, AdminOnly)
	api.GET("/adminTop/user-preferences", h.Admin.UserPreferences, AdminOnly)
}

// JWTMiddleware verifies the bearer token and stores *auth.Claims under "user".
func JWTMiddleware(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  "user",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return jwtService.ValidateToken(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Message: "missing or invalid token",
				Code:    "UNAUTHORIZED",
			})
		},
	})
}

// AdminOnly rejects callers whose token does not carry the admin role.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get("user").(*auth.Claims)
		if !ok || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Message: "missing or invalid token",
				Code:    "UNAUTHORIZED",
			})
		}
		if !claims.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Message: "admin access required",
				Code:    "FORBIDDEN",
			})
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by the server.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: service.NewStructValidator()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
