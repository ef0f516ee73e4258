package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"mealplan/internal/auth"
	"mealplan/internal/model"
	"mealplan/internal/service"
)

const testUserID = "5d6b1a3e-2c51-4f0e-9a3b-0c5e8f1d2a47"

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// newContext builds a request context. A nil claims value leaves the request
// unauthenticated.
func newContext(method, target, body string, claims *auth.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: service.NewStructValidator()}

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec
}

func userClaims() *auth.Claims {
	return &auth.Claims{UserID: testUserID, Username: "janedoe", Role: model.RoleUser}
}

func adminClaims() *auth.Claims {
	return &auth.Claims{UserID: testUserID, Username: "root", Role: model.RoleAdmin}
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (string, *model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAuthService) Profile(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, upd service.ProfileUpdate) (*model.User, error) {
	args := m.Called(ctx, userID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, userID string) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID string, in service.ItemInput) (*model.CartItem, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartItem), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *MockCartService) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockPantryService struct {
	mock.Mock
}

func (m *MockPantryService) Get(ctx context.Context, userID string) (*model.Pantry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Pantry), args.Error(1)
}

func (m *MockPantryService) AddItem(ctx context.Context, userID string, in service.ItemInput) (*model.PantryItem, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PantryItem), args.Error(1)
}

func (m *MockPantryService) RemoveItem(ctx context.Context, userID, itemID string) error {
	return m.Called(ctx, userID, itemID).Error(0)
}

func (m *MockPantryService) SetExpiration(ctx context.Context, userID, itemID string, expiration *time.Time) error {
	return m.Called(ctx, userID, itemID, expiration).Error(0)
}

type MockPreferenceService struct {
	mock.Mock
}

func (m *MockPreferenceService) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Preferences), args.Error(1)
}

func (m *MockPreferenceService) SetList(ctx context.Context, userID string, field model.PreferenceField, values []string) (*model.Preferences, error) {
	args := m.Called(ctx, userID, field, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Preferences), args.Error(1)
}

func (m *MockPreferenceService) AddFavorite(ctx context.Context, userID string, recipeID int64) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockPreferenceService) RemoveFavorite(ctx context.Context, userID string, recipeID int64) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockPreferenceService) Favorites(ctx context.Context, userID string) (*service.FavoriteRecipes, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FavoriteRecipes), args.Error(1)
}

type MockModerationService struct {
	mock.Mock
}

func (m *MockModerationService) AddWord(ctx context.Context, word, addedBy string) (*model.BannedWord, error) {
	args := m.Called(ctx, word, addedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BannedWord), args.Error(1)
}

func (m *MockModerationService) ListWords(ctx context.Context) ([]model.BannedWord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BannedWord), args.Error(1)
}

func (m *MockModerationService) RemoveWord(ctx context.Context, word string) error {
	return m.Called(ctx, word).Error(0)
}

func (m *MockModerationService) Violations(ctx context.Context) ([]service.Violation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.Violation), args.Error(1)
}
