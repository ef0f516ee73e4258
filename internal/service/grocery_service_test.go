package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"mealplan/internal/client"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
)

func product(id, price string) client.Product {
	return client.Product{ProductID: id, Description: id, Price: decimal.RequireFromString(price)}
}

func newPricingFixture(t *testing.T, api *fakeGroceryAPI, opts PriceOptions) (GroceryService, CartService, string) {
	t.Helper()
	userID := uuid.NewString()
	creds := new(MockGroceryCredentialRepository)
	creds.On("FindByUserID", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	carts := NewCartService(newMemCarts())
	svc := NewGroceryService(api, new(MockStateStore), creds, carts, nil, opts)
	return svc, carts, userID
}

func TestGroceryService_PriceCart(t *testing.T) {
	api := &fakeGroceryAPI{prices: map[string]client.Product{
		"milk": product("p-milk", "2.99"),
		"eggs": product("p-eggs", "4.19"),
	}}
	svc, carts, userID := newPricingFixture(t, api, PriceOptions{})
	ctx := context.Background()

	for _, in := range []ItemInput{
		{Name: "milk", Quantity: 2},
		{Name: "unobtainium", Quantity: 1},
		{Name: "eggs", Quantity: 1},
	} {
		_, err := carts.AddItem(ctx, userID, in)
		require.NoError(t, err)
	}

	report, err := svc.PriceCart(ctx, userID, "45202")
	require.NoError(t, err)

	assert.Equal(t, "loc-45202", report.LocationID)
	require.Len(t, report.Found, 2)
	assert.Equal(t, "milk", report.Found[0].Name)
	assert.Equal(t, "5.98", report.Found[0].LineTotal)
	assert.Equal(t, "eggs", report.Found[1].Name)
	assert.Equal(t, "4.19", report.Found[1].UnitPrice)
	assert.Equal(t, []string{"unobtainium"}, report.NotFound)
	assert.Equal(t, "10.17", report.TotalCost)
}

func TestGroceryService_PriceCartEmpty(t *testing.T) {
	svc, _, userID := newPricingFixture(t, &fakeGroceryAPI{}, PriceOptions{})

	report, err := svc.PriceCart(context.Background(), userID, "45202")
	require.NoError(t, err)
	assert.Empty(t, report.Found)
	assert.Empty(t, report.NotFound)
	assert.Equal(t, "0.00", report.TotalCost)
}

func TestGroceryService_PriceCartAbsorbsItemFailures(t *testing.T) {
	api := &fakeGroceryAPI{
		prices:  map[string]client.Product{"bread": product("p-bread", "1.50")},
		failing: map[string]error{"milk": errors.New("grocery-api /products returned 500")},
	}
	svc, carts, userID := newPricingFixture(t, api, PriceOptions{})
	ctx := context.Background()

	_, err := carts.AddItem(ctx, userID, ItemInput{Name: "milk", Quantity: 1})
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, userID, ItemInput{Name: "bread", Quantity: 1})
	require.NoError(t, err)

	report, err := svc.PriceCart(ctx, userID, "45202")
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, report.NotFound)
	assert.Equal(t, "1.50", report.TotalCost)
}

func TestGroceryService_PriceCartBoundsConcurrencyAndTimesOut(t *testing.T) {
	api := &fakeGroceryAPI{
		prices: map[string]client.Product{"a": product("a", "1"), "b": product("b", "1"), "c": product("c", "1"), "d": product("d", "1"), "e": product("e", "1")},
		delay:  20 * time.Millisecond,
	}
	svc, carts, userID := newPricingFixture(t, api, PriceOptions{Concurrency: 2, Timeout: time.Second})
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		_, err := carts.AddItem(ctx, userID, ItemInput{Name: name, Quantity: 1})
		require.NoError(t, err)
	}

	report, err := svc.PriceCart(ctx, userID, "45202")
	require.NoError(t, err)
	assert.Len(t, report.Found, 5)
	assert.Equal(t, "5.00", report.TotalCost)
	assert.LessOrEqual(t, api.peak, 2)

	slow, slowCarts, slowUser := newPricingFixture(t, &fakeGroceryAPI{
		prices: map[string]client.Product{"a": product("a", "1")},
		delay:  time.Second,
	}, PriceOptions{Timeout: 10 * time.Millisecond})
	_, err = slowCarts.AddItem(ctx, slowUser, ItemInput{Name: "a", Quantity: 1})
	require.NoError(t, err)

	report, err = slow.PriceCart(ctx, slowUser, "45202")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, report.NotFound)
}

func TestGroceryService_PriceCartRejectsBadZip(t *testing.T) {
	svc, _, userID := newPricingFixture(t, &fakeGroceryAPI{}, PriceOptions{})

	for _, zip := range []string{"", "abcde", "1234", "00000"} {
		_, err := svc.PriceCart(context.Background(), userID, zip)
		var verr *apperrors.ValidationError
		assert.ErrorAs(t, err, &verr, zip)
	}
}

func TestGroceryService_LoginURL(t *testing.T) {
	states := new(MockStateStore)
	states.On("Issue", mock.Anything, "user-1").Return("nonce", nil)

	svc := NewGroceryService(&fakeGroceryAPI{}, states, new(MockGroceryCredentialRepository), NewCartService(newMemCarts()), nil, PriceOptions{})
	url, err := svc.LoginURL(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Contains(t, url, "state=nonce")
}

func TestGroceryService_HandleCallback(t *testing.T) {
	userID := uuid.New()
	expiry := time.Now().Add(30 * time.Minute)

	tests := []struct {
		name      string
		state     string
		exchange  func(string) (*oauth2.Token, error)
		wantErr   error
		wantSaved bool
	}{
		{
			name:  "stores credential",
			state: "good",
			exchange: func(code string) (*oauth2.Token, error) {
				return &oauth2.Token{AccessToken: "at", RefreshToken: "rt", TokenType: "Bearer", Expiry: expiry}, nil
			},
			wantSaved: true,
		},
		{
			name:    "unknown state",
			state:   "bad",
			wantErr: apperrors.ErrInvalidOAuthState,
		},
		{
			name:  "exchange failure",
			state: "good",
			exchange: func(code string) (*oauth2.Token, error) {
				return nil, errors.New("invalid_grant")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			states := new(MockStateStore)
			states.On("Consume", mock.Anything, "good").Return(userID.String(), nil)
			states.On("Consume", mock.Anything, "bad").Return("", errors.New("state not found"))

			creds := new(MockGroceryCredentialRepository)
			creds.On("Upsert", mock.Anything, mock.MatchedBy(func(c *model.GroceryCredential) bool {
				return c.UserID == userID && c.AccessToken == "at" && c.RefreshToken == "rt"
			})).Return(nil)

			api := &fakeGroceryAPI{exchange: tt.exchange}
			svc := NewGroceryService(api, states, creds, NewCartService(newMemCarts()), nil, PriceOptions{})

			err := svc.HandleCallback(context.Background(), "code", tt.state)

			switch {
			case tt.wantSaved:
				require.NoError(t, err)
				creds.AssertNumberOfCalls(t, "Upsert", 1)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				creds.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
			default:
				require.Error(t, err)
				var verr *apperrors.ValidationError
				assert.False(t, errors.As(err, &verr))
				creds.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestGroceryService_UsesStoredUserToken(t *testing.T) {
	userID := uuid.New()
	creds := new(MockGroceryCredentialRepository)
	creds.On("FindByUserID", mock.Anything, userID).Return(&model.GroceryCredential{
		UserID:      userID,
		AccessToken: "user-token",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}, nil)

	api := &tokenCheckingAPI{fakeGroceryAPI: fakeGroceryAPI{prices: map[string]client.Product{"milk": product("p", "1.00")}}}
	carts := NewCartService(newMemCarts())
	_, err := carts.AddItem(context.Background(), userID.String(), ItemInput{Name: "milk", Quantity: 1})
	require.NoError(t, err)

	svc := NewGroceryService(api, new(MockStateStore), creds, carts, nil, PriceOptions{})
	report, err := svc.PriceCart(context.Background(), userID.String(), "45202")

	require.NoError(t, err)
	assert.Equal(t, "1.00", report.TotalCost)
	assert.Equal(t, "user-token", api.seen)
	creds.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// tokenCheckingAPI records the access token used for product lookups.
type tokenCheckingAPI struct {
	fakeGroceryAPI
	seen string
}

func (a *tokenCheckingAPI) FindProduct(ctx context.Context, ts oauth2.TokenSource, term, locationID string) (*client.Product, error) {
	tok, err := ts.Token()
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.seen = tok.AccessToken
	a.mu.Unlock()
	return a.fakeGroceryAPI.FindProduct(ctx, ts, term, locationID)
}

func TestGroceryService_FallsBackToAppTokenWhenRefreshFails(t *testing.T) {
	userID := uuid.New()
	creds := new(MockGroceryCredentialRepository)
	creds.On("FindByUserID", mock.Anything, userID).Return(&model.GroceryCredential{
		UserID:       userID,
		AccessToken:  "stale",
		RefreshToken: "revoked",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(-time.Hour),
	}, nil)

	api := &revokedUserTokenAPI{tokenCheckingAPI: tokenCheckingAPI{
		fakeGroceryAPI: fakeGroceryAPI{prices: map[string]client.Product{"milk": product("p", "2.50")}},
	}}
	carts := NewCartService(newMemCarts())
	_, err := carts.AddItem(context.Background(), userID.String(), ItemInput{Name: "milk", Quantity: 2})
	require.NoError(t, err)

	svc := NewGroceryService(api, new(MockStateStore), creds, carts, nil, PriceOptions{})
	report, err := svc.PriceCart(context.Background(), userID.String(), "45202")

	require.NoError(t, err)
	assert.Equal(t, "5.00", report.TotalCost)
	assert.Empty(t, report.NotFound)
	assert.Equal(t, "app", api.seen)
	creds.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

// revokedUserTokenAPI hands out user token sources that can never refresh.
type revokedUserTokenAPI struct {
	tokenCheckingAPI
}

func (a *revokedUserTokenAPI) UserTokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return failingTokenSource{err: errors.New("oauth2: invalid_grant")}
}

type failingTokenSource struct {
	err error
}

func (f failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, f.err
}
