package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const groceryService = "grocery-api"

// Scopes requested from the retailer.
var (
	userScopes = []string{"cart.basic:write", "product.compact", "profile.compact"}
	appScopes  = []string{"product.compact"}
)

// Location is a retailer store.
type Location struct {
	LocationID string `json:"locationId"`
	Name       string `json:"name"`
	Chain      string `json:"chain,omitempty"`
}

// Product is the best match for a search term at one store.
type Product struct {
	ProductID   string          `json:"productId"`
	Description string          `json:"description"`
	Brand       string          `json:"brand,omitempty"`
	Size        string          `json:"size,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// GroceryAPI is the retailer surface used by the services.
type GroceryAPI interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	UserTokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource
	AppTokenSource() oauth2.TokenSource
	FindLocation(ctx context.Context, ts oauth2.TokenSource, zipCode string) (*Location, error)
	FindProduct(ctx context.Context, ts oauth2.TokenSource, term, locationID string) (*Product, error)
}

// GroceryClient calls a Kroger-compatible product API.
type GroceryClient struct {
	baseURL    string
	oauth      *oauth2.Config
	appTokens  oauth2.TokenSource
	httpClient *http.Client
}

var _ GroceryAPI = (*GroceryClient)(nil)

// NewGroceryClient creates a retailer client. The OAuth endpoints live under
// baseURL/connect/oauth2.
func NewGroceryClient(baseURL, clientID, clientSecret, redirectURI string) *GroceryClient {
	baseURL = strings.TrimRight(baseURL, "/")
	endpoint := oauth2.Endpoint{
		AuthURL:   baseURL + "/connect/oauth2/authorize",
		TokenURL:  baseURL + "/connect/oauth2/token",
		AuthStyle: oauth2.AuthStyleInHeader,
	}

	app := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     endpoint.TokenURL,
		Scopes:       appScopes,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &GroceryClient{
		baseURL: baseURL,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       userScopes,
			Endpoint:     endpoint,
		},
		appTokens:  app.TokenSource(context.Background()),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// AuthCodeURL returns the retailer login page URL carrying state.
func (c *GroceryClient) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for a user token.
func (c *GroceryClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s token exchange: %w", groceryService, err)
	}
	return tok, nil
}

// UserTokenSource returns a source that refreshes tok when it expires.
func (c *GroceryClient) UserTokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return c.oauth.TokenSource(ctx, tok)
}

// AppTokenSource returns the shared client-credentials token source.
func (c *GroceryClient) AppTokenSource() oauth2.TokenSource {
	return c.appTokens
}

// FindLocation calls GET /locations and returns the store nearest to zipCode.
func (c *GroceryClient) FindLocation(ctx context.Context, ts oauth2.TokenSource, zipCode string) (*Location, error) {
	q := url.Values{}
	q.Set("filter.zipCode.near", zipCode)
	q.Set("filter.limit", "1")

	var result struct {
		Data []Location `json:"data"`
	}
	if err := c.get(ctx, ts, "/locations", q, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%s /locations zip %s: %w", groceryService, zipCode, ErrNotFound)
	}
	return &result.Data[0], nil
}

type productItem struct {
	Size  string `json:"size"`
	Price *struct {
		Regular decimal.Decimal `json:"regular"`
		Promo   decimal.Decimal `json:"promo"`
	} `json:"price"`
}

// FindProduct calls GET /products and returns the first priced match for term.
// A promo price wins over the regular one when it is set.
func (c *GroceryClient) FindProduct(ctx context.Context, ts oauth2.TokenSource, term, locationID string) (*Product, error) {
	q := url.Values{}
	q.Set("filter.term", term)
	q.Set("filter.locationId", locationID)
	q.Set("filter.limit", "5")

	var result struct {
		Data []struct {
			ProductID   string        `json:"productId"`
			Description string        `json:"description"`
			Brand       string        `json:"brand"`
			Items       []productItem `json:"items"`
		} `json:"data"`
	}
	if err := c.get(ctx, ts, "/products", q, &result); err != nil {
		return nil, err
	}

	for _, p := range result.Data {
		for _, item := range p.Items {
			if item.Price == nil {
				continue
			}
			price := item.Price.Regular
			if item.Price.Promo.IsPositive() {
				price = item.Price.Promo
			}
			if !price.IsPositive() {
				continue
			}
			return &Product{
				ProductID:   p.ProductID,
				Description: p.Description,
				Brand:       p.Brand,
				Size:        item.Size,
				Price:       price,
			}, nil
		}
	}
	return nil, fmt.Errorf("%s /products term %q: %w", groceryService, term, ErrNotFound)
}

func (c *GroceryClient) get(ctx context.Context, ts oauth2.TokenSource, path string, q url.Values, out any) error {
	tok, err := ts.Token()
	if err != nil {
		return fmt.Errorf("%s %s: token: %w", groceryService, path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%s %s: %w", groceryService, path, err)
	}
	req.Header.Set("Accept", "application/json")
	tok.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", groceryService, path, err)
	}
	defer resp.Body.Close()

	if err := checkResp(resp, groceryService, path); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", groceryService, path, err)
	}
	return nil
}
