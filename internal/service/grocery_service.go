package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"mealplan/internal/auth"
	"mealplan/internal/cache"
	"mealplan/internal/client"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
	"mealplan/internal/repository"
)

const (
	locationCacheTTL          = 24 * time.Hour
	defaultPriceConcurrency   = 4
	defaultPriceLookupTimeout = 5 * time.Second
)

var zipPattern = regexp.MustCompile(`^\d{5}$`)

// PricedItem is a cart line matched to a store product.
type PricedItem struct {
	ItemID      string `json:"item_id"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	ProductID   string `json:"product_id"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

// PriceReport is the result of pricing a cart at the nearest store.
type PriceReport struct {
	LocationID string       `json:"location_id"`
	Found      []PricedItem `json:"found"`
	NotFound   []string     `json:"not_found"`
	TotalCost  string       `json:"total_cost"`
}

// PriceOptions bounds the per-item price lookups.
type PriceOptions struct {
	Concurrency int
	Timeout     time.Duration
}

// GroceryService prices carts against the retailer and runs its OAuth flow.
type GroceryService interface {
	LoginURL(ctx context.Context, userID string) (string, error)
	HandleCallback(ctx context.Context, code, state string) error
	PriceCart(ctx context.Context, userID, zipCode string) (*PriceReport, error)
	ClearCart(ctx context.Context, userID string) error
}

type groceryService struct {
	api    client.GroceryAPI
	states auth.StateStoreInterface
	creds  repository.GroceryCredentialRepository
	carts  CartService
	cache  *cache.Client
	opts   PriceOptions
}

// NewGroceryService creates a new grocery service.
func NewGroceryService(
	api client.GroceryAPI,
	states auth.StateStoreInterface,
	creds repository.GroceryCredentialRepository,
	carts CartService,
	cache *cache.Client,
	opts PriceOptions,
) GroceryService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultPriceConcurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultPriceLookupTimeout
	}
	return &groceryService{
		api:    api,
		states: states,
		creds:  creds,
		carts:  carts,
		cache:  cache,
		opts:   opts,
	}
}

// LoginURL starts the retailer OAuth flow for the user.
func (s *groceryService) LoginURL(ctx context.Context, userID string) (string, error) {
	state, err := s.states.Issue(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("issue oauth state: %w", err)
	}
	return s.api.AuthCodeURL(state), nil
}

// HandleCallback finishes the OAuth flow and stores the user's token.
func (s *groceryService) HandleCallback(ctx context.Context, code, state string) error {
	userID, err := s.states.Consume(ctx, state)
	if err != nil {
		return apperrors.ErrInvalidOAuthState
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return apperrors.ErrInvalidOAuthState
	}
	if strings.TrimSpace(code) == "" {
		return apperrors.NewValidationError("code is required")
	}

	tok, err := s.api.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	return s.saveToken(ctx, id, tok)
}

func (s *groceryService) saveToken(ctx context.Context, userID uuid.UUID, tok *oauth2.Token) error {
	cred := &model.GroceryCredential{
		UserID:       userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.Type(),
		Expiry:       tok.Expiry,
	}
	if err := s.creds.Upsert(ctx, cred); err != nil {
		return fmt.Errorf("save grocery credential: %w", err)
	}
	return nil
}

// ClearCart empties the user's cart.
func (s *groceryService) ClearCart(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}

// PriceCart prices every cart line at the store nearest to zipCode. Lookups
// run concurrently with a per-item deadline; an item that cannot be priced
// lands in NotFound and never fails the whole report.
func (s *groceryService) PriceCart(ctx context.Context, userID, zipCode string) (*PriceReport, error) {
	zipCode = strings.TrimSpace(zipCode)
	if !zipPattern.MatchString(zipCode) {
		return nil, apperrors.NewValidationError("zipCode must be 5 digits")
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	ts, stored := s.tokenSource(ctx, userID)

	loc, err := s.location(ctx, ts, zipCode)
	if err != nil {
		return nil, err
	}

	products := make([]*client.Product, len(cart.Items))
	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, item := range cart.Items {
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
			defer cancel()

			p, err := s.api.FindProduct(itemCtx, ts, item.Name, loc.LocationID)
			if err != nil {
				if !errors.Is(err, client.ErrNotFound) {
					log.Printf("grocery: price lookup for %q failed: %v", item.Name, err)
				}
				return nil
			}
			products[i] = p
			return nil
		})
	}
	_ = g.Wait()

	report := buildReport(loc.LocationID, cart.Items, products)
	s.persistRefreshedToken(ctx, userID, ts, stored)
	return report, nil
}

func buildReport(locationID string, items []model.CartItem, products []*client.Product) *PriceReport {
	report := &PriceReport{
		LocationID: locationID,
		Found:      []PricedItem{},
		NotFound:   []string{},
	}
	total := decimal.Zero
	for i, item := range items {
		p := products[i]
		if p == nil {
			report.NotFound = append(report.NotFound, item.Name)
			continue
		}
		line := p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
		report.Found = append(report.Found, PricedItem{
			ItemID:      item.ID,
			Name:        item.Name,
			Quantity:    item.Quantity,
			ProductID:   p.ProductID,
			Description: p.Description,
			UnitPrice:   p.Price.StringFixed(2),
			LineTotal:   line.StringFixed(2),
		})
	}
	report.TotalCost = total.StringFixed(2)
	return report
}

// tokenSource prefers the user's stored retailer token and falls back to the
// app-level client-credentials token when there is none or it cannot be refreshed.
func (s *groceryService) tokenSource(ctx context.Context, userID string) (oauth2.TokenSource, *model.GroceryCredential) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return s.api.AppTokenSource(), nil
	}
	cred, err := s.creds.FindByUserID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("grocery: load credential for %s: %v", userID, err)
		}
		return s.api.AppTokenSource(), nil
	}
	tok := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		TokenType:    cred.TokenType,
		Expiry:       cred.Expiry,
	}
	ts := s.api.UserTokenSource(ctx, tok)
	// a revoked or unrefreshable user token must not fail every lookup
	if _, err := ts.Token(); err != nil {
		log.Printf("grocery: user token for %s unusable, using app token: %v", userID, err)
		return s.api.AppTokenSource(), nil
	}
	return ts, cred
}

func (s *groceryService) persistRefreshedToken(ctx context.Context, userID string, ts oauth2.TokenSource, stored *model.GroceryCredential) {
	if stored == nil {
		return
	}
	tok, err := ts.Token()
	if err != nil || tok.AccessToken == stored.AccessToken {
		return
	}
	if err := s.saveToken(ctx, stored.UserID, tok); err != nil {
		log.Printf("grocery: persist refreshed token for %s: %v", userID, err)
	}
}

func (s *groceryService) location(ctx context.Context, ts oauth2.TokenSource, zipCode string) (*client.Location, error) {
	key := "grocery:location:" + zipCode
	var cached client.Location
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	loc, err := s.api.FindLocation(ctx, ts, zipCode)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return nil, apperrors.NewValidationError("no store found near zip code " + zipCode)
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	s.cache.SetJSON(ctx, key, loc, locationCacheTTL)
	return loc, nil
}
