package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"mealplan/internal/cache"
)

const (
	oauthStateKeyPrefix = "grocery_oauth_state:"
	// OAuthStateTTL bounds how long a user has to finish the retailer login.
	OAuthStateTTL = 10 * time.Minute
)

// ErrStateNotFound means the state was never issued, expired or was already used.
var ErrStateNotFound = errors.New("state not found")

// StateStoreInterface defines the interface for OAuth state storage operations.
type StateStoreInterface interface {
	Issue(ctx context.Context, userID string) (state string, err error)
	Consume(ctx context.Context, state string) (userID string, err error)
}

// StateStore keeps grocery OAuth state nonces in Redis so the callback can be
// tied back to the user who started the flow, on any instance.
type StateStore struct {
	cache *cache.Client
	ttl   time.Duration
}

// Ensure StateStore implements StateStoreInterface
var _ StateStoreInterface = (*StateStore)(nil)

// NewStateStore creates a new state store.
func NewStateStore(cache *cache.Client) *StateStore {
	return &StateStore{cache: cache, ttl: OAuthStateTTL}
}

// Issue generates a random state and remembers which user it belongs to.
func (s *StateStore) Issue(ctx context.Context, userID string) (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(nonce)

	if err := s.cache.SetStrict(ctx, oauthStateKeyPrefix+state, []byte(userID), s.ttl); err != nil {
		return "", fmt.Errorf("store state: %w", err)
	}
	return state, nil
}

// Consume returns the user that owns state and deletes it in the same
// command, so two callbacks racing on one state cannot both succeed.
func (s *StateStore) Consume(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", ErrStateNotFound
	}
	data, err := s.cache.GetDelStrict(ctx, oauthStateKeyPrefix+state)
	if errors.Is(err, cache.ErrMiss) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", fmt.Errorf("consume state: %w", err)
	}
	return string(data), nil
}
