package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"mealplan/internal/client"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockBannedWordRepository is a mock implementation of BannedWordRepository.
type MockBannedWordRepository struct {
	mock.Mock
}

func (m *MockBannedWordRepository) Create(ctx context.Context, word *model.BannedWord) error {
	args := m.Called(ctx, word)
	return args.Error(0)
}

func (m *MockBannedWordRepository) FindByWord(ctx context.Context, word string) (*model.BannedWord, error) {
	args := m.Called(ctx, word)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BannedWord), args.Error(1)
}

func (m *MockBannedWordRepository) List(ctx context.Context) ([]model.BannedWord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BannedWord), args.Error(1)
}

func (m *MockBannedWordRepository) Delete(ctx context.Context, word string) (bool, error) {
	args := m.Called(ctx, word)
	return args.Bool(0), args.Error(1)
}

// MockAdminRecipeRepository is a mock implementation of AdminRecipeRepository.
type MockAdminRecipeRepository struct {
	mock.Mock
}

func (m *MockAdminRecipeRepository) Create(ctx context.Context, recipe *model.AdminRecipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockAdminRecipeRepository) Update(ctx context.Context, recipe *model.AdminRecipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockAdminRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AdminRecipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminRecipe), args.Error(1)
}

func (m *MockAdminRecipeRepository) FindByTitle(ctx context.Context, title string) (*model.AdminRecipe, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminRecipe), args.Error(1)
}

func (m *MockAdminRecipeRepository) List(ctx context.Context) ([]model.AdminRecipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AdminRecipe), args.Error(1)
}

// MockGroceryCredentialRepository is a mock implementation of GroceryCredentialRepository.
type MockGroceryCredentialRepository struct {
	mock.Mock
}

func (m *MockGroceryCredentialRepository) Upsert(ctx context.Context, cred *model.GroceryCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockGroceryCredentialRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.GroceryCredential, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroceryCredential), args.Error(1)
}

// MockStateStore is a mock implementation of StateStoreInterface.
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Issue(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockStateStore) Consume(ctx context.Context, state string) (string, error) {
	args := m.Called(ctx, state)
	return args.String(0), args.Error(1)
}

// MockRecipeAPI is a mock implementation of client.RecipeAPI.
type MockRecipeAPI struct {
	mock.Mock
}

func (m *MockRecipeAPI) Search(ctx context.Context, params client.SearchParams) (*client.SearchResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.SearchResult), args.Error(1)
}

func (m *MockRecipeAPI) Information(ctx context.Context, id int64) (*client.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Recipe), args.Error(1)
}

func (m *MockRecipeAPI) InformationBulk(ctx context.Context, ids []int64) ([]client.Recipe, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Recipe), args.Error(1)
}

// fakeGroceryAPI prices products from a fixed table and records lookup concurrency.
type fakeGroceryAPI struct {
	prices   map[string]client.Product
	failing  map[string]error
	delay    time.Duration
	exchange func(code string) (*oauth2.Token, error)

	mu       sync.Mutex
	inFlight int
	peak     int
}

func (f *fakeGroceryAPI) AuthCodeURL(state string) string {
	return "https://grocer.example/authorize?state=" + state
}

func (f *fakeGroceryAPI) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return f.exchange(code)
}

func (f *fakeGroceryAPI) UserTokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return oauth2.StaticTokenSource(tok)
}

func (f *fakeGroceryAPI) AppTokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "app"})
}

func (f *fakeGroceryAPI) FindLocation(ctx context.Context, ts oauth2.TokenSource, zipCode string) (*client.Location, error) {
	if zipCode == "00000" {
		return nil, client.ErrNotFound
	}
	return &client.Location{LocationID: "loc-" + zipCode, Name: "Store"}, nil
}

func (f *fakeGroceryAPI) FindProduct(ctx context.Context, ts oauth2.TokenSource, term, locationID string) (*client.Product, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.failing[term]; ok {
		return nil, err
	}
	p, ok := f.prices[term]
	if !ok {
		return nil, client.ErrNotFound
	}
	return &p, nil
}

// memPreferences is an in-memory PreferencesRepository.
type memPreferences struct {
	mu   sync.Mutex
	docs map[string]*model.Preferences
}

func newMemPreferences() *memPreferences {
	return &memPreferences{docs: map[string]*model.Preferences{}}
}

func (r *memPreferences) doc(userID string) *model.Preferences {
	p, ok := r.docs[userID]
	if !ok {
		p = model.EmptyPreferences(userID)
		r.docs[userID] = p
	}
	return p
}

func (r *memPreferences) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	cp.FavoriteRecipes = append([]int64{}, p.FavoriteRecipes...)
	return &cp, nil
}

func (r *memPreferences) SetList(ctx context.Context, userID string, field model.PreferenceField, values []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.doc(userID)
	switch field {
	case model.FieldCuisineLike:
		p.CuisineLike = values
	case model.FieldCuisineDislike:
		p.CuisineDislike = values
	case model.FieldDiet:
		p.Diet = values
	case model.FieldIntolerances:
		p.Intolerances = values
	}
	return nil
}

func (r *memPreferences) AddFavorite(ctx context.Context, userID string, recipeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.doc(userID)
	for _, id := range p.FavoriteRecipes {
		if id == recipeID {
			return nil
		}
	}
	p.FavoriteRecipes = append(p.FavoriteRecipes, recipeID)
	return nil
}

func (r *memPreferences) RemoveFavorite(ctx context.Context, userID string, recipeID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.docs[userID]
	if !ok {
		return nil
	}
	kept := p.FavoriteRecipes[:0]
	for _, id := range p.FavoriteRecipes {
		if id != recipeID {
			kept = append(kept, id)
		}
	}
	p.FavoriteRecipes = kept
	return nil
}

func (r *memPreferences) TopFavorites(ctx context.Context, limit int) ([]model.FavoriteCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[int64]int{}
	for _, p := range r.docs {
		for _, id := range p.FavoriteRecipes {
			counts[id]++
		}
	}
	out := []model.FavoriteCount{}
	for id, n := range counts {
		out = append(out, model.FavoriteCount{RecipeID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].RecipeID < out[j].RecipeID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memPreferences) CountValues(ctx context.Context, field model.PreferenceField) ([]model.ValueCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	for _, p := range r.docs {
		for _, v := range p.Field(field) {
			counts[strings.ToLower(v)]++
		}
	}
	out := []model.ValueCount{}
	for v, n := range counts {
		out = append(out, model.ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

// memCarts is an in-memory CartRepository.
type memCarts struct {
	mu    sync.Mutex
	carts map[string][]model.CartItem
}

func newMemCarts() *memCarts {
	return &memCarts{carts: map[string][]model.CartItem{}}
}

func (r *memCarts) Get(ctx context.Context, userID string) (*model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	return &model.Cart{UserID: userID, Items: append([]model.CartItem{}, items...)}, nil
}

func (r *memCarts) AddItem(ctx context.Context, userID string, item model.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = append(r.carts[userID], item)
	return nil
}

func (r *memCarts) RemoveItem(ctx context.Context, userID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.carts[userID]
	if !ok {
		return apperrors.ErrCartNotFound
	}
	kept := []model.CartItem{}
	for _, it := range items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return apperrors.ErrItemNotFound
	}
	r.carts[userID] = kept
	return nil
}

func (r *memCarts) Clear(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[userID]; ok {
		r.carts[userID] = []model.CartItem{}
	}
	return nil
}

// memPantries is an in-memory PantryRepository.
type memPantries struct {
	mu       sync.Mutex
	pantries map[string][]model.PantryItem
}

func newMemPantries() *memPantries {
	return &memPantries{pantries: map[string][]model.PantryItem{}}
}

func (r *memPantries) Get(ctx context.Context, userID string) (*model.Pantry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.pantries[userID]
	if !ok {
		return nil, nil
	}
	return &model.Pantry{UserID: userID, Items: append([]model.PantryItem{}, items...)}, nil
}

func (r *memPantries) AddItem(ctx context.Context, userID string, item model.PantryItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.pantries[userID] {
		if it.ID == item.ID {
			return apperrors.ErrDuplicateItem
		}
	}
	r.pantries[userID] = append(r.pantries[userID], item)
	return nil
}

func (r *memPantries) RemoveItem(ctx context.Context, userID, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.pantries[userID]
	if !ok {
		return apperrors.ErrPantryNotFound
	}
	for i, it := range items {
		if it.ID == itemID {
			r.pantries[userID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrItemNotFound
}

func (r *memPantries) SetExpiration(ctx context.Context, userID, itemID string, expiration *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.pantries[userID]
	if !ok {
		return apperrors.ErrPantryNotFound
	}
	for i := range items {
		if items[i].ID == itemID {
			items[i].ExpirationDate = expiration
			return nil
		}
	}
	return apperrors.ErrItemNotFound
}
