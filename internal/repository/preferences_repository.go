package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"mealplan/internal/db"
	"mealplan/internal/model"
)

// PreferencesRepository defines preference document operations.
type PreferencesRepository interface {
	// Get returns nil, nil when the user has no preferences yet.
	Get(ctx context.Context, userID string) (*model.Preferences, error)
	SetList(ctx context.Context, userID string, field model.PreferenceField, values []string) error
	AddFavorite(ctx context.Context, userID string, recipeID int64) error
	RemoveFavorite(ctx context.Context, userID string, recipeID int64) error
	TopFavorites(ctx context.Context, limit int) ([]model.FavoriteCount, error)
	CountValues(ctx context.Context, field model.PreferenceField) ([]model.ValueCount, error)
}

type preferencesRepository struct {
	docs userDocuments
}

// NewPreferencesRepository creates a Mongo-backed preferences repository.
func NewPreferencesRepository(database *mongo.Database) PreferencesRepository {
	return &preferencesRepository{docs: userDocuments{col: database.Collection(db.PreferencesCollection)}}
}

func (r *preferencesRepository) Get(ctx context.Context, userID string) (*model.Preferences, error) {
	var prefs model.Preferences
	found, err := r.docs.find(ctx, userID, &prefs)
	if err != nil || !found {
		return nil, err
	}
	prefs.Normalize()
	return &prefs, nil
}

func (r *preferencesRepository) SetList(ctx context.Context, userID string, field model.PreferenceField, values []string) error {
	if values == nil {
		values = []string{}
	}
	return r.docs.setField(ctx, userID, string(field), values)
}

func (r *preferencesRepository) AddFavorite(ctx context.Context, userID string, recipeID int64) error {
	return r.docs.addToSet(ctx, userID, "favoriteRecipes", recipeID)
}

func (r *preferencesRepository) RemoveFavorite(ctx context.Context, userID string, recipeID int64) error {
	return r.docs.pull(ctx, userID, "favoriteRecipes", recipeID)
}

// TopFavorites counts how many users favorited each recipe, most popular first.
func (r *preferencesRepository) TopFavorites(ctx context.Context, limit int) ([]model.FavoriteCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$favoriteRecipes"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$favoriteRecipes"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	out := []model.FavoriteCount{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, fmt.Errorf("top favorites: %w", err)
	}
	return out, nil
}

// CountValues counts users per value of a preference list, case-insensitively.
func (r *preferencesRepository) CountValues(ctx context.Context, field model.PreferenceField) ([]model.ValueCount, error) {
	path := "$" + string(field)
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: path}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$toLower", Value: path}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	out := []model.ValueCount{}
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, fmt.Errorf("count %s: %w", field, err)
	}
	return out, nil
}

func (r *preferencesRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	cur, err := r.docs.col.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}
