package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PreferenceField names one of the replace-whole-array preference lists.
type PreferenceField string

const (
	FieldCuisineLike    PreferenceField = "cuisineLike"
	FieldCuisineDislike PreferenceField = "cuisineDislike"
	FieldDiet           PreferenceField = "diet"
	FieldIntolerances   PreferenceField = "intolerances"
)

// PreferenceFields lists the replaceable preference fields in display order.
var PreferenceFields = []PreferenceField{
	FieldCuisineLike, FieldCuisineDislike, FieldDiet, FieldIntolerances,
}

// Preferences is the per-user preference document.
type Preferences struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          string             `json:"userId" bson:"userId"`
	CuisineLike     []string           `json:"cuisineLike" bson:"cuisineLike"`
	CuisineDislike  []string           `json:"cuisineDislike" bson:"cuisineDislike"`
	Diet            []string           `json:"diet" bson:"diet"`
	Intolerances    []string           `json:"intolerances" bson:"intolerances"`
	FavoriteRecipes []int64            `json:"favoriteRecipes" bson:"favoriteRecipes"`
	CreatedAt       time.Time          `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
	UpdatedAt       time.Time          `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// EmptyPreferences returns the default document served before the first write.
func EmptyPreferences(userID string) *Preferences {
	p := &Preferences{UserID: userID}
	p.Normalize()
	return p
}

// Normalize replaces nil lists with empty ones so clients always see arrays.
func (p *Preferences) Normalize() {
	if p.CuisineLike == nil {
		p.CuisineLike = []string{}
	}
	if p.CuisineDislike == nil {
		p.CuisineDislike = []string{}
	}
	if p.Diet == nil {
		p.Diet = []string{}
	}
	if p.Intolerances == nil {
		p.Intolerances = []string{}
	}
	if p.FavoriteRecipes == nil {
		p.FavoriteRecipes = []int64{}
	}
}

// Field returns the list stored under f.
func (p *Preferences) Field(f PreferenceField) []string {
	switch f {
	case FieldCuisineLike:
		return p.CuisineLike
	case FieldCuisineDislike:
		return p.CuisineDislike
	case FieldDiet:
		return p.Diet
	case FieldIntolerances:
		return p.Intolerances
	default:
		return nil
	}
}

// FavoriteCount is one row of the favorite-recipe leaderboard.
type FavoriteCount struct {
	RecipeID int64 `json:"recipeId" bson:"_id"`
	Count    int   `json:"count" bson:"count"`
}

// ValueCount counts how many users selected a preference value.
type ValueCount struct {
	Value string `json:"value" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}
