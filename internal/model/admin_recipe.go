package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cuisine is one of the cuisines understood by the recipe search API.
type Cuisine string

// Diet is one of the diets understood by the recipe search API.
type Diet string

// Cuisines lists every accepted cuisine value.
var Cuisines = []Cuisine{
	"African", "Asian", "American", "British", "Cajun", "Caribbean", "Chinese",
	"Eastern European", "European", "French", "German", "Greek", "Indian", "Irish",
	"Italian", "Japanese", "Jewish", "Korean", "Latin American", "Mediterranean",
	"Mexican", "Middle Eastern", "Nordic", "Southern", "Spanish", "Thai", "Vietnamese",
}

// Diets lists every accepted diet value.
var Diets = []Diet{
	"Gluten Free", "Ketogenic", "Vegetarian", "Lacto-Vegetarian", "Ovo-Vegetarian",
	"Vegan", "Pescetarian", "Paleo", "Primal", "Low FODMAP", "Whole30",
}

// ParseCuisine returns the canonical cuisine matching s case-insensitively.
func ParseCuisine(s string) (Cuisine, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Cuisines {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// ParseDiet returns the canonical diet matching s case-insensitively.
func ParseDiet(s string) (Diet, bool) {
	s = strings.TrimSpace(s)
	for _, d := range Diets {
		if strings.EqualFold(string(d), s) {
			return d, true
		}
	}
	return "", false
}

// AdminRecipe is a recipe curated by an administrator.
type AdminRecipe struct {
	ID             uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Title          string         `json:"title" gorm:"uniqueIndex;size:255;not null"`
	Summary        string         `json:"summary,omitempty" gorm:"type:text"`
	ReadyInMinutes *int           `json:"readyInMinutes,omitempty"`
	Instructions   string         `json:"instructions" gorm:"type:text;not null"`
	Ingredients    []string       `json:"ingredients" gorm:"serializer:json;type:text"`
	Diets          []Diet         `json:"diets" gorm:"serializer:json;type:text"`
	Cuisines       []Cuisine      `json:"cuisines" gorm:"serializer:json;type:text"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (r *AdminRecipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
