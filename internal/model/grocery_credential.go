package model

import (
	"time"

	"github.com/google/uuid"
)

// GroceryCredential stores the retailer OAuth token a user granted us.
// One row per user; a new authorization replaces the previous token.
type GroceryCredential struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	UserID       uuid.UUID `json:"userId" gorm:"type:char(36);uniqueIndex;not null"`
	AccessToken  string    `json:"-" gorm:"type:text;not null"`
	RefreshToken string    `json:"-" gorm:"type:text"`
	TokenType    string    `json:"tokenType" gorm:"size:20"`
	Expiry       time.Time `json:"expiry"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
