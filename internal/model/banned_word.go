package model

import "time"

// BannedWord is a lowercase term that must not appear in user profile text.
type BannedWord struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Word      string    `json:"word" gorm:"uniqueIndex;size:100;not null"`
	AddedBy   string    `json:"addedBy,omitempty" gorm:"size:20"`
	CreatedAt time.Time `json:"createdAt"`
}
