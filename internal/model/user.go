package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names a user's permission level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an authenticated user in the system.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string         `json:"username" gorm:"uniqueIndex;size:20;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName    string         `json:"firstName" gorm:"size:100;not null"`
	LastName     string         `json:"lastName" gorm:"size:100;not null"`
	Location     string         `json:"location,omitempty" gorm:"size:255"`
	Role         Role           `json:"role" gorm:"size:20;not null;default:'user';index"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
