package domain

import (
	"time"

	"github.com/google/uuid" // UUID generation
	"gorm.io/gorm"           // GORM ORM library
)

// User Model
type User struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`      // UUID primary key
	Username     string    `gorm:"size:64;unique;not null" json:"username"` // Unique username
	Email        string    `gorm:"size:255;unique;not null" json:"email"`   // Unique email
	PasswordHash string    `gorm:"not null" json:"-"`                       // Hashed password, never serialized
	Avatar       *string   `gorm:"size:255" json:"avatar"`                  // Optional avatar path
	CreatedAt    time.Time `json:"created_at"`                              // Timestamp of creation
	UpdatedAt    time.Time `json:"updated_at"`                              // Timestamp of last update
	Recipes      []Recipe  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`   // One-to-many relationship with Recipe
	Comments     []Comment `gorm:"constraint:OnDelete:CASCADE;" json:"-"`   // One-to-many relationship with Comment
}

// BeforeCreate assigns a UUID primary key when none was set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}
