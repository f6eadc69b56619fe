package domain

import (
	"database/sql/driver" // Valuer interface for custom column types
	"encoding/json"       // JSON encoding for list columns
	"errors"              // Error construction
	"time"

	"github.com/google/uuid" // UUID generation
	"gorm.io/gorm"           // GORM ORM library
)

// StringList stores an ordered sequence of strings as a JSON column
type StringList []string

// Value serializes the list to JSON for storage
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{} // Store empty array instead of NULL
	}
	return json.Marshal(l)
}

// Scan deserializes a JSON column value into the list
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	}
	return errors.New("unsupported column type for StringList")
}

// Recipe Model
type Recipe struct {
	ID          string     `gorm:"type:char(36);primaryKey" json:"id"`      // UUID primary key
	Title       string     `gorm:"size:255;not null" json:"title"`          // Recipe title
	Description *string    `gorm:"type:text" json:"description"`            // Optional description
	Ingredients StringList `gorm:"type:json;not null" json:"ingredients"`   // Ordered ingredient list
	Steps       StringList `gorm:"type:json;not null" json:"steps"`         // Ordered preparation steps
	UserID      string     `gorm:"type:char(36);index;not null" json:"user_id"` // Foreign key to User, immutable
	CreatedAt   time.Time  `json:"created_at"`                              // Timestamp of creation
	UpdatedAt   time.Time  `json:"updated_at"`                              // Timestamp of last update
	Author      *User      `gorm:"foreignKey:UserID" json:"author,omitempty"`   // Owning user, preloaded where needed
	Comments    []Comment  `gorm:"constraint:OnDelete:CASCADE;" json:"comments,omitempty"` // One-to-many relationship with Comment
}

// BeforeCreate assigns a UUID primary key when none was set
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}

// OwnerID returns the id of the user who created the recipe
func (r *Recipe) OwnerID() string {
	return r.UserID
}
