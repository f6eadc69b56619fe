package domain

import (
	"time"

	"github.com/google/uuid" // UUID generation
	"gorm.io/gorm"           // GORM ORM library
)

// Comment Model
type Comment struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`            // UUID primary key
	Content   string    `gorm:"type:text;not null" json:"content"`             // Comment text
	UserID    string    `gorm:"type:char(36);index;not null" json:"user_id"`   // Foreign key to User, immutable
	RecipeID  string    `gorm:"type:char(36);index;not null" json:"recipe_id"` // Foreign key to Recipe, immutable
	CreatedAt time.Time `json:"created_at"`                                    // Timestamp of creation
	Author    *User     `gorm:"foreignKey:UserID" json:"author,omitempty"`     // Comment author, preloaded where needed
}

// BeforeCreate assigns a UUID primary key when none was set
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString() // Generate a new UUID
	}
	return nil
}

// OwnerID returns the id of the user who wrote the comment
func (c *Comment) OwnerID() string {
	return c.UserID
}
