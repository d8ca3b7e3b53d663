package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment belongs to exactly one post and one author. Comments are created
// and deleted, never edited.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Content   string    `gorm:"size:1000;not null" json:"content"`
	PostID    string    `gorm:"size:36;index;not null" json:"postId"`
	UserID    string    `gorm:"size:36;not null" json:"userId"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
