package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a blog article. The slug is derived from the title at write time
// and carries a unique index; it is the post's public route segment.
type Post struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Published bool      `gorm:"not null;default:false" json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
