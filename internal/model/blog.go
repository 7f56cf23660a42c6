package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Blog represents a single blog post.
type Blog struct {
	ID               uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Title            string         `json:"title" gorm:"size:255;not null"`
	ShortDescription string         `json:"short_description" gorm:"size:512"`
	Description      string         `json:"description" gorm:"type:text"`
	FeaturedImage    string         `json:"featured_image" gorm:"size:512"`
	Sorting          int            `json:"sorting"`
	UserID           uuid.UUID      `json:"user_id" gorm:"type:char(36);index"`
	CreatedAt        time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Tags []Tag `json:"tags,omitempty" gorm:"many2many:blog_tags"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
