package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Slug              string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Excerpt           *string    `gorm:"type:text" json:"excerpt"`
	Content           *string    `gorm:"type:text" json:"content"`
	Thumbnail         *string    `gorm:"type:text" json:"thumbnail"`
	ThumbnailPublicID *string    `gorm:"size:255" json:"thumbnail_public_id"`
	Author            *string    `gorm:"size:150" json:"author"`
	IsPublished       bool       `gorm:"not null" json:"is_published"`
	IsFeatured        bool       `gorm:"not null" json:"is_featured"`
	PublishedAt       *time.Time `json:"published_at"` // chỉ gán một lần, lần đầu xuất bản
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
