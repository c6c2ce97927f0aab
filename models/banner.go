package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Banner struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ImageURL      string    `gorm:"type:text;not null" json:"image_url"`
	ImagePublicID *string   `gorm:"size:255" json:"image_public_id"`
	Alt           string    `gorm:"size:255" json:"alt"`
	Link          *string   `gorm:"type:text" json:"link"`
	Order         int       `gorm:"column:sort_order;not null;uniqueIndex" json:"order"` // duy nhất trên toàn bảng
	IsActive      bool      `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Banner) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
