package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductImage giữ URL ảnh và mã asset trên storage cùng một chỗ,
// xoá ảnh là xoá cả cặp.
type ProductImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id,omitempty"`
}

// ProductSpec là một dòng thông số kỹ thuật (vd: "Độ dày" - "0.45mm").
type ProductSpec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Product struct {
	ID               uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	Name             string                            `gorm:"size:255;not null" json:"name"`
	Slug             string                            `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	ShortDescription *string                           `gorm:"type:text" json:"short_description"`
	Description      *string                           `gorm:"type:text" json:"description"`
	Thumbnail        string                            `gorm:"type:text" json:"thumbnail"`
	Images           datatypes.JSONSlice[ProductImage] `json:"images"`
	Specifications   datatypes.JSONSlice[ProductSpec]  `json:"specifications"`
	CategoryID       *uuid.UUID                        `gorm:"type:uuid;index" json:"category_id"`
	Category         *Category                         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Order            int                               `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsActive         bool                              `gorm:"not null" json:"is_active"`
	IsFeatured       bool                              `gorm:"not null" json:"is_featured"`
	CreatedAt        time.Time                         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PublicIDs trả về mã asset của tất cả ảnh, bỏ qua ảnh không có mã.
func (p *Product) PublicIDs() []string {
	ids := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.PublicID != "" {
			ids = append(ids, img.PublicID)
		}
	}
	return ids
}
