package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category là danh mục sản phẩm, tự tham chiếu qua ParentID (thực tế dùng 2 cấp).
type Category struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:150;not null" json:"name"`
	Slug        string     `gorm:"size:150;not null;uniqueIndex" json:"slug"`
	Description *string    `gorm:"type:text" json:"description"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	Order       int        `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsActive    bool       `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// NavLink là một mục trên thanh điều hướng, Submenu chỉ có ở danh mục gốc.
type NavLink struct {
	Href    string    `json:"href"`
	Label   string    `json:"label"`
	Submenu []NavLink `json:"submenu,omitempty"`
}
