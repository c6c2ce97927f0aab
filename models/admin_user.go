package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUser là tài khoản quản trị duy nhất của hệ thống.
type AdminUser struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName string    `gorm:"size:150;not null" json:"full_name"`
	Email    string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"type:text;not null" json:"-"`
	// TokenVersion tăng mỗi lần refresh/đăng xuất/đổi mật khẩu,
	// refresh token mang version cũ sẽ bị từ chối.
	TokenVersion int       `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
