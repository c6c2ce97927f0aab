package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SocialLink struct {
	Platform string `json:"platform"` // facebook | zalo | youtube | tiktok ...
	URL      string `json:"url"`
}

// ContactInfo là hồ sơ công ty, chỉ đọc bản ghi đầu tiên.
type ContactInfo struct {
	ID           uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyName  string                          `gorm:"size:255" json:"company_name"`
	Hotline      string                          `gorm:"size:50" json:"hotline"`
	Phones       datatypes.JSONSlice[string]     `json:"phones"`
	Email        string                          `gorm:"size:150" json:"email"`
	Addresses    datatypes.JSONSlice[string]     `json:"addresses"`
	WorkingHours string                          `gorm:"size:255" json:"working_hours"`
	SocialLinks  datatypes.JSONSlice[SocialLink] `json:"social_links"`
	MapEmbed     string                          `gorm:"type:text" json:"map_embed"`
	CreatedAt    time.Time                       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ci *ContactInfo) BeforeCreate(tx *gorm.DB) error {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return nil
}
