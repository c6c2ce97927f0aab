package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/tonthep-backend/models"
)

type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

type ContactInput struct {
	CompanyName  *string             `json:"company_name"`
	Hotline      *string             `json:"hotline"`
	Phones       []string            `json:"phones"`
	Email        *string             `json:"email"`
	Addresses    []string            `json:"addresses"`
	WorkingHours *string             `json:"working_hours"`
	SocialLinks  []models.SocialLink `json:"social_links"`
	MapEmbed     *string             `json:"map_embed"`
}

// Get trả về bản ghi tạo sớm nhất.
func (s *ContactService) Get(ctx context.Context) (*models.ContactInfo, error) {
	var info models.ContactInfo
	if err := s.db.WithContext(ctx).Order("created_at ASC").First(&info).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &info, nil
}

// Upsert cập nhật bản ghi hiện có hoặc tạo mới nếu chưa có.
func (s *ContactService) Upsert(ctx context.Context, input ContactInput) (*models.ContactInfo, error) {
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email != "" && !strings.Contains(email, "@") {
			return nil, validationErr("email", "Email không hợp lệ")
		}
	}
	for _, link := range input.SocialLinks {
		if strings.TrimSpace(link.Platform) == "" || strings.TrimSpace(link.URL) == "" {
			return nil, validationErr("social_links", "Liên kết mạng xã hội cần platform và url")
		}
	}

	info, err := s.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		info = &models.ContactInfo{
			Phones:      datatypes.JSONSlice[string]{},
			Addresses:   datatypes.JSONSlice[string]{},
			SocialLinks: datatypes.JSONSlice[models.SocialLink]{},
		}
		applyContactInput(info, input)
		if err := s.db.WithContext(ctx).Create(info).Error; err != nil {
			return nil, err
		}
		return info, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.CompanyName != nil {
		updates["company_name"] = strings.TrimSpace(*input.CompanyName)
	}
	if input.Hotline != nil {
		updates["hotline"] = strings.TrimSpace(*input.Hotline)
	}
	if input.Phones != nil {
		updates["phones"] = datatypes.JSONSlice[string](input.Phones)
	}
	if input.Email != nil {
		updates["email"] = strings.TrimSpace(*input.Email)
	}
	if input.Addresses != nil {
		updates["addresses"] = datatypes.JSONSlice[string](input.Addresses)
	}
	if input.WorkingHours != nil {
		updates["working_hours"] = strings.TrimSpace(*input.WorkingHours)
	}
	if input.SocialLinks != nil {
		updates["social_links"] = datatypes.JSONSlice[models.SocialLink](input.SocialLinks)
	}
	if input.MapEmbed != nil {
		updates["map_embed"] = *input.MapEmbed
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(info).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx)
}

func applyContactInput(info *models.ContactInfo, input ContactInput) {
	if input.CompanyName != nil {
		info.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.Hotline != nil {
		info.Hotline = strings.TrimSpace(*input.Hotline)
	}
	if input.Phones != nil {
		info.Phones = input.Phones
	}
	if input.Email != nil {
		info.Email = strings.TrimSpace(*input.Email)
	}
	if input.Addresses != nil {
		info.Addresses = input.Addresses
	}
	if input.WorkingHours != nil {
		info.WorkingHours = strings.TrimSpace(*input.WorkingHours)
	}
	if input.SocialLinks != nil {
		info.SocialLinks = input.SocialLinks
	}
	if input.MapEmbed != nil {
		info.MapEmbed = *input.MapEmbed
	}
}
