package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/tonthep-backend/models"
	"github.com/vnkhanh/tonthep-backend/utils"
)

type BannerService struct {
	db    *gorm.DB
	media MediaStore
}

func NewBannerService(db *gorm.DB, media MediaStore) *BannerService {
	return &BannerService{db: db, media: media}
}

// BannerInput: ảnh gửi dạng data URI qua ImageData, hoặc URL có sẵn qua ImageURL/ImagePublicID.
type BannerInput struct {
	ImageData     string  `json:"image_data"`
	ImageURL      *string `json:"image_url"`
	ImagePublicID *string `json:"image_public_id"`
	Alt           *string `json:"alt"`
	Link          *string `json:"link"`
	Order         *int    `json:"order"`
	IsActive      *bool   `json:"is_active"`
}

func (s *BannerService) ListPublic(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("sort_order ASC").Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

func (s *BannerService) ListAdmin(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	if err := s.db.WithContext(ctx).Order("sort_order ASC").Find(&banners).Error; err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

func (s *BannerService) Get(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var banner models.Banner
	if err := s.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &banner, nil
}

// orderTaken kiểm tra nhanh trước khi ghi; unique index mới là ràng buộc thật.
func (s *BannerService) orderTaken(db *gorm.DB, order int, exceptID *uuid.UUID) (bool, error) {
	query := db.Model(&models.Banner{}).Where("sort_order = ?", order)
	if exceptID != nil {
		query = query.Where("id <> ?", *exceptID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *BannerService) Create(ctx context.Context, input BannerInput) (*models.Banner, error) {
	if input.Order == nil {
		return nil, validationErr("order", "Thứ tự bắt buộc")
	}
	if input.ImageData == "" && (input.ImageURL == nil || strings.TrimSpace(*input.ImageURL) == "") {
		return nil, validationErr("image", "Ảnh banner bắt buộc")
	}

	db := s.db.WithContext(ctx)
	taken, err := s.orderTaken(db, *input.Order, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &DuplicateKeyError{Field: "order"}
	}

	banner := models.Banner{
		Order:    *input.Order,
		IsActive: true,
	}
	if input.Alt != nil {
		banner.Alt = strings.TrimSpace(*input.Alt)
	}
	banner.Link = input.Link
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}

	var uploaded *utils.UploadedAsset
	if input.ImageData != "" {
		uploaded, err = uploadImage(ctx, s.media, input.ImageData, FolderBanners)
		if err != nil {
			return nil, err
		}
		banner.ImageURL = uploaded.URL
		banner.ImagePublicID = &uploaded.PublicID
	} else {
		banner.ImageURL = strings.TrimSpace(*input.ImageURL)
		banner.ImagePublicID = input.ImagePublicID
	}

	if err := db.Create(&banner).Error; err != nil {
		if uploaded != nil {
			deleteAssetQuietly(ctx, s.media, uploaded.PublicID)
		}
		return nil, translateWriteErr(err, "order")
	}
	return &banner, nil
}

func (s *BannerService) Update(ctx context.Context, id uuid.UUID, input BannerInput) (*models.Banner, error) {
	db := s.db.WithContext(ctx)

	banner, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Order != nil && *input.Order != banner.Order {
		taken, err := s.orderTaken(db, *input.Order, &banner.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &DuplicateKeyError{Field: "order"}
		}
	}

	updates := map[string]interface{}{}
	if input.Order != nil {
		updates["sort_order"] = *input.Order
	}
	if input.Alt != nil {
		updates["alt"] = strings.TrimSpace(*input.Alt)
	}
	if input.Link != nil {
		updates["link"] = input.Link
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	var uploaded *utils.UploadedAsset
	var oldPublicID string
	if input.ImageData != "" {
		uploaded, err = uploadImage(ctx, s.media, input.ImageData, FolderBanners)
		if err != nil {
			return nil, err
		}
		updates["image_url"] = uploaded.URL
		updates["image_public_id"] = uploaded.PublicID
	} else if input.ImageURL != nil && strings.TrimSpace(*input.ImageURL) != banner.ImageURL {
		updates["image_url"] = strings.TrimSpace(*input.ImageURL)
		updates["image_public_id"] = input.ImagePublicID
	}
	if _, replaced := updates["image_url"]; replaced && banner.ImagePublicID != nil {
		oldPublicID = *banner.ImagePublicID
		// asset cũ vẫn được dòng mới dùng thì giữ lại
		if uploaded == nil && input.ImagePublicID != nil && *input.ImagePublicID == oldPublicID {
			oldPublicID = ""
		}
	}

	if len(updates) > 0 {
		if err := db.Model(banner).Updates(updates).Error; err != nil {
			if uploaded != nil {
				deleteAssetQuietly(ctx, s.media, uploaded.PublicID)
			}
			return nil, translateWriteErr(err, "order")
		}
	}
	if oldPublicID != "" {
		deleteAssetQuietly(ctx, s.media, oldPublicID)
	}
	return s.Get(ctx, id)
}

// Delete xoá hẳn banner rồi xoá ảnh trên storage (lỗi xoá ảnh chỉ ghi log).
func (s *BannerService) Delete(ctx context.Context, id uuid.UUID) error {
	banner, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Banner{}, "id = ?", id).Error; err != nil {
		return err
	}
	if banner.ImagePublicID != nil {
		deleteAssetQuietly(ctx, s.media, *banner.ImagePublicID)
	}
	return nil
}
