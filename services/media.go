package services

import (
	"context"
	"log"

	"github.com/vnkhanh/tonthep-backend/utils"
)

// MediaStore là dịch vụ lưu ảnh bên ngoài (CDN/storage).
type MediaStore interface {
	Upload(ctx context.Context, payload, folder string) (*utils.UploadedAsset, error)
	Delete(ctx context.Context, publicID string) error
}

const (
	FolderBanners  = "banners"
	FolderProducts = "products"
	FolderPosts    = "posts"
	FolderMisc     = "misc"
)

var allowedFolders = map[string]bool{
	FolderBanners:  true,
	FolderProducts: true,
	FolderPosts:    true,
	FolderMisc:     true,
}

// MediaService phục vụ endpoint upload ảnh trực tiếp cho trình soạn thảo admin.
type MediaService struct {
	media MediaStore
}

func NewMediaService(media MediaStore) *MediaService {
	return &MediaService{media: media}
}

func (s *MediaService) Upload(ctx context.Context, payload, folder string) (*utils.UploadedAsset, error) {
	if folder == "" {
		folder = FolderMisc
	}
	if !allowedFolders[folder] {
		return nil, validationErr("folder", "thư mục không hợp lệ")
	}
	return uploadImage(ctx, s.media, payload, folder)
}

func (s *MediaService) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return validationErr("public_id", "thiếu mã ảnh")
	}
	if s.media == nil {
		return nil
	}
	return s.media.Delete(ctx, publicID)
}

// uploadImage đổi lỗi giải mã payload thành ValidationError.
func uploadImage(ctx context.Context, media MediaStore, payload, folder string) (*utils.UploadedAsset, error) {
	if media == nil {
		return nil, validationErr("image", "chưa cấu hình dịch vụ lưu ảnh")
	}
	asset, err := media.Upload(ctx, payload, folder)
	if err != nil {
		switch err {
		case utils.ErrEmptyPayload, utils.ErrInvalidPayload, utils.ErrPayloadTooLarge, utils.ErrUnsupportedImage:
			return nil, validationErr("image", err.Error())
		}
		return nil, err
	}
	return asset, nil
}

// deleteAssetQuietly xoá ảnh trên storage, lỗi chỉ ghi log không trả về.
func deleteAssetQuietly(ctx context.Context, media MediaStore, publicIDs ...string) {
	if media == nil {
		return
	}
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := media.Delete(ctx, id); err != nil {
			log.Printf("[media] không thể xóa ảnh %s: %v", id, err)
		}
	}
}
