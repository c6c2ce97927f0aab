package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/tonthep-backend/models"
	"github.com/vnkhanh/tonthep-backend/utils"
)

type PostService struct {
	db    *gorm.DB
	media MediaStore
	now   func() time.Time
}

func NewPostService(db *gorm.DB, media MediaStore) *PostService {
	return &PostService{db: db, media: media, now: time.Now}
}

type PostInput struct {
	Title             *string                `json:"title"`
	Slug              *string                `json:"slug"`
	Excerpt           utils.Optional[string] `json:"excerpt"`
	Content           utils.Optional[string] `json:"content"`
	Author            utils.Optional[string] `json:"author"`
	ThumbnailData     string                 `json:"thumbnail_data"`
	Thumbnail         utils.Optional[string] `json:"thumbnail"`
	ThumbnailPublicID utils.Optional[string] `json:"thumbnail_public_id"`
	IsPublished       *bool                  `json:"is_published"`
	IsFeatured        *bool                  `json:"is_featured"`
}

type PostFilter struct {
	Featured *bool
	Search   string
	Pagination
}

func (s *PostService) ListPublic(ctx context.Context, filter PostFilter) (*Page[models.Post], error) {
	query := s.db.WithContext(ctx).Model(&models.Post{}).Where("is_published = ?", true)
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return paginate[models.Post](query, filter.Pagination, "published_at DESC, created_at DESC")
}

func (s *PostService) ListAdmin(ctx context.Context, filter PostFilter) (*Page[models.Post], error) {
	query := s.db.WithContext(ctx).Model(&models.Post{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return paginate[models.Post](query, filter.Pagination, "created_at DESC")
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Where("slug = ? AND is_published = ?", slug, true).First(&post).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &post, nil
}

func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &post, nil
}

func (s *PostService) Create(ctx context.Context, input PostInput) (*models.Post, error) {
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, validationErr("title", "Tiêu đề bài viết bắt buộc")
	}
	title := strings.TrimSpace(*input.Title)
	slug := utils.GenerateSlug(title)
	if input.Slug != nil && strings.TrimSpace(*input.Slug) != "" {
		slug = strings.TrimSpace(*input.Slug)
	}
	if !utils.IsValidSlug(slug) {
		return nil, validationErr("slug", "Slug chỉ gồm chữ thường, số và dấu gạch ngang")
	}

	post := models.Post{
		Title:             title,
		Slug:              slug,
		Excerpt:           input.Excerpt.Value,
		Content:           input.Content.Value,
		Author:            input.Author.Value,
		Thumbnail:         input.Thumbnail.Value,
		ThumbnailPublicID: input.ThumbnailPublicID.Value,
	}
	if input.IsFeatured != nil {
		post.IsFeatured = *input.IsFeatured
	}
	if input.IsPublished != nil && *input.IsPublished {
		now := s.now()
		post.IsPublished = true
		post.PublishedAt = &now
	}

	var uploaded *utils.UploadedAsset
	if input.ThumbnailData != "" {
		var err error
		uploaded, err = uploadImage(ctx, s.media, input.ThumbnailData, FolderPosts)
		if err != nil {
			return nil, err
		}
		post.Thumbnail = &uploaded.URL
		post.ThumbnailPublicID = &uploaded.PublicID
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		if uploaded != nil {
			deleteAssetQuietly(ctx, s.media, uploaded.PublicID)
		}
		return nil, translateWriteErr(err, "slug")
	}
	return &post, nil
}

// Update: published_at chỉ được gán ở lần xuất bản đầu tiên, các lần sau giữ nguyên.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, input PostInput) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, validationErr("title", "Tiêu đề không được trống")
		}
		updates["title"] = title
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if !utils.IsValidSlug(slug) {
			return nil, validationErr("slug", "Slug chỉ gồm chữ thường, số và dấu gạch ngang")
		}
		updates["slug"] = slug
	}
	if input.Excerpt.Set {
		updates["excerpt"] = input.Excerpt.Value
	}
	if input.Content.Set {
		updates["content"] = input.Content.Value
	}
	if input.Author.Set {
		updates["author"] = input.Author.Value
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
		if *input.IsPublished && post.PublishedAt == nil {
			updates["published_at"] = s.now()
		}
	}

	var uploaded *utils.UploadedAsset
	if input.ThumbnailData != "" {
		uploaded, err = uploadImage(ctx, s.media, input.ThumbnailData, FolderPosts)
		if err != nil {
			return nil, err
		}
		updates["thumbnail"] = uploaded.URL
		updates["thumbnail_public_id"] = uploaded.PublicID
	} else if input.Thumbnail.Set {
		updates["thumbnail"] = input.Thumbnail.Value
		updates["thumbnail_public_id"] = input.ThumbnailPublicID.Value
	}

	var oldPublicID string
	if _, replaced := updates["thumbnail"]; replaced && post.ThumbnailPublicID != nil {
		oldPublicID = *post.ThumbnailPublicID
		if newID, ok := updates["thumbnail_public_id"].(*string); ok && newID != nil && *newID == oldPublicID {
			oldPublicID = ""
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(post).Updates(updates).Error; err != nil {
			if uploaded != nil {
				deleteAssetQuietly(ctx, s.media, uploaded.PublicID)
			}
			return nil, translateWriteErr(err, "slug")
		}
	}
	if oldPublicID != "" {
		deleteAssetQuietly(ctx, s.media, oldPublicID)
	}
	return s.Get(ctx, id)
}

// SoftDelete gỡ bài viết khỏi trang công khai (is_published=false).
func (s *PostService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("is_published", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostService) HardDelete(ctx context.Context, id uuid.UUID) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		return err
	}
	if post.ThumbnailPublicID != nil {
		deleteAssetQuietly(ctx, s.media, *post.ThumbnailPublicID)
	}
	return nil
}
