package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/tonthep-backend/models"
	"github.com/vnkhanh/tonthep-backend/utils"
)

// maxCategoryDepth chặn vòng lặp vô hạn khi dữ liệu cũ đã lỡ có chu trình.
const maxCategoryDepth = 64

const categoryOrder = "sort_order ASC, created_at DESC"

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

type CreateCategoryInput struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Order       *int       `json:"order"`
	IsActive    *bool      `json:"is_active"`
}

// UpdateCategoryInput: trường nil là không đổi; ParentID gửi null để tách khỏi danh mục cha.
type UpdateCategoryInput struct {
	Name        *string                   `json:"name"`
	Slug        *string                   `json:"slug"`
	Description utils.Optional[string]    `json:"description"`
	ParentID    utils.Optional[uuid.UUID] `json:"parent_id"`
	Order       *int                      `json:"order"`
	IsActive    *bool                     `json:"is_active"`
}

type CategoryOrder struct {
	ID    uuid.UUID `json:"id" binding:"required"`
	Order int       `json:"order"`
}

func activeChildren(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order(categoryOrder)
}

// ListPublic trả về danh mục đang hoạt động; includeChildren gắn thêm danh mục con (1 cấp).
func (s *CategoryService) ListPublic(ctx context.Context, includeChildren bool) ([]models.Category, error) {
	query := s.db.WithContext(ctx).Where("is_active = ?", true).Order(categoryOrder)
	if includeChildren {
		query = query.Preload("Children", activeChildren)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list public categories: %w", err)
	}
	return categories, nil
}

// ListAdmin trả về tất cả danh mục kèm cha và con.
func (s *CategoryService) ListAdmin(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Preload("Parent").
		Preload("Children", func(db *gorm.DB) *gorm.DB { return db.Order(categoryOrder) }).
		Order(categoryOrder).
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list admin categories: %w", err)
	}
	return categories, nil
}

// GetBySlug lấy danh mục đang hoạt động kèm danh mục con cho trang danh mục.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).
		Preload("Parent").
		Preload("Children", activeChildren).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&category).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &category, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Preload("Parent").First(&category, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &category, nil
}

// Create tạo danh mục; slug trùng được phát hiện qua unique constraint, không kiểm tra trước.
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(input.Slug)
	if name == "" {
		return nil, validationErr("name", "Tên danh mục bắt buộc")
	}
	if slug == "" {
		return nil, validationErr("slug", "Slug bắt buộc")
	}
	if !utils.IsValidSlug(slug) {
		return nil, validationErr("slug", "Slug chỉ gồm chữ thường, số và dấu gạch ngang")
	}

	db := s.db.WithContext(ctx)
	if input.ParentID != nil {
		if err := s.ensureExists(db, *input.ParentID); err != nil {
			return nil, err
		}
	}

	category := models.Category{
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		ParentID:    input.ParentID,
		IsActive:    true,
	}
	if input.Order != nil {
		category.Order = *input.Order
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := db.Create(&category).Error; err != nil {
		return nil, translateWriteErr(err, "slug")
	}
	return s.Get(ctx, category.ID)
}

// Update chỉ ghi các trường được gửi lên.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	var category models.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationErr("name", "Tên danh mục không được trống")
		}
		updates["name"] = name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			return nil, validationErr("slug", "Slug không được trống")
		}
		if !utils.IsValidSlug(slug) {
			return nil, validationErr("slug", "Slug chỉ gồm chữ thường, số và dấu gạch ngang")
		}
		updates["slug"] = slug
	}
	if input.Description.Set {
		updates["description"] = input.Description.Value
	}
	if input.ParentID.Set {
		if input.ParentID.Value != nil {
			if err := s.checkParent(db, id, *input.ParentID.Value); err != nil {
				return nil, err
			}
		}
		updates["parent_id"] = input.ParentID.Value
	}
	if input.Order != nil {
		updates["sort_order"] = *input.Order
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&category).Updates(updates).Error; err != nil {
			return nil, translateWriteErr(err, "slug")
		}
	}
	return s.Get(ctx, id)
}

// checkParent đi ngược chuỗi tổ tiên của cha mới, gặp lại chính node thì là chu trình.
func (s *CategoryService) checkParent(db *gorm.DB, id, parentID uuid.UUID) error {
	current := &parentID
	for depth := 0; current != nil; depth++ {
		if *current == id {
			if depth == 0 {
				return validationErr("parent_id", "Danh mục không thể là cha của chính nó")
			}
			return validationErr("parent_id", "Không thể chọn danh mục con làm danh mục cha")
		}
		if depth >= maxCategoryDepth {
			return validationErr("parent_id", "Cây danh mục quá sâu")
		}

		var node models.Category
		if err := db.Select("id", "parent_id").First(&node, "id = ?", *current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if depth == 0 {
					return validationErr("parent_id", "Danh mục cha không tồn tại")
				}
				return nil
			}
			return err
		}
		current = node.ParentID
	}
	return nil
}

func (s *CategoryService) ensureExists(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return validationErr("parent_id", "Danh mục cha không tồn tại")
	}
	return nil
}

// SoftDelete chỉ ẩn danh mục, không đụng tới danh mục con hay sản phẩm.
func (s *CategoryService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDelete xoá vĩnh viễn, từ chối khi còn danh mục con hoặc sản phẩm tham chiếu.
func (s *CategoryService) HardDelete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Select("id").First(&category, "id = ?", id).Error; err != nil {
			return notFoundOr(err)
		}

		var children, products int64
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Count(&children).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return err
		}
		if children > 0 || products > 0 {
			return &ConflictError{
				Message:  fmt.Sprintf("Danh mục còn %d danh mục con và %d sản phẩm", children, products),
				Children: children,
				Products: products,
			}
		}

		return tx.Delete(&models.Category{}, "id = ?", id).Error
	})
}

// Reorder cập nhật thứ tự trong một transaction, lỗi ở bất kỳ dòng nào thì rollback toàn bộ.
func (s *CategoryService) Reorder(ctx context.Context, items []CategoryOrder) error {
	if len(items) == 0 {
		return validationErr("categories", "Danh sách sắp xếp trống")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			result := tx.Model(&models.Category{}).
				Where("id = ?", item.ID).
				Update("sort_order", item.Order)
			if result.Error != nil {
				return fmt.Errorf("reorder category %s: %w", item.ID, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("reorder category %s: %w", item.ID, ErrNotFound)
			}
		}
		return nil
	})
}

// BuildNavLinks dựng menu điều hướng từ danh mục gốc và danh mục con đang hoạt động.
func (s *CategoryService) BuildNavLinks(ctx context.Context) ([]models.NavLink, error) {
	var roots []models.Category
	err := s.db.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order ASC")
		}).
		Where("parent_id IS NULL AND is_active = ?", true).
		Order("sort_order ASC").
		Find(&roots).Error
	if err != nil {
		return nil, fmt.Errorf("build nav links: %w", err)
	}

	links := make([]models.NavLink, 0, len(roots))
	for _, root := range roots {
		link := models.NavLink{Href: "/" + root.Slug, Label: root.Name}
		for _, child := range root.Children {
			link.Submenu = append(link.Submenu, models.NavLink{
				Href:  "/" + root.Slug + "/" + child.Slug,
				Label: child.Name,
			})
		}
		links = append(links, link)
	}
	return links, nil
}

// descendantIDs trả về id của danh mục và các danh mục con trực tiếp.
func (s *CategoryService) descendantIDs(db *gorm.DB, id uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{id}
	var children []uuid.UUID
	if err := db.Model(&models.Category{}).Where("parent_id = ?", id).Pluck("id", &children).Error; err != nil {
		return nil, err
	}
	return append(ids, children...), nil
}
