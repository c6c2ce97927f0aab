package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vnkhanh/tonthep-backend/models"
	"github.com/vnkhanh/tonthep-backend/utils"
)

const productOrder = "products.sort_order ASC, products.created_at DESC"

type ProductService struct {
	db         *gorm.DB
	media      MediaStore
	categories *CategoryService
}

func NewProductService(db *gorm.DB, media MediaStore, categories *CategoryService) *ProductService {
	return &ProductService{db: db, media: media, categories: categories}
}

// NewProductImage là ảnh mới: Data (data URI, sẽ được upload) hoặc URL có sẵn.
type NewProductImage struct {
	Data     string `json:"data"`
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type ProductInput struct {
	Name             *string                   `json:"name"`
	Slug             *string                   `json:"slug"`
	ShortDescription utils.Optional[string]    `json:"short_description"`
	Description      utils.Optional[string]    `json:"description"`
	Thumbnail        *string                   `json:"thumbnail"`
	Images           *[]models.ProductImage    `json:"images"`     // thay toàn bộ danh sách ảnh hiện có
	NewImages        []NewProductImage         `json:"new_images"` // nối thêm vào cuối
	Specifications   *[]models.ProductSpec     `json:"specifications"`
	CategoryID       utils.Optional[uuid.UUID] `json:"category_id"`
	Order            *int                      `json:"order"`
	IsActive         *bool                     `json:"is_active"`
	IsFeatured       *bool                     `json:"is_featured"`
}

type ProductFilter struct {
	CategorySlug string
	Featured     *bool
	Search       string
	Pagination
}

// ListPublic: sản phẩm đang bán; lọc theo slug danh mục gồm cả danh mục con trực tiếp.
func (s *ProductService) ListPublic(ctx context.Context, filter ProductFilter) (*Page[models.Product], error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.Product{}).Where("products.is_active = ?", true)

	if filter.CategorySlug != "" {
		category, err := s.categories.GetBySlug(ctx, filter.CategorySlug)
		if err != nil {
			return nil, err
		}
		ids, err := s.categories.descendantIDs(db, category.ID)
		if err != nil {
			return nil, err
		}
		query = query.Where("products.category_id IN ?", ids)
	}
	if filter.Featured != nil {
		query = query.Where("products.is_featured = ?", *filter.Featured)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	return paginate[models.Product](query, filter.Pagination, productOrder, "Category")
}

func (s *ProductService) ListAdmin(ctx context.Context, filter ProductFilter) (*Page[models.Product], error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if filter.Featured != nil {
		query = query.Where("products.is_featured = ?", *filter.Featured)
	}
	return paginate[models.Product](query, filter.Pagination, productOrder, "Category")
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &product, nil
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &product, nil
}

// uploadNewImages upload các ảnh mới, lỗi giữa chừng thì xoá những ảnh đã lên.
func (s *ProductService) uploadNewImages(ctx context.Context, images []NewProductImage) ([]models.ProductImage, []string, error) {
	var result []models.ProductImage
	var uploaded []string
	for i, img := range images {
		if img.Data != "" {
			asset, err := uploadImage(ctx, s.media, img.Data, FolderProducts)
			if err != nil {
				deleteAssetQuietly(ctx, s.media, uploaded...)
				return nil, nil, err
			}
			uploaded = append(uploaded, asset.PublicID)
			result = append(result, models.ProductImage{URL: asset.URL, PublicID: asset.PublicID})
			continue
		}
		if strings.TrimSpace(img.URL) == "" {
			deleteAssetQuietly(ctx, s.media, uploaded...)
			return nil, nil, validationErr(fmt.Sprintf("new_images[%d]", i), "Thiếu dữ liệu ảnh")
		}
		result = append(result, models.ProductImage{URL: strings.TrimSpace(img.URL), PublicID: img.PublicID})
	}
	return result, uploaded, nil
}

func (s *ProductService) checkCategory(db *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return validationErr("category_id", "Danh mục không tồn tại")
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, validationErr("name", "Tên sản phẩm bắt buộc")
	}
	name := strings.TrimSpace(*input.Name)

	slug := utils.GenerateSlug(name)
	if input.Slug != nil && strings.TrimSpace(*input.Slug) != "" {
		slug = strings.TrimSpace(*input.Slug)
	}
	if !utils.IsValidSlug(slug) {
		return nil, validationErr("slug", "Slug chỉ gồm chữ thường, số và dấu gạch ngang")
	}

	db := s.db.WithContext(ctx)
	product := models.Product{
		Name:             name,
		Slug:             slug,
		ShortDescription: input.ShortDescription.Value,
		Description:      input.Description.Value,
		Images:           []models.ProductImage{},
		Specifications:   []models.ProductSpec{},
		CategoryID:       input.CategoryID.Value,
		IsActive:         true,
	}
	if product.CategoryID != nil {
		if err := s.checkCategory(db, *product.CategoryID); err != nil {
			return nil, err
		}
	}
	if input.Thumbnail != nil {
		product.Thumbnail = strings.TrimSpace(*input.Thumbnail)
	}
	if input.Images != nil {
		product.Images = append(product.Images, *input.Images...)
	}
	if input.Specifications != nil {
		specs, err := cleanSpecs(*input.Specifications)
		if err != nil {
			return nil, err
		}
		product.Specifications = specs
	}
	if input.Order != nil {
		product.Order = *input.Order
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	added, uploaded, err := s.uploadNewImages(ctx, input.NewImages)
	if err != nil {
		return nil, err
	}
	product.Images = append(product.Images, added...)
	if product.Thumbnail == "" && len(product.Images) > 0 {
		product.Thumbnail = product.Images[0].URL
	}

	if err := db.Create(&product).Error; err != nil {
		deleteAssetQuietly(ctx, s.media, uploaded...)
		return nil, translateWriteErr(err, "slug")
	}
	return s.Get(ctx, product.ID)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	db := s.db.WithContext(ctx)
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationErr("name", "Tên sản phẩm không được trống")
		}
		updates["name"] = name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if !utils.IsValidSlug(slug) {
			return nil, validationErr("slug", "Slug chỉ gồm chữ thường, số và dấu gạch ngang")
		}
		updates["slug"] = slug
	}
	if input.ShortDescription.Set {
		updates["short_description"] = input.ShortDescription.Value
	}
	if input.Description.Set {
		updates["description"] = input.Description.Value
	}
	if input.Thumbnail != nil {
		updates["thumbnail"] = strings.TrimSpace(*input.Thumbnail)
	}
	if input.CategoryID.Set {
		if input.CategoryID.Value != nil {
			if err := s.checkCategory(db, *input.CategoryID.Value); err != nil {
				return nil, err
			}
		}
		updates["category_id"] = input.CategoryID.Value
	}
	if input.Specifications != nil {
		specs, err := cleanSpecs(*input.Specifications)
		if err != nil {
			return nil, err
		}
		updates["specifications"] = datatypes.JSONSlice[models.ProductSpec](specs)
	}
	if input.Order != nil {
		updates["sort_order"] = *input.Order
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}

	// Ảnh: danh sách mới = Images (nếu gửi) + NewImages; ảnh cũ không còn dùng sẽ bị xoá sau khi lưu.
	var removed []string
	var uploaded []string
	if input.Images != nil || len(input.NewImages) > 0 {
		images := append([]models.ProductImage{}, product.Images...)
		if input.Images != nil {
			images = append([]models.ProductImage{}, *input.Images...)
			removed = removedPublicIDs(product.Images, images)
		}
		var added []models.ProductImage
		added, uploaded, err = s.uploadNewImages(ctx, input.NewImages)
		if err != nil {
			return nil, err
		}
		images = append(images, added...)
		updates["images"] = datatypes.JSONSlice[models.ProductImage](images)

		// ảnh đại diện trỏ vào ảnh vừa bỏ (hoặc chưa có) thì chuyển sang ảnh đầu tiên
		if input.Thumbnail == nil && (product.Thumbnail == "" || droppedURL(product.Images, images, product.Thumbnail)) {
			thumbnail := ""
			if len(images) > 0 {
				thumbnail = images[0].URL
			}
			updates["thumbnail"] = thumbnail
		}
	}

	if len(updates) > 0 {
		if err := db.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			deleteAssetQuietly(ctx, s.media, uploaded...)
			return nil, translateWriteErr(err, "slug")
		}
	}
	deleteAssetQuietly(ctx, s.media, removed...)
	return s.Get(ctx, id)
}

// RemoveImage xoá ảnh thứ index, URL và mã asset bị xoá cùng nhau.
func (s *ProductService) RemoveImage(ctx context.Context, id uuid.UUID, index int) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(product.Images) {
		return nil, validationErr("index", "Vị trí ảnh không hợp lệ")
	}

	removed := product.Images[index]
	images := make([]models.ProductImage, 0, len(product.Images)-1)
	images = append(images, product.Images[:index]...)
	images = append(images, product.Images[index+1:]...)

	updates := map[string]interface{}{"images": datatypes.JSONSlice[models.ProductImage](images)}
	if product.Thumbnail == removed.URL {
		thumbnail := ""
		if len(images) > 0 {
			thumbnail = images[0].URL
		}
		updates["thumbnail"] = thumbnail
	}

	if err := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	deleteAssetQuietly(ctx, s.media, removed.PublicID)
	return s.Get(ctx, id)
}

func (s *ProductService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HardDelete xoá hẳn sản phẩm và toàn bộ ảnh của nó.
func (s *ProductService) HardDelete(ctx context.Context, id uuid.UUID) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return err
	}
	deleteAssetQuietly(ctx, s.media, product.PublicIDs()...)
	return nil
}

func cleanSpecs(specs []models.ProductSpec) ([]models.ProductSpec, error) {
	result := make([]models.ProductSpec, 0, len(specs))
	for i, spec := range specs {
		key := strings.TrimSpace(spec.Key)
		if key == "" {
			return nil, validationErr(fmt.Sprintf("specifications[%d].key", i), "Tên thông số bắt buộc")
		}
		result = append(result, models.ProductSpec{Key: key, Value: strings.TrimSpace(spec.Value)})
	}
	return result, nil
}

// removedPublicIDs trả về mã asset có trong before nhưng không còn trong after.
// droppedURL cho biết url thuộc danh sách cũ nhưng không còn trong danh sách mới.
func droppedURL(before, after []models.ProductImage, url string) bool {
	for _, img := range after {
		if img.URL == url {
			return false
		}
	}
	for _, img := range before {
		if img.URL == url {
			return true
		}
	}
	return false
}

func removedPublicIDs(before, after []models.ProductImage) []string {
	keep := make(map[string]bool, len(after))
	for _, img := range after {
		keep[img.PublicID] = true
	}
	var removed []string
	for _, img := range before {
		if img.PublicID != "" && !keep[img.PublicID] {
			removed = append(removed, img.PublicID)
		}
	}
	return removed
}
