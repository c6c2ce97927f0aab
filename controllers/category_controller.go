package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/tonthep-backend/services"
)

type CategoryController struct {
	categories *services.CategoryService
}

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{categories: categories}
}

// GET /api/categories?include_children=true
func (ctl *CategoryController) ListPublic(c *gin.Context) {
	includeChildren := c.Query("include_children") == "true"
	categories, err := ctl.categories.ListPublic(c.Request.Context(), includeChildren)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// GET /api/categories/navlinks
func (ctl *CategoryController) NavLinks(c *gin.Context) {
	links, err := ctl.categories.BuildNavLinks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": links})
}

// GET /api/categories/slug/:slug
func (ctl *CategoryController) GetBySlug(c *gin.Context) {
	category, err := ctl.categories.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": category})
}

// GET /api/categories/admin/all
func (ctl *CategoryController) ListAdmin(c *gin.Context) {
	categories, err := ctl.categories.ListAdmin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (ctl *CategoryController) Create(c *gin.Context) {
	var input services.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	category, err := ctl.categories.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo danh mục thành công", "data": category})
}

func (ctl *CategoryController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.UpdateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}

	category, err := ctl.categories.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật danh mục thành công", "data": category})
}

type reorderRequest struct {
	Categories []services.CategoryOrder `json:"categories" binding:"required,dive"`
}

// PATCH /api/categories/order
func (ctl *CategoryController) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Danh sách sắp xếp không hợp lệ")
		return
	}
	if err := ctl.categories.Reorder(c.Request.Context(), req.Categories); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật thứ tự thành công"})
}

func (ctl *CategoryController) SoftDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.categories.SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã ẩn danh mục"})
}

// DELETE /api/categories/:id/permanent
func (ctl *CategoryController) HardDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.categories.HardDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa vĩnh viễn danh mục"})
}
