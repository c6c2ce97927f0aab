package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/tonthep-backend/services"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// GET /api/products?category=<slug>&featured=true&search=&page=&limit=
func (ctl *ProductController) ListPublic(c *gin.Context) {
	filter := services.ProductFilter{
		CategorySlug: c.Query("category"),
		Featured:     parseBoolQuery(c, "featured"),
		Search:       c.Query("search"),
		Pagination:   parsePagination(c),
	}
	page, err := ctl.products.ListPublic(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ctl *ProductController) ListAdmin(c *gin.Context) {
	filter := services.ProductFilter{
		Search:     c.Query("search"),
		Pagination: parsePagination(c),
	}
	page, err := ctl.products.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ctl *ProductController) GetBySlug(c *gin.Context) {
	product, err := ctl.products.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (ctl *ProductController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	product, err := ctl.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (ctl *ProductController) Create(c *gin.Context) {
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	product, err := ctl.products.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo sản phẩm thành công", "data": product})
}

func (ctl *ProductController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	product, err := ctl.products.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật sản phẩm thành công", "data": product})
}

// PATCH /api/products/:id/images/:index/remove
func (ctl *ProductController) RemoveImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "Vị trí ảnh không hợp lệ")
		return
	}
	product, err := ctl.products.RemoveImage(c.Request.Context(), id, index)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa ảnh", "data": product})
}

func (ctl *ProductController) SoftDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.products.SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã ẩn sản phẩm"})
}

func (ctl *ProductController) HardDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.products.HardDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa vĩnh viễn sản phẩm"})
}
