package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/tonthep-backend/services"
)

type BannerController struct {
	banners *services.BannerService
}

func NewBannerController(banners *services.BannerService) *BannerController {
	return &BannerController{banners: banners}
}

func (ctl *BannerController) ListPublic(c *gin.Context) {
	banners, err := ctl.banners.ListPublic(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": banners})
}

func (ctl *BannerController) ListAdmin(c *gin.Context) {
	banners, err := ctl.banners.ListAdmin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": banners})
}

func (ctl *BannerController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	banner, err := ctl.banners.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": banner})
}

func (ctl *BannerController) Create(c *gin.Context) {
	var input services.BannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	banner, err := ctl.banners.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo banner thành công", "data": banner})
}

func (ctl *BannerController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.BannerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	banner, err := ctl.banners.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật banner thành công", "data": banner})
}

func (ctl *BannerController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.banners.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa banner"})
}
