package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/tonthep-backend/services"
)

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

func (ctl *PostController) ListPublic(c *gin.Context) {
	filter := services.PostFilter{
		Featured:   parseBoolQuery(c, "featured"),
		Search:     c.Query("search"),
		Pagination: parsePagination(c),
	}
	page, err := ctl.posts.ListPublic(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ctl *PostController) ListAdmin(c *gin.Context) {
	filter := services.PostFilter{
		Search:     c.Query("search"),
		Pagination: parsePagination(c),
	}
	page, err := ctl.posts.ListAdmin(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (ctl *PostController) GetBySlug(c *gin.Context) {
	post, err := ctl.posts.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (ctl *PostController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	post, err := ctl.posts.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (ctl *PostController) Create(c *gin.Context) {
	var input services.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	post, err := ctl.posts.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Tạo bài viết thành công", "data": post})
}

func (ctl *PostController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input services.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	post, err := ctl.posts.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật bài viết thành công", "data": post})
}

func (ctl *PostController) SoftDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.posts.SoftDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã gỡ bài viết"})
}

func (ctl *PostController) HardDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctl.posts.HardDelete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa vĩnh viễn bài viết"})
}
