package controllers

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/tonthep-backend/services"
	"github.com/vnkhanh/tonthep-backend/utils"
)

type UploadInput struct {
	Data   string `json:"data" binding:"required"`
	Folder string `json:"folder"`
}

type UploadController struct {
	media *services.MediaService
}

func NewUploadController(media *services.MediaService) *UploadController {
	return &UploadController{media: media}
}

// POST /api/admin/uploads
// Nhận JSON {data, folder} hoặc multipart với field "file".
func (ctl *UploadController) Upload(c *gin.Context) {
	var input UploadInput
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		payload, ok := readMultipartImage(c)
		if !ok {
			return
		}
		input = UploadInput{Data: payload, Folder: c.PostForm("folder")}
	} else if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Thiếu dữ liệu ảnh")
		return
	}

	asset, err := ctl.media.Upload(c.Request.Context(), input.Data, input.Folder)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, asset)
}

func readMultipartImage(c *gin.Context) (string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "Không có file đính kèm")
		return "", false
	}
	if file.Size > utils.MaxUploadBytes {
		badRequest(c, "File vượt quá 10MB")
		return "", false
	}

	f, err := file.Open()
	if err != nil {
		badRequest(c, "Không thể đọc file")
		return "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, utils.MaxUploadBytes+1))
	if err != nil {
		badRequest(c, "Không thể đọc file")
		return "", false
	}
	return base64.StdEncoding.EncodeToString(data), true
}

// DELETE /api/admin/uploads?public_id=
func (ctl *UploadController) Delete(c *gin.Context) {
	if err := ctl.media.Delete(c.Request.Context(), c.Query("public_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa ảnh"})
}
