package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/tonthep-backend/services"
)

type ContactController struct {
	contact *services.ContactService
}

func NewContactController(contact *services.ContactService) *ContactController {
	return &ContactController{contact: contact}
}

func (ctl *ContactController) Get(c *gin.Context) {
	info, err := ctl.contact.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": info})
}

func (ctl *ContactController) Upsert(c *gin.Context) {
	var input services.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Dữ liệu không hợp lệ")
		return
	}
	info, err := ctl.contact.Upsert(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cập nhật thông tin liên hệ thành công", "data": info})
}
