package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

func (ctl *HealthController) HealthCheck(c *gin.Context) {
	// Mặc định trạng thái OK
	response := gin.H{
		"status":    "ok",
		"message":   "Service is healthy",
		"timestamp": time.Now().Unix(),
		"db":        "ok",
	}

	sqlDB, err := ctl.db.DB()
	if err != nil {
		response["db"] = "error: cannot get DB instance"
		response["status"] = "degraded"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		response["db"] = "error: cannot connect to DB"
		response["status"] = "degraded"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	c.JSON(http.StatusOK, response)
}
