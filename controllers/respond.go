package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vnkhanh/tonthep-backend/services"
)

// respondError đổi lỗi nghiệp vụ thành HTTP status, lỗi lạ trả 500 và ghi log.
func respondError(c *gin.Context, err error) {
	var validation *services.ValidationError
	var duplicate *services.DuplicateKeyError
	var conflict *services.ConflictError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message, "field": validation.Field, "code": "VALIDATION_ERROR"})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": duplicateMessage(duplicate.Field), "field": duplicate.Field, "code": "DUPLICATE_KEY"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{
			"error":    conflict.Message,
			"code":     "CONFLICT",
			"children": conflict.Children,
			"products": conflict.Products,
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy dữ liệu", "code": "NOT_FOUND"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Người dùng không tồn tại", "code": "USER_NOT_FOUND"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email hoặc mật khẩu không đúng", "code": "INVALID_CREDENTIALS"})
	case errors.Is(err, services.ErrIncorrectOldPassword):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mật khẩu cũ không đúng", "code": "INCORRECT_OLD_PASSWORD"})
	case errors.Is(err, services.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Phiên đăng nhập đã hết hạn", "code": "TOKEN_EXPIRED"})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Chưa đăng nhập", "code": "UNAUTHORIZED"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Phiên đăng nhập không hợp lệ, vui lòng đăng nhập lại", "code": "FORBIDDEN"})
	case errors.Is(err, services.ErrTooManyRequests):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Bạn thử quá nhiều lần, vui lòng thử lại sau", "code": "TOO_MANY_REQUESTS"})
	default:
		log.Printf("[api] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi máy chủ, vui lòng thử lại sau"})
	}
}

func duplicateMessage(field string) string {
	switch field {
	case "slug":
		return "Slug đã tồn tại"
	case "order":
		return "Thứ tự đã được sử dụng"
	case "email":
		return "Email đã được sử dụng"
	}
	return "Dữ liệu bị trùng"
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": "VALIDATION_ERROR"})
}

// parseID đọc :id dạng UUID, sai định dạng thì trả 400 và false.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "ID không hợp lệ")
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context) services.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return services.Pagination{Page: page, Limit: limit}
}

// parseBoolQuery trả nil khi không truyền hoặc giá trị không hợp lệ.
func parseBoolQuery(c *gin.Context, key string) *bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
