package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/tonthep-backend/services"
)

// RequireAdmin xác thực token rồi kiểm tra tài khoản admin còn tồn tại
// và token chưa bị thu hồi.
func RequireAdmin(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c, auth)
		if !ok {
			return
		}

		if _, err := auth.CurrentAdmin(c.Request.Context(), claims); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy tài khoản quản trị", "code": "UNAUTHORIZED"})
				return
			}
			if errors.Is(err, services.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Phiên đăng nhập đã bị thu hồi", "code": "UNAUTHORIZED"})
				return
			}
			log.Printf("[auth] lỗi kiểm tra admin: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Lỗi máy chủ"})
			return
		}
		c.Next()
	}
}
