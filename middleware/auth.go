package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/tonthep-backend/services"
	"github.com/vnkhanh/tonthep-backend/utils"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	// ContextUserID là key lưu id admin trong gin.Context
	ContextUserID = "user_id"
)

// accessToken lấy token từ cookie, không có thì thử Authorization header.
func accessToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	parts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// authenticate gắn user_id vào context, lỗi thì abort và trả false.
func authenticate(c *gin.Context, auth *services.AuthService) (*utils.Claims, bool) {
	token := accessToken(c)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Chưa đăng nhập", "code": "UNAUTHORIZED"})
		return nil, false
	}

	claims, err := auth.Authenticate(token)
	if err != nil {
		if errors.Is(err, services.ErrTokenExpired) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Phiên đăng nhập đã hết hạn", "code": "TOKEN_EXPIRED"})
			return nil, false
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ", "code": "UNAUTHORIZED"})
		return nil, false
	}

	c.Set(ContextUserID, claims.UserID())
	return claims, true
}

// CurrentUserID trả về id admin do RequireAdmin gắn vào context.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
