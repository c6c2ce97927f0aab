package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/tonthep-backend/middleware"
	"github.com/vnkhanh/tonthep-backend/services"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type AuthController struct {
	auth *services.AuthService
	// secure bật cờ Secure cho cookie (production chạy HTTPS)
	secure bool
}

func NewAuthController(auth *services.AuthService, secure bool) *AuthController {
	return &AuthController{auth: auth, secure: secure}
}

func (ctl *AuthController) setTokenCookies(c *gin.Context, pair *services.TokenPair) {
	tokens := ctl.auth.Tokens()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(tokens.AccessTTL.Seconds()), "/", "", ctl.secure, true)
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken, int(tokens.RefreshTTL.Seconds()), "/", "", ctl.secure, true)
}

func (ctl *AuthController) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", ctl.secure, true)
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", ctl.secure, true)
}

func (ctl *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Email và mật khẩu bắt buộc")
		return
	}

	pair, user, err := ctl.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	ctl.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{
		"message": "Đăng nhập thành công",
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": user.FullName,
		},
	})
}

// Refresh xoay vòng cặp token; thất bại thì không ghi cookie nào.
func (ctl *AuthController) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		respondError(c, services.ErrForbidden)
		return
	}

	pair, err := ctl.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	ctl.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"message": "Làm mới phiên đăng nhập thành công"})
}

func (ctl *AuthController) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && refreshToken != "" {
		ctl.auth.Logout(c.Request.Context(), refreshToken)
	}
	ctl.clearTokenCookies(c)
	c.JSON(http.StatusOK, gin.H{"message": "Đăng xuất thành công"})
}

func (ctl *AuthController) Me(c *gin.Context) {
	user, err := ctl.auth.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (ctl *AuthController) ChangePassword(c *gin.Context) {
	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Mật khẩu cũ và mật khẩu mới bắt buộc")
		return
	}

	pair, err := ctl.auth.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), input.OldPassword, input.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	ctl.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"message": "Đổi mật khẩu thành công"})
}
