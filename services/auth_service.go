package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vnkhanh/tonthep-backend/models"
	"github.com/vnkhanh/tonthep-backend/utils"
)

const minPasswordLength = 6

// dummyHash dùng khi email không tồn tại để thời gian phản hồi giống khi sai mật khẩu.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("tonthep-dummy-password"), bcrypt.DefaultCost)

// TokenPair là cặp token cấp cho admin sau khi đăng nhập hoặc refresh.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AuthService struct {
	db     *gorm.DB
	tokens *utils.TokenManager
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenManager) *AuthService {
	return &AuthService{db: db, tokens: tokens}
}

// Tokens trả về TokenManager, controller cần TTL để đặt Max-Age cho cookie.
func (s *AuthService) Tokens() *utils.TokenManager {
	return s.tokens
}

// Login không phân biệt email sai hay mật khẩu sai.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *models.AdminUser, error) {
	email = normalizeEmail(email)

	var user models.AdminUser
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("find admin: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(user.ID, user.TokenVersion)
	if err != nil {
		return nil, nil, err
	}
	return pair, &user, nil
}

// Authenticate xác thực access token; hết hạn trả ErrTokenExpired để client biết cần refresh.
func (s *AuthService) Authenticate(accessToken string) (*utils.Claims, error) {
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Refresh xoay vòng cặp token. Version trong refresh token phải khớp version hiện tại,
// việc tăng version là UPDATE có điều kiện nên hai request đồng thời chỉ một cái thành công.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrForbidden
	}
	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, ErrForbidden
	}

	db := s.db.WithContext(ctx)
	var user models.AdminUser
	if err := db.Select("id", "token_version").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if user.TokenVersion != claims.Version {
		return nil, ErrForbidden
	}

	nextVersion, err := s.bumpVersion(db, userID, claims.Version)
	if err != nil {
		return nil, err
	}
	return s.issuePair(userID, nextVersion)
}

// Logout thu hồi refresh token nếu còn hợp lệ, lỗi đều bỏ qua.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return
	}
	userID, err := uuid.Parse(claims.UserID())
	if err != nil {
		return
	}
	if _, err := s.bumpVersion(s.db.WithContext(ctx), userID, claims.Version); err != nil && !errors.Is(err, ErrForbidden) {
		log.Printf("[auth] thu hồi refresh token thất bại: %v", err)
	}
}

// Me trả về admin theo id trong access token.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.AdminUser, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	var user models.AdminUser
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CurrentAdmin nạp admin của access token; version đã tăng (refresh, logout, đổi mật khẩu)
// thì token cũ bị từ chối ngay, không chờ hết hạn.
func (s *AuthService) CurrentAdmin(ctx context.Context, claims *utils.Claims) (*models.AdminUser, error) {
	user, err := s.Me(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}
	if user.TokenVersion != claims.Version {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// ChangePassword kiểm tra lại mật khẩu cũ; đổi xong thì các phiên khác bị đăng xuất
// và trả về cặp token mới cho phiên hiện tại.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (*TokenPair, error) {
	if len(newPassword) < minPasswordLength {
		return nil, validationErr("new_password", fmt.Sprintf("Mật khẩu mới tối thiểu %d ký tự", minPasswordLength))
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return nil, ErrIncorrectOldPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	nextVersion := user.TokenVersion + 1
	result := s.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ? AND token_version = ?", user.ID, user.TokenVersion).
		Updates(map[string]interface{}{
			"password":      string(hashed),
			"token_version": nextVersion,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// phiên bị xoay vòng đồng thời, yêu cầu thử lại
		return nil, ErrForbidden
	}
	return s.issuePair(user.ID, nextVersion)
}

// EnsureAdmin tạo tài khoản admin hoặc đặt lại mật khẩu nếu email đã tồn tại.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, fullName string) (*models.AdminUser, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationErr("email", "Email không hợp lệ")
	}
	if len(password) < minPasswordLength {
		return nil, validationErr("password", fmt.Sprintf("Mật khẩu tối thiểu %d ký tự", minPasswordLength))
	}
	if strings.TrimSpace(fullName) == "" {
		fullName = "Quản trị viên"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	db := s.db.WithContext(ctx)
	var user models.AdminUser
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.AdminUser{Email: email, FullName: fullName, Password: string(hashed)}
		if err := db.Create(&user).Error; err != nil {
			return nil, translateWriteErr(err, "email")
		}
	case err != nil:
		return nil, err
	default:
		err := db.Model(&user).Updates(map[string]interface{}{
			"password":      string(hashed),
			"full_name":     fullName,
			"token_version": gorm.Expr("token_version + 1"),
		}).Error
		if err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// bumpVersion tăng version khi version hiện tại vẫn là expected, nếu không thì ErrForbidden.
func (s *AuthService) bumpVersion(db *gorm.DB, userID uuid.UUID, expected int) (int, error) {
	result := db.Model(&models.AdminUser{}).
		Where("id = ? AND token_version = ?", userID, expected).
		Update("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return 0, fmt.Errorf("bump token version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrForbidden
	}
	return expected + 1, nil
}

func (s *AuthService) issuePair(userID uuid.UUID, version int) (*TokenPair, error) {
	access, accessExp, err := s.tokens.GenerateAccessToken(userID.String(), version)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.tokens.GenerateRefreshToken(userID.String(), version)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
