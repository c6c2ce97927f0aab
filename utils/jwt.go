package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token đã hết hạn")
	ErrTokenInvalid = errors.New("token không hợp lệ")
)

// Claims chỉ mang ID của admin (subject), loại token và token_version lúc cấp.
type Claims struct {
	TokenType string `json:"typ"`
	Version   int    `json:"ver,omitempty"`
	jwt.RegisteredClaims
}

// UserID trả về subject của token.
func (c *Claims) UserID() string {
	return c.Subject
}

// TokenManager ký và xác thực access/refresh token bằng hai secret riêng.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration

	// now cho phép test điều khiển thời gian
	now func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// WithClock đặt lại hàm lấy thời gian hiện tại.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// GenerateAccessToken sinh access token ngắn hạn gắn với version hiện tại của admin.
func (m *TokenManager) GenerateAccessToken(userID string, version int) (string, time.Time, error) {
	return m.sign(userID, TokenTypeAccess, version, m.AccessTTL, m.accessSecret)
}

// GenerateRefreshToken sinh refresh token dài hạn gắn với version hiện tại của admin.
func (m *TokenManager) GenerateRefreshToken(userID string, version int) (string, time.Time, error) {
	return m.sign(userID, TokenTypeRefresh, version, m.RefreshTTL, m.refreshSecret)
}

func (m *TokenManager) sign(userID, tokenType string, version int, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		TokenType: tokenType,
		Version:   version,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, expiresAt, nil
}

// VerifyAccessToken kiểm tra chữ ký, hạn dùng và loại của access token.
func (m *TokenManager) VerifyAccessToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, TokenTypeAccess, m.accessSecret)
}

// VerifyRefreshToken kiểm tra chữ ký, hạn dùng và loại của refresh token.
func (m *TokenManager) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return m.verify(tokenString, TokenTypeRefresh, m.refreshSecret)
}

func (m *TokenManager) verify(tokenString, tokenType string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.TokenType != tokenType || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
