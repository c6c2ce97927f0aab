package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Lỗi nghiệp vụ, controller dùng errors.Is để chọn HTTP status.
var (
	ErrValidation           = errors.New("dữ liệu không hợp lệ")
	ErrDuplicateKey         = errors.New("dữ liệu bị trùng")
	ErrNotFound             = errors.New("không tìm thấy")
	ErrConflict             = errors.New("xung đột dữ liệu")
	ErrInvalidCredentials   = errors.New("email hoặc mật khẩu không đúng")
	ErrUnauthorized         = errors.New("chưa đăng nhập")
	ErrTokenExpired         = errors.New("phiên đăng nhập đã hết hạn")
	ErrForbidden            = errors.New("không có quyền truy cập")
	ErrIncorrectOldPassword = errors.New("mật khẩu cũ không đúng")
	ErrUserNotFound         = errors.New("người dùng không tồn tại")
	ErrTooManyRequests      = errors.New("quá nhiều yêu cầu")
)

// ValidationError báo trường bắt buộc bị thiếu hoặc sai định dạng.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationErr(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateKeyError báo giá trị duy nhất (slug, order, email) đã tồn tại.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s đã tồn tại", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// ConflictError báo thao tác bị chặn vì còn bản ghi phụ thuộc.
type ConflictError struct {
	Message  string
	Children int64
	Products int64
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// translateWriteErr đổi lỗi unique constraint của DB thành DuplicateKeyError.
func translateWriteErr(err error, field string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &DuplicateKeyError{Field: field}
	}
	return err
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
