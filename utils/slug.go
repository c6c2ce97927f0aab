package utils

import (
	"strings"

	"github.com/gosimple/slug"
)

// GenerateSlug sinh slug từ tên tiếng Việt, vd "Tôn Kẽm" -> "ton-kem".
func GenerateSlug(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// IsValidSlug kiểm tra slug chỉ gồm chữ thường ASCII, số và dấu gạch.
func IsValidSlug(s string) bool {
	return slug.IsSlug(s)
}
