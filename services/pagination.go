package services

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Pagination theo page/limit, giá trị không hợp lệ được đưa về mặc định.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageLimit
	}
	if p.Limit > maxPageLimit {
		p.Limit = maxPageLimit
	}
	return p
}

type Page[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

// paginate đếm tổng trước rồi mới preload và lấy trang dữ liệu.
func paginate[T any](query *gorm.DB, p Pagination, order string, preloads ...string) (*Page[T], error) {
	p = p.normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	find := query.Session(&gorm.Session{})
	for _, preload := range preloads {
		find = find.Preload(preload)
	}

	items := make([]T, 0)
	if err := find.Order(order).Offset((p.Page - 1) * p.Limit).Limit(p.Limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find page: %w", err)
	}

	return &Page[T]{
		Data:       items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: (total + int64(p.Limit) - 1) / int64(p.Limit),
	}, nil
}
