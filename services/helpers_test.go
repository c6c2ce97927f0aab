package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/tonthep-backend/config"
	"github.com/vnkhanh/tonthep-backend/utils"
)

// pngPayload là ảnh PNG 1x1 dạng data URI.
const pngPayload = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	// một connection để mọi truy vấn dùng chung DB in-memory
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	return db
}

// fakeMedia giải mã payload như storage thật nhưng giữ file trong bộ nhớ.
type fakeMedia struct {
	mu        sync.Mutex
	seq       int
	stored    map[string]bool
	deleted   []string
	failAfter int // >0: lần upload thứ failAfter+1 trở đi sẽ lỗi
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{stored: make(map[string]bool)}
}

var errUploadFailed = errors.New("upload failed")

func (m *fakeMedia) Upload(_ context.Context, payload, folder string) (*utils.UploadedAsset, error) {
	_, mt, err := utils.DecodeImagePayload(payload)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && m.seq >= m.failAfter {
		return nil, errUploadFailed
	}
	m.seq++
	id := fmt.Sprintf("%s/img-%d%s", folder, m.seq, mt.Extension())
	m.stored[id] = true
	return &utils.UploadedAsset{PublicID: id, URL: "https://cdn.test/" + id}, nil
}

func (m *fakeMedia) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stored, publicID)
	m.deleted = append(m.deleted, publicID)
	return nil
}

func (m *fakeMedia) Stored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}

func (m *fakeMedia) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

func ptr[T any](v T) *T {
	return &v
}
