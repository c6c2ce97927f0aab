package utils

import (
	"context"
	"log"
	"time"
)

// StartCleanupJob chạy fn ngay lần đầu rồi lặp lại theo interval cho tới khi ctx bị huỷ.
func StartCleanupJob(ctx context.Context, name string, interval time.Duration, fn func()) {
	fn()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Printf("[cleanup] %s dừng", name)
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	log.Printf("[cleanup] %s đã được khởi động (chạy mỗi %s)", name, interval)
}
