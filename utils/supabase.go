package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// Giới hạn dung lượng ảnh sau khi giải mã base64
const MaxUploadBytes = 10 << 20

var (
	ErrEmptyPayload     = errors.New("dữ liệu file trống")
	ErrInvalidPayload   = errors.New("dữ liệu base64 không hợp lệ")
	ErrPayloadTooLarge  = errors.New("file vượt quá dung lượng cho phép")
	ErrUnsupportedImage = errors.New("định dạng ảnh không được hỗ trợ")
)

// UploadedAsset là kết quả upload: PublicID dùng để xoá, URL để hiển thị.
type UploadedAsset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// DecodeImagePayload nhận data URI ("data:image/png;base64,...") hoặc chuỗi base64 thuần,
// trả về bytes và MIME phát hiện từ nội dung (không tin phần khai báo của client).
func DecodeImagePayload(payload string) ([]byte, *mimetype.MIME, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, nil, ErrEmptyPayload
	}
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx == -1 || !strings.Contains(payload[:idx], ";base64") {
			return nil, nil, ErrInvalidPayload
		}
		payload = payload[idx+1:]
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxUploadBytes+3 {
		return nil, nil, ErrPayloadTooLarge
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, nil, ErrInvalidPayload
	}
	if len(data) == 0 {
		return nil, nil, ErrEmptyPayload
	}
	if len(data) > MaxUploadBytes {
		return nil, nil, ErrPayloadTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, nil, ErrUnsupportedImage
	}
	return data, mt, nil
}

// SupabaseMedia lưu ảnh lên Supabase Storage, PublicID là đường dẫn object trong bucket.
type SupabaseMedia struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

func NewSupabaseMedia(supabaseURL, supabaseKey, bucket string) *SupabaseMedia {
	supabaseURL = strings.TrimRight(supabaseURL, "/")
	return &SupabaseMedia{
		client:  storage.NewClient(supabaseURL+"/storage/v1", supabaseKey, nil),
		baseURL: supabaseURL,
		bucket:  bucket,
	}
}

// Upload giải mã payload và đẩy lên bucket, path: <folder>/<uuid>.<ext>
func (m *SupabaseMedia) Upload(ctx context.Context, payload, folder string) (*UploadedAsset, error) {
	data, mt, err := DecodeImagePayload(payload)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	objectPath := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.New().String(), mt.Extension())
	contentType := mt.String()
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := m.client.UploadFile(m.bucket, objectPath, bytes.NewReader(data), options); err != nil {
		return nil, fmt.Errorf("upload supabase %s: %w", objectPath, err)
	}

	return &UploadedAsset{
		PublicID: objectPath,
		URL:      m.PublicURL(objectPath),
	}, nil
}

// Delete xoá object theo PublicID, PublicID rỗng coi như không có gì để xoá.
func (m *SupabaseMedia) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.client.RemoveFile(m.bucket, []string{publicID}); err != nil {
		return fmt.Errorf("xóa file supabase %s: %w", publicID, err)
	}
	return nil
}

// PublicURL: <SUPABASE_URL>/storage/v1/object/public/<bucket>/<path>
func (m *SupabaseMedia) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", m.baseURL, m.bucket, objectPath)
}
