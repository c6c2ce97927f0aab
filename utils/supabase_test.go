package utils

import (
	"encoding/base64"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

const pngBase64 = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func TestDecodeImagePayload(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name    string
		payload string
		err     error
	}{
		{"data uri", "data:image/png;base64," + pngBase64, nil},
		{"raw base64", pngBase64, nil},
		{"declared type is ignored", "data:image/jpeg;base64," + pngBase64, nil},
		{"empty", "  ", ErrEmptyPayload},
		{"missing base64 marker", "data:image/png," + pngBase64, ErrInvalidPayload},
		{"not base64", "data:image/png;base64,@@@", ErrInvalidPayload},
		{"not an image", "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("xin chào")), ErrUnsupportedImage},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			data, mt, err := DecodeImagePayload(tt.payload)
			if tt.err != nil {
				c.Assert(err, qt.Equals, tt.err)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(len(data) > 0, qt.IsTrue)
			c.Assert(mt.String(), qt.Equals, "image/png")
			c.Assert(mt.Extension(), qt.Equals, ".png")
		})
	}
}

func TestDecodeImagePayloadTooLarge(t *testing.T) {
	c := qt.New(t)
	payload := strings.Repeat("A", base64.StdEncoding.EncodedLen(MaxUploadBytes+1024))
	_, _, err := DecodeImagePayload(payload)
	c.Assert(err, qt.Equals, ErrPayloadTooLarge)
}

func TestSupabasePublicURL(t *testing.T) {
	c := qt.New(t)
	m := NewSupabaseMedia("https://abc.supabase.co/", "key", "media")
	c.Assert(m.PublicURL("banners/x.png"), qt.Equals, "https://abc.supabase.co/storage/v1/object/public/media/banners/x.png")
}
