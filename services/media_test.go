package services

import (
	"context"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestMediaServiceUpload(t *testing.T) {
	c := qt.New(t)
	media := newFakeMedia()
	svc := NewMediaService(media)
	ctx := context.Background()

	asset, err := svc.Upload(ctx, pngPayload, "")
	c.Assert(err, qt.IsNil)
	c.Assert(strings.HasPrefix(asset.PublicID, FolderMisc+"/"), qt.IsTrue)
	c.Assert(strings.HasSuffix(asset.PublicID, ".png"), qt.IsTrue)

	_, err = svc.Upload(ctx, pngPayload, "../secrets")
	c.Assert(err, qt.ErrorIs, ErrValidation)

	_, err = svc.Upload(ctx, "%%%", FolderPosts)
	c.Assert(err, qt.ErrorIs, ErrValidation)

	c.Assert(svc.Delete(ctx, asset.PublicID), qt.IsNil)
	c.Assert(media.Stored(), qt.Equals, 0)
	c.Assert(svc.Delete(ctx, ""), qt.ErrorIs, ErrValidation)
}

func TestMediaServiceWithoutStore(t *testing.T) {
	c := qt.New(t)
	svc := NewMediaService(nil)

	_, err := svc.Upload(context.Background(), pngPayload, FolderBanners)
	c.Assert(err, qt.ErrorIs, ErrValidation)
}
