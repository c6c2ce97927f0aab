package services

import (
	"context"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"

	"github.com/vnkhanh/tonthep-backend/models"
)

func TestBannerOrderIsUnique(t *testing.T) {
	c := qt.New(t)
	svc := NewBannerService(newTestDB(t), newFakeMedia())
	ctx := context.Background()

	first, err := svc.Create(ctx, BannerInput{ImageURL: ptr("https://cdn.test/a.jpg"), Order: ptr(1)})
	c.Assert(err, qt.IsNil)
	c.Assert(first.IsActive, qt.IsTrue)

	_, err = svc.Create(ctx, BannerInput{ImageURL: ptr("https://cdn.test/b.jpg"), Order: ptr(1)})
	var dup *DuplicateKeyError
	c.Assert(errors.As(err, &dup), qt.IsTrue)
	c.Assert(dup.Field, qt.Equals, "order")

	second, err := svc.Create(ctx, BannerInput{ImageURL: ptr("https://cdn.test/b.jpg"), Order: ptr(2)})
	c.Assert(err, qt.IsNil)

	// đổi sang thứ tự của banner khác bị từ chối, giữ nguyên thứ tự của chính nó thì được
	_, err = svc.Update(ctx, second.ID, BannerInput{Order: ptr(1)})
	c.Assert(err, qt.ErrorIs, ErrDuplicateKey)

	updated, err := svc.Update(ctx, second.ID, BannerInput{Order: ptr(2), Alt: ptr("Khuyến mãi")})
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Alt, qt.Equals, "Khuyến mãi")
	c.Assert(updated.Order, qt.Equals, 2)
}

func TestBannerUniqueIndexBacksPreCheck(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)

	c.Assert(db.Create(&models.Banner{ImageURL: "a", Order: 5, IsActive: true}).Error, qt.IsNil)
	err := db.Create(&models.Banner{ImageURL: "b", Order: 5, IsActive: true}).Error
	c.Assert(translateWriteErr(err, "order"), qt.ErrorIs, ErrDuplicateKey)
}

func TestBannerListPublicOnlyActive(t *testing.T) {
	c := qt.New(t)
	svc := NewBannerService(newTestDB(t), newFakeMedia())
	ctx := context.Background()

	_, err := svc.Create(ctx, BannerInput{ImageURL: ptr("c.jpg"), Order: ptr(3)})
	c.Assert(err, qt.IsNil)
	_, err = svc.Create(ctx, BannerInput{ImageURL: ptr("a.jpg"), Order: ptr(1)})
	c.Assert(err, qt.IsNil)
	_, err = svc.Create(ctx, BannerInput{ImageURL: ptr("b.jpg"), Order: ptr(2), IsActive: ptr(false)})
	c.Assert(err, qt.IsNil)

	public, err := svc.ListPublic(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(public, qt.HasLen, 2)
	c.Assert(public[0].ImageURL, qt.Equals, "a.jpg")
	c.Assert(public[1].ImageURL, qt.Equals, "c.jpg")

	all, err := svc.ListAdmin(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.HasLen, 3)
}

func TestBannerImageLifecycle(t *testing.T) {
	c := qt.New(t)
	media := newFakeMedia()
	svc := NewBannerService(newTestDB(t), media)
	ctx := context.Background()

	banner, err := svc.Create(ctx, BannerInput{ImageData: pngPayload, Order: ptr(1)})
	c.Assert(err, qt.IsNil)
	c.Assert(banner.ImagePublicID, qt.IsNotNil)
	oldID := *banner.ImagePublicID
	c.Assert(banner.ImageURL, qt.Equals, "https://cdn.test/"+oldID)

	updated, err := svc.Update(ctx, banner.ID, BannerInput{ImageData: pngPayload})
	c.Assert(err, qt.IsNil)
	c.Assert(*updated.ImagePublicID, qt.Not(qt.Equals), oldID)
	c.Assert(media.Deleted(), qt.DeepEquals, []string{oldID})

	c.Assert(svc.Delete(ctx, banner.ID), qt.IsNil)
	c.Assert(media.Stored(), qt.Equals, 0)
	c.Assert(svc.Delete(ctx, banner.ID), qt.ErrorIs, ErrNotFound)
}

func TestBannerUpdateKeepsAssetStillInUse(t *testing.T) {
	c := qt.New(t)
	media := newFakeMedia()
	svc := NewBannerService(newTestDB(t), media)
	ctx := context.Background()

	banner, err := svc.Create(ctx, BannerInput{ImageData: pngPayload, Order: ptr(1)})
	c.Assert(err, qt.IsNil)
	publicID := *banner.ImagePublicID

	// URL mới (ví dụ bản resize trên CDN) nhưng cùng asset
	updated, err := svc.Update(ctx, banner.ID, BannerInput{
		ImageURL:      ptr("https://cdn.test/" + publicID + "?width=1200"),
		ImagePublicID: ptr(publicID),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(*updated.ImagePublicID, qt.Equals, publicID)
	c.Assert(media.Deleted(), qt.HasLen, 0)
	c.Assert(media.Stored(), qt.Equals, 1)

	// đổi sang asset khác thì asset cũ bị xoá
	_, err = svc.Update(ctx, banner.ID, BannerInput{
		ImageURL:      ptr("https://cdn.test/banners/other.png"),
		ImagePublicID: ptr("banners/other.png"),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(media.Deleted(), qt.DeepEquals, []string{publicID})
}

func TestBannerCreateCleansUpUploadOnConflict(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	media := newFakeMedia()
	svc := NewBannerService(db, media)
	ctx := context.Background()

	_, err := svc.Create(ctx, BannerInput{ImageURL: ptr("a.jpg"), Order: ptr(1)})
	c.Assert(err, qt.IsNil)

	_, err = svc.Create(ctx, BannerInput{ImageData: pngPayload, Order: ptr(1)})
	c.Assert(err, qt.ErrorIs, ErrDuplicateKey)
	c.Assert(media.Stored(), qt.Equals, 0)
}

func TestBannerValidation(t *testing.T) {
	c := qt.New(t)
	svc := NewBannerService(newTestDB(t), newFakeMedia())
	ctx := context.Background()

	_, err := svc.Create(ctx, BannerInput{ImageURL: ptr("a.jpg")})
	c.Assert(err, qt.ErrorIs, ErrValidation)

	_, err = svc.Create(ctx, BannerInput{Order: ptr(1)})
	c.Assert(err, qt.ErrorIs, ErrValidation)

	_, err = svc.Create(ctx, BannerInput{ImageData: "data:text/plain;base64,aGVsbG8=", Order: ptr(1)})
	c.Assert(err, qt.ErrorIs, ErrValidation)

	_, err = svc.Update(ctx, uuid.New(), BannerInput{Order: ptr(1)})
	c.Assert(err, qt.ErrorIs, ErrNotFound)
}
