package services

import (
	"context"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vnkhanh/tonthep-backend/models"
)

func TestContactUpsert(t *testing.T) {
	c := qt.New(t)
	svc := NewContactService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Get(ctx)
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	created, err := svc.Upsert(ctx, ContactInput{
		CompanyName: ptr("Công ty Tôn Thép"),
		Hotline:     ptr("1900 1234"),
		Phones:      []string{"0901234567"},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(created.CompanyName, qt.Equals, "Công ty Tôn Thép")
	c.Assert([]string(created.Addresses), qt.HasLen, 0)

	updated, err := svc.Upsert(ctx, ContactInput{
		Addresses:   []string{"KCN Sóng Thần, Bình Dương"},
		SocialLinks: []models.SocialLink{{Platform: "zalo", URL: "https://zalo.me/0901234567"}},
	})
	c.Assert(err, qt.IsNil)
	c.Assert(updated.ID, qt.Equals, created.ID)
	c.Assert(updated.CompanyName, qt.Equals, "Công ty Tôn Thép")
	c.Assert([]string(updated.Phones), qt.DeepEquals, []string{"0901234567"})
	c.Assert([]string(updated.Addresses), qt.DeepEquals, []string{"KCN Sóng Thần, Bình Dương"})
	c.Assert(updated.SocialLinks, qt.HasLen, 1)

	_, err = svc.Upsert(ctx, ContactInput{Email: ptr("khong-hop-le")})
	c.Assert(err, qt.ErrorIs, ErrValidation)
}
