package services

import (
	"context"
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"

	"github.com/vnkhanh/tonthep-backend/models"
	"github.com/vnkhanh/tonthep-backend/utils"
)

func createCategory(c *qt.C, svc *CategoryService, name, slug string, parentID *uuid.UUID, order int) *models.Category {
	c.Helper()
	category, err := svc.Create(context.Background(), CreateCategoryInput{
		Name:     name,
		Slug:     slug,
		ParentID: parentID,
		Order:    &order,
	})
	c.Assert(err, qt.IsNil)
	return category
}

func TestCategoryCreateAndDuplicateSlug(t *testing.T) {
	c := qt.New(t)
	svc := NewCategoryService(newTestDB(t))
	ctx := context.Background()

	category, err := svc.Create(ctx, CreateCategoryInput{Name: "Tôn lạnh", Slug: "ton-lanh"})
	c.Assert(err, qt.IsNil)
	c.Assert(category.ID, qt.Not(qt.Equals), uuid.Nil)
	c.Assert(category.IsActive, qt.IsTrue)
	c.Assert(category.Order, qt.Equals, 0)
	c.Assert(category.ParentID, qt.IsNil)

	_, err = svc.Create(ctx, CreateCategoryInput{Name: "Tôn lạnh 2", Slug: "ton-lanh"})
	c.Assert(err, qt.ErrorIs, ErrDuplicateKey)
	var dup *DuplicateKeyError
	c.Assert(errors.As(err, &dup), qt.IsTrue)
	c.Assert(dup.Field, qt.Equals, "slug")
}

func TestCategoryCreateValidation(t *testing.T) {
	c := qt.New(t)
	svc := NewCategoryService(newTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateCategoryInput
		field string
	}{
		{"missing name", CreateCategoryInput{Slug: "abc"}, "name"},
		{"missing slug", CreateCategoryInput{Name: "Abc"}, "slug"},
		{"bad slug", CreateCategoryInput{Name: "Abc", Slug: "Tôn Lạnh"}, "slug"},
		{"unknown parent", CreateCategoryInput{Name: "Abc", Slug: "abc", ParentID: ptr(uuid.New())}, "parent_id"},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			_, err := svc.Create(ctx, tt.input)
			var verr *ValidationError
			c.Assert(errors.As(err, &verr), qt.IsTrue, qt.Commentf("err = %v", err))
			c.Assert(verr.Field, qt.Equals, tt.field)
			c.Assert(err, qt.ErrorIs, ErrValidation)
		})
	}
}

func TestCategoryUpdatePartial(t *testing.T) {
	c := qt.New(t)
	svc := NewCategoryService(newTestDB(t))
	ctx := context.Background()

	root := createCategory(c, svc, "Tôn", "ton", nil, 1)
	child, err := svc.Create(ctx, CreateCategoryInput{
		Name:        "Tôn kẽm",
		Slug:        "ton-kem",
		Description: ptr("mô tả"),
		ParentID:    &root.ID,
	})
	c.Assert(err, qt.IsNil)

	updated, err := svc.Update(ctx, child.ID, UpdateCategoryInput{Name: ptr("Tôn mạ kẽm")})
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Name, qt.Equals, "Tôn mạ kẽm")
	c.Assert(updated.Slug, qt.Equals, "ton-kem")
	c.Assert(*updated.Description, qt.Equals, "mô tả")
	c.Assert(*updated.ParentID, qt.Equals, root.ID)

	// null tường minh xoá mô tả và tách khỏi danh mục cha
	updated, err = svc.Update(ctx, child.ID, UpdateCategoryInput{
		Description: utils.Null[string](),
		ParentID:    utils.Null[uuid.UUID](),
	})
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Description, qt.IsNil)
	c.Assert(updated.ParentID, qt.IsNil)

	_, err = svc.Update(ctx, uuid.New(), UpdateCategoryInput{Name: ptr("x")})
	c.Assert(err, qt.ErrorIs, ErrNotFound)
}

func TestCategoryUpdateRejectsCycles(t *testing.T) {
	c := qt.New(t)
	svc := NewCategoryService(newTestDB(t))
	ctx := context.Background()

	a := createCategory(c, svc, "A", "a", nil, 1)
	b := createCategory(c, svc, "B", "b", &a.ID, 1)
	cc := createCategory(c, svc, "C", "c", &b.ID, 1)

	_, err := svc.Update(ctx, a.ID, UpdateCategoryInput{ParentID: utils.Some(a.ID)})
	c.Assert(err, qt.ErrorIs, ErrValidation)

	_, err = svc.Update(ctx, a.ID, UpdateCategoryInput{ParentID: utils.Some(cc.ID)})
	c.Assert(err, qt.ErrorIs, ErrValidation)

	_, err = svc.Update(ctx, cc.ID, UpdateCategoryInput{ParentID: utils.Some(uuid.New())})
	c.Assert(err, qt.ErrorIs, ErrValidation)

	// chuyển C lên làm con trực tiếp của A là hợp lệ
	updated, err := svc.Update(ctx, cc.ID, UpdateCategoryInput{ParentID: utils.Some(a.ID)})
	c.Assert(err, qt.IsNil)
	c.Assert(*updated.ParentID, qt.Equals, a.ID)
}

func TestCategoryUpdateDuplicateSlug(t *testing.T) {
	c := qt.New(t)
	svc := NewCategoryService(newTestDB(t))

	createCategory(c, svc, "A", "a", nil, 1)
	b := createCategory(c, svc, "B", "b", nil, 2)

	_, err := svc.Update(context.Background(), b.ID, UpdateCategoryInput{Slug: ptr("a")})
	c.Assert(err, qt.ErrorIs, ErrDuplicateKey)
}

func TestCategorySoftDeleteKeepsChildren(t *testing.T) {
	c := qt.New(t)
	svc := NewCategoryService(newTestDB(t))
	ctx := context.Background()

	root := createCategory(c, svc, "Tôn", "ton", nil, 1)
	child := createCategory(c, svc, "Tôn kẽm", "ton-kem", &root.ID, 1)

	c.Assert(svc.SoftDelete(ctx, root.ID), qt.IsNil)

	got, err := svc.Get(ctx, root.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.IsActive, qt.IsFalse)

	got, err = svc.Get(ctx, child.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.IsActive, qt.IsTrue)
	c.Assert(*got.ParentID, qt.Equals, root.ID)

	_, err = svc.GetBySlug(ctx, "ton")
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	c.Assert(svc.SoftDelete(ctx, uuid.New()), qt.ErrorIs, ErrNotFound)
}

func TestCategoryHardDelete(t *testing.T) {
	c := qt.New(t)
	db := newTestDB(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	root := createCategory(c, svc, "Tôn", "ton", nil, 1)
	child := createCategory(c, svc, "Tôn kẽm", "ton-kem", &root.ID, 1)
	c.Assert(db.Create(&models.Product{
		Name:       "Tôn kẽm 0.4",
		Slug:       "ton-kem-04",
		CategoryID: &child.ID,
		IsActive:   true,
	}).Error, qt.IsNil)

	err := svc.HardDelete(ctx, root.ID)
	c.Assert(err, qt.ErrorIs, ErrConflict)
	var conflict *ConflictError
	c.Assert(errors.As(err, &conflict), qt.IsTrue)
	c.Assert(conflict.Children, qt.Equals, int64(1))
	c.Assert(conflict.Products, qt.Equals, int64(0))

	err = svc.HardDelete(ctx, child.ID)
	c.Assert(errors.As(err, &conflict), qt.IsTrue)
	c.Assert(conflict.Children, qt.Equals, int64(0))
	c.Assert(conflict.Products, qt.Equals, int64(1))

	c.Assert(db.Where("slug = ?", "ton-kem-04").Delete(&models.Product{}).Error, qt.IsNil)
	c.Assert(svc.HardDelete(ctx, child.ID), qt.IsNil)
	c.Assert(svc.HardDelete(ctx, root.ID), qt.IsNil)

	_, err = svc.Get(ctx, root.ID)
	c.Assert(err, qt.ErrorIs, ErrNotFound)
	c.Assert(svc.HardDelete(ctx, root.ID), qt.ErrorIs, ErrNotFound)
}

func TestCategoryReorderIsAtomic(t *testing.T) {
	c := qt.New(t)
	svc := NewCategoryService(newTestDB(t))
	ctx := context.Background()

	a := createCategory(c, svc, "A", "a", nil, 1)
	b := createCategory(c, svc, "B", "b", nil, 2)

	err := svc.Reorder(ctx, []CategoryOrder{
		{ID: a.ID, Order: 10},
		{ID: uuid.New(), Order: 20},
	})
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	got, err := svc.Get(ctx, a.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Order, qt.Equals, 1)

	c.Assert(svc.Reorder(ctx, []CategoryOrder{{ID: a.ID, Order: 2}, {ID: b.ID, Order: 1}}), qt.IsNil)

	list, err := svc.ListPublic(ctx, false)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 2)
	c.Assert(list[0].Slug, qt.Equals, "b")
	c.Assert(list[1].Slug, qt.Equals, "a")

	c.Assert(svc.Reorder(ctx, nil), qt.ErrorIs, ErrValidation)
}

func TestCategoryListPublicOnlyActiveChildren(t *testing.T) {
	c := qt.New(t)
	svc := NewCategoryService(newTestDB(t))
	ctx := context.Background()

	root := createCategory(c, svc, "Tôn", "ton", nil, 0)
	createCategory(c, svc, "Tôn kẽm", "ton-kem", &root.ID, 2)
	createCategory(c, svc, "Tôn lạnh", "ton-lanh", &root.ID, 1)
	hidden := createCategory(c, svc, "Tôn cũ", "ton-cu", &root.ID, 3)
	c.Assert(svc.SoftDelete(ctx, hidden.ID), qt.IsNil)

	list, err := svc.ListPublic(ctx, true)
	c.Assert(err, qt.IsNil)
	// cả danh mục gốc và con đang hoạt động đều nằm trong danh sách phẳng
	c.Assert(list, qt.HasLen, 3)
	c.Assert(list[0].Slug, qt.Equals, "ton")
	c.Assert(list[0].Children, qt.HasLen, 2)
	c.Assert(list[0].Children[0].Slug, qt.Equals, "ton-lanh")
	c.Assert(list[0].Children[1].Slug, qt.Equals, "ton-kem")

	list, err = svc.ListPublic(ctx, false)
	c.Assert(err, qt.IsNil)
	c.Assert(list[0].Children, qt.HasLen, 0)

	all, err := svc.ListAdmin(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.HasLen, 4)

	page, err := svc.GetBySlug(ctx, "ton")
	c.Assert(err, qt.IsNil)
	c.Assert(page.Children, qt.HasLen, 2)
}

func TestCategoryNavLinks(t *testing.T) {
	c := qt.New(t)
	svc := NewCategoryService(newTestDB(t))
	ctx := context.Background()

	ton := createCategory(c, svc, "Tôn", "ton", nil, 1)
	xa := createCategory(c, svc, "Xà gồ", "xa-go", nil, 2)
	hiddenRoot := createCategory(c, svc, "Ẩn", "an", nil, 3)
	createCategory(c, svc, "Tôn kẽm", "ton-kem", &ton.ID, 1)
	hiddenChild := createCategory(c, svc, "Tôn cũ", "ton-cu", &ton.ID, 2)
	createCategory(c, svc, "Tôn lạnh", "ton-lanh", &ton.ID, 3)
	createCategory(c, svc, "Con của ẩn", "con-cua-an", &hiddenRoot.ID, 1)
	c.Assert(svc.SoftDelete(ctx, hiddenChild.ID), qt.IsNil)
	c.Assert(svc.SoftDelete(ctx, hiddenRoot.ID), qt.IsNil)

	links, err := svc.BuildNavLinks(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(links, qt.DeepEquals, []models.NavLink{
		{
			Href:  "/ton",
			Label: "Tôn",
			Submenu: []models.NavLink{
				{Href: "/ton/ton-kem", Label: "Tôn kẽm"},
				{Href: "/ton/ton-lanh", Label: "Tôn lạnh"},
			},
		},
		{Href: "/xa-go", Label: xa.Name},
	})
	c.Assert(links[0].Submenu, qt.HasLen, 2)
}
