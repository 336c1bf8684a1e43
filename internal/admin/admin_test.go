// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharabouqet/florist/internal/testutil"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	s := New(db)
	clock := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func ptr[T any](v T) *T { return &v }

func TestProducts_SubmitCreateRefetches(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	out, err := s.Products.Submit(ctx, Creating{}, ProductForm{
		Name:            "Pink Roses",
		OriginalPrice:   ptr(int64(200000)),
		DiscountPercent: ptr(10),
		Category:        "Bouquet",
		Images:          []string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(180000), out.Saved.Price)
	assert.Equal(t, "10% OFF", out.Saved.Discount)
	assert.Equal(t, "https://cdn.test/a.jpg", out.Saved.ImageUrl)
	assert.Equal(t, []string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg"}, out.Saved.ImageList())
	require.Len(t, out.Items, 1)
	assert.Equal(t, out.Saved.ID, out.Items[0].ID)
	assert.Equal(t, Creating{}, out.Mode)
	assert.Empty(t, out.Form.Name)
}

func TestProducts_SubmitFailureDoesNotWrite(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	out, err := s.Products.Submit(ctx, Creating{}, ProductForm{Name: "  ", Price: 1000})
	assert.Nil(t, out)
	fields, ok := FieldErrors(err)
	require.True(t, ok, "want validation error, got %v", err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "category")

	items, err := s.Products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProducts_SubmitEditing(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	created, err := s.Products.Create(ctx, ProductForm{Name: "Lily", Price: 90000, Category: "Bouquet", ImageURL: "https://cdn.test/l.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.test/l.jpg"}, created.ImageList())

	form := ProductFormFrom(created)
	form.Name = "White Lily"
	form.OriginalPrice = ptr(int64(99999))
	form.Discount = "Promo Lebaran"
	out, err := s.Products.Submit(ctx, Editing{ID: created.ID}, form)
	require.NoError(t, err)
	assert.Equal(t, "White Lily", out.Saved.Name)
	assert.Equal(t, int64(90000), out.Saved.Price)
	assert.Equal(t, "Promo Lebaran", out.Saved.Discount)

	again, err := s.Products.Submit(ctx, Editing{ID: created.ID}, ProductFormFrom(out.Saved))
	require.NoError(t, err)
	assert.Equal(t, out.Saved.Price, again.Saved.Price, "unchanged edit keeps the price")
	assert.Equal(t, out.Saved.Discount, again.Saved.Discount)
	assert.Equal(t, created.CreatedAt.Unix(), out.Saved.CreatedAt.Unix())

	_, err = s.Products.Submit(ctx, Editing{ID: "missing"}, form)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEdit_PrefillsForm(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p, err := s.Products.Create(ctx, ProductForm{
		Name:            "Tulip",
		OriginalPrice:   ptr(int64(200000)),
		DiscountPercent: ptr(25),
		Category:        "Bouquet",
		ImageURL:        "https://cdn.test/t.jpg",
	})
	require.NoError(t, err)

	form, mode, err := s.Products.Edit(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, Editing{ID: p.ID}, mode)
	assert.Equal(t, "Tulip", form.Name)
	assert.Equal(t, int64(150000), form.Price)
	assert.Equal(t, 25, form.CurrentPercent)
	assert.Nil(t, form.DiscountPercent)

	promo, err := s.Promos.Create(ctx, PromoForm{Title: "Sale", ImageURL: "https://cdn.test/s.jpg", IsActive: ptr(false)})
	require.NoError(t, err)
	pf, _, err := s.Promos.Edit(ctx, promo.ID)
	require.NoError(t, err)
	require.NotNil(t, pf.IsActive)
	assert.False(t, *pf.IsActive)
	assert.Equal(t, DefaultButtonText, pf.ButtonText)

	_, _, err = s.Categories.Edit(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = s.Testimonials.Edit(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPromos_Defaults(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	p, err := s.Promos.Create(ctx, PromoForm{Title: "Valentine", ImageURL: "https://cdn.test/v.jpg"})
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, DefaultButtonText, p.ButtonText)
	assert.Equal(t, DefaultButtonLink, p.ButtonLink)

	off, err := s.Promos.Update(ctx, p.ID, PromoForm{Title: "Valentine", ImageURL: p.ImageUrl, IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	kept, err := s.Promos.Update(ctx, p.ID, PromoForm{Title: "Valentine Sale", ImageURL: p.ImageUrl})
	require.NoError(t, err)
	assert.False(t, kept.IsActive, "omitted is_active keeps the stored value")
	assert.Equal(t, "Valentine Sale", kept.Title)
}

func TestTestimonials_Rating(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tm, err := s.Testimonials.Create(ctx, TestimonialForm{Name: "Sari", Text: "Cantik sekali"})
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultRating), tm.Rating)

	_, err = s.Testimonials.Create(ctx, TestimonialForm{Name: "Budi", Text: "Oke", Rating: 7})
	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "rating")
}

func TestDelete_RequiresConfirm(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	c, err := s.Categories.Create(ctx, CategoryForm{Name: "Bouquet"})
	require.NoError(t, err)

	err = s.Categories.Delete(ctx, c.ID, false)
	fields, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fields, "confirm")

	items, _ := s.Categories.List(ctx)
	assert.Len(t, items, 1)

	require.NoError(t, s.Categories.Delete(ctx, c.ID, true))
	assert.ErrorIs(t, s.Categories.Delete(ctx, c.ID, true), ErrNotFound)
}

func TestCategories_OrderAndReservedName(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Standing Flower", "Bouquet", "Money Bouquet"} {
		_, err := s.Categories.Create(ctx, CategoryForm{Name: name})
		require.NoError(t, err)
	}
	items, err := s.Categories.List(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, c := range items {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Bouquet", "Money Bouquet", "Standing Flower"}, names)

	_, err = s.Categories.Create(ctx, CategoryForm{Name: "all"})
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestOrphanedProducts_AfterRename(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	c, err := s.Categories.Create(ctx, CategoryForm{Name: "Bouquet"})
	require.NoError(t, err)
	p, err := s.Products.Create(ctx, ProductForm{Name: "Rose", Price: 1000, Category: "Bouquet"})
	require.NoError(t, err)

	orphans, err := s.OrphanedProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, orphans)

	_, err = s.Categories.Update(ctx, c.ID, CategoryForm{Name: "Buket"})
	require.NoError(t, err)

	orphans, err = s.OrphanedProducts(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, p.ID, orphans[0].ID)
	assert.Equal(t, "Bouquet", orphans[0].Category)
}

func TestExportProducts(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Products.Create(ctx, ProductForm{
		Name:          "Tulip",
		Price:         150000,
		OriginalPrice: ptr(int64(175000)),
		Category:      "Bouquet",
		ImageURL:      "https://cdn.test/t.jpg",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := s.ExportProducts(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,name,category,price,original_price,discount,image_url,images,created_at", lines[0])
	assert.Contains(t, lines[1], ",Tulip,Bouquet,150000,175000,,https://cdn.test/t.jpg,https://cdn.test/t.jpg,")
}

func TestModeFor(t *testing.T) {
	assert.Equal(t, Creating{}, ModeFor(""))
	assert.Equal(t, Editing{ID: "x"}, ModeFor("x"))
}
