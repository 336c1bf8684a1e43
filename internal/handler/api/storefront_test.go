// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharabouqet/florist/internal/catalog"
	"github.com/tharabouqet/florist/internal/settings"
	"github.com/tharabouqet/florist/internal/testutil"
)

func TestHome(t *testing.T) {
	env := newTestEnv(t)
	testutil.ProductFixture(t, env.db, "Rose", "Bouquet", 150000)
	testutil.ProductFixture(t, env.db, "Tulip", "Hand Bouquet", 250000)

	resp := env.do(t, http.MethodGet, "/api/v1/home", nil)
	assertStatus(t, resp, http.StatusOK)

	var home catalog.Home
	decodeData(t, resp, &home)

	require.Len(t, home.Products, 2)
	assert.Equal(t, "Tulip", home.Products[0].Name, "newest first")
	assert.NotEmpty(t, home.Categories)
	assert.Empty(t, home.Promos)
	assert.Equal(t, "6281234567890", home.Settings[settings.KeyWhatsAppNumber])
	assert.Equal(t, int64(4000), home.PromoSlider.IntervalMS)
	assert.Equal(t, -1, home.PromoSlider.Index)
	assert.False(t, home.TestimonialSlider.AutoPlay)
}

func TestListProducts_FilterAndPaginate(t *testing.T) {
	env := newTestEnv(t)
	testutil.ProductFixture(t, env.db, "A", "Bouquet", 100000)
	testutil.ProductFixture(t, env.db, "B", "Bouquet", 100000)
	testutil.ProductFixture(t, env.db, "C", "Money Bouquet", 100000)

	resp := env.do(t, http.MethodGet, "/api/v1/products?page=2", nil)
	assertStatus(t, resp, http.StatusOK)
	var snap catalog.Snapshot
	meta := decodeData(t, resp, &snap)

	assert.Equal(t, 2, snap.Page)
	assert.Equal(t, 2, snap.TotalPages)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "A", snap.Items[0].Name)
	assert.Equal(t, catalog.AllCategories, snap.FilterOptions[0])
	require.NotNil(t, meta)
	assert.Equal(t, int64(3), meta.Total)

	resp = env.do(t, http.MethodGet, "/api/v1/products?category=Bouquet&page=9", nil)
	assertStatus(t, resp, http.StatusOK)
	decodeData(t, resp, &snap)
	assert.Equal(t, "Bouquet", snap.Category)
	assert.Equal(t, 1, snap.Page, "page clamps to the last page")
	assert.Len(t, snap.Items, 2)
}

func TestListProducts_EmptyCategory(t *testing.T) {
	env := newTestEnv(t)
	testutil.ProductFixture(t, env.db, "A", "Bouquet", 100000)

	resp := env.do(t, http.MethodGet, "/api/v1/products?category=Standing%20Flower", nil)
	assertStatus(t, resp, http.StatusOK)
	var snap catalog.Snapshot
	decodeData(t, resp, &snap)

	assert.True(t, snap.Empty)
	assert.Equal(t, "Belum ada produk di kategori Standing Flower.", snap.EmptyMessage)
	assert.Equal(t, 1, snap.TotalPages)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	p := testutil.ProductFixture(t, env.db, "Rose", "Bouquet", 150000)
	testutil.ProductFixture(t, env.db, "Lily", "Bouquet", 120000)

	resp := env.do(t, http.MethodGet, "/api/v1/products/"+p.ID, nil)
	assertStatus(t, resp, http.StatusOK)

	var detail ProductDetailResponse
	decodeData(t, resp, &detail)

	assert.Equal(t, "Rose", detail.Product.Name)
	assert.False(t, detail.HasDiscount)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "Lily", detail.Related[0].Name)
	assert.Contains(t, detail.DescriptionHTML, "<p>Fresh Rose</p>")
	assert.Equal(t, "https://tharabouqet.test/product/"+p.ID, detail.Share.Copy)
	assert.Equal(t, "https://wa.me/?text=Cek%20buket%20cantik%20ini%20dari%20Tharabouqet%3A%20Rose%20https%3A%2F%2Ftharabouqet.test%2Fproduct%2F"+p.ID, detail.Share.WhatsApp)
	assert.Equal(t, "2025-03-13", detail.MinDeliveryDate)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/products/missing", nil)
	assertStatus(t, resp, http.StatusNotFound)
	assert.Equal(t, "not_found", decodeError(t, resp).Error.Code)
}

func TestGetSettings_Defaults(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/settings", nil)
	assertStatus(t, resp, http.StatusOK)

	var vals settings.Values
	decodeData(t, resp, &vals)
	assert.Equal(t, settings.Defaults(), vals)
}
