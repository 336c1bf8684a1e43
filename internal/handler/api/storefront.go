// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tharabouqet/florist/internal/catalog"
	"github.com/tharabouqet/florist/internal/order"
)

// ProductDetailResponse is the product page payload.
type ProductDetailResponse struct {
	Product         catalog.Product   `json:"product"`
	HasDiscount     bool              `json:"has_discount"`
	Photos          []string          `json:"photos"`
	DescriptionHTML string            `json:"description_html"`
	Related         []catalog.Product `json:"related"`
	Share           order.ShareLinks  `json:"share"`
	MinDeliveryDate string            `json:"min_delivery_date"`
}

// Home handles GET /api/v1/home
// Public: everything the landing page renders in one fetch.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.catalog.Home(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "loading home catalog", "error", err)
		WriteInternalError(w, "Failed to load catalog")
		return
	}
	WriteSuccess(w, home, nil)
}

// ListProducts handles GET /api/v1/products?category=&page=
// Public: the filtered and paginated product grid.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	page := parsePage(r)

	view, err := h.catalog.View(r.Context(), category, page, h.pageSize)
	if err != nil {
		slog.ErrorContext(r.Context(), "loading product view", "error", err)
		WriteInternalError(w, "Failed to list products")
		return
	}

	snap := view.Snapshot()
	WriteSuccess(w, snap, &Meta{
		Total:   int64(snap.TotalItems),
		Page:    snap.Page,
		PerPage: snap.PageSize,
		Pages:   snap.TotalPages,
	})
}

// GetProduct handles GET /api/v1/products/{id}
// Public: product detail with related products and share links.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, ok := h.requireProduct(w, r)
	if !ok {
		return
	}

	related, err := h.catalog.Related(ctx, product.ID, catalog.RelatedOnDetail)
	if err != nil {
		slog.WarnContext(ctx, "loading related products", "error", err, "product_id", product.ID)
		related = []catalog.Product{}
	}

	descHTML, err := catalog.RenderDescription(product.Description)
	if err != nil {
		slog.WarnContext(ctx, "rendering product description", "error", err, "product_id", product.ID)
	}

	vals := h.settings.Current(ctx)
	WriteSuccess(w, ProductDetailResponse{
		Product:         product,
		HasDiscount:     product.HasDiscount(),
		Photos:          product.Photos(),
		DescriptionHTML: descHTML,
		Related:         related,
		Share:           order.Share(vals.StoreName(), product.Name, h.productPageURL(product.ID)),
		MinDeliveryDate: order.MinDeliveryDate(h.localNow()),
	}, nil)
}

// GetSettings handles GET /api/v1/settings
// Public: resolved store settings with defaults filled in.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.settings.Current(r.Context()), nil)
}

// requireProduct loads the product named by the {id} URL parameter.
// Returns false if the product could not be loaded (response already written).
func (h *Handler) requireProduct(w http.ResponseWriter, r *http.Request) (catalog.Product, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		WriteBadRequest(w, "Invalid product ID", nil)
		return catalog.Product{}, false
	}

	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			WriteNotFound(w, "Product not found")
		} else {
			slog.ErrorContext(r.Context(), "loading product", "error", err, "product_id", id)
			WriteInternalError(w, "Failed to retrieve product")
		}
		return catalog.Product{}, false
	}
	return product, true
}

func (h *Handler) productPageURL(id string) string {
	return strings.TrimRight(h.baseURL, "/") + "/product/" + id
}

// parsePage reads the page query parameter; anything unparsable is page 1.
func parsePage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
