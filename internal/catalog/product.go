// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package catalog provides the public catalog: page-load fetches, the
// category filter and pagination window, pricing helpers and the promo and
// testimonial carousels.
package catalog

import (
	"time"

	"github.com/tharabouqet/florist/internal/store"
)

// Product is the public shape of a product row.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         int64     `json:"price"`
	OriginalPrice *int64    `json:"original_price"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"image_url"`
	Images        []string  `json:"images"`
	Description   string    `json:"description"`
	Discount      string    `json:"discount"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromStore converts a stored row.
func FromStore(p store.Product) Product {
	out := Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		ImageURL:    p.ImageUrl,
		Images:      p.ImageList(),
		Description: p.Description,
		Discount:    p.Discount,
		CreatedAt:   p.CreatedAt,
	}
	if p.OriginalPrice.Valid {
		v := p.OriginalPrice.Int64
		out.OriginalPrice = &v
	}
	return out
}

// FromStoreList converts a slice of stored rows, preserving order.
func FromStoreList(rows []store.Product) []Product {
	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromStore(r))
	}
	return out
}

// HasDiscount reports whether the product shows a struck-through original price.
func (p Product) HasDiscount() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// Photos returns the cover image followed by gallery images, without duplicates.
func (p Product) Photos() []string {
	out := make([]string, 0, len(p.Images)+1)
	seen := make(map[string]bool, len(p.Images)+1)
	add := func(u string) {
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}
	add(p.ImageURL)
	for _, u := range p.Images {
		add(u)
	}
	return out
}
