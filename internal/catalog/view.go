// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import "fmt"

// AllCategories is the filter option that disables category filtering.
const AllCategories = "All"

// DefaultPageSize is the number of products on one catalog page.
const DefaultPageSize = 8

// View is the filter and pagination state over a product list. The list is
// kept in the order it was delivered.
type View struct {
	products   []Product
	categories []string
	category   string
	page       int
	pageSize   int
}

// NewView creates a view showing page 1 of every product.
func NewView(products []Product, categoryNames []string, pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{
		products:   products,
		categories: categoryNames,
		category:   AllCategories,
		page:       1,
		pageSize:   pageSize,
	}
}

// SetCategory selects a filter and always returns to page 1. An empty
// category selects AllCategories.
func (v *View) SetCategory(category string) {
	if category == "" {
		category = AllCategories
	}
	v.category = category
	v.page = 1
}

// SetPage moves to page n, clamped to [1, TotalPages].
func (v *View) SetPage(n int) {
	total := v.TotalPages()
	switch {
	case n < 1:
		n = 1
	case n > total:
		n = total
	}
	v.page = n
}

// Category returns the active filter.
func (v *View) Category() string { return v.category }

// Page returns the current page number, starting at 1.
func (v *View) Page() int { return v.page }

// PageSize returns the page size.
func (v *View) PageSize() int { return v.pageSize }

// Filtered returns every product matching the active filter, in delivery order.
func (v *View) Filtered() []Product {
	if v.category == AllCategories {
		return v.products
	}
	out := make([]Product, 0, len(v.products))
	for _, p := range v.products {
		if p.Category == v.category {
			out = append(out, p)
		}
	}
	return out
}

// Items returns the products on the current page.
func (v *View) Items() []Product {
	filtered := v.Filtered()
	start := (v.page - 1) * v.pageSize
	if start >= len(filtered) {
		return []Product{}
	}
	end := min(start+v.pageSize, len(filtered))
	return filtered[start:end]
}

// Total returns the number of products matching the filter.
func (v *View) Total() int {
	return len(v.Filtered())
}

// TotalPages returns the page count. An empty result still has one page.
func (v *View) TotalPages() int {
	n := v.Total()
	if n == 0 {
		return 1
	}
	return (n + v.pageSize - 1) / v.pageSize
}

// FilterOptions returns AllCategories followed by the category names.
func (v *View) FilterOptions() []string {
	out := make([]string, 0, len(v.categories)+1)
	out = append(out, AllCategories)
	return append(out, v.categories...)
}

// Empty reports whether the filter matches nothing.
func (v *View) Empty() bool {
	return v.Total() == 0
}

// EmptyMessage is the empty-state text for the active filter.
func (v *View) EmptyMessage() string {
	return fmt.Sprintf("Belum ada produk di kategori %s.", v.category)
}

// Snapshot is the serializable state of a View.
type Snapshot struct {
	Items         []Product `json:"items"`
	Category      string    `json:"category"`
	Page          int       `json:"page"`
	PageSize      int       `json:"page_size"`
	TotalItems    int       `json:"total_items"`
	TotalPages    int       `json:"total_pages"`
	FilterOptions []string  `json:"filter_options"`
	Empty         bool      `json:"empty"`
	EmptyMessage  string    `json:"empty_message,omitempty"`
}

// Snapshot captures the current state.
func (v *View) Snapshot() Snapshot {
	s := Snapshot{
		Items:         v.Items(),
		Category:      v.category,
		Page:          v.page,
		PageSize:      v.pageSize,
		TotalItems:    v.Total(),
		TotalPages:    v.TotalPages(),
		FilterOptions: v.FilterOptions(),
		Empty:         v.Empty(),
	}
	if s.Empty {
		s.EmptyMessage = v.EmptyMessage()
	}
	return s
}
