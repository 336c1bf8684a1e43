// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"fmt"
	"testing"
)

func makeProducts(n int, categoryOf func(i int) string) []Product {
	out := make([]Product, n)
	for i := range out {
		out[i] = Product{ID: fmt.Sprintf("p%02d", i), Name: fmt.Sprintf("Product %d", i), Category: categoryOf(i)}
	}
	return out
}

func alternating(i int) string {
	if i%2 == 0 {
		return "Bouquet"
	}
	return "Standing Flower"
}

func TestView_AllReturnsOriginalOrder(t *testing.T) {
	products := makeProducts(5, alternating)
	v := NewView(products, []string{"Bouquet", "Standing Flower"}, 10)

	got := v.Filtered()
	if len(got) != len(products) {
		t.Fatalf("len = %d, want %d", len(got), len(products))
	}
	for i := range products {
		if got[i].ID != products[i].ID {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, products[i].ID)
		}
	}
}

func TestView_FilterMatchesCategoryOnly(t *testing.T) {
	v := NewView(makeProducts(9, alternating), nil, 10)
	v.SetCategory("Bouquet")

	items := v.Filtered()
	if len(items) != 5 {
		t.Fatalf("len = %d, want 5", len(items))
	}
	for _, p := range items {
		if p.Category != "Bouquet" {
			t.Errorf("item %s has category %q", p.ID, p.Category)
		}
	}
	// delivery order kept
	for i := 1; i < len(items); i++ {
		if items[i-1].ID > items[i].ID {
			t.Errorf("order changed at %d: %s before %s", i, items[i-1].ID, items[i].ID)
		}
	}
}

func TestView_SetCategoryResetsPage(t *testing.T) {
	v := NewView(makeProducts(30, alternating), nil, 4)
	v.SetPage(3)
	if v.Page() != 3 {
		t.Fatalf("Page() = %d, want 3", v.Page())
	}

	for _, c := range []string{"Bouquet", "Bouquet", AllCategories, "Unknown"} {
		v.SetPage(2)
		v.SetCategory(c)
		if v.Page() != 1 {
			t.Errorf("after SetCategory(%q) Page() = %d, want 1", c, v.Page())
		}
	}
}

func TestView_Pagination(t *testing.T) {
	v := NewView(makeProducts(19, alternating), nil, DefaultPageSize)

	if v.TotalPages() != 3 {
		t.Fatalf("TotalPages() = %d, want 3", v.TotalPages())
	}
	if got := len(v.Items()); got != 8 {
		t.Errorf("page 1 len = %d, want 8", got)
	}

	v.SetPage(3)
	items := v.Items()
	if len(items) != 3 {
		t.Fatalf("page 3 len = %d, want 3", len(items))
	}
	if items[0].ID != "p16" {
		t.Errorf("page 3 first = %s, want p16", items[0].ID)
	}
}

func TestView_SetPageClamps(t *testing.T) {
	v := NewView(makeProducts(10, alternating), nil, 4)

	tests := []struct {
		in, want int
	}{
		{-5, 1}, {0, 1}, {1, 1}, {3, 3}, {4, 3}, {100, 3},
	}
	for _, tt := range tests {
		v.SetPage(tt.in)
		if v.Page() != tt.want {
			t.Errorf("SetPage(%d) -> %d, want %d", tt.in, v.Page(), tt.want)
		}
	}
}

func TestView_EmptyState(t *testing.T) {
	v := NewView(makeProducts(3, alternating), []string{"Bouquet", "Money Bouquet"}, 8)
	v.SetCategory("Money Bouquet")

	if !v.Empty() {
		t.Fatal("Empty() = false, want true")
	}
	if v.TotalPages() != 1 {
		t.Errorf("TotalPages() = %d, want 1", v.TotalPages())
	}
	if len(v.Items()) != 0 {
		t.Errorf("Items() = %v, want empty", v.Items())
	}

	s := v.Snapshot()
	if s.EmptyMessage != "Belum ada produk di kategori Money Bouquet." {
		t.Errorf("EmptyMessage = %q", s.EmptyMessage)
	}
}

func TestView_FilterOptions(t *testing.T) {
	v := NewView(nil, []string{"Bouquet", "Hand Bouquet"}, 0)
	got := v.FilterOptions()
	want := []string{"All", "Bouquet", "Hand Bouquet"}
	if len(got) != len(want) {
		t.Fatalf("FilterOptions() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FilterOptions()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if v.PageSize() != DefaultPageSize {
		t.Errorf("PageSize() = %d, want default", v.PageSize())
	}
}

func TestView_EmptyCategoryMeansAll(t *testing.T) {
	v := NewView(makeProducts(3, alternating), nil, 8)
	v.SetCategory("")
	if v.Category() != AllCategories {
		t.Errorf("Category() = %q, want All", v.Category())
	}
}
