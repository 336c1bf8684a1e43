// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import "testing"

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		original int64
		percent  int
		want     int64
	}{
		{150000, 10, 135000},
		{150000, 0, 150000},
		{150000, 100, 0},
		{99999, 15, 85000},
		{250000, 33, 167500},
	}
	for _, tt := range tests {
		if got := DiscountedPrice(tt.original, tt.percent); got != tt.want {
			t.Errorf("DiscountedPrice(%d, %d) = %d, want %d", tt.original, tt.percent, got, tt.want)
		}
	}
}

func TestDiscountLabel(t *testing.T) {
	for _, p := range []struct {
		in   int
		want string
	}{{10, "10% OFF"}, {0, "0% OFF"}, {55, "55% OFF"}} {
		if got := DiscountLabel(p.in); got != p.want {
			t.Errorf("DiscountLabel(%d) = %q, want %q", p.in, got, p.want)
		}
	}
}

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		original, price int64
		want            int
	}{
		{150000, 135000, 10},
		{300000, 200000, 33},
		{100000, 100000, 0},
		{0, 100, 0},
		{100000, 120000, 0},
		{150000, 127500, 15},
	}
	for _, tt := range tests {
		if got := DiscountPercent(tt.original, tt.price); got != tt.want {
			t.Errorf("DiscountPercent(%d, %d) = %d, want %d", tt.original, tt.price, got, tt.want)
		}
	}
}

func TestHasDiscount(t *testing.T) {
	orig := int64(150000)
	lower := int64(100000)
	if !(Product{Price: 135000, OriginalPrice: &orig}).HasDiscount() {
		t.Error("HasDiscount() = false for discounted product")
	}
	if (Product{Price: 135000, OriginalPrice: &lower}).HasDiscount() {
		t.Error("HasDiscount() = true when original below price")
	}
	if (Product{Price: 135000}).HasDiscount() {
		t.Error("HasDiscount() = true without original price")
	}
}

func TestPhotos(t *testing.T) {
	p := Product{ImageURL: "a", Images: []string{"a", "b", "", "c"}}
	got := p.Photos()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Photos() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Photos()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
