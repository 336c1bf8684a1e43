// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"fmt"
	"math"
)

// DiscountedPrice returns original - original*percent/100 in whole currency
// units. The discount amount is truncated toward zero.
func DiscountedPrice(original int64, percent int) int64 {
	return original - original*int64(percent)/100
}

// DiscountLabel returns the badge text for a percentage discount, e.g. "10% OFF".
func DiscountLabel(percent int) string {
	return fmt.Sprintf("%d%% OFF", percent)
}

// DiscountPercent recovers the rounded percentage between an original and a
// final price. It returns 0 when there is no discount.
func DiscountPercent(original, price int64) int {
	if original <= 0 || price >= original {
		return 0
	}
	return int(math.Round(float64(original-price) / float64(original) * 100))
}
