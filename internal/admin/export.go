// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/tharabouqet/florist/internal/store"
)

// ProductRow is one line of the product CSV export.
type ProductRow struct {
	ID            string `csv:"id"`
	Name          string `csv:"name"`
	Category      string `csv:"category"`
	Price         int64  `csv:"price"`
	OriginalPrice string `csv:"original_price"`
	Discount      string `csv:"discount"`
	ImageURL      string `csv:"image_url"`
	Images        string `csv:"images"`
	CreatedAt     string `csv:"created_at"`
}

func productRow(p store.Product) ProductRow {
	row := ProductRow{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
		Discount:  p.Discount,
		ImageURL:  p.ImageUrl,
		Images:    strings.Join(p.ImageList(), " "),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.OriginalPrice.Valid {
		row.OriginalPrice = strconv.FormatInt(p.OriginalPrice.Int64, 10)
	}
	return row
}

// ExportProducts writes all products as CSV with a header row.
func (s *Service) ExportProducts(ctx context.Context, w io.Writer) (int, error) {
	products, err := s.Products.List(ctx)
	if err != nil {
		return 0, err
	}
	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow(p))
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, fmt.Errorf("writing csv: %w", err)
	}
	return len(rows), nil
}
