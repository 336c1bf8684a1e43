// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tharabouqet/florist/internal/settings"
	"github.com/tharabouqet/florist/internal/store"
)

// Related product limits used by the storefront.
const (
	RelatedOnDetail = 4
	RelatedInModal  = 3
)

// ErrProductNotFound is returned for unknown product ids.
var ErrProductNotFound = errors.New("product not found")

// Querier is the subset of store queries the catalog reads.
type Querier interface {
	ListProducts(ctx context.Context) ([]store.Product, error)
	GetProduct(ctx context.Context, id string) (store.Product, error)
	ListRelatedProducts(ctx context.Context, arg store.ListRelatedProductsParams) ([]store.Product, error)
	ListActivePromos(ctx context.Context) ([]store.Promo, error)
	ListCategories(ctx context.Context) ([]store.Category, error)
	ListTestimonials(ctx context.Context) ([]store.Testimonial, error)
}

// SettingsReader supplies resolved settings.
type SettingsReader interface {
	Current(ctx context.Context) settings.Values
}

// Home is everything the landing page needs in one fetch.
type Home struct {
	Promos       []store.Promo       `json:"promos"`
	Products     []Product           `json:"products"`
	Categories   []store.Category    `json:"categories"`
	Testimonials []store.Testimonial `json:"testimonials"`
	Settings     settings.Values     `json:"settings"`

	PromoSlider       CarouselState `json:"promo_slider"`
	TestimonialSlider CarouselState `json:"testimonial_slider"`
}

// Provider performs the read-only catalog fetches.
type Provider struct {
	q        Querier
	settings SettingsReader
}

// NewProvider creates a Provider.
func NewProvider(q Querier, s SettingsReader) *Provider {
	return &Provider{q: q, settings: s}
}

// Home loads active promos, products, categories, testimonials and settings.
func (p *Provider) Home(ctx context.Context) (Home, error) {
	promos, err := p.q.ListActivePromos(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("listing promos: %w", err)
	}
	products, err := p.q.ListProducts(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("listing products: %w", err)
	}
	categories, err := p.q.ListCategories(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("listing categories: %w", err)
	}
	testimonials, err := p.q.ListTestimonials(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("listing testimonials: %w", err)
	}

	return Home{
		Promos:            nonNil(promos),
		Products:          FromStoreList(products),
		Categories:        nonNil(categories),
		Testimonials:      nonNil(testimonials),
		Settings:          p.settings.Current(ctx),
		PromoSlider:       NewCarousel(len(promos), DefaultCarouselInterval).State(),
		TestimonialSlider: NewCarousel(len(testimonials), DefaultCarouselInterval).State(),
	}, nil
}

// View loads the product list and categories into a filter/pagination view
// positioned at the given category and page.
func (p *Provider) View(ctx context.Context, category string, page, pageSize int) (*View, error) {
	products, err := p.q.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	categories, err := p.q.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}

	v := NewView(FromStoreList(products), names, pageSize)
	v.SetCategory(category)
	v.SetPage(page)
	return v, nil
}

// Product loads one product by id.
func (p *Provider) Product(ctx context.Context, id string) (Product, error) {
	row, err := p.q.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, fmt.Errorf("getting product %s: %w", id, err)
	}
	return FromStore(row), nil
}

// Related returns up to limit other products, newest first.
func (p *Provider) Related(ctx context.Context, id string, limit int) ([]Product, error) {
	if limit <= 0 {
		return []Product{}, nil
	}
	rows, err := p.q.ListRelatedProducts(ctx, store.ListRelatedProductsParams{ID: id, Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("listing related products: %w", err)
	}
	return FromStoreList(rows), nil
}

// Settings returns the resolved store settings.
func (p *Provider) Settings(ctx context.Context) settings.Values {
	return p.settings.Current(ctx)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
