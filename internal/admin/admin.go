// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package admin implements the back-office CRUD for products, promos,
// testimonials and categories.
package admin

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tharabouqet/florist/internal/store"
)

// Service groups the per-entity resources.
type Service struct {
	queries *store.Queries

	Products     *Resource[store.Product, ProductForm]
	Promos       *Resource[store.Promo, PromoForm]
	Testimonials *Resource[store.Testimonial, TestimonialForm]
	Categories   *Resource[store.Category, CategoryForm]

	now func() time.Time
}

// New creates the admin service on db.
func New(db store.DBTX) *Service {
	s := &Service{
		queries: store.New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
	s.Products = s.productResource()
	s.Promos = s.promoResource()
	s.Testimonials = s.testimonialResource()
	s.Categories = s.categoryResource()
	return s
}

func (s *Service) productResource() *Resource[store.Product, ProductForm] {
	q := s.queries
	return &Resource[store.Product, ProductForm]{
		name: "product",
		list: q.ListProducts,
		create: func(ctx context.Context, f ProductForm) (store.Product, error) {
			return q.CreateProduct(ctx, store.CreateProductParams{
				ID:            uuid.NewString(),
				Name:          f.Name,
				Price:         f.Price,
				OriginalPrice: nullInt64(f.originalPrice()),
				Category:      f.Category,
				ImageUrl:      f.ImageURL,
				Images:        store.EncodeImages(f.Images),
				Description:   f.Description,
				Discount:      f.Discount,
				CreatedAt:     s.now(),
			})
		},
		update: func(ctx context.Context, id string, f ProductForm) (store.Product, error) {
			return q.UpdateProduct(ctx, store.UpdateProductParams{
				Name:          f.Name,
				Price:         f.Price,
				OriginalPrice: nullInt64(f.originalPrice()),
				Category:      f.Category,
				ImageUrl:      f.ImageURL,
				Images:        store.EncodeImages(f.Images),
				Description:   f.Description,
				Discount:      f.Discount,
				ID:            id,
			})
		},
		remove: q.DeleteProduct,
		get:    q.GetProduct,
		fill:   ProductFormFrom,
		blank:  func() ProductForm { return ProductForm{Images: []string{}} },
	}
}

func (s *Service) promoResource() *Resource[store.Promo, PromoForm] {
	q := s.queries
	return &Resource[store.Promo, PromoForm]{
		name: "promo",
		list: q.ListPromos,
		create: func(ctx context.Context, f PromoForm) (store.Promo, error) {
			active := true
			if f.IsActive != nil {
				active = *f.IsActive
			}
			return q.CreatePromo(ctx, store.CreatePromoParams{
				ID:         uuid.NewString(),
				Title:      f.Title,
				Subtitle:   f.Subtitle,
				ImageUrl:   f.ImageURL,
				ButtonText: f.ButtonText,
				ButtonLink: f.ButtonLink,
				Discount:   f.Discount,
				IsActive:   active,
				CreatedAt:  s.now(),
			})
		},
		update: func(ctx context.Context, id string, f PromoForm) (store.Promo, error) {
			var active bool
			if f.IsActive != nil {
				active = *f.IsActive
			} else {
				current, err := q.GetPromo(ctx, id)
				if err != nil {
					return store.Promo{}, err
				}
				active = current.IsActive
			}
			return q.UpdatePromo(ctx, store.UpdatePromoParams{
				Title:      f.Title,
				Subtitle:   f.Subtitle,
				ImageUrl:   f.ImageURL,
				ButtonText: f.ButtonText,
				ButtonLink: f.ButtonLink,
				Discount:   f.Discount,
				IsActive:   active,
				ID:         id,
			})
		},
		remove: q.DeletePromo,
		get:    q.GetPromo,
		fill:   PromoFormFrom,
		blank: func() PromoForm {
			return PromoForm{ButtonText: DefaultButtonText, ButtonLink: DefaultButtonLink}
		},
	}
}

func (s *Service) testimonialResource() *Resource[store.Testimonial, TestimonialForm] {
	q := s.queries
	return &Resource[store.Testimonial, TestimonialForm]{
		name: "testimonial",
		list: q.ListTestimonials,
		create: func(ctx context.Context, f TestimonialForm) (store.Testimonial, error) {
			return q.CreateTestimonial(ctx, store.CreateTestimonialParams{
				ID:        uuid.NewString(),
				Name:      f.Name,
				Text:      f.Text,
				Rating:    int64(f.Rating),
				CreatedAt: s.now(),
			})
		},
		update: func(ctx context.Context, id string, f TestimonialForm) (store.Testimonial, error) {
			return q.UpdateTestimonial(ctx, store.UpdateTestimonialParams{
				Name:   f.Name,
				Text:   f.Text,
				Rating: int64(f.Rating),
				ID:     id,
			})
		},
		remove: q.DeleteTestimonial,
		get:    q.GetTestimonial,
		fill:   TestimonialFormFrom,
		blank:  func() TestimonialForm { return TestimonialForm{Rating: DefaultRating} },
	}
}

func (s *Service) categoryResource() *Resource[store.Category, CategoryForm] {
	q := s.queries
	return &Resource[store.Category, CategoryForm]{
		name: "category",
		list: q.ListCategories,
		create: func(ctx context.Context, f CategoryForm) (store.Category, error) {
			return q.CreateCategory(ctx, store.CreateCategoryParams{
				ID:        uuid.NewString(),
				Name:      f.Name,
				CreatedAt: s.now(),
			})
		},
		update: func(ctx context.Context, id string, f CategoryForm) (store.Category, error) {
			return q.UpdateCategory(ctx, store.UpdateCategoryParams{Name: f.Name, ID: id})
		},
		remove: q.DeleteCategory,
		get:    q.GetCategory,
		fill:   func(c store.Category) CategoryForm { return CategoryForm{Name: c.Name} },
	}
}

// OrphanedProducts lists products whose category matches no category name.
// Renaming or deleting a category does not touch its products.
func (s *Service) OrphanedProducts(ctx context.Context) ([]store.Product, error) {
	items, err := s.queries.ListOrphanedProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing orphaned products: %w", err)
	}
	if items == nil {
		items = []store.Product{}
	}
	return items, nil
}

func nullInt64(v int64, ok bool) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: ok}
}
