// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/tharabouqet/florist/internal/store"
)

// API route patterns.
const (
	RouteAPIPrefix = "/api/v1"
	RouteOrderForm = "/order/{id}"
)

// RegisterPublicRoutes registers the read-only storefront and order routes.
// Mount under RouteAPIPrefix.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.Status)
	r.Get("/home", h.Home)
	r.Get("/settings", h.GetSettings)
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/products/{id}/order/min-date", h.OrderMinDate)
	r.Post("/products/{id}/order", h.CreateOrderIntent)
}

// RegisterAuthRoutes registers login, logout and session lookup.
// Mount under RouteAPIPrefix + "/auth" behind middleware.LoadSession.
func (h *Handler) RegisterAuthRoutes(r chi.Router) {
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)
}

// RegisterAdminRoutes registers the back-office routes. Mount under
// RouteAPIPrefix + "/admin" behind middleware.LoadSession and
// middleware.RequireSession.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/products/export.csv", h.ExportProducts)
	r.Get("/products/orphans", h.OrphanedProducts)
	registerResource(r, "/products", h.admin.Products, presentProduct)
	registerResource(r, "/promos", h.admin.Promos, presentRow[store.Promo])
	registerResource(r, "/testimonials", h.admin.Testimonials, presentRow[store.Testimonial])
	registerResource(r, "/categories", h.admin.Categories, presentRow[store.Category])

	r.Post("/uploads/{usage}", h.Upload)

	r.Get("/settings", h.GetAdminSettings)
	r.Put("/settings", h.UpdateSettings)

	r.Get("/jobs", h.ListJobs)
	r.Post("/jobs/{name}/run", h.RunJob)
}
