// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides the service's slog setup and a handler that tags
// records with a category and the request they were logged from.
package logging

import (
	"context"
	"log/slog"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tharabouqet/florist/internal/middleware"
)

// Log categories.
const (
	CategoryAuth     = "auth"
	CategoryOrder    = "order"
	CategoryUpload   = "upload"
	CategorySettings = "settings"
	CategoryCache    = "cache"
	CategoryCatalog  = "catalog"
	CategorySystem   = "system"
)

// ContextHandler is a slog.Handler that wraps another handler and adds a
// category plus request_id and path attributes taken from the context.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler creates a new ContextHandler that wraps the given handler.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if !hasAttr(r, "category") {
		r.AddAttrs(slog.String("category", extractCategory(r)))
	}
	if ctx != nil {
		if id := chimw.GetReqID(ctx); id != "" {
			r.AddAttrs(slog.String("request_id", id))
		}
		if path := middleware.GetRequestPath(ctx); path != "" {
			r.AddAttrs(slog.String("path", path))
		}
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

func hasAttr(r slog.Record, key string) bool {
	found := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			found = true
			return false
		}
		return true
	})
	return found
}

// extractCategory infers a category from the log message.
func extractCategory(r slog.Record) string {
	msg := strings.ToLower(r.Message)
	switch {
	case strings.Contains(msg, "auth") || strings.Contains(msg, "login") || strings.Contains(msg, "logout") || strings.Contains(msg, "session"):
		return CategoryAuth
	case strings.Contains(msg, "order"):
		return CategoryOrder
	case strings.Contains(msg, "upload") || strings.Contains(msg, "image"):
		return CategoryUpload
	case strings.Contains(msg, "setting"):
		return CategorySettings
	case strings.Contains(msg, "cache"):
		return CategoryCache
	case strings.Contains(msg, "product") || strings.Contains(msg, "promo") || strings.Contains(msg, "categor") || strings.Contains(msg, "testimonial"):
		return CategoryCatalog
	default:
		return CategorySystem
	}
}
