// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
)

// Cache lifetimes for served files.
const (
	// UploadMaxAge applies to uploaded images. Their names are unique, so
	// they never change in place.
	UploadMaxAge = 30 * 24 * 60 * 60
)

// StaticCache adds a public Cache-Control header with the given max-age in seconds.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
			next.ServeHTTP(w, r)
		})
	}
}
