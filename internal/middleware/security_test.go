// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func serveWithHeaders(cfg SecurityHeadersConfig, path string) *httptest.ResponseRecorder {
	h := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production enables HSTS", false, true},
		{"development disables HSTS", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithHeaders(DefaultSecurityHeadersConfig(tt.isDev), "/api/v1/home")

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS != (hsts != "") {
				t.Errorf("HSTS = %q, want present=%v", hsts, tt.wantHSTS)
			}
			if csp := rec.Header().Get("Content-Security-Policy"); !strings.Contains(csp, "default-src 'none'") {
				t.Errorf("CSP = %q", csp)
			}
			if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
				t.Errorf("X-Frame-Options = %q, want DENY", got)
			}
			if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q", got)
			}
		})
	}
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.ExcludePaths = []string{"/uploads/"}

	if rec := serveWithHeaders(cfg, "/uploads/products/a.jpg"); rec.Header().Get("Content-Security-Policy") != "" {
		t.Error("CSP set on excluded path")
	}
	rec := serveWithHeaders(cfg, "/api/v1/products")
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("CSP missing on API path")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("nosniff must apply to every path")
	}
}

func TestSecurityHeadersHSTSOptions(t *testing.T) {
	rec := serveWithHeaders(SecurityHeadersConfig{
		HSTSMaxAge:            63072000,
		HSTSIncludeSubDomains: true,
		HSTSPreload:           true,
	}, "/")

	if got := rec.Header().Get("Strict-Transport-Security"); got != "max-age=63072000; includeSubDomains; preload" {
		t.Errorf("HSTS = %q", got)
	}
}

func TestBuildCSP(t *testing.T) {
	csp := buildCSP(map[string]string{
		"report-to":   "csp",
		"img-src":     "'self' data:",
		"default-src": "'none'",
	})
	if want := "default-src 'none'; img-src 'self' data:; report-to csp"; csp != want {
		t.Errorf("buildCSP() = %q, want %q", csp, want)
	}
}

func TestBuildPermissionsPolicy(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()"})
	if got != "camera=(), usb=()" {
		t.Errorf("buildPermissionsPolicy() = %q", got)
	}
}
