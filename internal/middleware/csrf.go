// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"filippo.io/csrf/gorilla"
)

// CSRFConfig holds configuration for CSRF protection of the admin API.
// filippo.io/csrf checks Fetch metadata and Origin headers, so no token
// cookie is involved.
type CSRFConfig struct {
	// AuthKey is the 32-byte session secret.
	AuthKey []byte

	// ErrorHandler is called when validation fails. Defaults to a JSON 403.
	ErrorHandler http.Handler

	// TrustedOrigins are host[:port] values allowed to make cross-origin
	// admin requests.
	TrustedOrigins []string
}

// DefaultCSRFConfig trusts the given origins. Development also trusts the
// local dev servers. Origins may be full URLs or host[:port].
func DefaultCSRFConfig(authKey []byte, isDev bool, origins ...string) CSRFConfig {
	cfg := CSRFConfig{AuthKey: authKey}

	seen := make(map[string]bool)
	add := func(o string) {
		if h := originHost(o); h != "" && !seen[h] {
			seen[h] = true
			cfg.TrustedOrigins = append(cfg.TrustedOrigins, h)
		}
	}
	for _, o := range origins {
		add(o)
	}
	if isDev {
		add("localhost:8080")
		add("127.0.0.1:8080")
		add("localhost:3000")
	}
	return cfg
}

// originHost reduces "https://shop.example.com/x" to "shop.example.com".
// The wildcard origin "*" is never trusted.
func originHost(o string) string {
	o = strings.TrimSpace(o)
	if o == "" || o == "*" {
		return ""
	}
	if strings.Contains(o, "://") {
		u, err := url.Parse(o)
		if err != nil {
			return ""
		}
		return u.Host
	}
	return strings.TrimSuffix(o, "/")
}

// CSRF returns middleware that rejects cross-site state-changing requests.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	var opts []csrf.Option

	if cfg.ErrorHandler != nil {
		opts = append(opts, csrf.ErrorHandler(cfg.ErrorHandler))
	} else {
		opts = append(opts, csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)))
	}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}

	return csrf.Protect(cfg.AuthKey, opts...)
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	reason := "unknown"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	slog.Warn("CSRF validation failed",
		"reason", reason,
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	WriteAPIError(w, http.StatusForbidden, "csrf_failed", "Cross-site request rejected", nil)
}
