// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for admin sessions, rate
// limiting, CSRF and security headers.
package middleware

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/tharabouqet/florist/internal/auth"
	"github.com/tharabouqet/florist/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// ContextKeyRequestPath holds the request path for log records.
const ContextKeyRequestPath ContextKey = "request_path"

// SessionKeyUserID is the session key holding the signed-in admin's id.
const SessionKeyUserID = "user_id"

// LoadSession resolves the admin behind the session cookie and stores an
// auth.Session in the request context. Requests without a valid admin get an
// anonymous session; a session pointing at a deleted user is destroyed.
func LoadSession(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &auth.Session{}

			if userID := sm.GetInt64(r.Context(), SessionKeyUserID); userID != 0 {
				user, err := queries.GetUserByID(r.Context(), userID)
				switch {
				case err == nil:
					sess = sessionFromUser(user)
				case errors.Is(err, sql.ErrNoRows):
					_ = sm.Destroy(r.Context())
				default:
					slog.Error("loading session user", "error", err, "user_id", userID)
				}
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
		})
	}
}

func sessionFromUser(u store.User) *auth.Session {
	s := &auth.Session{UserID: u.ID, Email: u.Email, Name: u.Name}
	if u.LastLoginAt.Valid {
		t := u.LastLoginAt.Time
		s.LastLoginAt = &t
	}
	return s
}

// RequireSession rejects requests without an authenticated admin with a
// JSON 401. Use after LoadSession.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.FromContext(r.Context()).Authenticated() {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Login required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdminOrToken lets through signed-in admins and, when token is set,
// callers presenting it as a bearer token. Everyone else gets a JSON 401.
// Use after LoadSession.
func RequireAdminOrToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.FromContext(r.Context()).Authenticated() || bearerMatches(r, token) {
				next.ServeHTTP(w, r)
				return
			}
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Login required", nil)
		})
	}
}

func bearerMatches(r *http.Request, token string) bool {
	if token == "" {
		return false
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}

// RequestPath stores the request path in the context for log records.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
