// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"time"
)

type contextKey struct{}

// Session is the authentication state of one request. A zero Session is
// anonymous.
type Session struct {
	UserID      int64      `json:"user_id,omitempty"`
	Email       string     `json:"email,omitempty"`
	Name        string     `json:"name,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Authenticated reports whether an admin is signed in.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != 0
}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the request session. It never returns nil.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(contextKey{}).(*Session); ok && s != nil {
		return s
	}
	return &Session{}
}
