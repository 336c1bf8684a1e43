// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tharabouqet/florist/internal/auth"
	"github.com/tharabouqet/florist/internal/metrics"
	"github.com/tharabouqet/florist/internal/middleware"
	"github.com/tharabouqet/florist/internal/store"
)

// LoginRequest represents the request body for signing in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LogoutRequest carries the user's confirmation.
type LogoutRequest struct {
	Confirm bool `json:"confirm"`
}

// SessionResponse reports the caller's session.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *auth.Session `json:"user,omitempty"`
}

const msgInvalidCredentials = "Invalid email or password"

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	fields := make(map[string]string)
	if email == "" {
		fields["email"] = "Email is required"
	}
	if req.Password == "" {
		fields["password"] = "Password is required"
	}
	if len(fields) > 0 {
		WriteValidationError(w, fields)
		return
	}

	clientIP := middleware.GetClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.WarnContext(ctx, "login attempt on locked account", "email", email, "ip", clientIP)
			h.metrics.RecordLogin(metrics.ResultLocked)
			WriteTooManyRequests(w, "Account locked. Try again in "+formatDuration(remaining))
			return
		}
	}

	user, err := h.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			slog.DebugContext(ctx, "login attempt for non-existent user", "email", email)
		} else {
			slog.ErrorContext(ctx, "database error during login", "error", err)
		}
		// Record failed attempt even for non-existent users to prevent enumeration
		h.failLogin(w, r, email)
		return
	}

	valid, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		slog.ErrorContext(ctx, "password check error", "error", err)
	}
	if !valid {
		slog.WarnContext(ctx, "login failed: invalid password", "email", email, "ip", clientIP)
		h.failLogin(w, r, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(req.Password); err == nil {
			if err := h.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				UpdatedAt:    h.now().UTC(),
				ID:           user.ID,
			}); err != nil {
				slog.ErrorContext(ctx, "failed to re-hash password", "error", err, "user_id", user.ID)
			}
		}
	}

	now := h.now().UTC()
	if err := h.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          user.ID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessions.RenewToken(ctx); err != nil {
		slog.ErrorContext(ctx, "session renewal error", "error", err)
		WriteInternalError(w, "Failed to start session")
		return
	}
	h.sessions.Put(ctx, middleware.SessionKeyUserID, user.ID)

	slog.InfoContext(ctx, "user logged in", "user_id", user.ID, "email", user.Email)
	h.metrics.RecordLogin(metrics.ResultOK)
	h.observer.Publish(auth.Event{Kind: auth.EventLogin, UserID: user.ID, Email: user.Email, IP: clientIP, At: now})

	WriteSuccess(w, SessionResponse{
		Authenticated: true,
		User:          &auth.Session{UserID: user.ID, Email: user.Email, Name: user.Name, LastLoginAt: &now},
	}, nil)
}

// failLogin records a failed attempt and writes the matching response.
func (h *Handler) failLogin(w http.ResponseWriter, r *http.Request, email string) {
	h.metrics.RecordLogin(metrics.ResultFailed)
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			slog.WarnContext(r.Context(), "account locked due to failed login attempts", "email", email, "duration", lockDuration.String())
			WriteTooManyRequests(w, "Too many failed attempts. Try again in "+formatDuration(lockDuration))
			return
		}
		remaining := h.loginProtection.GetRemainingAttempts(email)
		if remaining <= 3 && remaining > 0 {
			WriteError(w, http.StatusUnauthorized, "invalid_credentials", msgInvalidCredentials,
				map[string]string{"remaining_attempts": strconv.Itoa(remaining)})
			return
		}
	}
	WriteError(w, http.StatusUnauthorized, "invalid_credentials", msgInvalidCredentials, nil)
}

// Logout handles POST /api/v1/auth/logout
// Requires {"confirm": true} or ?confirm=true.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirm && r.ContentLength != 0 {
		var req LogoutRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		confirm = req.Confirm
	}
	if !confirm {
		WriteValidationError(w, map[string]string{"confirm": "Logout must be confirmed"})
		return
	}

	sess := auth.FromContext(ctx)
	if err := h.sessions.Destroy(ctx); err != nil {
		slog.ErrorContext(ctx, "session destroy error", "error", err)
	}

	if sess.Authenticated() {
		slog.InfoContext(ctx, "user logged out", "user_id", sess.UserID)
		h.observer.Publish(auth.Event{
			Kind:   auth.EventLogout,
			UserID: sess.UserID,
			Email:  sess.Email,
			IP:     middleware.GetClientIP(r),
		})
	}
	WriteSuccess(w, SessionResponse{Authenticated: false}, nil)
}

// Session handles GET /api/v1/auth/session
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromContext(r.Context())
	if !sess.Authenticated() {
		WriteSuccess(w, SessionResponse{Authenticated: false}, nil)
		return
	}
	WriteSuccess(w, SessionResponse{Authenticated: true, User: sess}, nil)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
