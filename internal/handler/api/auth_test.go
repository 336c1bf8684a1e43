// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharabouqet/florist/internal/auth"
	"github.com/tharabouqet/florist/internal/metrics"
	"github.com/tharabouqet/florist/internal/store"
)

type eventLog struct {
	mu     sync.Mutex
	events []auth.Event
}

func (l *eventLog) record(e auth.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) kinds() []auth.EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]auth.EventKind, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Kind)
	}
	return out
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	var log eventLog
	t.Cleanup(env.observer.Subscribe(log.record))

	resp := env.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	assertStatus(t, resp, http.StatusOK)
	var sess SessionResponse
	decodeData(t, resp, &sess)
	assert.False(t, sess.Authenticated)

	resp = env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "  ADMIN@example.com ",
		Password: store.DefaultAdminPassword,
	})
	assertStatus(t, resp, http.StatusOK)
	decodeData(t, resp, &sess)
	require.True(t, sess.Authenticated)
	assert.Equal(t, store.DefaultAdminEmail, sess.User.Email)

	resp = env.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	assertStatus(t, resp, http.StatusOK)
	decodeData(t, resp, &sess)
	require.True(t, sess.Authenticated)
	assert.Equal(t, store.DefaultAdminEmail, sess.User.Email)
	require.NotNil(t, sess.User.LastLoginAt)
	assert.WithinDuration(t, fixedNow, *sess.User.LastLoginAt, time.Second)

	assert.Equal(t, []auth.EventKind{auth.EventLogin}, log.kinds())
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.LoginsTotal.WithLabelValues(metrics.ResultOK)))
}

func TestLogin_Validation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{})
	assertStatus(t, resp, http.StatusUnprocessableEntity)
	details := decodeError(t, resp).Error.Details
	assert.Equal(t, "Email is required", details["email"])
	assert.Equal(t, "Password is required", details["password"])
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    store.DefaultAdminEmail,
		Password: "wrong-password",
	})
	assertStatus(t, resp, http.StatusUnauthorized)
	er := decodeError(t, resp)
	assert.Equal(t, "invalid_credentials", er.Error.Code)
	assert.Empty(t, er.Error.Details["remaining_attempts"])

	resp = env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    store.DefaultAdminEmail,
		Password: "wrong-password",
	})
	assertStatus(t, resp, http.StatusUnauthorized)
	assert.Equal(t, "3", decodeError(t, resp).Error.Details["remaining_attempts"])

	resp = env.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	var sess SessionResponse
	decodeData(t, resp, &sess)
	assert.False(t, sess.Authenticated)
}

func TestLogin_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	assertStatus(t, resp, http.StatusUnauthorized)
	assert.Equal(t, msgInvalidCredentials, decodeError(t, resp).Error.Message)
}

func TestLogin_Lockout(t *testing.T) {
	env := newTestEnv(t)

	bad := LoginRequest{Email: store.DefaultAdminEmail, Password: "wrong-password"}
	for i := 0; i < 4; i++ {
		assertStatus(t, env.do(t, http.MethodPost, "/api/v1/auth/login", bad), http.StatusUnauthorized)
	}
	assertStatus(t, env.do(t, http.MethodPost, "/api/v1/auth/login", bad), http.StatusTooManyRequests)

	// Correct password is refused while locked.
	resp := env.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    store.DefaultAdminEmail,
		Password: store.DefaultAdminPassword,
	})
	assertStatus(t, resp, http.StatusTooManyRequests)
	assert.Equal(t, "rate_limited", decodeError(t, resp).Error.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.LoginsTotal.WithLabelValues(metrics.ResultLocked)))
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	var log eventLog
	t.Cleanup(env.observer.Subscribe(log.record))
	env.login(t)

	resp := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	assertStatus(t, resp, http.StatusUnprocessableEntity)
	assert.NotEmpty(t, decodeError(t, resp).Error.Details["confirm"])

	resp = env.do(t, http.MethodPost, "/api/v1/auth/logout", LogoutRequest{Confirm: true})
	assertStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodGet, "/api/v1/admin/products", nil)
	assertStatus(t, resp, http.StatusUnauthorized)

	assert.Equal(t, []auth.EventKind{auth.EventLogin, auth.EventLogout}, log.kinds())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{15 * time.Minute, "15 minutes"},
		{time.Hour, "1 hour"},
		{5 * time.Hour, "5 hours"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
