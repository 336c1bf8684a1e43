// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/tharabouqet/florist/internal/admin"
	"github.com/tharabouqet/florist/internal/auth"
	"github.com/tharabouqet/florist/internal/cache"
	"github.com/tharabouqet/florist/internal/catalog"
	"github.com/tharabouqet/florist/internal/media"
	"github.com/tharabouqet/florist/internal/metrics"
	"github.com/tharabouqet/florist/internal/middleware"
	"github.com/tharabouqet/florist/internal/scheduler"
	"github.com/tharabouqet/florist/internal/settings"
	"github.com/tharabouqet/florist/internal/storage"
	"github.com/tharabouqet/florist/internal/store"
	"github.com/tharabouqet/florist/internal/testutil"
)

var jakarta = mustLocation("Asia/Jakarta")

// fixedNow is 10:00 on 10 March 2025 in Jakarta; the earliest delivery date is 2025-03-13.
var fixedNow = time.Date(2025, 3, 10, 10, 0, 0, 0, jakarta)

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

type testEnv struct {
	db         *sql.DB
	handler    *Handler
	metrics    *metrics.Metrics
	observer   *auth.Observer
	uploadsDir string
	server     *httptest.Server
	client     *http.Client
}

// newTestEnv builds the full API stack on a migrated temporary database and
// serves it the way main mounts it, minus CSRF.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	if err := store.Seed(context.Background(), db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	queries := store.New(db)
	memCache := cache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(func() { _ = memCache.Close() })
	hub := settings.NewHub(queries, memCache, time.Minute)

	uploadsDir := t.TempDir()
	uploader, err := media.NewUploader(storage.NewLocal(uploadsDir, "http://localhost:8080"+storage.LocalURLPath), nil)
	if err != nil {
		t.Fatalf("NewUploader: %v", err)
	}

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 100, IPBurst: 100})
	t.Cleanup(lp.Close)

	sm := scs.New()
	m := metrics.New()
	observer := auth.NewObserver()
	adminService := admin.New(db)

	sched := scheduler.New(testutil.TestLogger(), jakarta)
	if err := sched.RegisterSettingsRefresh("@every 1h", hub, m); err != nil {
		t.Fatalf("RegisterSettingsRefresh: %v", err)
	}
	if err := sched.RegisterOrphanReport(scheduler.OrphanReportSchedule, adminService); err != nil {
		t.Fatalf("RegisterOrphanReport: %v", err)
	}

	h := NewHandler(Deps{
		DB:              db,
		Catalog:         catalog.NewProvider(queries, hub),
		Settings:        hub,
		Admin:           adminService,
		Uploader:        uploader,
		Sessions:        sm,
		Observer:        observer,
		LoginProtection: lp,
		Metrics:         m,
		Jobs:            sched,
		PageSize:        2,
		PublicBaseURL:   "https://tharabouqet.test",
		Location:        jakarta,
	})
	h.now = func() time.Time { return fixedNow }

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadSession(sm, db))
	r.Post(RouteOrderForm, h.OrderRedirect)
	r.Route(RouteAPIPrefix, func(r chi.Router) {
		r.Group(h.RegisterPublicRoutes)
		r.Route("/auth", h.RegisterAuthRoutes)
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireSession)
			h.RegisterAdminRoutes(r)
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &testEnv{
		db:         db,
		handler:    h,
		metrics:    m,
		observer:   observer,
		uploadsDir: uploadsDir,
		server:     srv,
		client:     client,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.server.URL+path, rd)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// login signs in as the seeded admin.
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/v1/auth/login", LoginRequest{
		Email:    store.DefaultAdminEmail,
		Password: store.DefaultAdminPassword,
	})
	assertStatus(t, resp, http.StatusOK)
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d; body: %s", resp.StatusCode, want, body)
	}
}

// decodeData unmarshals the data field of a success envelope into dst.
func decodeData(t *testing.T, resp *http.Response, dst any) *Meta {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
		Meta *Meta           `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if dst != nil {
		if err := json.Unmarshal(env.Data, dst); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env.Meta
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	return er
}
