// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the florist service.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tharabouqet/florist/internal/store"
)

// TestLogger creates a quiet test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary test database with migrations applied.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "florist-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() { _ = db.Close() }
}

// ProductFixture inserts a product with the given name, category and price.
// Successive calls get strictly increasing created_at values.
func ProductFixture(t *testing.T, db *sql.DB, name, category string, price int64) store.Product {
	t.Helper()

	p, err := store.New(db).CreateProduct(context.Background(), store.CreateProductParams{
		ID:          uuid.NewString(),
		Name:        name,
		Price:       price,
		Category:    category,
		ImageUrl:    "https://cdn.example.com/products/" + name + ".jpg",
		Images:      store.EncodeImages(nil),
		Description: "Fresh " + name,
		CreatedAt:   nextFixtureTime(),
	})
	if err != nil {
		t.Fatalf("CreateProduct(%s): %v", name, err)
	}
	return p
}

// CategoryFixture inserts a category.
func CategoryFixture(t *testing.T, db *sql.DB, name string) store.Category {
	t.Helper()

	c, err := store.New(db).CreateCategory(context.Background(), store.CreateCategoryParams{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: nextFixtureTime(),
	})
	if err != nil {
		t.Fatalf("CreateCategory(%s): %v", name, err)
	}
	return c
}

var (
	fixtureMu    sync.Mutex
	fixtureClock = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
)

func nextFixtureTime() time.Time {
	fixtureMu.Lock()
	defer fixtureMu.Unlock()
	fixtureClock = fixtureClock.Add(time.Second)
	return fixtureClock
}
