// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tharabouqet/florist/internal/auth"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "changeme1234"
	DefaultAdminName     = "Administrator"
)

// DefaultCategories are created on first seed so the storefront filter is not empty.
var DefaultCategories = []string{"Bouquet", "Hand Bouquet", "Standing Flower", "Money Bouquet"}

// Seed creates the initial admin account and starter categories.
// It is idempotent: existing data is left untouched.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	if err := seedAdmin(ctx, queries); err != nil {
		return err
	}
	return seedCategories(ctx, queries)
}

func seedAdmin(ctx context.Context, queries *Queries) error {
	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", user.ID,
		"email", user.Email,
	)
	return nil
}

func seedCategories(ctx context.Context, queries *Queries) error {
	existing, err := queries.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, name := range DefaultCategories {
		if _, err := queries.CreateCategory(ctx, CreateCategoryParams{
			ID:        uuid.NewString(),
			Name:      name,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return fmt.Errorf("creating category %q: %w", name, err)
		}
	}
	slog.Info("seeded default categories", "count", len(DefaultCategories))
	return nil
}
