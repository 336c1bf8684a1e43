// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// Form is an admin form for one entity type.
type Form[F any] interface {
	// Normalize returns the form with defaults applied and text cleaned.
	Normalize() F
	// Validate returns field errors for a normalized form, or nil.
	Validate() map[string]string
}

// Outcome is the result of a successful Submit: the saved row, the
// refetched list and a blank form for the next entry.
type Outcome[T, F any] struct {
	Saved T    `json:"saved"`
	Items []T  `json:"items"`
	Form  F    `json:"form"`
	Mode  Mode `json:"-"`
}

// Resource is the uniform list/create/update/delete contract for one table.
type Resource[T any, F Form[F]] struct {
	name   string
	list   func(context.Context) ([]T, error)
	create func(context.Context, F) (T, error)
	update func(context.Context, string, F) (T, error)
	remove func(context.Context, string) (int64, error)
	get    func(context.Context, string) (T, error)
	fill   func(T) F
	blank  func() F
}

// Name returns the entity name used in messages.
func (r *Resource[T, F]) Name() string { return r.name }

// Blank returns an empty form with defaults.
func (r *Resource[T, F]) Blank() F {
	if r.blank != nil {
		return r.blank()
	}
	var zero F
	return zero
}

// Edit loads row id into a pre-filled form and the mode to submit it with.
func (r *Resource[T, F]) Edit(ctx context.Context, id string) (F, Mode, error) {
	var zero F
	if id == "" {
		return zero, nil, ErrNotFound
	}
	row, err := r.get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, nil, ErrNotFound
		}
		return zero, nil, fmt.Errorf("loading %s: %w", r.name, err)
	}
	return r.fill(row), ModeFor(id), nil
}

// List returns all rows in display order.
func (r *Resource[T, F]) List(ctx context.Context) ([]T, error) {
	items, err := r.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", r.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Create validates form and inserts a row.
func (r *Resource[T, F]) Create(ctx context.Context, form F) (T, error) {
	var zero T
	form = form.Normalize()
	if err := invalid(form.Validate()); err != nil {
		return zero, err
	}
	item, err := r.create(ctx, form)
	if err != nil {
		return zero, fmt.Errorf("creating %s: %w", r.name, err)
	}
	return item, nil
}

// Update validates form and overwrites row id. The last write wins.
func (r *Resource[T, F]) Update(ctx context.Context, id string, form F) (T, error) {
	var zero T
	if id == "" {
		return zero, ErrNotFound
	}
	form = form.Normalize()
	if err := invalid(form.Validate()); err != nil {
		return zero, err
	}
	item, err := r.update(ctx, id, form)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("updating %s: %w", r.name, err)
	}
	return item, nil
}

// Delete removes row id. It refuses to run unless confirm is true.
func (r *Resource[T, F]) Delete(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return &ValidationError{Fields: map[string]string{"confirm": "Deletion must be confirmed"}}
	}
	n, err := r.remove(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", r.name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Submit inserts for Creating and updates for Editing. On success the list
// is refetched and a blank form is returned; on failure nothing is refetched
// and the caller keeps the submitted form.
func (r *Resource[T, F]) Submit(ctx context.Context, mode Mode, form F) (*Outcome[T, F], error) {
	var (
		saved T
		err   error
	)
	switch m := mode.(type) {
	case Creating:
		saved, err = r.Create(ctx, form)
	case Editing:
		saved, err = r.Update(ctx, m.ID, form)
	default:
		return nil, fmt.Errorf("unknown form mode %T", mode)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.List(ctx)
	if err != nil {
		slog.Warn("refetch after submit failed", "entity", r.name, "error", err)
		items = nil
	}
	return &Outcome[T, F]{
		Saved: saved,
		Items: items,
		Form:  r.Blank(),
		Mode:  Creating{},
	}, nil
}
