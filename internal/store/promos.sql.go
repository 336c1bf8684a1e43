// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const createPromo = `-- name: CreatePromo :one
INSERT INTO promos (id, title, subtitle, image_url, button_text, button_link, discount, is_active, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, title, subtitle, image_url, button_text, button_link, discount, is_active, created_at
`

type CreatePromoParams struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	ImageUrl   string    `json:"image_url"`
	ButtonText string    `json:"button_text"`
	ButtonLink string    `json:"button_link"`
	Discount   string    `json:"discount"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func (q *Queries) CreatePromo(ctx context.Context, arg CreatePromoParams) (Promo, error) {
	row := q.db.QueryRowContext(ctx, createPromo,
		arg.ID,
		arg.Title,
		arg.Subtitle,
		arg.ImageUrl,
		arg.ButtonText,
		arg.ButtonLink,
		arg.Discount,
		arg.IsActive,
		arg.CreatedAt,
	)
	var i Promo
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Subtitle,
		&i.ImageUrl,
		&i.ButtonText,
		&i.ButtonLink,
		&i.Discount,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const deletePromo = `-- name: DeletePromo :execrows
DELETE FROM promos WHERE id = ?
`

func (q *Queries) DeletePromo(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePromo, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getPromo = `-- name: GetPromo :one
SELECT id, title, subtitle, image_url, button_text, button_link, discount, is_active, created_at FROM promos WHERE id = ?
`

func (q *Queries) GetPromo(ctx context.Context, id string) (Promo, error) {
	row := q.db.QueryRowContext(ctx, getPromo, id)
	var i Promo
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Subtitle,
		&i.ImageUrl,
		&i.ButtonText,
		&i.ButtonLink,
		&i.Discount,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

const listActivePromos = `-- name: ListActivePromos :many
SELECT id, title, subtitle, image_url, button_text, button_link, discount, is_active, created_at FROM promos
WHERE is_active = 1
ORDER BY created_at DESC, rowid DESC
`

func (q *Queries) ListActivePromos(ctx context.Context) ([]Promo, error) {
	rows, err := q.db.QueryContext(ctx, listActivePromos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPromos(rows)
}

const listPromos = `-- name: ListPromos :many
SELECT id, title, subtitle, image_url, button_text, button_link, discount, is_active, created_at FROM promos
ORDER BY created_at DESC, rowid DESC
`

func (q *Queries) ListPromos(ctx context.Context) ([]Promo, error) {
	rows, err := q.db.QueryContext(ctx, listPromos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPromos(rows)
}

const updatePromo = `-- name: UpdatePromo :one
UPDATE promos SET
    title = ?,
    subtitle = ?,
    image_url = ?,
    button_text = ?,
    button_link = ?,
    discount = ?,
    is_active = ?
WHERE id = ?
RETURNING id, title, subtitle, image_url, button_text, button_link, discount, is_active, created_at
`

type UpdatePromoParams struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ImageUrl   string `json:"image_url"`
	ButtonText string `json:"button_text"`
	ButtonLink string `json:"button_link"`
	Discount   string `json:"discount"`
	IsActive   bool   `json:"is_active"`
	ID         string `json:"id"`
}

func (q *Queries) UpdatePromo(ctx context.Context, arg UpdatePromoParams) (Promo, error) {
	row := q.db.QueryRowContext(ctx, updatePromo,
		arg.Title,
		arg.Subtitle,
		arg.ImageUrl,
		arg.ButtonText,
		arg.ButtonLink,
		arg.Discount,
		arg.IsActive,
		arg.ID,
	)
	var i Promo
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Subtitle,
		&i.ImageUrl,
		&i.ButtonText,
		&i.ButtonLink,
		&i.Discount,
		&i.IsActive,
		&i.CreatedAt,
	)
	return i, err
}

func scanPromos(rows *sql.Rows) ([]Promo, error) {
	var items []Promo
	for rows.Next() {
		var i Promo
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Subtitle,
			&i.ImageUrl,
			&i.ButtonText,
			&i.ButtonLink,
			&i.Discount,
			&i.IsActive,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
