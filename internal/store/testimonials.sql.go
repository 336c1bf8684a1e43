// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createTestimonial = `-- name: CreateTestimonial :one
INSERT INTO testimonials (id, name, text, rating, created_at) VALUES (?, ?, ?, ?, ?)
RETURNING id, name, text, rating, created_at
`

type CreateTestimonialParams struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Rating    int64     `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) CreateTestimonial(ctx context.Context, arg CreateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, createTestimonial,
		arg.ID,
		arg.Name,
		arg.Text,
		arg.Rating,
		arg.CreatedAt,
	)
	var i Testimonial
	err := row.Scan(&i.ID, &i.Name, &i.Text, &i.Rating, &i.CreatedAt)
	return i, err
}

const deleteTestimonial = `-- name: DeleteTestimonial :execrows
DELETE FROM testimonials WHERE id = ?
`

func (q *Queries) DeleteTestimonial(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTestimonial, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getTestimonial = `-- name: GetTestimonial :one
SELECT id, name, text, rating, created_at FROM testimonials WHERE id = ?
`

func (q *Queries) GetTestimonial(ctx context.Context, id string) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, getTestimonial, id)
	var i Testimonial
	err := row.Scan(&i.ID, &i.Name, &i.Text, &i.Rating, &i.CreatedAt)
	return i, err
}

const listTestimonials = `-- name: ListTestimonials :many
SELECT id, name, text, rating, created_at FROM testimonials
ORDER BY created_at DESC, rowid DESC
`

func (q *Queries) ListTestimonials(ctx context.Context) ([]Testimonial, error) {
	rows, err := q.db.QueryContext(ctx, listTestimonials)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Testimonial
	for rows.Next() {
		var i Testimonial
		if err := rows.Scan(&i.ID, &i.Name, &i.Text, &i.Rating, &i.CreatedAt); err != nil {
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

const updateTestimonial = `-- name: UpdateTestimonial :one
UPDATE testimonials SET name = ?, text = ?, rating = ? WHERE id = ?
RETURNING id, name, text, rating, created_at
`

type UpdateTestimonialParams struct {
	Name   string `json:"name"`
	Text   string `json:"text"`
	Rating int64  `json:"rating"`
	ID     string `json:"id"`
}

func (q *Queries) UpdateTestimonial(ctx context.Context, arg UpdateTestimonialParams) (Testimonial, error) {
	row := q.db.QueryRowContext(ctx, updateTestimonial,
		arg.Name,
		arg.Text,
		arg.Rating,
		arg.ID,
	)
	var i Testimonial
	err := row.Scan(&i.ID, &i.Name, &i.Text, &i.Rating, &i.CreatedAt)
	return i, err
}
