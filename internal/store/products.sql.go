// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const countProducts = `-- name: CountProducts :one
SELECT COUNT(*) FROM products
`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countProducts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createProduct = `-- name: CreateProduct :one
INSERT INTO products (id, name, price, original_price, category, image_url, images, description, discount, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, name, price, original_price, category, image_url, images, description, discount, created_at
`

type CreateProductParams struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Price         int64         `json:"price"`
	OriginalPrice sql.NullInt64 `json:"original_price"`
	Category      string        `json:"category"`
	ImageUrl      string        `json:"image_url"`
	Images        string        `json:"images"`
	Description   string        `json:"description"`
	Discount      string        `json:"discount"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, createProduct,
		arg.ID,
		arg.Name,
		arg.Price,
		arg.OriginalPrice,
		arg.Category,
		arg.ImageUrl,
		arg.Images,
		arg.Description,
		arg.Discount,
		arg.CreatedAt,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.OriginalPrice,
		&i.Category,
		&i.ImageUrl,
		&i.Images,
		&i.Description,
		&i.Discount,
		&i.CreatedAt,
	)
	return i, err
}

const deleteProduct = `-- name: DeleteProduct :execrows
DELETE FROM products WHERE id = ?
`

func (q *Queries) DeleteProduct(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getProduct = `-- name: GetProduct :one
SELECT id, name, price, original_price, category, image_url, images, description, discount, created_at FROM products WHERE id = ?
`

func (q *Queries) GetProduct(ctx context.Context, id string) (Product, error) {
	row := q.db.QueryRowContext(ctx, getProduct, id)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.OriginalPrice,
		&i.Category,
		&i.ImageUrl,
		&i.Images,
		&i.Description,
		&i.Discount,
		&i.CreatedAt,
	)
	return i, err
}

const listOrphanedProducts = `-- name: ListOrphanedProducts :many
SELECT id, name, price, original_price, category, image_url, images, description, discount, created_at FROM products
WHERE category NOT IN (SELECT name FROM categories)
ORDER BY created_at DESC, rowid DESC
`

func (q *Queries) ListOrphanedProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listOrphanedProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

const listProducts = `-- name: ListProducts :many
SELECT id, name, price, original_price, category, image_url, images, description, discount, created_at FROM products
ORDER BY created_at DESC, rowid DESC
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

const listRelatedProducts = `-- name: ListRelatedProducts :many
SELECT id, name, price, original_price, category, image_url, images, description, discount, created_at FROM products
WHERE id != ?
ORDER BY created_at DESC, rowid DESC
LIMIT ?
`

type ListRelatedProductsParams struct {
	ID    string `json:"id"`
	Limit int64  `json:"limit"`
}

func (q *Queries) ListRelatedProducts(ctx context.Context, arg ListRelatedProductsParams) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listRelatedProducts, arg.ID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

const updateProduct = `-- name: UpdateProduct :one
UPDATE products SET
    name = ?,
    price = ?,
    original_price = ?,
    category = ?,
    image_url = ?,
    images = ?,
    description = ?,
    discount = ?
WHERE id = ?
RETURNING id, name, price, original_price, category, image_url, images, description, discount, created_at
`

type UpdateProductParams struct {
	Name          string        `json:"name"`
	Price         int64         `json:"price"`
	OriginalPrice sql.NullInt64 `json:"original_price"`
	Category      string        `json:"category"`
	ImageUrl      string        `json:"image_url"`
	Images        string        `json:"images"`
	Description   string        `json:"description"`
	Discount      string        `json:"discount"`
	ID            string        `json:"id"`
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, updateProduct,
		arg.Name,
		arg.Price,
		arg.OriginalPrice,
		arg.Category,
		arg.ImageUrl,
		arg.Images,
		arg.Description,
		arg.Discount,
		arg.ID,
	)
	var i Product
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Price,
		&i.OriginalPrice,
		&i.Category,
		&i.ImageUrl,
		&i.Images,
		&i.Description,
		&i.Discount,
		&i.CreatedAt,
	)
	return i, err
}

func scanProducts(rows *sql.Rows) ([]Product, error) {
	var items []Product
	for rows.Next() {
		var i Product
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Price,
			&i.OriginalPrice,
			&i.Category,
			&i.ImageUrl,
			&i.Images,
			&i.Description,
			&i.Discount,
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
