// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
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

type Promo struct {
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

type StoreSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text"`
	Rating    int64     `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash"`
	Name         string       `json:"name"`
	LastLoginAt  sql.NullTime `json:"last_login_at"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
