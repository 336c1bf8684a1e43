// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const listSettings = `-- name: ListSettings :many
SELECT key, value, created_at FROM store_settings ORDER BY key
`

func (q *Queries) ListSettings(ctx context.Context) ([]StoreSetting, error) {
	rows, err := q.db.QueryContext(ctx, listSettings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []StoreSetting
	for rows.Next() {
		var i StoreSetting
		if err := rows.Scan(&i.Key, &i.Value, &i.CreatedAt); err != nil {
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

const upsertSetting = `-- name: UpsertSetting :one
INSERT INTO store_settings (key, value, created_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
RETURNING key, value, created_at
`

type UpsertSettingParams struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) (StoreSetting, error) {
	row := q.db.QueryRowContext(ctx, upsertSetting, arg.Key, arg.Value, arg.CreatedAt)
	var i StoreSetting
	err := row.Scan(&i.Key, &i.Value, &i.CreatedAt)
	return i, err
}
