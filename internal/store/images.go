// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"encoding/json"
	"strings"
)

// MaxGalleryImages is the number of gallery entries a product may carry.
const MaxGalleryImages = 3

// ImageList decodes the JSON-encoded gallery column. Malformed values decode
// to an empty list.
func (p Product) ImageList() []string {
	raw := strings.TrimSpace(p.Images)
	if raw == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []string{}
	}
	if out == nil {
		return []string{}
	}
	return out
}

// EncodeImages serializes a gallery list for the images column.
func EncodeImages(images []string) string {
	if len(images) == 0 {
		return "[]"
	}
	b, err := json.Marshal(images)
	if err != nil {
		return "[]"
	}
	return string(b)
}
