// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage is the object storage bucket that holds uploaded images.
// Objects are addressed by slash-separated keys such as "products/gallery/x.jpg".
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrInvalidKey is returned for empty, absolute or traversing keys.
var ErrInvalidKey = errors.New("invalid object key")

// PutInput describes an object being written.
type PutInput struct {
	Key         string
	ContentType string
	Size        int64
}

// PutResult identifies a stored object.
type PutResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// Bucket stores objects and returns their public URLs.
type Bucket interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

// CleanKey validates key and returns its canonical form.
func CleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") || cleaned != key {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
