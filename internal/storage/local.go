// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Local stores objects under a directory served at URLPrefix.
type Local struct {
	BaseDir   string
	URLPrefix string
}

// NewLocal creates a local bucket.
func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: urlPrefix}
}

// Put writes the object, creating parent directories as needed.
func (l *Local) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	key, err := CleanKey(in.Key)
	if err != nil {
		return PutResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return PutResult{}, err
	}

	dst := filepath.Join(l.BaseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return PutResult{}, fmt.Errorf("creating upload directory: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return PutResult{}, fmt.Errorf("creating object file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return PutResult{}, fmt.Errorf("writing object: %w", err)
	}
	if err := f.Close(); err != nil {
		return PutResult{}, fmt.Errorf("closing object file: %w", err)
	}

	return PutResult{Key: key, URL: joinURL(l.URLPrefix, key)}, nil
}

// Delete removes the object. Deleting a missing object is not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	key, err := CleanKey(key)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(l.BaseDir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }
