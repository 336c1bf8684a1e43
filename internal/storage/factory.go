// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"context"
	"fmt"

	"github.com/tharabouqet/florist/internal/config"
)

// LocalURLPath is where the local bucket is served.
const LocalURLPath = "/uploads"

// FromConfig builds the bucket selected by cfg.StorageDriver.
func FromConfig(ctx context.Context, cfg *config.Config) (Bucket, error) {
	switch cfg.StorageDriver {
	case config.StorageLocal, "":
		return NewLocal(cfg.UploadsDir, joinURL(cfg.PublicBaseURL, LocalURLPath[1:])), nil
	case config.StorageS3:
		b, err := NewS3(ctx, S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Prefix:        cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
