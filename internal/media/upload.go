// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media uploads admin images: it validates, compresses and stores
// them under a usage-specific path and returns the public URL.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	nanoid "github.com/jaevor/go-nanoid"

	"github.com/tharabouqet/florist/internal/imaging"
	"github.com/tharabouqet/florist/internal/storage"
)

// MaxUploadBytes is the largest accepted source file.
const MaxUploadBytes = 10 << 20

const fileIDLength = 12

// Upload errors. Their messages are shown to the admin as-is.
var (
	ErrNotImage     = errors.New("Must be image")
	ErrTooLarge     = errors.New("Image must be 10 MB or smaller")
	ErrEmptyFile    = errors.New("No file selected")
	ErrUnknownUsage = errors.New("Unknown upload type")
)

// Usage says where an uploaded image will be shown.
type Usage string

// Upload usages.
const (
	UsagePromo   Usage = "promo"
	UsageProduct Usage = "product"
	UsageGallery Usage = "gallery"
)

// ParseUsage converts a route parameter into a Usage.
func ParseUsage(s string) (Usage, error) {
	switch u := Usage(strings.ToLower(strings.TrimSpace(s))); u {
	case UsagePromo, UsageProduct, UsageGallery:
		return u, nil
	}
	return "", ErrUnknownUsage
}

// Prefix returns the storage folder for the usage.
func (u Usage) Prefix() string {
	switch u {
	case UsagePromo:
		return "promos/"
	case UsageGallery:
		return "products/gallery/"
	default:
		return "products/"
	}
}

// Uploaded describes a stored image.
type Uploaded struct {
	URL    string `json:"url"`
	Key    string `json:"key"`
	Usage  Usage  `json:"usage"`
	Size   int64  `json:"size"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Uploader compresses images and writes them to a bucket.
type Uploader struct {
	bucket    storage.Bucket
	processor *imaging.Processor
	newID     func() string
	now       func() time.Time
}

// NewUploader creates an uploader. A nil processor uses the default budget.
func NewUploader(bucket storage.Bucket, processor *imaging.Processor) (*Uploader, error) {
	if processor == nil {
		processor = imaging.NewProcessor(imaging.DefaultOptions())
	}
	gen, err := nanoid.Standard(fileIDLength)
	if err != nil {
		return nil, fmt.Errorf("creating id generator: %w", err)
	}
	return &Uploader{
		bucket:    bucket,
		processor: processor,
		newID:     gen,
		now:       time.Now,
	}, nil
}

// FileName returns "<unix-ms>_<id>.jpg".
func FileName(now time.Time, id string) string {
	return fmt.Sprintf("%d_%s.jpg", now.UnixMilli(), id)
}

// Upload reads one image from r, compresses it and stores it under the
// usage prefix. Nothing is retried.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, usage Usage) (*Uploaded, error) {
	if _, err := ParseUsage(string(usage)); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if len(data) > MaxUploadBytes {
		return nil, ErrTooLarge
	}
	if !strings.HasPrefix(imaging.DetectMimeType(data), "image/") {
		return nil, ErrNotImage
	}

	res, err := u.processor.Compress(data)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, ErrNotImage
		}
		return nil, fmt.Errorf("compressing image: %w", err)
	}

	key := usage.Prefix() + FileName(u.now(), u.newID())
	put, err := u.bucket.Put(ctx, bytes.NewReader(res.Data), storage.PutInput{
		Key:         key,
		ContentType: res.MimeType,
		Size:        res.Size(),
	})
	if err != nil {
		return nil, fmt.Errorf("storing image: %w", err)
	}

	return &Uploaded{
		URL:    put.URL,
		Key:    put.Key,
		Usage:  usage,
		Size:   res.Size(),
		Width:  res.Width,
		Height: res.Height,
	}, nil
}

// Message returns the text shown to the admin for an upload failure.
func Message(err error) string {
	for _, known := range []error{ErrNotImage, ErrTooLarge, ErrEmptyFile, ErrUnknownUsage, ErrGalleryFull} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "Upload failed"
}
