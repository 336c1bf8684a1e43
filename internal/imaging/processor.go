// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging compresses uploaded photos to a dimension and byte budget.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Budget defaults.
const (
	DefaultMaxDimension = 1920
	DefaultMaxBytes     = 512 * 1024
	DefaultStartQuality = 85
	DefaultMinQuality   = 40
	qualityStep         = 5
	minDimension        = 16
)

// OutputMimeType is the MIME type of every compressed image.
const OutputMimeType = "image/jpeg"

// ErrUnsupportedFormat is returned for data that is not JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Options is the compression budget.
type Options struct {
	MaxDimension int // longest edge in pixels
	MaxBytes     int
	StartQuality int
	MinQuality   int
}

// DefaultOptions returns the upload budget: 1920px, 0.5 MB, JPEG quality 85 down to 40.
func DefaultOptions() Options {
	return Options{
		MaxDimension: DefaultMaxDimension,
		MaxBytes:     DefaultMaxBytes,
		StartQuality: DefaultStartQuality,
		MinQuality:   DefaultMinQuality,
	}
}

// Result is a compressed image.
type Result struct {
	Data         []byte
	Width        int
	Height       int
	Quality      int
	MimeType     string
	SourceFormat string
}

// Size returns the encoded size in bytes.
func (r *Result) Size() int64 { return int64(len(r.Data)) }

// Processor compresses images using pure Go encoders.
type Processor struct {
	opts Options
}

// NewProcessor creates a processor. Zero option fields take the defaults.
func NewProcessor(opts Options) *Processor {
	d := DefaultOptions()
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = d.MaxDimension
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = d.MaxBytes
	}
	if opts.StartQuality <= 0 || opts.StartQuality > 100 {
		opts.StartQuality = d.StartQuality
	}
	if opts.MinQuality <= 0 || opts.MinQuality > opts.StartQuality {
		opts.MinQuality = min(d.MinQuality, opts.StartQuality)
	}
	return &Processor{opts: opts}
}

// Options returns the effective budget.
func (p *Processor) Options() Options { return p.opts }

// Compress decodes data, applies EXIF orientation, fits it within
// MaxDimension and re-encodes it as JPEG. Quality steps down from
// StartQuality to MinQuality; if the result is still over MaxBytes the image
// is scaled down by a quarter and the ladder restarts at StartQuality, so the
// smaller image keeps the highest quality that fits.
func (p *Processor) Compress(data []byte) (*Result, error) {
	format := DetectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))
	img = flatten(img)

	b := img.Bounds()
	if b.Dx() > p.opts.MaxDimension || b.Dy() > p.opts.MaxDimension {
		img = imaging.Fit(img, p.opts.MaxDimension, p.opts.MaxDimension, imaging.Lanczos)
	}

	for {
		out, quality, err := p.encodeWithinBudget(img)
		if err != nil {
			return nil, err
		}
		b := img.Bounds()
		if len(out) <= p.opts.MaxBytes || b.Dx() <= minDimension || b.Dy() <= minDimension {
			return &Result{
				Data:         out,
				Width:        b.Dx(),
				Height:       b.Dy(),
				Quality:      quality,
				MimeType:     OutputMimeType,
				SourceFormat: format,
			}, nil
		}
		img = imaging.Resize(img, b.Dx()*3/4, 0, imaging.Lanczos)
	}
}

// encodeWithinBudget returns the highest-quality encoding that fits, or the
// MinQuality encoding when none does.
func (p *Processor) encodeWithinBudget(img image.Image) ([]byte, int, error) {
	var out []byte
	quality := p.opts.StartQuality
	for {
		var err error
		out, err = encodeJPEG(img, quality)
		if err != nil {
			return nil, 0, fmt.Errorf("encoding image: %w", err)
		}
		if len(out) <= p.opts.MaxBytes || quality <= p.opts.MinQuality {
			return out, quality, nil
		}
		quality = max(quality-qualityStep, p.opts.MinQuality)
	}
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flatten composites img over white so transparent areas do not turn black in JPEG.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// DetectMimeType sniffs the MIME type of data without parameters.
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return contentType
}

// DetectFormat returns "jpeg", "png", "gif" or "webp", or "" for anything else.
// TIFF is rejected because of CVE-2023-36308 in disintegration/imaging.
func DetectFormat(data []byte) string {
	contentType := DetectMimeType(data)
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch contentType {
	case "image/jpeg":
		return "jpeg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return ""
	}
}

// readExifOrientation returns the EXIF orientation tag, or 1 when absent.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF orientation 2-8.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}
