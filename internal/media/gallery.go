// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"errors"

	"github.com/tharabouqet/florist/internal/store"
)

// ErrGalleryFull is returned when adding past store.MaxGalleryImages.
var ErrGalleryFull = errors.New("Max 3 gallery photos.")

// Gallery is the ordered photo list of a product being edited.
type Gallery struct {
	urls []string
}

// NewGallery copies urls into a gallery. Extra entries beyond the limit are dropped.
func NewGallery(urls []string) *Gallery {
	if len(urls) > store.MaxGalleryImages {
		urls = urls[:store.MaxGalleryImages]
	}
	return &Gallery{urls: append([]string(nil), urls...)}
}

// Add appends url. A full gallery is left unchanged.
func (g *Gallery) Add(url string) error {
	if g.Full() {
		return ErrGalleryFull
	}
	g.urls = append(g.urls, url)
	return nil
}

// Remove deletes the photo at index i. Out of range indexes are ignored.
func (g *Gallery) Remove(i int) {
	if i < 0 || i >= len(g.urls) {
		return
	}
	g.urls = append(g.urls[:i], g.urls[i+1:]...)
}

// Full reports whether no more photos can be added.
func (g *Gallery) Full() bool { return len(g.urls) >= store.MaxGalleryImages }

// Len returns the number of photos.
func (g *Gallery) Len() int { return len(g.urls) }

// URLs returns a copy of the photo list, never nil.
func (g *Gallery) URLs() []string {
	out := make([]string, len(g.urls))
	copy(out, g.urls)
	return out
}
