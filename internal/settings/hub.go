// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/tharabouqet/florist/internal/cache"
	"github.com/tharabouqet/florist/internal/store"
)

const cacheKey = "settings:resolved"

// ErrUnknownKey is returned by Upsert for keys the storefront does not read.
var ErrUnknownKey = errors.New("unknown setting key")

// Source is the persistence the hub reads from and writes through.
type Source interface {
	ListSettings(ctx context.Context) ([]store.StoreSetting, error)
	UpsertSetting(ctx context.Context, arg store.UpsertSettingParams) (store.StoreSetting, error)
}

// Hub is the single shared accessor for resolved settings. It loads once,
// caches the result and notifies subscribers when the values change.
type Hub struct {
	src   Source
	cache *cache.TypedCache[Values]

	mu      sync.RWMutex
	current Values
	loaded  bool

	subMu  sync.Mutex
	subs   map[int]func(Values)
	nextID int
}

// NewHub creates a hub over src. c may be shared with other instances (Redis).
func NewHub(src Source, c cache.Cacher, ttl time.Duration) *Hub {
	return &Hub{
		src:   src,
		cache: cache.NewTypedCache[Values](c, ttl),
		subs:  make(map[int]func(Values)),
	}
}

// Current returns the resolved settings, loading them on first use. When the
// source fails the defaults are returned and the next call retries.
func (h *Hub) Current(ctx context.Context) Values {
	h.mu.RLock()
	if h.loaded {
		v := h.current.Clone()
		h.mu.RUnlock()
		return v
	}
	h.mu.RUnlock()

	v, err := h.cache.GetOrSet(ctx, cacheKey, func() (*Values, error) {
		fresh, err := h.load(ctx)
		if err != nil {
			return nil, err
		}
		return &fresh, nil
	})
	if err != nil {
		slog.Warn("loading store settings, using defaults", "error", err)
		return Defaults()
	}

	h.set(*v)
	return v.Clone()
}

// Refresh re-reads the source, rewrites the cache and broadcasts when the
// values differ from what the hub held.
func (h *Hub) Refresh(ctx context.Context) error {
	fresh, err := h.load(ctx)
	if err != nil {
		return err
	}
	if err := h.cache.Set(ctx, cacheKey, &fresh); err != nil {
		slog.Warn("caching store settings", "error", err)
	}
	h.set(fresh)
	return nil
}

// Upsert writes one setting, invalidates the cache and re-broadcasts.
func (h *Hub) Upsert(ctx context.Context, key, value string) (Values, error) {
	_, v, err := h.UpsertMany(ctx, map[string]string{key: value})
	return v, err
}

// UpsertMany writes every key in values, then refreshes once so subscribers
// see a single broadcast. Unknown keys fail the call before anything is
// written. When a write fails, saved lists the keys stored before it; the
// hub is still refreshed so it reflects them.
func (h *Hub) UpsertMany(ctx context.Context, values map[string]string) (saved []string, v Values, err error) {
	clean := make(map[string]string, len(values))
	for key, value := range values {
		key = strings.TrimSpace(key)
		if !IsKnownKey(key) {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
		}
		clean[key] = strings.TrimSpace(value)
	}

	now := time.Now().UTC()
	var writeErr error
	for _, key := range KnownKeys() {
		value, ok := clean[key]
		if !ok {
			continue
		}
		if _, err := h.src.UpsertSetting(ctx, store.UpsertSettingParams{
			Key:       key,
			Value:     value,
			CreatedAt: now,
		}); err != nil {
			writeErr = fmt.Errorf("saving setting %s: %w", key, err)
			break
		}
		saved = append(saved, key)
	}

	if len(saved) > 0 {
		if err := h.cache.Delete(ctx, cacheKey); err != nil {
			slog.Warn("invalidating settings cache", "error", err)
		}
		if err := h.Refresh(ctx); err != nil && writeErr == nil {
			return saved, nil, err
		}
	}
	if writeErr != nil {
		return saved, nil, writeErr
	}
	return saved, h.Current(ctx), nil
}

// Subscribe registers fn for change notifications and returns the function
// that removes it. fn runs outside the hub's locks.
func (h *Hub) Subscribe(fn func(Values)) (unsubscribe func()) {
	h.subMu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.subMu.Lock()
			delete(h.subs, id)
			h.subMu.Unlock()
		})
	}
}

// Subscribers returns the number of registered subscribers.
func (h *Hub) Subscribers() int {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	return len(h.subs)
}

func (h *Hub) load(ctx context.Context) (Values, error) {
	rows, err := h.src.ListSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing settings: %w", err)
	}
	in := make([]Setting, 0, len(rows))
	for _, r := range rows {
		in = append(in, Setting{Key: r.Key, Value: r.Value})
	}
	return Resolve(in), nil
}

func (h *Hub) set(v Values) {
	h.mu.Lock()
	changed := !h.loaded || !h.current.Equal(v)
	h.current = v.Clone()
	h.loaded = true
	h.mu.Unlock()

	if changed {
		h.broadcast(v)
	}
}

func (h *Hub) broadcast(v Values) {
	h.subMu.Lock()
	fns := make([]func(Values), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.subMu.Unlock()

	for _, fn := range fns {
		fn(v.Clone())
	}
}
