// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"sync"
	"time"
)

// EventKind is the type of authentication change.
type EventKind string

// Event kinds.
const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event describes a login or logout.
type Event struct {
	Kind   EventKind
	UserID int64
	Email  string
	IP     string
	At     time.Time
}

// Observer fans out authentication events to subscribers.
type Observer struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

// NewObserver creates an observer with no subscribers.
func NewObserver() *Observer {
	return &Observer{subs: make(map[int]func(Event))}
}

// Subscribe registers fn for every event. The returned func removes it and
// is safe to call more than once.
func (o *Observer) Subscribe(fn func(Event)) (unsubscribe func()) {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subs[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}

// Publish delivers e to all current subscribers outside the lock.
func (o *Observer) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	o.mu.RLock()
	fns := make([]func(Event), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Subscribers returns the number of active subscriptions.
func (o *Observer) Subscribers() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs)
}
