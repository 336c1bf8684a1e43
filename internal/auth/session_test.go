// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"sync"
	"testing"
)

func TestFromContext(t *testing.T) {
	s := FromContext(context.Background())
	if s == nil || s.Authenticated() {
		t.Fatalf("FromContext(empty) = %+v, want anonymous session", s)
	}

	ctx := WithSession(context.Background(), &Session{UserID: 7, Email: "admin@example.com"})
	got := FromContext(ctx)
	if !got.Authenticated() || got.UserID != 7 {
		t.Errorf("FromContext() = %+v", got)
	}

	var nilSession *Session
	if nilSession.Authenticated() {
		t.Error("nil session reported authenticated")
	}
}

func TestObserver_SubscribeAndUnsubscribe(t *testing.T) {
	o := NewObserver()

	var mu sync.Mutex
	var got []EventKind
	unsubscribe := o.Subscribe(func(e Event) {
		mu.Lock()
		got = append(got, e.Kind)
		mu.Unlock()
		if e.At.IsZero() {
			t.Error("event time not set")
		}
	})
	if o.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, want 1", o.Subscribers())
	}

	o.Publish(Event{Kind: EventLogin, UserID: 1})
	o.Publish(Event{Kind: EventLogout, UserID: 1})

	unsubscribe()
	unsubscribe()
	o.Publish(Event{Kind: EventLogin, UserID: 2})

	if o.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d after unsubscribe, want 0", o.Subscribers())
	}
	if len(got) != 2 || got[0] != EventLogin || got[1] != EventLogout {
		t.Errorf("events = %v, want [login logout]", got)
	}
}

func TestObserver_SubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	o := NewObserver()
	var unsubscribe func()
	calls := 0
	unsubscribe = o.Subscribe(func(Event) {
		calls++
		unsubscribe()
	})

	o.Publish(Event{Kind: EventLogin})
	o.Publish(Event{Kind: EventLogin})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
