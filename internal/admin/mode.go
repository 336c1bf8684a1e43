// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package admin

// Mode says whether a submitted form inserts a new row or updates one.
// It is either Creating or Editing.
type Mode interface {
	isMode()
}

// Creating submits a new entity.
type Creating struct{}

// Editing submits changes to the entity with ID.
type Editing struct {
	ID string
}

func (Creating) isMode() {}
func (Editing) isMode()  {}

// ModeFor returns Editing{id} for a non-empty id and Creating{} otherwise.
func ModeFor(id string) Mode {
	if id == "" {
		return Creating{}
	}
	return Editing{ID: id}
}
