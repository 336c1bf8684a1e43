// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tharabouqet/florist/internal/admin"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"}, &Meta{Total: 7})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp struct {
		Data map[string]string `json:"data"`
		Meta Meta              `json:"meta"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data["hello"] != "world" {
		t.Errorf("data = %v", resp.Data)
	}
	if resp.Meta.Total != 7 {
		t.Errorf("meta.total = %d, want 7", resp.Meta.Total)
	}
}

func TestWriteValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteValidationError(w, map[string]string{"name": "Name is required"})

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
	var er ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.Error.Code != "validation_error" {
		t.Errorf("code = %q", er.Error.Code)
	}
	if er.Error.Details["name"] != "Name is required" {
		t.Errorf("details = %v", er.Error.Details)
	}
}

func TestWriteAdminError(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		err     error
		code    int
		message string
	}{
		{"validation", "save", &admin.ValidationError{Fields: map[string]string{"x": "bad"}}, http.StatusUnprocessableEntity, "Validation failed"},
		{"not found", "delete", admin.ErrNotFound, http.StatusNotFound, "Promo not found"},
		{"save failed", "save", errors.New("disk on fire"), http.StatusInternalServerError, "Failed to save promo"},
		{"delete failed", "delete", errors.New("disk on fire"), http.StatusInternalServerError, "Failed to delete promo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeAdminError(w, "promo", tt.action, tt.err)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d", w.Code, tt.code)
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if er.Error.Message != tt.message {
				t.Errorf("message = %q, want %q", er.Error.Message, tt.message)
			}
		})
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))

	var dst map[string]string
	if decodeJSON(w, r, &dst) {
		t.Fatal("decodeJSON accepted invalid JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCapitalizeFirst(t *testing.T) {
	for in, want := range map[string]string{"": "", "promo": "Promo", "Product": "Product"} {
		if got := capitalizeFirst(in); got != want {
			t.Errorf("capitalizeFirst(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatus(t *testing.T) {
	w := httptest.NewRecorder()
	NewHandler(Deps{}).Status(w, httptest.NewRequest(http.MethodGet, "/api/v1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
