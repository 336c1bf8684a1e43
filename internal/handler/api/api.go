// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API for the storefront and the back-office.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/tharabouqet/florist/internal/admin"
	"github.com/tharabouqet/florist/internal/auth"
	"github.com/tharabouqet/florist/internal/catalog"
	"github.com/tharabouqet/florist/internal/media"
	"github.com/tharabouqet/florist/internal/metrics"
	"github.com/tharabouqet/florist/internal/middleware"
	"github.com/tharabouqet/florist/internal/scheduler"
	"github.com/tharabouqet/florist/internal/settings"
	"github.com/tharabouqet/florist/internal/store"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// Deps are the services the handlers call into.
type Deps struct {
	DB              *sql.DB
	Catalog         *catalog.Provider
	Settings        *settings.Hub
	Admin           *admin.Service
	Uploader        *media.Uploader
	Sessions        *scs.SessionManager
	Observer        *auth.Observer
	LoginProtection *middleware.LoginProtection
	Metrics         *metrics.Metrics
	Jobs            JobRunner
	PageSize        int
	PublicBaseURL   string
	Location        *time.Location
}

// JobRunner lists and runs the scheduled maintenance jobs.
type JobRunner interface {
	Jobs() []scheduler.JobInfo
	Trigger(name string) error
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db              *sql.DB
	queries         *store.Queries
	catalog         *catalog.Provider
	settings        *settings.Hub
	admin           *admin.Service
	uploader        *media.Uploader
	sessions        *scs.SessionManager
	observer        *auth.Observer
	loginProtection *middleware.LoginProtection
	metrics         *metrics.Metrics
	jobs            JobRunner
	pageSize        int
	baseURL         string
	loc             *time.Location
	now             func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	pageSize := d.PageSize
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	observer := d.Observer
	if observer == nil {
		observer = auth.NewObserver()
	}
	return &Handler{
		db:              d.DB,
		queries:         store.New(d.DB),
		catalog:         d.Catalog,
		settings:        d.Settings,
		admin:           d.Admin,
		uploader:        d.Uploader,
		sessions:        d.Sessions,
		observer:        observer,
		loginProtection: d.LoginProtection,
		metrics:         d.Metrics,
		jobs:            d.Jobs,
		pageSize:        pageSize,
		baseURL:         d.PublicBaseURL,
		loc:             loc,
		now:             time.Now,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data,omitempty"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta contains pagination and other metadata.
type Meta struct {
	Total   int64 `json:"total,omitempty"`
	Page    int   `json:"page,omitempty"`
	PerPage int   `json:"per_page,omitempty"`
	Pages   int   `json:"pages,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse = middleware.APIError

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta *Meta) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	middleware.WriteAPIError(w, statusCode, code, message, details)
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, "bad_request", message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, "not_found", message, nil)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message, nil)
}

// WriteTooManyRequests writes a 429 response.
func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, "rate_limited", message, nil)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "internal_error", message, nil)
}

// WriteValidationError writes a 422 Unprocessable Entity response with field errors.
func WriteValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "validation_error", "Validation failed", fieldErrors)
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Status returns the API status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, StatusResponse{
		Status:  "ok",
		Version: "v1",
	}, nil)
}

// decodeJSON reads a size-limited JSON body into dst.
// Returns false if decoding failed (response already written).
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return false
	}
	return true
}

// writeAdminError maps admin errors to responses. action names the failed
// operation in the 500 message ("save", "delete").
func writeAdminError(w http.ResponseWriter, entity, action string, err error) {
	if fields, ok := admin.FieldErrors(err); ok {
		WriteValidationError(w, fields)
		return
	}
	if errors.Is(err, admin.ErrNotFound) {
		WriteNotFound(w, capitalizeFirst(entity)+" not found")
		return
	}
	WriteInternalError(w, "Failed to "+action+" "+entity)
}

// capitalizeFirst returns s with the first letter capitalized.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
