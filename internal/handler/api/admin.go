// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tharabouqet/florist/internal/admin"
	"github.com/tharabouqet/florist/internal/auth"
	"github.com/tharabouqet/florist/internal/catalog"
	"github.com/tharabouqet/florist/internal/settings"
	"github.com/tharabouqet/florist/internal/store"
)

// SubmitResponse is returned after a successful create or update: the saved
// row, the refetched list and a blank form for the next entry. Items is null
// when the refetch failed.
type SubmitResponse struct {
	Saved any `json:"saved"`
	Items any `json:"items"`
	Form  any `json:"form"`
}

// FormResponse is an editor form: blank for a new entry, pre-filled from the
// row when editing. Mode is "creating" or "editing".
type FormResponse struct {
	Form any    `json:"form"`
	Mode string `json:"mode"`
	ID   string `json:"id,omitempty"`
}

func formResponse(form any, mode admin.Mode) FormResponse {
	if m, ok := mode.(admin.Editing); ok {
		return FormResponse{Form: form, Mode: "editing", ID: m.ID}
	}
	return FormResponse{Form: form, Mode: "creating"}
}

// registerResource registers the uniform admin routes for one entity.
// Routes: GET /, GET /new, GET /{id}, POST /, PUT /{id}, DELETE /{id}?confirm=true
func registerResource[T any, F admin.Form[F]](r chi.Router, base string, res *admin.Resource[T, F], present func(T) any) {
	r.Get(base, func(w http.ResponseWriter, req *http.Request) {
		items, err := res.List(req.Context())
		if err != nil {
			slog.ErrorContext(req.Context(), "listing admin entities", "entity", res.Name(), "error", err)
			WriteInternalError(w, "Failed to list "+res.Name()+"s")
			return
		}
		WriteSuccess(w, presentAll(items, present), &Meta{Total: int64(len(items))})
	})

	r.Get(base+"/new", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, formResponse(res.Blank(), admin.Creating{}), nil)
	})

	r.Get(base+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		form, mode, err := res.Edit(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			if !errors.Is(err, admin.ErrNotFound) {
				slog.ErrorContext(req.Context(), "loading admin entity", "entity", res.Name(), "error", err)
			}
			writeAdminError(w, res.Name(), "load", err)
			return
		}
		WriteSuccess(w, formResponse(form, mode), nil)
	})

	submit := func(w http.ResponseWriter, req *http.Request, mode admin.Mode) {
		var form F
		if !decodeJSON(w, req, &form) {
			return
		}
		out, err := res.Submit(req.Context(), mode, form)
		if err != nil {
			if _, ok := admin.FieldErrors(err); !ok && !errors.Is(err, admin.ErrNotFound) {
				slog.ErrorContext(req.Context(), "saving admin entity", "entity", res.Name(), "error", err)
			}
			writeAdminError(w, res.Name(), "save", err)
			return
		}

		resp := SubmitResponse{Saved: present(out.Saved), Form: out.Form}
		if out.Items != nil {
			resp.Items = presentAll(out.Items, present)
		}

		logAdminAction(req, res.Name(), mode)
		if _, creating := mode.(admin.Creating); creating {
			WriteCreated(w, resp)
			return
		}
		WriteSuccess(w, resp, nil)
	}

	r.Post(base, func(w http.ResponseWriter, req *http.Request) {
		submit(w, req, admin.Creating{})
	})

	r.Put(base+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		submit(w, req, admin.ModeFor(chi.URLParam(req, "id")))
	})

	r.Delete(base+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		confirm, _ := strconv.ParseBool(req.URL.Query().Get("confirm"))
		if err := res.Delete(req.Context(), id, confirm); err != nil {
			if _, ok := admin.FieldErrors(err); !ok && !errors.Is(err, admin.ErrNotFound) {
				slog.ErrorContext(req.Context(), "deleting admin entity", "entity", res.Name(), "error", err)
			}
			writeAdminError(w, res.Name(), "delete", err)
			return
		}
		slog.InfoContext(req.Context(), res.Name()+" deleted", "id", id, "user_id", auth.FromContext(req.Context()).UserID)
		WriteSuccess(w, map[string]string{"deleted": id}, nil)
	})
}

func logAdminAction(r *http.Request, entity string, mode admin.Mode) {
	sess := auth.FromContext(r.Context())
	switch m := mode.(type) {
	case admin.Editing:
		slog.InfoContext(r.Context(), entity+" updated", "id", m.ID, "user_id", sess.UserID)
	default:
		slog.InfoContext(r.Context(), entity+" created", "user_id", sess.UserID)
	}
}

func presentProduct(p store.Product) any { return catalog.FromStore(p) }

func presentRow[T any](row T) any { return row }

func presentAll[T any](rows []T, present func(T) any) []any {
	out := make([]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, present(row))
	}
	return out
}

// ExportProducts handles GET /api/v1/admin/products/export.csv
func (h *Handler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	n, err := h.admin.ExportProducts(r.Context(), &buf)
	if err != nil {
		slog.ErrorContext(r.Context(), "exporting products", "error", err)
		WriteInternalError(w, "Failed to export products")
		return
	}

	slog.InfoContext(r.Context(), "products exported", "count", n)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// OrphanedProducts handles GET /api/v1/admin/products/orphans
// Products whose category no longer names an existing category.
func (h *Handler) OrphanedProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := h.admin.OrphanedProducts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "listing orphaned products", "error", err)
		WriteInternalError(w, "Failed to list orphaned products")
		return
	}
	WriteSuccess(w, catalog.FromStoreList(rows), &Meta{Total: int64(len(rows))})
}

// AdminSettingsResponse lists the resolved values and the editable keys.
type AdminSettingsResponse struct {
	Values   settings.Values `json:"values"`
	Keys     []string        `json:"keys"`
	Defaults settings.Values `json:"defaults"`
}

// GetAdminSettings handles GET /api/v1/admin/settings
func (h *Handler) GetAdminSettings(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, AdminSettingsResponse{
		Values:   h.settings.Current(r.Context()),
		Keys:     settings.KnownKeys(),
		Defaults: settings.Defaults(),
	}, nil)
}

// UpdateSettingsResponse reports the stored keys and the resolved values.
type UpdateSettingsResponse struct {
	Saved  []string        `json:"saved"`
	Values settings.Values `json:"values"`
}

// UpdateSettings handles PUT /api/v1/admin/settings
// Body: {"key": "value", ...}. All keys are written, then the hub refreshes
// once. The last write wins.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req) == 0 {
		WriteValidationError(w, map[string]string{"settings": "At least one setting is required"})
		return
	}

	unknown := make(map[string]string)
	for key := range req {
		if !settings.IsKnownKey(key) {
			unknown[key] = "Unknown setting"
		}
	}
	if len(unknown) > 0 {
		WriteValidationError(w, unknown)
		return
	}

	saved, vals, err := h.settings.UpsertMany(r.Context(), req)
	if err != nil {
		slog.ErrorContext(r.Context(), "saving settings", "saved", saved, "error", err)
		details := make(map[string]string, len(saved))
		for _, key := range saved {
			details[key] = "Saved"
		}
		WriteError(w, http.StatusInternalServerError, "internal_error", "Failed to save settings", details)
		return
	}

	slog.InfoContext(r.Context(), "settings updated", "keys", saved, "user_id", auth.FromContext(r.Context()).UserID)
	WriteSuccess(w, UpdateSettingsResponse{Saved: saved, Values: vals}, nil)
}
