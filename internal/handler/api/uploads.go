// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tharabouqet/florist/internal/media"
	"github.com/tharabouqet/florist/internal/metrics"
)

// multipartOverhead leaves room for the multipart envelope around the file.
const multipartOverhead = 1 << 20

// UploadResponse is the stored image plus, for gallery uploads, the updated
// gallery list.
type UploadResponse struct {
	*media.Uploaded
	Images []string `json:"images,omitempty"`
}

// Upload handles POST /api/v1/admin/uploads/{usage}
// Multipart field "file"; gallery uploads may send the current list as
// repeated "images" fields so the 3-photo limit is checked before storing.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	usage, err := media.ParseUsage(chi.URLParam(r, "usage"))
	if err != nil {
		WriteBadRequest(w, media.Message(err), nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(media.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.rejectUpload(w, usage, media.ErrTooLarge)
			return
		}
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	var gallery *media.Gallery
	if usage == media.UsageGallery {
		gallery = media.NewGallery(r.MultipartForm.Value["images"])
		if gallery.Full() {
			h.rejectUpload(w, usage, media.ErrGalleryFull)
			return
		}
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.rejectUpload(w, usage, media.ErrEmptyFile)
		return
	}
	defer func() { _ = file.Close() }()

	uploaded, err := h.uploader.Upload(ctx, file, usage)
	if err != nil {
		if media.Message(err) != "Upload failed" {
			h.rejectUpload(w, usage, err)
			return
		}
		slog.ErrorContext(ctx, "image upload failed", "usage", usage, "error", err)
		h.metrics.RecordUpload(string(usage), metrics.ResultFailed, 0)
		WriteInternalError(w, media.Message(err))
		return
	}

	resp := UploadResponse{Uploaded: uploaded}
	if gallery != nil {
		if err := gallery.Add(uploaded.URL); err != nil {
			h.rejectUpload(w, usage, err)
			return
		}
		resp.Images = gallery.URLs()
	}

	slog.InfoContext(ctx, "image uploaded", "usage", usage, "key", uploaded.Key, "size", uploaded.Size)
	h.metrics.RecordUpload(string(usage), metrics.ResultOK, uploaded.Size)
	WriteCreated(w, resp)
}

func (h *Handler) rejectUpload(w http.ResponseWriter, usage media.Usage, err error) {
	h.metrics.RecordUpload(string(usage), metrics.ResultRejected, 0)
	WriteValidationError(w, map[string]string{"file": media.Message(err)})
}
