// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tharabouqet/florist/internal/auth"
	"github.com/tharabouqet/florist/internal/scheduler"
)

// ListJobs handles GET /api/v1/admin/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, _ *http.Request) {
	jobs := []scheduler.JobInfo{}
	if h.jobs != nil {
		jobs = h.jobs.Jobs()
	}
	WriteSuccess(w, jobs, &Meta{Total: int64(len(jobs))})
}

// RunJob handles POST /api/v1/admin/jobs/{name}/run
// Runs the job now and returns its updated status.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.jobs == nil {
		WriteNotFound(w, "Job not found")
		return
	}

	err := h.jobs.Trigger(name)
	if errors.Is(err, scheduler.ErrJobNotFound) {
		WriteNotFound(w, "Job not found")
		return
	}
	slog.InfoContext(r.Context(), "job triggered", "job", name, "ok", err == nil, "user_id", auth.FromContext(r.Context()).UserID)

	info, _ := findJob(h.jobs.Jobs(), name)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "job_failed", "Job failed", map[string]string{"error": err.Error()})
		return
	}
	WriteSuccess(w, info, nil)
}

func findJob(jobs []scheduler.JobInfo, name string) (scheduler.JobInfo, bool) {
	for _, j := range jobs {
		if j.Name == name {
			return j, true
		}
	}
	return scheduler.JobInfo{}, false
}
