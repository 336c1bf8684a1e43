// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tharabouqet/florist/internal/order"
)

// Upload and login results.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
	ResultLocked   = "locked"
)

// Metrics groups the storefront collectors.
type Metrics struct {
	registry *prometheus.Registry

	OrderIntentsTotal   *prometheus.CounterVec
	UploadsTotal        *prometheus.CounterVec
	UploadBytesTotal    *prometheus.CounterVec
	LoginsTotal         *prometheus.CounterVec
	SettingsRefreshes   *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		OrderIntentsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "florist_order_intents_total",
				Help: "Order deep links composed, by device class and channel",
			},
			[]string{"device", "channel"},
		),

		UploadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "florist_uploads_total",
				Help: "Admin image uploads by usage and result",
			},
			[]string{"usage", "result"},
		),

		UploadBytesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "florist_upload_bytes_total",
				Help: "Bytes written to the bucket after compression",
			},
			[]string{"usage"},
		),

		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "florist_logins_total",
				Help: "Admin login attempts by result",
			},
			[]string{"result"},
		),

		SettingsRefreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "florist_settings_refreshes_total",
				Help: "Scheduled settings refreshes by result",
			},
			[]string{"result"},
		),

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "florist_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "florist_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms .. ~2.5s
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// The Record methods are no-ops on a nil *Metrics.

// RecordOrderIntent counts one composed deep link for the given User-Agent.
func (m *Metrics) RecordOrderIntent(userAgent, channel string) {
	if m == nil {
		return
	}
	m.OrderIntentsTotal.WithLabelValues(order.DeviceClass(userAgent), channel).Inc()
}

// RecordUpload counts an upload attempt and, on success, its stored size.
func (m *Metrics) RecordUpload(usage, result string, size int64) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(usage, result).Inc()
	if result == ResultOK && size > 0 {
		m.UploadBytesTotal.WithLabelValues(usage).Add(float64(size))
	}
}

// RecordLogin counts a login attempt.
func (m *Metrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(result).Inc()
}

// RecordSettingsRefresh counts a scheduled settings refresh.
func (m *Metrics) RecordSettingsRefresh(err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}
	m.SettingsRefreshes.WithLabelValues(result).Inc()
}

// Middleware records request count and latency labelled by the chi route
// pattern, so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
