// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"net/http"
	"time"
)

var startedAt = time.Now()

// HandleHealth reports overall service health.
// GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.store.Ping(r.Context()); err != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeDatabaseError, "Database unreachable")
		return
	}
	rw.Success(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(startedAt).Seconds()),
	})
}

// HandleLive is the liveness probe: the process is up and serving.
// GET /health/live
func (h *Handler) HandleLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HandleReady is the readiness probe: the service can reach its store.
// GET /health/ready
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if err := h.store.Ping(r.Context()); err != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeDatabaseError, "Database unreachable")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}
