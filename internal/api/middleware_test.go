// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/confit/internal/logging"
)

func TestRequestIDWithLoggingGeneratesID(t *testing.T) {
	var ctxID string
	handler := RequestIDWithLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = logging.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	headerID := rec.Header().Get("X-Request-ID")
	if headerID == "" {
		t.Fatal("missing X-Request-ID header")
	}
	if ctxID != headerID {
		t.Errorf("context ID %q differs from header ID %q", ctxID, headerID)
	}
}

func TestRequestIDWithLoggingKeepsClientID(t *testing.T) {
	var ctxID string
	handler := RequestIDWithLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = logging.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if ctxID != "client-supplied-id" {
		t.Errorf("context ID = %q, want client-supplied-id", ctxID)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "client-supplied-id" {
		t.Errorf("header ID = %q, want client-supplied-id", got)
	}
}

func TestStatusResponseWriterCapturesCode(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &statusResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	ww.WriteHeader(http.StatusTeapot)
	if ww.statusCode != http.StatusTeapot {
		t.Errorf("captured status = %d, want %d", ww.statusCode, http.StatusTeapot)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("underlying status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestStatusResponseWriterDefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &statusResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	handler.ServeHTTP(ww, httptest.NewRequest(http.MethodGet, "/", nil))

	if ww.statusCode != http.StatusOK {
		t.Errorf("captured status = %d, want %d", ww.statusCode, http.StatusOK)
	}
}
