// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

// Package metrics exposes the Prometheus instrumentation for the HTTP API
// and the media store. Collectors register on the default registry via
// promauto; the /metrics endpoint serves them with promhttp.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Media store metrics
	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Total number of image uploads by kind",
		},
		[]string{"kind"},
	)

	MediaSelfHealsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_self_heals_total",
			Help: "Total number of stale image references cleared on read",
		},
		[]string{"kind"},
	)

	// Grade metrics
	GradesSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grades_submitted_total",
			Help: "Total number of grade submissions by target and direction",
		},
		[]string{"target", "direction"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordMediaUpload records a stored image by kind.
func RecordMediaUpload(kind string) {
	MediaUploadsTotal.WithLabelValues(kind).Inc()
}

// RecordMediaSelfHeal records a stale reference cleared during a read.
func RecordMediaSelfHeal(kind string) {
	MediaSelfHealsTotal.WithLabelValues(kind).Inc()
}

// RecordGrade records a submitted grade.
func RecordGrade(target string, up bool) {
	direction := "down"
	if up {
		direction = "up"
	}
	GradesSubmittedTotal.WithLabelValues(target, direction).Inc()
}
