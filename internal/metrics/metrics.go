// Scalekit - Dataset Preprocessing and Feature Scaling
// Copyright 2026 M. Faltys (mfaltys)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mfaltys/scalekit

// Package metrics provides Prometheus metrics collection for Scalekit.
//
// Metrics are exposed at the /metrics endpoint in Prometheus text format
// and cover model fitting, transforms, the in-memory model registry and
// the on-disk model store.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Fit Metrics
	FitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scalekit_fit_duration_seconds",
			Help:    "Duration of model fitting in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scaler_type"},
	)

	FitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalekit_fits_total",
			Help: "Total number of fit operations",
		},
		[]string{"scaler_type", "status"},
	)

	// Transform Metrics
	TransformDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scalekit_transform_duration_seconds",
			Help:    "Duration of forward/inverse transforms in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"scaler_type", "direction"},
	)

	TransformsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalekit_transforms_total",
			Help: "Total number of transform operations",
		},
		[]string{"scaler_type", "direction", "status"},
	)

	// Registry Metrics
	ModelsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scalekit_models_active",
			Help: "Current number of models held in the registry",
		},
	)

	// Store Metrics
	StoreSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalekit_store_saves_total",
			Help: "Total number of model store save operations",
		},
		[]string{"status"},
	)

	StoreLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalekit_store_loads_total",
			Help: "Total number of model store load operations",
		},
		[]string{"status"},
	)

	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scalekit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scalekit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// statusLabel maps an error outcome to a metric status label.
func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveFit records the duration and outcome of a fit operation.
func ObserveFit(scalerType string, start time.Time, err error) {
	FitDuration.WithLabelValues(scalerType).Observe(time.Since(start).Seconds())
	FitsTotal.WithLabelValues(scalerType, statusLabel(err)).Inc()
}

// ObserveTransform records the duration and outcome of a transform.
// direction is "forward" or "inverse".
func ObserveTransform(scalerType, direction string, start time.Time, err error) {
	TransformDuration.WithLabelValues(scalerType, direction).Observe(time.Since(start).Seconds())
	TransformsTotal.WithLabelValues(scalerType, direction, statusLabel(err)).Inc()
}
