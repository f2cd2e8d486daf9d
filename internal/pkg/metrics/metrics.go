// Package metrics provides Prometheus metrics definitions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "incidentdesk"

var (
	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status_code"},
	)

	// StorageWrites counts whole-file writes of the incident collection.
	StorageWrites = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "writes_total",
			Help:      "Number of whole-file writes of the incident collection",
		},
	)

	// StorageFileBytes tracks the size of the incident collection on disk.
	StorageFileBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "file_bytes",
			Help:      "Size of the incident data file in bytes",
		},
	)

	// ToolCalls counts tool dispatches by operation and outcome.
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "tool_calls_total",
			Help:      "Number of tool calls dispatched by the chat agent",
		},
		[]string{"operation", "outcome"},
	)

	// ModelRequestDuration tracks latency of model endpoint calls.
	ModelRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "request_duration_seconds",
			Help:      "Model chat completion request duration in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// ModelRequestErrors counts failed model endpoint calls.
	ModelRequestErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "request_errors_total",
			Help:      "Number of failed model chat completion requests",
		},
	)
)
