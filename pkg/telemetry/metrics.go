// Package telemetry exposes Prometheus metrics and OpenTelemetry tracing for
// the analytics service.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Requests counts HTTP requests by route and status class.
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teampulse",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route and status class.",
	}, []string{"route", "status"})

	// EngineDuration observes wall time of engine computations by operation.
	EngineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "teampulse",
		Name:      "engine_duration_seconds",
		Help:      "Wall time of analytics engine computations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	// NarrationFailures counts degraded narration attempts by error code.
	NarrationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teampulse",
		Name:      "narration_failures_total",
		Help:      "Narration attempts that degraded to empty output, by error code.",
	}, []string{"code"})

	// SnapshotWrites counts appended metrics snapshots.
	SnapshotWrites = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "teampulse",
		Name:      "snapshot_writes_total",
		Help:      "Metrics snapshots appended to the history.",
	})
)
