// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RepositoryOps counts repository operations by collection, operation and
	// result (ok|error).
	RepositoryOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transitdesk_repository_operations_total",
			Help: "Total number of repository operations",
		},
		[]string{"collection", "op", "result"},
	)

	// RepositoryLatency measures document store round trips per operation.
	RepositoryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transitdesk_repository_latency_seconds",
			Help:    "Repository operation latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "op"},
	)

	// AuthAttempts records sign-in attempts by provider and result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transitdesk_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"provider", "result"},
	)

	// GuardDecisions counts route guard outcomes (allow|login|home|forbidden).
	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transitdesk_guard_decisions_total",
			Help: "Total number of route guard decisions",
		},
		[]string{"outcome"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transitdesk_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// ObserveRepository records one repository call that started at start.
func ObserveRepository(collection, op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	RepositoryOps.WithLabelValues(collection, op, result).Inc()
	RepositoryLatency.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}
