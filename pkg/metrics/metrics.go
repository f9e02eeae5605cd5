package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deeperweave_http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "deeperweave_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// Batch loading. Outcome is "ok", "skipped" (empty id set) or "error".
	BatchFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deeperweave_batch_fetches_total",
			Help: "Keyed batch fetches by entity and outcome",
		},
		[]string{"entity", "outcome"},
	)

	DanglingReferences = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deeperweave_dangling_references_total",
			Help: "Entries dropped because their referenced record was missing",
		},
		[]string{"source"},
	)

	// TMDB
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deeperweave_tmdb_requests_total",
			Help: "Outbound TMDB requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	TMDBCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deeperweave_tmdb_cache_lookups_total",
			Help: "TMDB response cache lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "deeperweave_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
