package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optica_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "optica_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// SaveStepFailures counts failed persistence steps by step name
	SaveStepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optica_save_step_failures_total",
			Help: "Failed persistence steps",
		},
		[]string{"step"},
	)

	RecordsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optica_records_saved_total",
			Help: "Records saved, by kind and whether the order was new",
		},
		[]string{"kind", "outcome"},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "optica_search_requests_total",
			Help: "Suggestion searches by field and result source",
		},
		[]string{"field", "source"},
	)

	// SearchRowFallbacks counts eye rows that could not be mapped and were defaulted
	SearchRowFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "optica_search_row_fallbacks_total",
			Help: "Eye rows defaulted during suggestion mapping",
		},
	)
)
