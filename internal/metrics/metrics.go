package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recipe_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PanicRecoveries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_panic_recoveries_total",
			Help: "Total number of panics recovered in HTTP handlers",
		},
	)

	// Chatbot metrics
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_recommendations_total",
			Help: "Chatbot requests by outcome (matched, no_match)",
		},
		[]string{"outcome"},
	)

	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_extraction_failures_total",
			Help: "Failed language model extractions by kind",
		},
		[]string{"kind"},
	)

	ExtractionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_extraction_cache_hits_total",
			Help: "Total number of extraction cache hits",
		},
	)
	ExtractionCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recipe_extraction_cache_misses_total",
			Help: "Total number of extraction cache misses",
		},
	)

	// Ingestion metrics
	IngestedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipe_ingested_records_total",
			Help: "Ingested recipe records by outcome",
		},
		[]string{"outcome"},
	)
)
