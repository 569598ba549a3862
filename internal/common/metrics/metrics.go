package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_requests_total",
			Help: "Total number of API requests by resource and method",
		},
		[]string{"resource", "method"},
	)

	RequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_request_errors_total",
			Help: "Total number of failed API requests by resource and error code",
		},
		[]string{"resource", "error_code"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "client_request_duration_seconds",
			Help: "Duration of API requests in seconds",
		},
		[]string{"resource", "method"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_cache_hits_total",
			Help: "Total number of cache hits by resource",
		},
		[]string{"resource"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_cache_misses_total",
			Help: "Total number of cache misses by resource",
		},
		[]string{"resource"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_cache_invalidations_total",
			Help: "Total number of cache invalidations by key prefix",
		},
		[]string{"prefix"},
	)

	DeduplicatedFetches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "client_deduplicated_fetches_total",
			Help: "Number of fetches that joined an in-flight request instead of issuing a new one",
		},
	)
)
