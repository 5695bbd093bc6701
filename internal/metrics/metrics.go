package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchRequests counts served searches by the tier that answered them.
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_search_requests_total",
			Help: "Total number of product searches by answering tier",
		},
		[]string{"tier"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "product_search_duration_seconds",
			Help:    "Duration of product searches in seconds, cache included",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "product_search_results",
			Help:    "Number of products returned per search",
			Buckets: []float64{0, 1, 5, 10, 15, 20},
		},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "product_search_cache_hits_total",
			Help: "Total number of search result cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "product_search_cache_misses_total",
			Help: "Total number of search result cache misses",
		},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_search_cache_errors_total",
			Help: "Total number of search result cache errors",
		},
		[]string{"operation"},
	)

	QueryLogDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "product_search_query_log_dropped_total",
			Help: "Total number of query log events dropped because the buffer was full",
		},
	)

	QueryLogErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "product_search_query_log_errors_total",
			Help: "Total number of query log events that failed to persist",
		},
	)

	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "product_catalog_products",
			Help: "Number of products in the loaded catalog index",
		},
	)

	RecommendationEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "product_recommendation_entries",
			Help: "Number of anchor products in the loaded recommendation table",
		},
	)
)

// RecordSearch records one served search.
func RecordSearch(tier string, results int, seconds float64) {
	SearchRequests.WithLabelValues(tier).Inc()
	SearchResults.Observe(float64(results))
	SearchDuration.Observe(seconds)
}
