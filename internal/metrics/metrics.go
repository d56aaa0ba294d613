package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the discount service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Sync Metrics
	SyncBatchesTotal  *prometheus.CounterVec
	SyncRowsTotal     *prometheus.CounterVec
	SyncBatchDuration *prometheus.HistogramVec
}

// NewMetricsRegistry initializes and registers all metrics with reg.
// Pass prometheus.DefaultRegisterer in the server and a fresh registry in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrina_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vitrina_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vitrina_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrina_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrina_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Sync Metrics
		SyncBatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrina_sync_batches_total",
				Help: "Spreadsheet sync batches by trigger and outcome",
			},
			[]string{"trigger", "status"},
		),
		SyncRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vitrina_sync_rows_total",
				Help: "Spreadsheet rows processed by result (created, updated or a skip reason)",
			},
			[]string{"result"},
		),
		SyncBatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vitrina_sync_batch_duration_seconds",
				Help:    "Sync batch execution time in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"trigger"},
		),
	}
}
