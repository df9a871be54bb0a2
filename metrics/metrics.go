// Package metrics provides Prometheus metrics collection for HTTP server
// monitoring and the lottery fetch pipeline:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - lottery_cache_hits_total: Counter for orchestrator cache hits
//   - lottery_upstream_fetch_total: Counter with an outcome label
//   - lottery_fallback_total: Counter for stale-cache fallbacks
//
// All metrics are automatically registered with the Prometheus default
// registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_cache_hits_total",
			Help: "Draw results served from the cache within TTL",
		},
		[]string{"operation"},
	)

	UpstreamFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_upstream_fetch_total",
			Help: "Upstream lottery API calls by outcome",
		},
		[]string{"operation", "outcome"},
	)

	FallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lottery_fallback_total",
			Help: "Requests answered from stale cache after an upstream failure",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(UpstreamFetchTotal)
	prometheus.MustRegister(FallbackTotal)
}
