// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// CacheLookups counts cache lookups by key family and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_cache_lookups_total",
		Help: "Total number of cache lookups by key family and result",
	}, []string{"family", "result"})

	// WeatherUpstreamRequests counts calls to the weather provider by outcome.
	WeatherUpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_weather_upstream_requests_total",
		Help: "Total number of weather provider requests by outcome",
	}, []string{"outcome"})

	// WeatherUpstreamLatency records weather provider round trip latency.
	WeatherUpstreamLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bloghub_weather_upstream_latency_seconds",
		Help:    "Weather provider request latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// JobsProcessed counts background jobs by type and outcome.
	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_jobs_processed_total",
		Help: "Total number of background jobs processed by type and outcome",
	}, []string{"type", "outcome"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bloghub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
