// Package metrics holds the Prometheus collectors shared by the server,
// its services and the background workers.
package metrics

import (
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_searches_total",
			Help: "Total non-empty searches, by outcome (hit or zero).",
		},
		[]string{"outcome"},
	)

	AnalysisCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_analysis_cache_hits_total",
			Help: "Analysis cache hits, by layer (redis or db).",
		},
		[]string{"layer"},
	)

	AnalysisCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diary_analysis_cache_misses_total",
			Help: "Analysis requests that reached the analyzer.",
		},
	)

	AnalyzerFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "diary_analyzer_failures_total",
			Help: "Analyzer calls that failed and were answered with the fallback document.",
		},
	)

	AnalyzerDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diary_analyzer_duration_seconds",
			Help:    "Duration of analyzer calls, including retries.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)

	IngestedSegments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "diary_ingested_segments_total",
			Help: "Subtitle segments written, by language track.",
		},
		[]string{"lang"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "diary_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "diary_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	TrendRefreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diary_trend_refresh_duration_seconds",
			Help:    "Duration of trend score refreshes.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry, plus pool gauges
// when a Postgres pool is in use. Later calls are no-ops.
func Register(pool *pgxpool.Pool) {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			Searches,
			AnalysisCacheHits,
			AnalysisCacheMisses,
			AnalyzerFailures,
			AnalyzerDuration,
			IngestedSegments,
			RequestDuration,
			RequestsInFlight,
			TrendRefreshDuration,
		)

		if pool == nil {
			return
		}
		prometheus.MustRegister(
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "diary_db_connection_pool_active",
					Help: "Number of active database connections.",
				},
				func() float64 { return float64(pool.Stat().AcquiredConns()) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Name: "diary_db_connection_pool_idle",
					Help: "Number of idle database connections.",
				},
				func() float64 { return float64(pool.Stat().IdleConns()) },
			),
		)
	})
}
