// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

// Package metrics registers the Prometheus collectors for Filmdash:
// DuckDB query timings, API traffic, ETL runs and the dataset cache.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_read_breaker_state",
			Help: "Dataset read circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// ETL Metrics
	ETLRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etl_runs_total",
			Help: "Total number of ETL runs by outcome",
		},
		[]string{"status"},
	)

	ETLRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "etl_run_duration_seconds",
			Help:    "Duration of ETL runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	ETLRowsLoaded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "etl_table_rows",
			Help: "Rows written to each star-schema table by the last successful replace",
		},
		[]string{"table"},
	)

	ETLLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "etl_last_success_timestamp",
			Help: "Unix timestamp of the last successful ETL run",
		},
	)

	// Dataset cache metrics
	DatasetCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_cache_hits_total",
			Help: "Total number of dataset cache hits",
		},
	)

	DatasetCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_cache_misses_total",
			Help: "Total number of dataset cache misses",
		},
	)

	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_rows",
			Help: "Number of denormalized movie rows in the last dataset read",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordETLRun records the outcome of an ETL run.
func RecordETLRun(duration time.Duration, err error) {
	ETLRunDuration.Observe(duration.Seconds())
	if err != nil {
		ETLRunsTotal.WithLabelValues("failed").Inc()
		return
	}
	ETLRunsTotal.WithLabelValues("completed").Inc()
	ETLLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordTableLoaded records the row count of a freshly replaced table.
func RecordTableLoaded(table string, rows int) {
	ETLRowsLoaded.WithLabelValues(table).Set(float64(rows))
}

// RecordDatasetCache records a dataset cache lookup.
func RecordDatasetCache(hit bool) {
	if hit {
		DatasetCacheHits.Inc()
	} else {
		DatasetCacheMisses.Inc()
	}
}
