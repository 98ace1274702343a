// Package metrics provides Prometheus metrics for the talentmatch service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace       = "talentmatch"
	defaultRefreshInterval = 10 * time.Second
)

// DefaultLatencyBuckets are the histogram buckets, in milliseconds, used for
// every latency the service records.
var DefaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // read-only bucket layout

// Analysis run outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Manager manages all Prometheus metrics for the talentmatch service.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Analysis pipeline
	analysisRuns     *prometheus.CounterVec
	analysisErrors   *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	nullMatches      *prometheus.CounterVec
	leaderboardSize  prometheus.Gauge
	baselineIQ       prometheus.Gauge
	storedResults    prometheus.Gauge

	// Data source
	fetchRows    *prometheus.CounterVec
	fetchErrors  *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRateLimited     *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewMetricsManager(WithPrometheusRegistry(customRegistry))
}

// NewMetricsManager creates a new metrics manager with default configuration.
func NewMetricsManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		histogramBuckets: DefaultLatencyBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Configure replaces the global manager with one built from opts on a fresh
// registry. Call it once at startup, before metrics are served.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithPrometheusRegistry(registry))
	globalManager = NewMetricsManager(all...)
	customRegistry = registry
}

// RefreshInterval returns the system gauge refresh interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.analysisRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "analysis", ConstLabels: constLabels,
		Name: "runs_total",
		Help: "Total number of analysis runs by outcome",
	}, []string{"status"})

	m.analysisErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "analysis", ConstLabels: constLabels,
		Name: "errors_total",
		Help: "Total number of failed analysis runs by error kind",
	}, []string{"kind"})

	m.analysisDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "analysis", ConstLabels: constLabels,
		Name:    "duration_milliseconds",
		Help:    "End-to-end analysis run duration in milliseconds",
		Buckets: m.histogramBuckets,
	})

	m.nullMatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "analysis", ConstLabels: constLabels,
		Name: "null_matches_total",
		Help: "Domain rows that could not be scored, by domain",
	}, []string{"domain"})

	m.leaderboardSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "analysis", ConstLabels: constLabels,
		Name: "leaderboard_size",
		Help: "Number of ranked employees in the latest run",
	})

	m.baselineIQ = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "analysis", ConstLabels: constLabels,
		Name: "baseline_iq",
		Help: "Median benchmark IQ of the latest run",
	})

	m.storedResults = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "analysis", ConstLabels: constLabels,
		Name: "stored_results",
		Help: "Number of analysis results held for display",
	})

	m.fetchRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "source", ConstLabels: constLabels,
		Name: "rows_total",
		Help: "Rows read from the data source by dataset",
	}, []string{"dataset"})

	m.fetchErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "source", ConstLabels: constLabels,
		Name: "errors_total",
		Help: "Failed data source fetches by dataset",
	}, []string{"dataset"})

	m.fetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "source", ConstLabels: constLabels,
		Name:    "fetch_latency_milliseconds",
		Help:    "Data source fetch latency in milliseconds by dataset",
		Buckets: m.histogramBuckets,
	}, []string{"dataset"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", ConstLabels: constLabels,
		Name: "requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "http", ConstLabels: constLabels,
		Name:    "request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "http", ConstLabels: constLabels,
		Name: "rate_limited_total",
		Help: "Requests rejected by the rate limiter by endpoint",
	}, []string{"endpoint"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "errors", ConstLabels: constLabels,
		Name: "by_type_total",
		Help: "Errors by type and severity",
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: "errors", ConstLabels: constLabels,
		Name: "by_endpoint_total",
		Help: "Errors by endpoint, method and type",
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "errors", ConstLabels: constLabels,
		Name:    "latency_milliseconds",
		Help:    "Latency of failed operations in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: constLabels,
		Name: "memory_bytes",
		Help: "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: constLabels,
		Name: "goroutines",
		Help: "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: constLabels,
		Name:    "gc_pause_milliseconds",
		Help:    "Average GC pause in milliseconds",
		Buckets: m.histogramBuckets,
	})
}

// RecordAnalysisRun counts a finished run with its duration.
func (m *Manager) RecordAnalysisRun(status string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.analysisRuns.WithLabelValues(status).Inc()
	m.analysisDuration.Observe(durationMs)
}

// RecordAnalysisError counts a failed run by error kind.
func (m *Manager) RecordAnalysisError(kind string) {
	if !m.enabled {
		return
	}
	m.analysisErrors.WithLabelValues(kind).Inc()
}

// RecordNullMatch counts an unscorable domain row.
func (m *Manager) RecordNullMatch(domain string) {
	if !m.enabled {
		return
	}
	m.nullMatches.WithLabelValues(domain).Inc()
}

// UpdateLeaderboardSize sets the ranked employee count of the latest run.
func (m *Manager) UpdateLeaderboardSize(n int) {
	if !m.enabled {
		return
	}
	m.leaderboardSize.Set(float64(n))
}

// UpdateBaselineIQ sets the baseline of the latest run.
func (m *Manager) UpdateBaselineIQ(v float64) {
	if !m.enabled {
		return
	}
	m.baselineIQ.Set(v)
}

// UpdateStoredResults sets the number of retained results.
func (m *Manager) UpdateStoredResults(n int) {
	if !m.enabled {
		return
	}
	m.storedResults.Set(float64(n))
}

// RecordFetch records a successful dataset fetch.
func (m *Manager) RecordFetch(dataset string, rows int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.fetchRows.WithLabelValues(dataset).Add(float64(rows))
	m.fetchLatency.WithLabelValues(dataset).Observe(latencyMs)
}

// RecordFetchError counts a failed dataset fetch.
func (m *Manager) RecordFetchError(dataset string) {
	if !m.enabled {
		return
	}
	m.fetchErrors.WithLabelValues(dataset).Inc()
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordRateLimited counts a rejected request.
func (m *Manager) RecordRateLimited(endpoint string) {
	if !m.enabled {
		return
	}
	m.httpRateLimited.WithLabelValues(endpoint).Inc()
}

// RecordHTTPError counts an error response by type and severity.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorLatency.WithLabelValues("http", errorType).Observe(latencyMs)
}

// UpdateSystem sets process level gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgGCPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgGCPauseMs)
	}
}

// Package-level helpers delegate to the global manager.

// RecordAnalysisRun counts a finished run with its duration.
func RecordAnalysisRun(status string, durationMs float64) {
	globalManager.RecordAnalysisRun(status, durationMs)
}

// RecordAnalysisError counts a failed run by error kind.
func RecordAnalysisError(kind string) { globalManager.RecordAnalysisError(kind) }

// RecordNullMatch counts an unscorable domain row.
func RecordNullMatch(domain string) { globalManager.RecordNullMatch(domain) }

// UpdateLeaderboardSize sets the ranked employee count of the latest run.
func UpdateLeaderboardSize(n int) { globalManager.UpdateLeaderboardSize(n) }

// UpdateBaselineIQ sets the baseline of the latest run.
func UpdateBaselineIQ(v float64) { globalManager.UpdateBaselineIQ(v) }

// UpdateStoredResults sets the number of retained results.
func UpdateStoredResults(n int) { globalManager.UpdateStoredResults(n) }

// RecordFetch records a successful dataset fetch.
func RecordFetch(dataset string, rows int, latencyMs float64) {
	globalManager.RecordFetch(dataset, rows, latencyMs)
}

// RecordFetchError counts a failed dataset fetch.
func RecordFetchError(dataset string) { globalManager.RecordFetchError(dataset) }

// RecordHTTPRequest counts a request and observes its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordRateLimited counts a rejected request.
func RecordRateLimited(endpoint string) { globalManager.RecordRateLimited(endpoint) }

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType, severity string, latencyMs float64) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity, latencyMs)
}

// UpdateSystem sets process level gauges.
func UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	globalManager.UpdateSystem(memoryBytes, goroutines, avgGCPauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
