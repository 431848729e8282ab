// Package metrics provides Prometheus metrics for the kiosk dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Fetch outcomes.
const (
	FetchOK             = "ok"
	FetchSoftFail       = "soft_fail"
	FetchHTTPError      = "http_error"
	FetchTransportError = "transport_error"
)

// Manager owns every Prometheus collector of the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Upstream fetch
	fetches      *prometheus.CounterVec
	fetchLatency prometheus.Histogram
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter

	// Refresh cycle
	cycles          prometheus.Counter
	cycleFailures   *prometheus.CounterVec
	rowsRaw         prometheus.Gauge
	rowsLatest      prometheus.Gauge
	nullValues      prometheus.Gauge
	lastSuccessUnix prometheus.Gauge
	renderLatency   prometheus.Histogram
	historySamples  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// Runtime
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Private registry keeps default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "painel",
		subsystem:        "dashboard",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 25000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often runtime gauges should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.fetches = m.counterVec("fetches_total", "Upstream sheet fetches by outcome", "outcome")
	m.fetchLatency = m.histogram("fetch_latency_milliseconds", "Upstream sheet fetch latency in milliseconds", m.histogramBuckets)
	m.cacheHits = m.counter("cache_hits_total", "Payload cache hits")
	m.cacheMisses = m.counter("cache_misses_total", "Payload cache misses")

	m.cycles = m.counter("cycles_total", "Refresh cycles started")
	m.cycleFailures = m.counterVec("cycle_failures_total", "Refresh cycles that ended on an error screen", "kind")
	m.rowsRaw = m.gauge("rows", "Rows in the last usable payload")
	m.rowsLatest = m.gauge("latest_rows", "Rows left after keeping the latest value per indicator and responsible")
	m.nullValues = m.gauge("null_values", "Latest rows whose value could not be parsed")
	m.lastSuccessUnix = m.gauge("last_success_unixtime", "Unix time of the last cycle that rendered the board")
	m.renderLatency = m.histogram("render_latency_milliseconds", "Board render latency in milliseconds", []float64{0.5, 1, 2, 5, 10, 25, 50, 100})
	m.historySamples = m.gauge("history_samples", "Samples held by the KPI history store")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint, method and type", "endpoint", "method", "error_type")
	m.errorsByType = m.counterVec("errors_by_type_total", "Errors by type and severity", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordFetch counts an upstream fetch and observes its latency.
func RecordFetch(outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.fetches.WithLabelValues(outcome).Inc()
	globalManager.fetchLatency.Observe(latencyMs)
}

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	if globalManager.enabled {
		globalManager.cacheHits.Inc()
	}
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	if globalManager.enabled {
		globalManager.cacheMisses.Inc()
	}
}

// RecordCycle counts a started refresh cycle.
func RecordCycle() {
	if globalManager.enabled {
		globalManager.cycles.Inc()
	}
}

// RecordCycleFailure counts a cycle that could not render the board.
func RecordCycleFailure(kind string) {
	if globalManager.enabled {
		globalManager.cycleFailures.WithLabelValues(kind).Inc()
	}
}

// UpdateRows sets the raw and deduplicated row gauges.
func UpdateRows(raw, latest, nulls int) {
	if !globalManager.enabled {
		return
	}
	globalManager.rowsRaw.Set(float64(raw))
	globalManager.rowsLatest.Set(float64(latest))
	globalManager.nullValues.Set(float64(nulls))
}

// UpdateLastSuccess stores the time of the last rendered board.
func UpdateLastSuccess(t time.Time) {
	if globalManager.enabled {
		globalManager.lastSuccessUnix.Set(float64(t.Unix()))
	}
}

// RecordRenderLatency observes how long building the page took.
func RecordRenderLatency(latencyMs float64) {
	if globalManager.enabled {
		globalManager.renderLatency.Observe(latencyMs)
	}
}

// UpdateHistorySamples sets the number of samples in the history store.
func UpdateHistorySamples(n int) {
	if globalManager.enabled {
		globalManager.historySamples.Set(float64(n))
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if globalManager.enabled {
		globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// RuntimeRefreshInterval is how often cmd should refresh the runtime gauges.
func RuntimeRefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the private registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
