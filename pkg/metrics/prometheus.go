// Package metrics provides Prometheus metrics for the launch dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Derivation metrics
	derivations       *prometheus.CounterVec
	derivationLatency *prometheus.HistogramVec
	derivationRows    *prometheus.HistogramVec
	derivationEmpty   *prometheus.CounterVec
	dispatches        *prometheus.CounterVec
	dispatchErrors    *prometheus.CounterVec

	// Render metrics
	renders       *prometheus.CounterVec
	renderLatency *prometheus.HistogramVec
	renderErrors  *prometheus.CounterVec

	// Image cache metrics
	cacheLookups *prometheus.CounterVec
	cacheEntries prometheus.Gauge

	// Dataset metrics
	datasetRecords    prometheus.Gauge
	datasetSites      prometheus.Gauge
	datasetMinPayload prometheus.Gauge
	datasetMaxPayload prometheus.Gauge
	datasetLoadMs     prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "launchdash",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
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

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

//nolint:funlen // one place for every metric definition
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.derivations = auto.NewCounterVec(
		m.counterOpts("derivations_total", "Total number of chart derivations by chart kind"),
		[]string{"chart"},
	)
	m.derivationLatency = auto.NewHistogramVec(
		m.histogramOpts("derivation_latency_milliseconds", "Chart derivation latency in milliseconds", m.histogramBuckets),
		[]string{"chart"},
	)
	m.derivationRows = auto.NewHistogramVec(
		m.histogramOpts("derivation_rows", "Rows selected by a derivation",
			[]float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000}),
		[]string{"chart"},
	)
	m.derivationEmpty = auto.NewCounterVec(
		m.counterOpts("derivation_empty_total", "Derivations that produced an empty chart"),
		[]string{"chart"},
	)
	m.dispatches = auto.NewCounterVec(
		m.counterOpts("dispatch_total", "Callback dispatches by output component"),
		[]string{"output"},
	)
	m.dispatchErrors = auto.NewCounterVec(
		m.counterOpts("dispatch_errors_total", "Failed callback dispatches by output component"),
		[]string{"output"},
	)

	m.renders = auto.NewCounterVec(
		m.counterOpts("renders_total", "Chart images rendered by chart kind and format"),
		[]string{"chart", "format"},
	)
	m.renderLatency = auto.NewHistogramVec(
		m.histogramOpts("render_latency_milliseconds", "Chart image render latency in milliseconds", m.histogramBuckets),
		[]string{"chart", "format"},
	)
	m.renderErrors = auto.NewCounterVec(
		m.counterOpts("render_errors_total", "Chart images that failed to render"),
		[]string{"chart", "format"},
	)

	m.cacheLookups = auto.NewCounterVec(
		m.counterOpts("image_cache_lookups_total", "Rendered image cache lookups by result"),
		[]string{"result"},
	)
	m.cacheEntries = auto.NewGauge(m.gaugeOpts("image_cache_entries", "Rendered images held in the cache"))

	m.datasetRecords = auto.NewGauge(m.gaugeOpts("dataset_records", "Number of launch records loaded"))
	m.datasetSites = auto.NewGauge(m.gaugeOpts("dataset_sites", "Number of distinct launch sites"))
	m.datasetMinPayload = auto.NewGauge(m.gaugeOpts("dataset_min_payload_kg", "Smallest payload mass in the dataset"))
	m.datasetMaxPayload = auto.NewGauge(m.gaugeOpts("dataset_max_payload_kg", "Largest payload mass in the dataset"))
	m.datasetLoadMs = auto.NewGauge(m.gaugeOpts("dataset_load_duration_milliseconds", "Time taken to load the dataset"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Derivation Metrics Functions.

// RecordDerivation records one chart derivation with its latency and row count.
func RecordDerivation(chart string, latencyMs float64, rows int, empty bool) {
	if !globalManager.enabled {
		return
	}
	globalManager.derivations.WithLabelValues(chart).Inc()
	globalManager.derivationLatency.WithLabelValues(chart).Observe(latencyMs)
	globalManager.derivationRows.WithLabelValues(chart).Observe(float64(rows))
	if empty {
		globalManager.derivationEmpty.WithLabelValues(chart).Inc()
	}
}

// RecordDispatch increments the dispatch counter for an output component.
func RecordDispatch(output string) {
	if !globalManager.enabled {
		return
	}
	globalManager.dispatches.WithLabelValues(output).Inc()
}

// RecordDispatchError increments the failed dispatch counter for an output component.
func RecordDispatchError(output string) {
	if !globalManager.enabled {
		return
	}
	globalManager.dispatchErrors.WithLabelValues(output).Inc()
}

// Cache Metrics Functions.

// RecordImageCacheLookup counts one cache lookup as a hit or a miss.
func RecordImageCacheLookup(hit bool) {
	if !globalManager.enabled {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.cacheLookups.WithLabelValues(result).Inc()
}

// UpdateImageCacheEntries sets the number of cached images.
func UpdateImageCacheEntries(n int64) {
	if !globalManager.enabled {
		return
	}
	globalManager.cacheEntries.Set(float64(n))
}

// Render Metrics Functions.

// RecordChartRender records a rendered chart image.
func RecordChartRender(chart, format string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.renders.WithLabelValues(chart, format).Inc()
	globalManager.renderLatency.WithLabelValues(chart, format).Observe(latencyMs)
}

// RecordChartRenderError increments the render error counter.
func RecordChartRenderError(chart, format string) {
	if !globalManager.enabled {
		return
	}
	globalManager.renderErrors.WithLabelValues(chart, format).Inc()
}

// Dataset Metrics Functions.

// UpdateDataset sets the dataset gauges.
func UpdateDataset(records, sites int, minPayload, maxPayload float64) {
	globalManager.datasetRecords.Set(float64(records))
	globalManager.datasetSites.Set(float64(sites))
	globalManager.datasetMinPayload.Set(minPayload)
	globalManager.datasetMaxPayload.Set(maxPayload)
}

// UpdateDatasetLoadDuration sets how long the last dataset load took.
func UpdateDatasetLoadDuration(ms float64) {
	globalManager.datasetLoadMs.Set(ms)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// SetRefreshInterval overrides the global manager's refresh interval.
// Non-positive values keep the current one. Call before the updaters start.
func SetRefreshInterval(interval time.Duration) {
	WithRefreshInterval(interval)(globalManager)
}

// RefreshInterval returns the refresh interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
