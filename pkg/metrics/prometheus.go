// Package metrics provides Prometheus metrics for the SPDI service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Engine
	evaluations        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	computeErrors      prometheus.Counter
	compositeIndex     prometheus.Histogram
	evaluationLatency  prometheus.Histogram

	// Batch and worker pool
	batchSize         prometheus.Histogram
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueRejected     prometheus.Counter
	workerCount       prometheus.Gauge
	workerBusy        prometheus.Gauge
	workerJobsTotal   prometheus.Counter
	workerJobDuration prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps the default Go collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// compositeBuckets splits [0,1] into tenths.
func compositeBuckets() []float64 {
	return prometheus.LinearBuckets(0.1, 0.1, 10)
}

// NewManager creates a manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "spdi",
		subsystem:      "engine",
		latencyBuckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(m.counterOpts("evaluations_total", "Completed evaluations by risk tier"), []string{"tier"})
	m.validationFailures = auto.NewCounterVec(m.counterOpts("validation_failures_total", "Validation rule violations by rule"), []string{"rule"})
	m.computeErrors = auto.NewCounter(m.counterOpts("compute_errors_total", "Compute calls rejected for a non-positive team total"))
	m.compositeIndex = auto.NewHistogram(m.histogramOpts("composite_index", "Distribution of computed composite indices", compositeBuckets()))
	m.evaluationLatency = auto.NewHistogram(m.histogramOpts("evaluation_latency_milliseconds", "Time to evaluate one input", m.latencyBuckets))

	m.batchSize = auto.NewHistogram(m.histogramOpts("batch_size", "Inputs per batch request", prometheus.ExponentialBuckets(1, 2, 10)))
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Jobs waiting in the evaluation queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the evaluation queue"))
	m.queueRejected = auto.NewCounter(m.counterOpts("queue_rejected_total", "Jobs refused because the queue was full or closed"))
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Configured evaluation workers"))
	m.workerBusy = auto.NewGauge(m.gaugeOpts("worker_busy", "Workers currently evaluating a job"))
	m.workerJobsTotal = auto.NewCounter(m.counterOpts("worker_jobs_total", "Jobs completed by the worker pool"))
	m.workerJobDuration = auto.NewHistogram(m.histogramOpts("worker_job_duration_milliseconds", "Worker time per job", m.latencyBuckets))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration", m.latencyBuckets), []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and error type"), []string{"endpoint", "method", "error_type"})
	m.errorsByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Errors by type and severity"), []string{"error_type", "severity"})
	m.errorsByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component and type"), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause", m.latencyBuckets))
}

// Engine metrics.

// RecordEvaluation counts a completed evaluation and observes its composite.
func RecordEvaluation(tier string, composite, latencyMs float64) {
	globalManager.evaluations.WithLabelValues(tier).Inc()
	globalManager.compositeIndex.Observe(composite)
	globalManager.evaluationLatency.Observe(latencyMs)
}

// RecordValidationFailure counts one violated rule.
func RecordValidationFailure(rule string) {
	globalManager.validationFailures.WithLabelValues(rule).Inc()
}

// RecordComputeError counts a compute call rejected by the zero-total guard.
func RecordComputeError() {
	globalManager.computeErrors.Inc()
	globalManager.errorsByComponent.WithLabelValues("engine", "division_by_zero").Inc()
}

// Batch and worker pool metrics.

// RecordBatchSize observes the number of inputs in a batch.
func RecordBatchSize(n int) {
	globalManager.batchSize.Observe(float64(n))
}

// UpdateQueueSize sets the number of queued jobs.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueRejected counts a job the queue refused.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.Inc()
	globalManager.errorsByComponent.WithLabelValues("queue", reason).Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// WorkerStarted marks a worker busy.
func WorkerStarted() {
	globalManager.workerBusy.Inc()
}

// WorkerFinished marks a worker idle and records the job duration.
func WorkerFinished(durationMs float64) {
	globalManager.workerBusy.Dec()
	globalManager.workerJobsTotal.Inc()
	globalManager.workerJobDuration.Observe(durationMs)
}

// HTTP metrics.

// RecordHTTPRequest counts a request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByComponent counts an error raised inside a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the average GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry the global metrics live on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
