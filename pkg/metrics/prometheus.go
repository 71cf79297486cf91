// Package metrics exposes Prometheus instrumentation for the KPI service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns one set of KPI service collectors.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// samples
	samplesAccepted  prometheus.Counter
	samplesDuplicate prometheus.Counter
	samplesRejected  *prometheus.CounterVec

	// state
	dispatchLatency *prometheus.HistogramVec
	dispatchErrors  *prometheus.CounterVec
	participants    prometheus.Gauge
	scoringLatency  *prometheus.HistogramVec
	forecasts       *prometheus.CounterVec

	// queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// dedupe
	dedupeSize      prometheus.Gauge
	dedupeEvictions prometheus.Counter

	// http
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPause        prometheus.Histogram
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // exposed on /metrics

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // package-level recorders

// NewManager builds and registers a Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "stationkpi",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.register()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		ConstLabels: m.constLabels, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) register() {
	m.samplesAccepted = m.counter("samples_accepted_total", "Metric samples accepted for processing")
	m.samplesDuplicate = m.counter("samples_duplicate_total", "Metric samples dropped as duplicates")
	m.samplesRejected = m.counterVec("samples_rejected_total", "Metric samples rejected by reason", "reason")

	m.dispatchLatency = m.histogramVec("state_dispatch_duration_milliseconds", "Time spent applying a state action", "action")
	m.dispatchErrors = m.counterVec("state_dispatch_errors_total", "State actions that failed", "action")
	m.participants = m.gauge("participants", "Participants held in state")
	m.scoringLatency = m.histogramVec("scoring_duration_milliseconds", "Time spent scoring by operation", "operation")
	m.forecasts = m.counterVec("forecasts_total", "Forecasts computed by kind and outcome", "kind", "outcome")

	m.queueSize = m.gauge("queue_size", "Samples waiting in the ingest queue")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the ingest queue")
	m.queueEnqueue = m.counter("queue_enqueue_total", "Samples enqueued")
	m.queueDequeue = m.counter("queue_dequeue_total", "Samples dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Enqueue attempts rejected because the queue was full or closed")

	m.workerCount = m.gauge("worker_count", "Running ingest workers")
	m.workerProcessingLatency = m.histogram("worker_processing_duration_milliseconds", "Time a worker spends on one sample")
	m.workerErrors = m.counter("worker_errors_total", "Samples a worker failed to apply")

	m.dedupeSize = m.gauge("dedupe_size", "Event ids held by the idempotency cache")
	m.dedupeEvictions = m.counter("dedupe_evictions_total", "Event ids evicted from the idempotency cache")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "type")

	m.memoryUsage = m.gauge("memory_alloc_bytes", "Heap bytes allocated")
	m.goroutineCount = m.gauge("goroutines", "Live goroutines")
	m.gcPause = m.histogram("gc_pause_milliseconds", "Average GC pause")
}

// RecordSampleAccepted counts a sample admitted to the queue.
func RecordSampleAccepted() { globalManager.samplesAccepted.Inc() }

// RecordSampleDuplicate counts a sample dropped by the idempotency cache.
func RecordSampleDuplicate() { globalManager.samplesDuplicate.Inc() }

// RecordSampleRejected counts a sample refused before it reached state.
func RecordSampleRejected(reason string) { globalManager.samplesRejected.WithLabelValues(reason).Inc() }

// RecordDispatch observes one state action.
func RecordDispatch(action string, latencyMs float64, err error) {
	globalManager.dispatchLatency.WithLabelValues(action).Observe(latencyMs)
	if err != nil {
		globalManager.dispatchErrors.WithLabelValues(action).Inc()
	}
}

// UpdateParticipants sets the participant gauge.
func UpdateParticipants(n int) { globalManager.participants.Set(float64(n)) }

// RecordScoringLatency observes a scoring operation such as a view or a ranking.
func RecordScoringLatency(operation string, latencyMs float64) {
	globalManager.scoringLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordForecast counts a forecast request. ok is false when there was not
// enough history.
func RecordForecast(kind string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "insufficient_history"
	}
	globalManager.forecasts.WithLabelValues(kind, outcome).Inc()
}

// UpdateQueueSize sets the queue backlog gauge.
func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

// RecordQueueEnqueue counts an enqueue.
func RecordQueueEnqueue() { globalManager.queueEnqueue.Inc() }

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() { globalManager.queueDequeue.Inc() }

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError() { globalManager.queueEnqueueErrors.Inc() }

// UpdateWorkerCount sets the running worker gauge.
func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

// RecordWorkerProcessingLatency observes the time spent on one sample.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a sample a worker could not apply.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// UpdateDedupeSize sets the idempotency cache gauge.
func UpdateDedupeSize(n int64) { globalManager.dedupeSize.Set(float64(n)) }

// RecordDedupeEviction counts an evicted event id.
func RecordDedupeEviction() { globalManager.dedupeEvictions.Inc() }

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes a served request.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError counts an error raised by component.
func RecordError(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.memoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) { globalManager.goroutineCount.Set(float64(n)) }

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(ms float64) { globalManager.gcPause.Observe(ms) }

// GetRegistry returns the registry behind the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
