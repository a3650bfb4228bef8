// Package metrics provides Prometheus metrics for the rematch matching service.
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

// Manager manages all Prometheus metrics for the matching service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Matching metrics - the core of the service
	matchRequests    *prometheus.CounterVec
	candidatesScored prometheus.Counter
	scoringLatency   prometheus.Histogram
	semanticLatency  prometheus.Histogram
	matchingErrors   prometheus.Counter
	upstreamErrors   prometheus.Counter
	dormantAlerts    prometheus.Counter
	dormantEligible  prometheus.Gauge

	// Ingest pipeline metrics
	applicationsIngested  prometheus.Counter
	applicationsDuplicate prometheus.Counter
	ingestErrors          prometheus.Counter

	// Queue metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge
	queueEnqueues    prometheus.Counter
	queueDequeues    prometheus.Counter
	queueEnqueueErrs prometheus.Counter

	// Worker metrics
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Repository metrics
	repositoryCandidates   prometheus.Gauge
	repositoryJobs         prometheus.Gauge
	repositoryApplications prometheus.Gauge
	repositoryDormant      prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error breakdown
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rematch",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // metric registration is inherently long
	auto := promauto.With(m.registry)

	m.matchRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "match_requests_total",
			Help:      "Total number of ranking requests by mode (applicants, open_search, dormant)",
		},
		[]string{"mode"},
	)

	m.candidatesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_scored_total",
		Help:      "Total number of candidate-job pairs scored",
	})

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of full ranking-call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.semanticLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "semantic_batch_latency_milliseconds",
		Help:      "Histogram of embedding/index round-trip latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.matchingErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matching_errors_total",
		Help:      "Total number of failed ranking calls",
	})

	m.upstreamErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_scoring_errors_total",
		Help:      "Total number of embedding/index collaborator failures",
	})

	m.dormantAlerts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dormant_alerts_total",
		Help:      "Total number of dormant candidates surfaced above threshold",
	})

	m.dormantEligible = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dormant_eligible_candidates",
		Help:      "Eligible dormant candidates in the most recent detection run",
	})

	m.applicationsIngested = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "applications_ingested_total",
		Help:      "Total number of application facts recorded",
	})

	m.applicationsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "applications_duplicate_total",
		Help:      "Total number of duplicate application submissions detected",
	})

	m.ingestErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_errors_total",
		Help:      "Total number of application ingest failures",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the application event queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the application event queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Queue utilization ratio (size / capacity)",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueues_total",
		Help:      "Total number of events enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeues_total",
		Help:      "Total number of events dequeued",
	})

	m.queueEnqueueErrs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of rejected enqueues (backpressure)",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Current number of ingest workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Ingest worker per-event processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of ingest worker errors",
	})

	m.repositoryCandidates = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_candidates",
		Help:      "Number of candidates in the repository",
	})

	m.repositoryJobs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_jobs",
		Help:      "Number of jobs in the repository",
	})

	m.repositoryApplications = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_applications",
		Help:      "Number of application facts in the repository",
	})

	m.repositoryDormant = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "repository_dormant_candidates",
		Help:      "Number of candidates currently considered dormant",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total errors by component and error type",
		},
		[]string{"component", "error_type"},
	)
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers delegating to the global manager.

// RecordMatchRequest increments the ranking request counter for a mode.
func RecordMatchRequest(mode string) {
	if globalManager.enabled {
		globalManager.matchRequests.WithLabelValues(mode).Inc()
	}
}

// RecordCandidatesScored adds to the scored-pairs counter.
func RecordCandidatesScored(n int) {
	if globalManager.enabled {
		globalManager.candidatesScored.Add(float64(n))
	}
}

// RecordScoringLatency observes a full ranking-call latency in milliseconds.
func RecordScoringLatency(ms float64) {
	if globalManager.enabled {
		globalManager.scoringLatency.Observe(ms)
	}
}

// RecordSemanticLatency observes an embedding/index round-trip in milliseconds.
func RecordSemanticLatency(ms float64) {
	if globalManager.enabled {
		globalManager.semanticLatency.Observe(ms)
	}
}

// RecordMatchingError increments the failed-ranking counter.
func RecordMatchingError() {
	if globalManager.enabled {
		globalManager.matchingErrors.Inc()
	}
}

// RecordUpstreamError increments the collaborator-failure counter.
func RecordUpstreamError() {
	if globalManager.enabled {
		globalManager.upstreamErrors.Inc()
	}
}

// RecordDormantAlerts adds to the dormant-alert counter.
func RecordDormantAlerts(n int) {
	if globalManager.enabled {
		globalManager.dormantAlerts.Add(float64(n))
	}
}

// UpdateDormantEligible sets the eligible-dormant gauge.
func UpdateDormantEligible(n int) {
	if globalManager.enabled {
		globalManager.dormantEligible.Set(float64(n))
	}
}

// RecordApplicationIngested increments the ingested-applications counter.
func RecordApplicationIngested() {
	if globalManager.enabled {
		globalManager.applicationsIngested.Inc()
	}
}

// RecordApplicationDuplicate increments the duplicate-applications counter.
func RecordApplicationDuplicate() {
	if globalManager.enabled {
		globalManager.applicationsDuplicate.Inc()
	}
}

// RecordIngestError increments the ingest-failure counter.
func RecordIngestError() {
	if globalManager.enabled {
		globalManager.ingestErrors.Inc()
	}
}

// UpdateQueueSize sets the queue size gauge and recomputes utilization.
func UpdateQueueSize(size int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// UpdateQueueUtilization sets the queue utilization gauge.
func UpdateQueueUtilization(ratio float64) {
	if globalManager.enabled {
		globalManager.queueUtilization.Set(ratio)
	}
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	if globalManager.enabled {
		globalManager.queueEnqueues.Inc()
	}
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	if globalManager.enabled {
		globalManager.queueDequeues.Inc()
	}
}

// RecordQueueEnqueueError increments the rejected-enqueue counter.
func RecordQueueEnqueueError() {
	if globalManager.enabled {
		globalManager.queueEnqueueErrs.Inc()
	}
}

// UpdateWorkerCount sets the worker count gauge.
func UpdateWorkerCount(count int) {
	if globalManager.enabled {
		globalManager.workerCount.Set(float64(count))
	}
}

// RecordWorkerProcessingLatency observes a worker per-event latency in milliseconds.
func RecordWorkerProcessingLatency(ms float64) {
	if globalManager.enabled {
		globalManager.workerProcessingLatency.Observe(ms)
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}

// UpdateRepositoryCounts sets the repository size gauges.
func UpdateRepositoryCounts(candidates, jobs, applications, dormant int) {
	if globalManager.enabled {
		globalManager.repositoryCandidates.Set(float64(candidates))
		globalManager.repositoryJobs.Set(float64(jobs))
		globalManager.repositoryApplications.Set(float64(applications))
		globalManager.repositoryDormant.Set(float64(dormant))
	}
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
	}
}

// RecordErrorByComponent increments the per-component error counter.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}
