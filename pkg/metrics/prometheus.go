// Package metrics provides Prometheus metrics for the edgeline engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Profile build pipeline
	profileBuilds       prometheus.Counter
	profileBuildErrors  prometheus.Counter
	profileBuildSeconds prometheus.Histogram

	// Profile cache
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheEvictions prometheus.Counter
	cacheSize      prometheus.Gauge

	// Build queue
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	queueDepth         prometheus.Gauge

	// Workers
	workerCount prometheus.Gauge

	// Analysis operations
	similarityQueries prometheus.Counter
	projections       prometheus.Counter
	validations       *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "edgeline",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.profileBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_builds_total",
		Help:      "Total number of contextual profiles built",
	})

	m.profileBuildErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_build_errors_total",
		Help:      "Total number of failed profile builds",
	})

	m.profileBuildSeconds = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_build_duration_seconds",
		Help:      "Histogram of profile build duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.cacheHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_cache_hits_total",
		Help:      "Total number of profile cache hits",
	})

	m.cacheMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_cache_misses_total",
		Help:      "Total number of profile cache misses",
	})

	m.cacheEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_cache_evictions_total",
		Help:      "Total number of profiles evicted from the cache",
	})

	m.cacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_cache_size",
		Help:      "Current number of profiles held in the cache",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of build requests enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of build requests dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of rejected enqueue attempts",
	})

	m.queueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_depth",
		Help:      "Current number of build requests waiting in the queue",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Current number of active build workers",
	})

	m.similarityQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "similarity_queries_total",
		Help:      "Total number of similarity queries served",
	})

	m.projections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "projections_total",
		Help:      "Total number of projections computed",
	})

	m.validations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "validations_total",
			Help:      "Total number of edge validations by recommendation",
		},
		[]string{"recommendation"},
	)
}

// Profile Build Metrics Functions.

// RecordProfileBuild increments the profile build counter.
func RecordProfileBuild() {
	globalManager.profileBuilds.Inc()
}

// RecordProfileBuildError increments the profile build error counter.
func RecordProfileBuildError() {
	globalManager.profileBuildErrors.Inc()
}

// ObserveProfileBuildSeconds records a profile build duration.
func ObserveProfileBuildSeconds(seconds float64) {
	globalManager.profileBuildSeconds.Observe(seconds)
}

// Cache Metrics Functions.

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	globalManager.cacheHits.Inc()
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	globalManager.cacheMisses.Inc()
}

// RecordCacheEviction increments the cache eviction counter.
func RecordCacheEviction() {
	globalManager.cacheEvictions.Inc()
}

// UpdateCacheSize sets the current cache size.
func UpdateCacheSize(size int) {
	globalManager.cacheSize.Set(float64(size))
}

// Queue Metrics Functions.

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueues.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeues.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateQueueDepth sets the current queue depth.
func UpdateQueueDepth(depth int) {
	globalManager.queueDepth.Set(float64(depth))
}

// Worker Metrics Functions.

// UpdateWorkerCount sets the number of active workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// Analysis Metrics Functions.

// RecordSimilarityQuery increments the similarity query counter.
func RecordSimilarityQuery() {
	globalManager.similarityQueries.Inc()
}

// RecordProjection increments the projection counter.
func RecordProjection() {
	globalManager.projections.Inc()
}

// RecordValidation records an edge validation by recommendation label.
func RecordValidation(recommendation string) {
	globalManager.validations.WithLabelValues(recommendation).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
