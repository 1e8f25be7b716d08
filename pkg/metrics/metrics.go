// Package metrics provides Prometheus metrics for the results engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds all Prometheus instruments for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Import pipeline
	importsTotal      prometheus.Counter
	importErrors      prometheus.Counter
	duplicateUploads  prometheus.Counter
	rowsExtracted     prometheus.Counter
	rowsSkipped       prometheus.Counter
	resultsPersisted  prometheus.Counter
	duplicateRows     prometheus.Counter
	importDuration    prometheus.Histogram

	// Reconciliation
	reconcilePasses   prometheus.Counter
	reconcileErrors   prometheus.Counter
	orphansAttached   prometheus.Counter
	pointsCredited    prometheus.Counter
	reconcileDuration prometheus.Histogram

	// Operational health
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	queueEnqueues prometheus.Counter
	queueDequeues prometheus.Counter
	workerCount   prometheus.Gauge
	totalAthletes prometheus.Gauge
	orphanResults prometheus.Gauge
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
		namespace:        "tatami",
		subsystem:        "results",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.importsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "imports_total",
		Help:      "Total number of result file imports attempted",
	})
	m.importErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "import_errors_total",
		Help:      "Total number of imports aborted by an unreadable file",
	})
	m.duplicateUploads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_uploads_total",
		Help:      "Total number of byte-identical uploads skipped before parsing",
	})
	m.rowsExtracted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_extracted_total",
		Help:      "Total number of placement records extracted from uploads",
	})
	m.rowsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_skipped_total",
		Help:      "Total number of unusable lines skipped during extraction",
	})
	m.resultsPersisted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "results_persisted_total",
		Help:      "Total number of tournament results written to storage",
	})
	m.duplicateRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_rows_total",
		Help:      "Total number of rows rejected by storage uniqueness constraints",
	})
	m.importDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "import_duration_milliseconds",
		Help:      "Histogram of whole-file import duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.reconcilePasses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reconcile_passes_total",
		Help:      "Total number of completed reconcile passes",
	})
	m.reconcileErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reconcile_errors_total",
		Help:      "Total number of failed reconcile passes",
	})
	m.orphansAttached = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "orphans_attached_total",
		Help:      "Total number of orphan results attached to athletes",
	})
	m.pointsCredited = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_points_credited_total",
		Help:      "Total rating points credited through reconciliation",
	})
	m.reconcileDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reconcile_duration_milliseconds",
		Help:      "Histogram of reconcile pass duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current size of the registration event queue",
	})
	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum registration event queue capacity",
	})
	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of registration events enqueued",
	})
	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of registration events dequeued",
	})
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of reconcile workers",
	})
	m.totalAthletes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "total_athletes",
		Help:      "Total number of registered athletes in the store",
	})
	m.orphanResults = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "orphan_results",
		Help:      "Current number of results awaiting reconciliation",
	})
}

// Import pipeline functions.

// RecordImport increments the imports counter.
func RecordImport() { globalManager.importsTotal.Inc() }

// RecordImportError increments the aborted-imports counter.
func RecordImportError() { globalManager.importErrors.Inc() }

// RecordDuplicateUpload increments the skipped identical-uploads counter.
func RecordDuplicateUpload() { globalManager.duplicateUploads.Inc() }

// RecordRowsExtracted adds to the extracted rows counter.
func RecordRowsExtracted(n int) { globalManager.rowsExtracted.Add(float64(n)) }

// RecordRowsSkipped adds to the skipped lines counter.
func RecordRowsSkipped(n int) { globalManager.rowsSkipped.Add(float64(n)) }

// RecordResultPersisted increments the persisted results counter.
func RecordResultPersisted() { globalManager.resultsPersisted.Inc() }

// RecordDuplicateRow increments the storage-rejected rows counter.
func RecordDuplicateRow() { globalManager.duplicateRows.Inc() }

// RecordImportDuration records whole-file import duration in milliseconds.
func RecordImportDuration(ms float64) { globalManager.importDuration.Observe(ms) }

// Reconciliation functions.

// RecordReconcilePass increments the completed passes counter.
func RecordReconcilePass() { globalManager.reconcilePasses.Inc() }

// RecordReconcileError increments the failed passes counter.
func RecordReconcileError() { globalManager.reconcileErrors.Inc() }

// RecordOrphansAttached adds to the attached orphans counter.
func RecordOrphansAttached(n int) { globalManager.orphansAttached.Add(float64(n)) }

// RecordPointsCredited adds to the credited points counter.
func RecordPointsCredited(n int) { globalManager.pointsCredited.Add(float64(n)) }

// RecordReconcileDuration records pass duration in milliseconds.
func RecordReconcileDuration(ms float64) { globalManager.reconcileDuration.Observe(ms) }

// Operational health functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() { globalManager.queueEnqueues.Inc() }

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() { globalManager.queueDequeues.Inc() }

// UpdateWorkerCount sets the reconcile worker count.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// UpdateTotalAthletes sets the registered athlete count.
func UpdateTotalAthletes(count int) { globalManager.totalAthletes.Set(float64(count)) }

// UpdateOrphanResults sets the current orphan result count.
func UpdateOrphanResults(count int) { globalManager.orphanResults.Set(float64(count)) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
