// Package metrics provides Prometheus metrics for the blast scoreboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store operation label values.
const (
	OpOpen    = "open"
	OpSchema  = "schema"
	OpTrim    = "trim"
	OpTop     = "top"
	OpReplace = "replace"
	OpCount   = "count"
)

// Manager manages all Prometheus metrics for the scoreboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Board Metrics
	scoresSubmitted *prometheus.CounterVec
	evictions       prometheus.Counter
	boardSize       prometheus.Gauge
	boardCapacity   prometheus.Gauge

	// Store Metrics
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
	storeTrimmed prometheus.Counter
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
		namespace:        "blast",
		subsystem:        "scoreboard",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		enabled:          true,
		constLabels:      prometheus.Labels{},
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

	m.scoresSubmitted = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "scores_submitted_total",
			Help:        "Scores submitted to the board, by admission result",
			ConstLabels: m.constLabels,
		},
		[]string{"result"},
	)

	m.evictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evictions_total",
		Help:        "Records pushed off a full board by a new score",
		ConstLabels: m.constLabels,
	})

	m.boardSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "board_size",
		Help:        "Records currently on the board",
		ConstLabels: m.constLabels,
	})

	m.boardCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "board_capacity",
		Help:        "Maximum records the board retains",
		ConstLabels: m.constLabels,
	})

	m.storeLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "store_latency_milliseconds",
			Help:        "Durable store operation latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"op"},
	)

	m.storeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "store_errors_total",
			Help:        "Durable store operation failures",
			ConstLabels: m.constLabels,
		},
		[]string{"op"},
	)

	m.storeTrimmed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_trimmed_rows_total",
		Help:        "Rows removed from the store because they fell off the board",
		ConstLabels: m.constLabels,
	})
}

// RecordScoreAdmitted counts a score that made the board.
func (m *Manager) RecordScoreAdmitted() {
	if m.enabled {
		m.scoresSubmitted.WithLabelValues("admitted").Inc()
	}
}

// RecordScoreRejected counts a score that did not make the board.
func (m *Manager) RecordScoreRejected() {
	if m.enabled {
		m.scoresSubmitted.WithLabelValues("rejected").Inc()
	}
}

// RecordEviction counts a record pushed off the board.
func (m *Manager) RecordEviction() {
	if m.enabled {
		m.evictions.Inc()
	}
}

// UpdateBoard sets the board size and capacity gauges.
func (m *Manager) UpdateBoard(size, capacity int) {
	if m.enabled {
		m.boardSize.Set(float64(size))
		m.boardCapacity.Set(float64(capacity))
	}
}

// RecordStoreLatency records a store operation latency in milliseconds.
func (m *Manager) RecordStoreLatency(op string, latencyMs float64) {
	if m.enabled {
		m.storeLatency.WithLabelValues(op).Observe(latencyMs)
	}
}

// RecordStoreError counts a failed store operation.
func (m *Manager) RecordStoreError(op string) {
	if m.enabled {
		m.storeErrors.WithLabelValues(op).Inc()
	}
}

// RecordStoreTrimmed counts rows removed by a trim.
func (m *Manager) RecordStoreTrimmed(rows int64) {
	if m.enabled && rows > 0 {
		m.storeTrimmed.Add(float64(rows))
	}
}

// RecordScoreAdmitted counts a score that made the board.
func RecordScoreAdmitted() { globalManager.RecordScoreAdmitted() }

// RecordScoreRejected counts a score that did not make the board.
func RecordScoreRejected() { globalManager.RecordScoreRejected() }

// RecordEviction counts a record pushed off the board.
func RecordEviction() { globalManager.RecordEviction() }

// UpdateBoard sets the board size and capacity gauges.
func UpdateBoard(size, capacity int) { globalManager.UpdateBoard(size, capacity) }

// RecordStoreLatency records a store operation latency in milliseconds.
func RecordStoreLatency(op string, latencyMs float64) {
	globalManager.RecordStoreLatency(op, latencyMs)
}

// RecordStoreError counts a failed store operation.
func RecordStoreError(op string) { globalManager.RecordStoreError(op) }

// RecordStoreTrimmed counts rows removed by a trim.
func RecordStoreTrimmed(rows int64) { globalManager.RecordStoreTrimmed(rows) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
