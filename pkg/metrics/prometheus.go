package metrics

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "elo"
	defaultSubsystem = "rating"
)

// Manager owns the Prometheus collectors for rating computations.
type Manager struct {
	namespace     string
	subsystem     string
	changeBuckets []float64
	registry      *prometheus.Registry

	expectedScores     prometheus.Counter
	kFactorSelected    *prometheus.CounterVec
	ratingUpdates      *prometheus.CounterVec
	ratingChange       prometheus.Histogram
	performanceRatings prometheus.Counter
	performanceErrors  prometheus.Counter
	performanceGames   prometheus.Histogram
}

var (
	defaultOnce    sync.Once
	defaultManager *Manager
)

// Default returns the process-wide manager, registered on its own registry so
// Go runtime collectors stay out of the output.
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry it
// uses a fresh registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:     defaultNamespace,
		subsystem:     defaultSubsystem,
		changeBuckets: []float64{1, 2, 5, 10, 15, 20, 30, 40},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.expectedScores = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "expected_score_total",
		Help:      "Total number of expected score evaluations",
	})

	m.kFactorSelected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "kfactor_selected_total",
		Help:      "K-factors applied to rating updates by value and game category",
	}, []string{"k", "category"})

	m.ratingUpdates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "updates_total",
		Help:      "Total number of two-player rating updates by game category",
	}, []string{"category"})

	m.ratingChange = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "change_points",
		Help:      "Absolute rating change per player per update",
		Buckets:   m.changeBuckets,
	})

	m.performanceRatings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "performance_ratings_total",
		Help:      "Total number of performance ratings computed",
	})

	m.performanceErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "performance_errors_total",
		Help:      "Total number of rejected performance rating requests",
	})

	m.performanceGames = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "performance_games",
		Help:      "Number of games per performance rating request",
		Buckets:   prometheus.LinearBuckets(1, 2, 10),
	})
}

// RecordExpectedScore counts an expected score evaluation.
func (m *Manager) RecordExpectedScore() {
	m.expectedScores.Inc()
}

// RecordKFactor counts a K-factor applied in a game of the given category.
func (m *Manager) RecordKFactor(k float64, category string) {
	m.kFactorSelected.WithLabelValues(strconv.FormatFloat(k, 'f', -1, 64), category).Inc()
}

// RecordUpdate counts a rating update and observes both players' changes.
func (m *Manager) RecordUpdate(category string, changeA, changeB float64) {
	m.ratingUpdates.WithLabelValues(category).Inc()
	m.ratingChange.Observe(math.Abs(changeA))
	m.ratingChange.Observe(math.Abs(changeB))
}

// RecordPerformance counts a performance rating over n games.
func (m *Manager) RecordPerformance(n int) {
	m.performanceRatings.Inc()
	m.performanceGames.Observe(float64(n))
}

// RecordPerformanceError counts a rejected performance rating request.
func (m *Manager) RecordPerformanceError() {
	m.performanceErrors.Inc()
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all gathered metrics to path in the Prometheus text
// format, suitable for the node exporter textfile collector. The file is
// replaced atomically.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteTextfile, path, err)
	}
	return nil
}
