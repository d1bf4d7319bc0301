// Package metrics exposes Prometheus metrics for pool recomputation and the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every pool metric and the registry they are registered on.
// A nil *Manager is valid and records nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	// Pool decisions
	verdictsComputed *prometheus.CounterVec
	eliminations     *prometheus.CounterVec
	picksScored      *prometheus.CounterVec
	recomputeSeconds *prometheus.HistogramVec
	recomputeErrors  *prometheus.CounterVec
	aliveGauge       *prometheus.GaugeVec

	// Results feed
	outcomesUpdated prometheus.Counter
	feedErrors      prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom histogram buckets for latency metrics.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry sets the registry metrics are registered on and served from.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// NewManager creates a manager on a private registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nfl_pool",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.verdictsComputed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "survivor",
		Name:      "verdicts_computed_total",
		Help:      "Survivor verdicts computed, by outcome",
	}, []string{"status"})

	m.eliminations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "survivor",
		Name:      "eliminations_total",
		Help:      "Eliminations found during recomputation, by reason",
	}, []string{"reason"})

	m.aliveGauge = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "survivor",
		Name:      "participants_alive",
		Help:      "Participants alive after the latest recomputation",
	}, []string{"season"})

	m.picksScored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "confidence",
		Name:      "picks_scored_total",
		Help:      "Confidence picks scored, by status",
	}, []string{"status"})

	m.recomputeSeconds = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "recompute_duration_seconds",
		Help:      "Time taken to recompute a pool",
		Buckets:   m.histogramBuckets,
	}, []string{"pool"})

	m.recomputeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "recompute_errors_total",
		Help:      "Failed recomputations, by pool",
	}, []string{"pool"})

	m.outcomesUpdated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "feed",
		Name:      "outcomes_updated_total",
		Help:      "Game outcomes inserted or changed by the results feed",
	})

	m.feedErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "feed",
		Name:      "errors_total",
		Help:      "Failed results feed fetches",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests, by route, method and status code",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, by route and method",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})
}

// RecordVerdict counts one computed verdict and, when eliminated, its reason.
func (m *Manager) RecordVerdict(alive bool, reason string) {
	if m == nil {
		return
	}
	if alive {
		m.verdictsComputed.WithLabelValues("alive").Inc()
		return
	}
	m.verdictsComputed.WithLabelValues("eliminated").Inc()
	m.eliminations.WithLabelValues(reason).Inc()
}

// SetAlive records how many participants remain in a season.
func (m *Manager) SetAlive(season string, count int) {
	if m == nil {
		return
	}
	m.aliveGauge.WithLabelValues(season).Set(float64(count))
}

// RecordPickScored counts one scored confidence pick.
func (m *Manager) RecordPickScored(status string) {
	if m == nil {
		return
	}
	m.picksScored.WithLabelValues(status).Inc()
}

// ObserveRecompute records the duration of one recomputation.
func (m *Manager) ObserveRecompute(pool string, d time.Duration) {
	if m == nil {
		return
	}
	m.recomputeSeconds.WithLabelValues(pool).Observe(d.Seconds())
}

// RecordRecomputeError counts one failed recomputation.
func (m *Manager) RecordRecomputeError(pool string) {
	if m == nil {
		return
	}
	m.recomputeErrors.WithLabelValues(pool).Inc()
}

// RecordOutcomesUpdated counts outcomes changed by one feed refresh.
func (m *Manager) RecordOutcomesUpdated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.outcomesUpdated.Add(float64(n))
}

// RecordFeedError counts one failed feed fetch.
func (m *Manager) RecordFeedError() {
	if m == nil {
		return
	}
	m.feedErrors.Inc()
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// Registry returns the registry the manager's metrics live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the manager's registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
