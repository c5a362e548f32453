// Package metrics provides Prometheus metrics for the trip guide service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the service's metrics and the registry they live in.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	scheduleBuildDuration prometheus.Histogram
	scheduleEvents        prometheus.Histogram

	cmsRequests *prometheus.CounterVec

	reorderReverts   prometheus.Counter
	snapshotRefresh  *prometheus.CounterVec
	snapshotFallback prometheus.Counter
	tripsByStatus    *prometheus.GaugeVec
}

// NewManager creates a Manager registering on a private registry unless
// WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "tripguide",
		histogramBuckets: prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
		m.registry.MustRegister(collectors.NewGoCollector())
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and method",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})

	m.scheduleBuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "schedule",
		Name:      "build_duration_seconds",
		Help:      "Time spent normalizing a trip schedule",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
	})

	m.scheduleEvents = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "schedule",
		Name:      "events",
		Help:      "Events left in a normalized schedule",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	})

	m.cmsRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "cms",
		Name:      "requests_total",
		Help:      "Requests sent to the CMS API by method and outcome",
	}, []string{"method", "outcome"})

	m.reorderReverts = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "wizard",
		Name:      "reorder_reverts_total",
		Help:      "Optimistic reorders rolled back after the CMS rejected them",
	})

	m.snapshotRefresh = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "guide",
		Name:      "snapshot_refresh_total",
		Help:      "Guide snapshot refreshes by outcome",
	}, []string{"outcome"})

	m.snapshotFallback = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "guide",
		Name:      "snapshot_fallback_total",
		Help:      "Guides served from the stored snapshot because the CMS was unavailable",
	})

	m.tripsByStatus = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "guide",
		Name:      "trips",
		Help:      "Tracked trips by computed status",
	}, []string{"status"})
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) RecordHTTPRequest(route, method, status string, seconds float64) {
	m.httpRequests.WithLabelValues(route, method, status).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(seconds)
}

func (m *Manager) RecordScheduleBuild(seconds float64, events int) {
	m.scheduleBuildDuration.Observe(seconds)
	m.scheduleEvents.Observe(float64(events))
}

func (m *Manager) RecordCMSRequest(method, outcome string) {
	m.cmsRequests.WithLabelValues(method, outcome).Inc()
}

func (m *Manager) RecordReorderRevert() {
	m.reorderReverts.Inc()
}

func (m *Manager) RecordSnapshotRefresh(outcome string) {
	m.snapshotRefresh.WithLabelValues(outcome).Inc()
}

func (m *Manager) RecordSnapshotFallback() {
	m.snapshotFallback.Inc()
}

// SetTripsByStatus replaces the per-status trip gauge.
func (m *Manager) SetTripsByStatus(counts map[string]int) {
	m.tripsByStatus.Reset()
	for status, n := range counts {
		m.tripsByStatus.WithLabelValues(status).Set(float64(n))
	}
}
