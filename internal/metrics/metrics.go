// Package metrics exposes Prometheus instruments for the storefront client.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics holds the instruments. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	staleDiscarded  *prometheus.CounterVec
	unauthorized    prometheus.Counter
	normalizedItems *prometheus.CounterVec
}

// New registers the instruments on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Backend API calls by endpoint and response status.",
		}, []string{"endpoint", "status"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Backend API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		staleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_discarded_total",
			Help:      "Fetch responses dropped because newer state was already applied.",
		}, []string{"collection"}),
		unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unauthorized_signals_total",
			Help:      "Unauthorized notifications emitted after 401 responses.",
		}),
		normalizedItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "normalized_items_total",
			Help:      "Normalized records by resolved reference type.",
		}, []string{"type"}),
	}

	m.registry.MustRegister(
		m.backendRequests,
		m.backendLatency,
		m.staleDiscarded,
		m.unauthorized,
		m.normalizedItems,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveBackend records one backend call. status 0 means no response.
func (m *Metrics) ObserveBackend(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "network_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendRequests.WithLabelValues(endpoint, label).Inc()
	m.backendLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// StaleDiscarded records a dropped fetch response.
func (m *Metrics) StaleDiscarded(collection string) {
	if m == nil {
		return
	}
	m.staleDiscarded.WithLabelValues(collection).Inc()
}

// Unauthorized records an emitted unauthorized signal.
func (m *Metrics) Unauthorized() {
	if m == nil {
		return
	}
	m.unauthorized.Inc()
}

// NormalizedItem records one normalized record by type.
func (m *Metrics) NormalizedItem(referenceType string) {
	if m == nil {
		return
	}
	m.normalizedItems.WithLabelValues(referenceType).Inc()
}
