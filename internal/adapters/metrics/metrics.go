// Package metrics exposes Prometheus collectors for builds, probes and served requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "assetpack"

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	buildsTotal     *prometheus.CounterVec
	buildDuration   *prometheus.HistogramVec
	probesTotal     *prometheus.CounterVec
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of served requests by route kind and status",
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		buildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Total number of package builds by outcome",
		}, []string{"package", "outcome"}),

		buildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Package build duration in seconds",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
		}, []string{"package"}),

		probesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probes_total",
			Help:      "Total number of remote existence probes by backend and outcome",
		}, []string{"backend", "outcome"}),
	}
}

// ObserveRequest records a served request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveBuild records a package build outcome (built, cached or failed).
func (m *Metrics) ObserveBuild(pkg, outcome string, elapsed time.Duration) {
	m.buildsTotal.WithLabelValues(pkg, outcome).Inc()
	if outcome == "built" {
		m.buildDuration.WithLabelValues(pkg).Observe(elapsed.Seconds())
	}
}

// ObserveProbe records a remote probe outcome.
func (m *Metrics) ObserveProbe(backend string, found bool) {
	outcome := "missing"
	if found {
		outcome = "found"
	}
	m.probesTotal.WithLabelValues(backend, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
