// ABOUTME: Prometheus collectors for content persistence, file watching, and HTTP traffic.
// ABOUTME: A nil *Metrics is valid and records nothing, so callers never need nil checks.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blocksite"

// Load and save outcomes used as the "outcome" label.
const (
	OutcomeOK            = "ok"
	OutcomeMissing       = "missing"
	OutcomeRouteNotFound = "route_not_found"
	OutcomeNoContentPath = "no_content_path"
	OutcomeReadError     = "read_error"
	OutcomeParseError    = "parse_error"
	OutcomeWriteError    = "write_error"
	OutcomeEncodeError   = "encode_error"
	OutcomeDefault       = "default"
)

// Metrics holds every collector the site exports.
type Metrics struct {
	registry *prometheus.Registry

	ContentLoads        *prometheus.CounterVec
	ContentSaves        *prometheus.CounterVec
	ContentChanges      *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on a private registry so
// tests and multiple servers in one process never collide.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.ContentLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_loads_total",
			Help:      "Content document loads by route and outcome",
		},
		[]string{"route", "outcome"},
	)

	m.ContentSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_saves_total",
			Help:      "Content document saves by route and outcome",
		},
		[]string{"route", "outcome"},
	)

	m.ContentChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "content_changes_total",
			Help:      "Filesystem changes observed under the data directory",
		},
		[]string{"op"},
	)

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.registry.MustRegister(
		m.ContentLoads,
		m.ContentSaves,
		m.ContentChanges,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// Handler serves the Prometheus exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordLoad counts one content load.
func (m *Metrics) RecordLoad(route, outcome string) {
	if m == nil {
		return
	}
	m.ContentLoads.WithLabelValues(route, outcome).Inc()
}

// RecordSave counts one content save.
func (m *Metrics) RecordSave(route, outcome string) {
	if m == nil {
		return
	}
	m.ContentSaves.WithLabelValues(route, outcome).Inc()
}

// RecordChange counts one filesystem event.
func (m *Metrics) RecordChange(op string) {
	if m == nil {
		return
	}
	m.ContentChanges.WithLabelValues(op).Inc()
}

// RecordHTTPRequest records a completed request.
func (m *Metrics) RecordHTTPRequest(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}
