// ABOUTME: Prometheus metrics for gateway requests and upstream calls
// ABOUTME: Nil-safe recorder so handlers can run with metrics disabled

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream call outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeStatus  = "status_error"
	OutcomeNetwork = "network_error"
)

// Metrics contains the gateway's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	upstreamCallsTotal  *prometheus.CounterVec
	upstreamDuration    *prometheus.HistogramVec
	failOpenTotal       *prometheus.CounterVec
	authEventsTotal     *prometheus.CounterVec
}

// New creates and registers gateway metrics on the given registry. A nil
// registry gets a fresh one.
func New(registry *prometheus.Registry) (*Metrics, error) {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{registry: registry}

	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visionary",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the gateway",
		},
		[]string{"method", "route", "status_code"},
	)
	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "visionary",
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	m.upstreamCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visionary",
			Name:      "upstream_calls_total",
			Help:      "Calls made to the image backend by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
	m.upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "visionary",
			Name:      "upstream_call_duration_seconds",
			Help:      "Latency of calls to the image backend",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)
	m.failOpenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visionary",
			Name:      "fail_open_total",
			Help:      "Reads answered with an empty result because the image backend failed",
		},
		[]string{"operation"},
	)
	m.authEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "visionary",
			Name:      "auth_events_total",
			Help:      "Sign-in, sign-out, and token events",
		},
		[]string{"event"},
	)

	for _, c := range []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.upstreamCallsTotal,
		m.upstreamDuration,
		m.failOpenTotal,
		m.authEventsTotal,
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) RecordUpstream(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamCallsTotal.WithLabelValues(operation, outcome).Inc()
	m.upstreamDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) RecordFailOpen(operation string) {
	if m == nil {
		return
	}
	m.failOpenTotal.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordAuthEvent(event string) {
	if m == nil {
		return
	}
	m.authEventsTotal.WithLabelValues(event).Inc()
}
