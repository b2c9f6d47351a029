package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Vote outcomes reported by RecordVote.
const (
	VoteOutcomeAccepted  = "accepted"
	VoteOutcomeDuplicate = "duplicate"
	VoteOutcomeClosed    = "closed"
	VoteOutcomeInvalid   = "invalid"
	VoteOutcomeError     = "error"
)

// Metrics exposes service counters on a dedicated registry.
type Metrics struct {
	registry           *prometheus.Registry
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	errors             *prometheus.CounterVec
	ballots            *prometheus.CounterVec
	throttleRejections *prometheus.CounterVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vote_http_requests_total",
			Help: "Total number of HTTP requests by path, method and status",
		}, []string{"path", "method", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vote_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vote_http_errors_total",
			Help: "Total number of failed HTTP requests by error code",
		}, []string{"path", "method", "code"}),
		ballots: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vote_ballots_total",
			Help: "Vote cast attempts by outcome",
		}, []string{"outcome"}),
		throttleRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vote_throttle_rejections_total",
			Help: "Requests rejected by the request throttle",
		}, []string{"route"}),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(path, method, code).Inc()
}

// RecordVote counts a cast attempt by outcome.
func (m *Metrics) RecordVote(outcome string) {
	if m == nil {
		return
	}
	m.ballots.WithLabelValues(outcome).Inc()
}

// RecordThrottleRejection counts a throttled request.
func (m *Metrics) RecordThrottleRejection(route string) {
	if m == nil {
		return
	}
	m.throttleRejections.WithLabelValues(route).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
