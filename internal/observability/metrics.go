// Package observability holds the Prometheus metrics of the service and
// the handler that exposes them on /metrics.
//
// Metrics are created against an explicit registry so tests can build an
// isolated set with prometheus.NewRegistry().
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "birthdays"

// Mutation kinds recorded by RecordMutation.
const (
	MutationCreate = "create"
	MutationUpdate = "update"
	MutationDelete = "delete"
	MutationClone  = "clone"
	MutationImport = "import"
)

// Metrics is the set of collectors the HTTP layer records into. The
// recording methods are no-ops on a nil *Metrics.
type Metrics struct {
	// RequestsTotal counts handled requests.
	// Labels: method, route (the ServeMux pattern), code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration measures handler latency.
	// Labels: method, route.
	RequestDuration *prometheus.HistogramVec

	// RateLimitedTotal counts requests rejected with 429.
	RateLimitedTotal prometheus.Counter

	// MutationsTotal counts successful writes by kind.
	// Labels: kind (create, update, delete, clone, import).
	MutationsTotal *prometheus.CounterVec

	// Records is the size of the birthdays collection at the last read.
	Records prometheus.Gauge

	gatherer prometheus.Gatherer
}

// NewMetrics creates and registers every collector on reg. Registering
// twice on the same registry panics.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Handled HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP handler latency in seconds",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),

		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),

		MutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "mutations_total",
			Help:      "Successful writes to the birthdays collection by kind",
		}, []string{"kind"}),

		Records: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "records",
			Help:      "Number of stored birthdays at the last list or dashboard read",
		}),

		gatherer: reg,
	}
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordRateLimited counts one rejected request.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

// RecordMutation counts n successful writes of kind.
func (m *Metrics) RecordMutation(kind string, n int) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(kind).Add(float64(n))
}

// SetRecords publishes the current collection size.
func (m *Metrics) SetRecords(n int) {
	if m == nil {
		return
	}
	m.Records.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
