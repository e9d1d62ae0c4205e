package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the console's Prometheus collectors.
type Metrics struct {
	reg prometheus.Gatherer

	// HTTP Request Metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Control-plane API Metrics
	backendRequestsTotal   *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec

	// In-flight cap Metrics
	inflightRejectedTotal *prometheus.CounterVec
	inflightErrorsTotal   prometheus.Counter
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in tests.
func New(serviceName string, reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}
	return &Metrics{
		reg: reg,
		httpRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: labels,
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request latency in seconds",
				ConstLabels: labels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		httpRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name:        "http_requests_in_flight",
				Help:        "Number of HTTP requests being served",
				ConstLabels: labels,
			},
		),
		backendRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "vox_api_requests_total",
				Help:        "Requests sent to the control-plane API",
				ConstLabels: labels,
			},
			[]string{"method", "resource", "status"},
		),
		backendRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "vox_api_request_duration_seconds",
				Help:        "Control-plane API round trip latency in seconds",
				ConstLabels: labels,
				Buckets:     prometheus.DefBuckets,
			},
			[]string{"method", "resource"},
		),
		inflightRejectedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "console_inflight_rejected_total",
				Help:        "Requests rejected by the per-tenant in-flight cap",
				ConstLabels: labels,
			},
			[]string{"client_id"},
		),
		inflightErrorsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name:        "console_inflight_errors_total",
				Help:        "In-flight cap lookups that failed and were let through",
				ConstLabels: labels,
			},
		),
	}
}

func (m *Metrics) RecordHTTPRequest(method, endpoint string, status int, dur time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(dur.Seconds())
}

// ObserveRequest records one control-plane round trip. status 0 is a transport failure.
func (m *Metrics) ObserveRequest(method, resource string, status int, dur time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	m.backendRequestsTotal.WithLabelValues(method, resource, label).Inc()
	m.backendRequestDuration.WithLabelValues(method, resource).Observe(dur.Seconds())
}

func (m *Metrics) RecordInflightRejected(clientID string) {
	m.inflightRejectedTotal.WithLabelValues(clientID).Inc()
}

func (m *Metrics) RecordInflightError() { m.inflightErrorsTotal.Inc() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
