package cdp

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Wait outcomes reported by observeWait.
const (
	waitOutcomeCompleted = "completed"
	waitOutcomeTimeout   = "timeout"
	waitOutcomeError     = "error"
)

// Metrics contains the SDK's Prometheus metrics. Instrumentation is opt-in:
// the client carries a nil *Metrics unless WithMetrics is supplied, and all
// observe helpers are nil-safe.
type Metrics struct {
	// API request metrics
	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Wait metrics
	WaitsTotal   *prometheus.CounterVec
	WaitDuration *prometheus.HistogramVec

	// Pagination metrics
	PagesFetched prometheus.Counter
}

// NewMetrics initializes and registers Prometheus metrics
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(nil)
}

// NewMetricsWithRegistry initializes and registers Prometheus metrics with a custom registry
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	metrics := &Metrics{
		APIRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdp_sdk_api_requests_total",
				Help: "The total number of platform API requests by method and status class",
			},
			[]string{"method", "status"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cdp_sdk_api_request_duration_seconds",
				Help:    "Platform API request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		WaitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cdp_sdk_waits_total",
				Help: "The total number of operation waits by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		WaitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cdp_sdk_wait_duration_seconds",
				Help:    "Time spent waiting for operations to reach a terminal state",
				Buckets: []float64{.2, .5, 1, 2.5, 5, 10, 20, 60, 120, 300, 600},
			},
			[]string{"kind"},
		),
		PagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Name: "cdp_sdk_pages_fetched_total",
			Help: "The total number of list pages fetched",
		}),
	}

	return metrics
}

// observeRequest records one completed API request. A status of 0 means the
// request never produced a response (transport error).
func (m *Metrics) observeRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(method, statusClass(status)).Inc()
	m.APIRequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// observeWait records one finished wait, whatever its outcome.
func (m *Metrics) observeWait(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.WaitsTotal.WithLabelValues(kind, outcome).Inc()
	m.WaitDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// observePage records one fetched list page.
func (m *Metrics) observePage() {
	if m == nil {
		return
	}
	m.PagesFetched.Inc()
}

func statusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return fmt.Sprintf("%dxx", status/100)
}
