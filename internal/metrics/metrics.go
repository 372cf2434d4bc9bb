// Package metrics holds the Prometheus instruments of the payment engine.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for MindfulPay. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	decisions          *prometheus.CounterVec
	overrides          *prometheus.CounterVec
	dispatchErrors     prometheus.Counter
	storageErrors      *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates a dedicated Prometheus registry and registers all application
// metrics in it. A private registry keeps tests from hitting duplicate
// collector panics.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindfulpay_payment_decisions_total",
				Help: "Payment gate outcomes by resulting state.",
			},
			[]string{"state"},
		),
		overrides: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindfulpay_emergency_overrides_total",
				Help: "Confirmed emergency overrides by block reason.",
			},
			[]string{"reason"},
		),
		dispatchErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mindfulpay_dispatch_errors_total",
				Help: "Failed hand-offs to the UPI app.",
			},
		),
		storageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindfulpay_storage_errors_total",
				Help: "Persistence failures by component.",
			},
			[]string{"component"},
		),
		evaluationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mindfulpay_limit_evaluation_duration_seconds",
				Help:    "Duration of spending limit evaluation.",
				Buckets: prometheus.DefBuckets,
			},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mindfulpay_http_requests_total",
				Help: "HTTP requests by route and status.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mindfulpay_http_request_duration_seconds",
				Help:    "HTTP request latency by route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// IncrDecision counts a gate outcome.
func (m *Metrics) IncrDecision(state string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(state).Inc()
}

// IncrOverride counts a confirmed emergency override.
func (m *Metrics) IncrOverride(reason string) {
	if m == nil {
		return
	}
	m.overrides.WithLabelValues(reason).Inc()
}

// IncrDispatchError counts a failed UPI hand-off.
func (m *Metrics) IncrDispatchError() {
	if m == nil {
		return
	}
	m.dispatchErrors.Inc()
}

// IncrStorageError counts a persistence failure.
func (m *Metrics) IncrStorageError(component string) {
	if m == nil {
		return
	}
	m.storageErrors.WithLabelValues(component).Inc()
}

// ObserveEvaluation records how long a limit evaluation took.
func (m *Metrics) ObserveEvaluation(d time.Duration) {
	if m == nil {
		return
	}
	m.evaluationDuration.Observe(d.Seconds())
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Decisions exposes the decision counter for assertions.
func (m *Metrics) Decisions() *prometheus.CounterVec { return m.decisions }

// Overrides exposes the override counter for assertions.
func (m *Metrics) Overrides() *prometheus.CounterVec { return m.overrides }

// DispatchErrors exposes the dispatch error counter for assertions.
func (m *Metrics) DispatchErrors() prometheus.Counter { return m.dispatchErrors }

// StorageErrors exposes the storage error counter for assertions.
func (m *Metrics) StorageErrors() *prometheus.CounterVec { return m.storageErrors }
