package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics tracks calls made to the hotel API and the chatbot service.
type BackendMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	if reg == nil {
		return &BackendMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hearth_backend_request_duration_seconds",
		Help:    "Latency of upstream API calls.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
	}, []string{"operation"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_backend_requests_total",
		Help: "Upstream API calls by operation and status. Status 0 means no response was received.",
	}, []string{"operation", "status"})
	reg.MustRegister(duration, requests)
	return &BackendMetrics{duration: duration, requests: requests}
}

// Observe records a finished upstream call.
func (b *BackendMetrics) Observe(operation string, status int, duration time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	b.duration.WithLabelValues(op).Observe(duration.Seconds())
	b.requests.WithLabelValues(op, strconv.Itoa(status)).Inc()
}

// CheckoutMetrics counts booking submissions by outcome.
type CheckoutMetrics struct {
	outcomes *prometheus.CounterVec
}

func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hearth_checkout_outcomes_total",
		Help: "Checkout confirmations by outcome kind and booking source.",
	}, []string{"outcome", "source"})
	reg.MustRegister(outcomes)
	return &CheckoutMetrics{outcomes: outcomes}
}

func (c *CheckoutMetrics) IncOutcome(outcome, source string) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.outcomes.WithLabelValues(normalizeLabel(outcome), normalizeLabel(source)).Inc()
}
