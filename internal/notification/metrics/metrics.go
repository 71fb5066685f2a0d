package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for notification dispatch.
type Metrics struct {
	Published             prometheus.Counter
	Failed                *prometheus.CounterVec
	CircuitBreakerDropped prometheus.Counter
	CircuitBreakerState   prometheus.Gauge
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Published: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_notifications_published_total",
			Help: "Total notifications accepted by the notification channel",
		}),
		Failed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_notifications_failed_total",
			Help: "Total notifications that could not be delivered, by reason",
		}, []string{"reason"}), // reason: "timed_out", "unavailable", "encode"
		CircuitBreakerDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_notifications_circuit_breaker_dropped_total",
			Help: "Total notifications dropped because the circuit breaker was open",
		}),
		CircuitBreakerState: f.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_notifications_circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed/healthy, 1=open/unhealthy)",
		}),
	}
}

func (m *Metrics) IncPublished() {
	if m != nil {
		m.Published.Inc()
	}
}

func (m *Metrics) IncFailed(reason string) {
	if m != nil {
		m.Failed.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) IncCircuitBreakerDropped() {
	if m != nil {
		m.CircuitBreakerDropped.Inc()
	}
}

func (m *Metrics) SetCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
		return
	}
	m.CircuitBreakerState.Set(0)
}
