package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for replica synchronization.
type Metrics struct {
	Applied      *prometheus.CounterVec
	Ignored      *prometheus.CounterVec
	Malformed    prometheus.Counter
	Failed       prometheus.Counter
	Retries      prometheus.Counter
	ApplyLatency prometheus.Histogram
	BatchSize    prometheus.Histogram
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Applied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_replica_events_applied_total",
			Help: "Total identity events that changed the replica, by action",
		}, []string{"action"}),
		Ignored: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_replica_events_ignored_total",
			Help: "Total identity events ignored because a newer version is stored, by action",
		}, []string{"action"}),
		Malformed: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_replica_events_malformed_total",
			Help: "Total identity events skipped because they could not be decoded",
		}),
		Failed: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_replica_events_failed_total",
			Help: "Total applies that exhausted retries and failed their batch",
		}),
		Retries: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_replica_apply_retries_total",
			Help: "Total apply retries after transient store failures",
		}),
		ApplyLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_replica_apply_duration_seconds",
			Help:    "Duration of a single replica apply including retries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		BatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_replica_batch_size",
			Help:    "Number of records per consumed batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (m *Metrics) IncApplied(action string) {
	if m != nil {
		m.Applied.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) IncIgnored(action string) {
	if m != nil {
		m.Ignored.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) IncMalformed() {
	if m != nil {
		m.Malformed.Inc()
	}
}

func (m *Metrics) IncFailed() {
	if m != nil {
		m.Failed.Inc()
	}
}

func (m *Metrics) IncRetry() {
	if m != nil {
		m.Retries.Inc()
	}
}

// ObserveApply records the duration of one apply. Call with time.Now() at the start.
func (m *Metrics) ObserveApply(start time.Time) {
	if m != nil {
		m.ApplyLatency.Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveBatch(n int) {
	if m != nil {
		m.BatchSize.Observe(float64(n))
	}
}
