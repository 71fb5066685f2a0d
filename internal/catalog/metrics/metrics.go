package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the catalog module.
// Tracks cascade deletes, enrollments and course cache effectiveness.
type Metrics struct {
	CascadeDuration  *prometheus.HistogramVec
	CascadeDeleted   *prometheus.CounterVec
	Enrollments      *prometheus.CounterVec
	CourseCacheHits  prometheus.Counter
	CourseCacheMiss  prometheus.Counter
	CourseCacheError prometheus.Counter
}

// New creates a new Metrics instance registered with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CascadeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_cascade_delete_duration_seconds",
			Help:    "Duration of cascade delete transactions by root entity and outcome",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"root", "outcome"}),
		CascadeDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cascade_deleted_entities_total",
			Help: "Total number of entities removed by committed cascade deletes",
		}, []string{"entity"}),
		Enrollments: f.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_enrollments_total",
			Help: "Total subscribe attempts by outcome",
		}, []string{"outcome"}), // outcome: "created", "duplicate", "blocked", "not_found", "error"
		CourseCacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_course_cache_hits_total",
			Help: "Total course lookups served from the cache",
		}),
		CourseCacheMiss: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_course_cache_misses_total",
			Help: "Total course lookups that fell through to the database",
		}),
		CourseCacheError: f.NewCounter(prometheus.CounterOpts{
			Name: "catalog_course_cache_errors_total",
			Help: "Total cache operations that failed and degraded to the database",
		}),
	}
}

// ObserveCascade records a cascade delete rooted at root ("course" or "module").
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCascade(root, outcome string, start time.Time) {
	if m != nil {
		m.CascadeDuration.WithLabelValues(root, outcome).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) AddCascadeDeleted(entity string, n int) {
	if m != nil && n > 0 {
		m.CascadeDeleted.WithLabelValues(entity).Add(float64(n))
	}
}

func (m *Metrics) IncEnrollment(outcome string) {
	if m != nil {
		m.Enrollments.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) IncCacheHit() {
	if m != nil {
		m.CourseCacheHits.Inc()
	}
}

func (m *Metrics) IncCacheMiss() {
	if m != nil {
		m.CourseCacheMiss.Inc()
	}
}

func (m *Metrics) IncCacheError() {
	if m != nil {
		m.CourseCacheError.Inc()
	}
}
