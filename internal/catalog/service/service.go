// Package service implements the catalog use cases: hierarchy CRUD, cascade
// deletion and enrollment. Every mutation runs inside one store transaction;
// store sentinels are translated into coded domain errors here.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"catalog/internal/catalog/metrics"
	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	"catalog/internal/notification"
	replicamodels "catalog/internal/replica/models"
	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/sentinel"
)

const defaultCascadeTimeout = 30 * time.Second

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, courseID id.CourseID) (*models.Course, error)
	Delete(ctx context.Context, courseID id.CourseID) error
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Course, int64, error)
}

type ModuleStore interface {
	Create(ctx context.Context, module *models.Module) error
	Update(ctx context.Context, module *models.Module) error
	FindByID(ctx context.Context, moduleID id.ModuleID) (*models.Module, error)
	ListByCourse(ctx context.Context, courseID id.CourseID) ([]*models.Module, error)
	DeleteMany(ctx context.Context, moduleIDs []id.ModuleID) error
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Module, int64, error)
}

type LessonStore interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	FindByID(ctx context.Context, lessonID id.LessonID) (*models.Lesson, error)
	ListByModule(ctx context.Context, moduleID id.ModuleID) ([]*models.Lesson, error)
	DeleteMany(ctx context.Context, lessonIDs []id.LessonID) error
	List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Lesson, int64, error)
}

type EnrollmentStore interface {
	Exists(ctx context.Context, courseID id.CourseID, userID id.UserID) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	DeleteByCourse(ctx context.Context, courseID id.CourseID) error
	ListUsers(ctx context.Context, pred query.Predicate, page query.Page) ([]*replicamodels.UserReplica, int64, error)
}

type ReplicaReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*replicamodels.UserReplica, error)
}

// InstructorPolicy decides whether the caller may name instructorID as a
// course instructor.
type InstructorPolicy interface {
	AuthorizeInstructor(ctx context.Context, instructorID id.UserID) error
}

type Notifier interface {
	Publish(ctx context.Context, n notification.Notification) notification.Outcome
}

// CourseCache drops cached course reads after a committed change.
type CourseCache interface {
	Invalidate(ctx context.Context, courseID id.CourseID)
}

// Stores bundles the persistence collaborators shared by the services.
type Stores struct {
	Tx          TxRunner
	Courses     CourseStore
	Modules     ModuleStore
	Lessons     LessonStore
	Enrollments EnrollmentStore
	Replicas    ReplicaReader
}

type deps struct {
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	policy         InstructorPolicy
	notifier       Notifier
	cache          CourseCache
	cascadeTimeout time.Duration
	maxPageSize    int
}

type Option func(*deps)

func WithLogger(logger *slog.Logger) Option {
	return func(d *deps) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *deps) {
		d.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(d *deps) {
		d.tracer = t
	}
}

func WithInstructorPolicy(p InstructorPolicy) Option {
	return func(d *deps) {
		d.policy = p
	}
}

func WithNotifier(n Notifier) Option {
	return func(d *deps) {
		d.notifier = n
	}
}

func WithCourseCache(c CourseCache) Option {
	return func(d *deps) {
		d.cache = c
	}
}

// WithCascadeTimeout bounds a cascade delete once it has been admitted.
func WithCascadeTimeout(timeout time.Duration) Option {
	return func(d *deps) {
		if timeout > 0 {
			d.cascadeTimeout = timeout
		}
	}
}

// WithMaxPageSize caps list page sizes; 0 leaves them unbounded.
func WithMaxPageSize(n int) Option {
	return func(d *deps) {
		d.maxPageSize = n
	}
}

func newDeps(opts []Option) deps {
	d := deps{
		logger:         slog.Default(),
		tracer:         otel.Tracer("catalog/service"),
		cascadeTimeout: defaultCascadeTimeout,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// detached returns a context that survives caller cancellation, bounded by the
// cascade timeout. Request-scoped values stay visible.
func (d *deps) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), d.cascadeTimeout)
}

// translate maps a store error to a coded error. Errors that already carry a
// code pass through unchanged.
func translate(err error, notFound, conflict, internal string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, notFound)
	case errors.Is(err, sentinel.ErrAlreadyUsed), errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, conflict)
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, internal)
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internal)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
