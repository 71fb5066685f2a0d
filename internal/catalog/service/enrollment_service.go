package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	"catalog/internal/notification"
	replicamodels "catalog/internal/replica/models"
	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/requestcontext"
)

const welcomeTitle = "welcome to course"

var (
	errAlreadyEnrolled = dErrors.New(dErrors.CodeConflict, "user is already subscribed to this course")
	errUserBlocked     = dErrors.New(dErrors.CodeConflict, "user is blocked")
)

type EnrollmentService struct {
	stores Stores
	deps
}

func NewEnrollmentService(stores Stores, opts ...Option) *EnrollmentService {
	return &EnrollmentService{stores: stores, deps: newDeps(opts)}
}

// Subscribe enrolls a user in a course. Checks run in order: course exists,
// user replica exists, not already enrolled, user not blocked. The storage
// uniqueness constraint settles concurrent subscriptions for the same pair.
//
// After commit a welcome notification is dispatched; its outcome never affects
// the result.
func (s *EnrollmentService) Subscribe(ctx context.Context, courseID id.CourseID, userID id.UserID) (_ *models.Enrollment, err error) {
	ctx, span := s.tracer.Start(ctx, "EnrollmentService.Subscribe")
	span.SetAttributes(
		attribute.String("course.id", courseID.String()),
		attribute.String("user.id", userID.String()),
	)
	defer func() { endSpan(span, err) }()

	var (
		course     *models.Course
		user       *replicamodels.UserReplica
		enrollment *models.Enrollment
	)
	err = s.stores.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		course, err = s.stores.Courses.FindByID(txCtx, courseID)
		if err != nil {
			return translate(err, "course not found", "", "failed to load course")
		}
		user, err = s.stores.Replicas.FindByID(txCtx, userID)
		if err != nil {
			return translate(err, "user not found", "", "failed to load user")
		}
		exists, err := s.stores.Enrollments.Exists(txCtx, courseID, userID)
		if err != nil {
			return translate(err, "", "", "failed to check subscription")
		}
		if exists {
			return errAlreadyEnrolled
		}
		if user.IsBlocked() {
			return errUserBlocked
		}
		enrollment = &models.Enrollment{
			CourseID:  courseID,
			UserID:    userID,
			CreatedAt: requestcontext.Now(ctx).UTC(),
		}
		if err := s.stores.Enrollments.Create(txCtx, enrollment); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return errAlreadyEnrolled
			}
			return translate(err, "course not found", "", "failed to save subscription")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncEnrollment(enrollmentOutcome(err))
		return nil, translate(err, "", "", "failed to subscribe")
	}
	s.metrics.IncEnrollment("created")
	s.logger.InfoContext(ctx, "user subscribed to course",
		"course_id", courseID.String(),
		"user_id", userID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)

	if s.notifier != nil {
		_ = s.notifier.Publish(ctx, notification.Notification{
			Title:       welcomeTitle,
			Message:     fmt.Sprintf("%s, you are now subscribed to %s", user.FullName, course.Name),
			RecipientID: userID,
		})
	}
	return enrollment, nil
}

func enrollmentOutcome(err error) string {
	switch {
	case errors.Is(err, errAlreadyEnrolled):
		return "duplicate"
	case errors.Is(err, errUserBlocked):
		return "blocked"
	case dErrors.HasCode(err, dErrors.CodeNotFound):
		return "not_found"
	}
	return "error"
}

// ListEnrolledUsers pages the live replicas of users enrolled in courseID. The
// enrollment scope is always applied on top of the caller's filter.
func (s *EnrollmentService) ListEnrolledUsers(ctx context.Context, courseID id.CourseID, filter UserFilter, req PageRequest) (query.Result[*replicamodels.UserReplica], error) {
	pred, err := filter.predicate(courseID)
	if err != nil {
		return query.Result[*replicamodels.UserReplica]{}, err
	}
	page, err := s.page(query.EnrolledUsers, req)
	if err != nil {
		return query.Result[*replicamodels.UserReplica]{}, err
	}
	if _, err := s.stores.Courses.FindByID(ctx, courseID); err != nil {
		return query.Result[*replicamodels.UserReplica]{}, translate(err, "course not found", "", "failed to load course")
	}
	users, total, err := s.stores.Enrollments.ListUsers(ctx, pred, page)
	if err != nil {
		return query.Result[*replicamodels.UserReplica]{}, translate(err, "", "", "failed to list users")
	}
	return query.NewResult(users, page, total), nil
}
