package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/service/mocks"
	"catalog/internal/catalog/store/memory"
	"catalog/internal/notification"
	replicamodels "catalog/internal/replica/models"
	replicastore "catalog/internal/replica/store"
	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/sentinel"
)

type EnrollmentSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	notifier *mocks.MockNotifier
	replicas *replicastore.InMemory
	db       *memory.DB
	service  *EnrollmentService
	ctx      context.Context
}

func TestEnrollmentSuite(t *testing.T) {
	suite.Run(t, new(EnrollmentSuite))
}

func (s *EnrollmentSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.replicas = replicastore.NewInMemory()
	s.db = memory.New(s.replicas)
	s.ctx = context.Background()
	s.service = NewEnrollmentService(Stores{
		Tx:          s.db,
		Courses:     s.db.Courses(),
		Modules:     s.db.Modules(),
		Lessons:     s.db.Lessons(),
		Enrollments: s.db.Enrollments(),
		Replicas:    s.replicas,
	},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithNotifier(s.notifier),
	)
}

func (s *EnrollmentSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EnrollmentSuite) course(name string) *models.Course {
	course := models.NewCourse(id.NewCourseID(), models.CourseFields{
		Name:   name,
		Status: models.CourseStatusPublished,
		Level:  models.CourseLevelBeginner,
	}, time.Now())
	s.Require().NoError(s.db.Courses().Create(s.ctx, course))
	return course
}

func (s *EnrollmentSuite) sync(userID id.UserID, name string, status replicamodels.UserStatus) {
	_, err := s.replicas.Upsert(s.ctx, &replicamodels.UserReplica{
		UserID:   userID,
		Email:    name + "@example.com",
		FullName: name,
		Status:   status,
		Type:     replicamodels.UserTypeStudent,
	})
	s.Require().NoError(err)
}

func (s *EnrollmentSuite) requireCode(err error, code dErrors.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.Require().True(dErrors.HasCode(err, code), "want %s, got %v", code, err)
}

func (s *EnrollmentSuite) TestSubscribeBlockedUserAndDuplicates() {
	c1 := s.course("Algebra I")
	c2 := s.course("Geometry")
	u2 := id.UserID(uuid.New())
	s.sync(u2, "Ana", replicamodels.UserStatusActive)

	s.notifier.EXPECT().
		Publish(gomock.Any(), notification.Notification{
			Title:       "welcome to course",
			Message:     "Ana, you are now subscribed to Algebra I",
			RecipientID: u2,
		}).
		Return(notification.OutcomeDelivered).
		Times(1)

	enrollment, err := s.service.Subscribe(s.ctx, c1.ID, u2)
	s.Require().NoError(err)
	s.Equal(c1.ID, enrollment.CourseID)

	_, err = s.service.Subscribe(s.ctx, c1.ID, u2)
	s.requireCode(err, dErrors.CodeConflict)

	s.sync(u2, "Ana", replicamodels.UserStatusBlocked)
	_, err = s.service.Subscribe(s.ctx, c2.ID, u2)
	s.requireCode(err, dErrors.CodeConflict)
	s.Contains(err.Error(), "blocked")

	exists, err := s.db.Enrollments().Exists(s.ctx, c2.ID, u2)
	s.Require().NoError(err)
	s.False(exists, "no enrollment for a blocked user")
}

func (s *EnrollmentSuite) TestSubscribeCheckOrder() {
	course := s.course("Go")
	known := id.UserID(uuid.New())
	s.sync(known, "Bo", replicamodels.UserStatusActive)

	s.Run("missing course is reported before missing user", func() {
		_, err := s.service.Subscribe(s.ctx, id.NewCourseID(), id.UserID(uuid.New()))
		s.requireCode(err, dErrors.CodeNotFound)
		s.Contains(err.Error(), "course")
	})

	s.Run("missing user", func() {
		_, err := s.service.Subscribe(s.ctx, course.ID, id.UserID(uuid.New()))
		s.requireCode(err, dErrors.CodeNotFound)
		s.Contains(err.Error(), "user")
	})

	s.Run("existing enrollment is reported before blocked status", func() {
		s.notifier.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(notification.OutcomeDelivered)
		_, err := s.service.Subscribe(s.ctx, course.ID, known)
		s.Require().NoError(err)

		s.sync(known, "Bo", replicamodels.UserStatusBlocked)
		_, err = s.service.Subscribe(s.ctx, course.ID, known)
		s.requireCode(err, dErrors.CodeConflict)
		s.Contains(err.Error(), "already subscribed")
	})

	s.Run("deleted replica is an unknown user", func() {
		gone := id.UserID(uuid.New())
		s.sync(gone, "Gone", replicamodels.UserStatusActive)
		_, err := s.replicas.Delete(s.ctx, gone, 0)
		s.Require().NoError(err)

		_, err = s.service.Subscribe(s.ctx, course.ID, gone)
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *EnrollmentSuite) TestNotificationFailureDoesNotFailSubscribe() {
	course := s.course("Go")
	userID := id.UserID(uuid.New())
	s.sync(userID, "Cy", replicamodels.UserStatusActive)

	s.notifier.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(notification.OutcomeUnavailable)

	_, err := s.service.Subscribe(s.ctx, course.ID, userID)
	s.Require().NoError(err)
	exists, err := s.db.Enrollments().Exists(s.ctx, course.ID, userID)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *EnrollmentSuite) TestConcurrentSubscribeOneWinner() {
	course := s.course("Go")
	userID := id.UserID(uuid.New())
	s.sync(userID, "Di", replicamodels.UserStatusActive)
	s.notifier.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(notification.OutcomeDelivered).Times(1)

	var wg sync.WaitGroup
	var created, conflicts atomic.Int32
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Subscribe(s.ctx, course.ID, userID)
			switch {
			case err == nil:
				created.Add(1)
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	s.Equal(int32(9), conflicts.Load())
}

func (s *EnrollmentSuite) TestListEnrolledUsers() {
	course := s.course("Go")
	s.notifier.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(notification.OutcomeDelivered).AnyTimes()
	for _, name := range []string{"zed", "amy", "bob"} {
		userID := id.UserID(uuid.New())
		s.sync(userID, name, replicamodels.UserStatusActive)
		_, err := s.service.Subscribe(s.ctx, course.ID, userID)
		s.Require().NoError(err)
	}

	result, err := s.service.ListEnrolledUsers(s.ctx, course.ID, UserFilter{Email: "example.com"}, PageRequest{Sort: "fullName"})
	s.Require().NoError(err)
	s.Equal(int64(3), result.TotalElements)
	s.Equal("amy", result.Items[0].FullName)

	result, err = s.service.ListEnrolledUsers(s.ctx, course.ID, UserFilter{FullName: "B", Type: "student"}, PageRequest{})
	s.Require().NoError(err)
	s.Require().Len(result.Items, 1)
	s.Equal("bob", result.Items[0].FullName)

	_, err = s.service.ListEnrolledUsers(s.ctx, course.ID, UserFilter{Status: "SLEEPING"}, PageRequest{})
	s.requireCode(err, dErrors.CodeValidation)

	_, err = s.service.ListEnrolledUsers(s.ctx, id.NewCourseID(), UserFilter{}, PageRequest{})
	s.requireCode(err, dErrors.CodeNotFound)
}

// EnrollmentMockSuite drives the service against gomock stores to check error
// translation at each step.
type EnrollmentMockSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	tx          *mocks.MockTxRunner
	courses     *mocks.MockCourseStore
	enrollments *mocks.MockEnrollmentStore
	replicas    *mocks.MockReplicaReader
	notifier    *mocks.MockNotifier
	service     *EnrollmentService
}

func TestEnrollmentMockSuite(t *testing.T) {
	suite.Run(t, new(EnrollmentMockSuite))
}

func (s *EnrollmentMockSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.tx = mocks.NewMockTxRunner(s.ctrl)
	s.courses = mocks.NewMockCourseStore(s.ctrl)
	s.enrollments = mocks.NewMockEnrollmentStore(s.ctrl)
	s.replicas = mocks.NewMockReplicaReader(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.service = NewEnrollmentService(Stores{
		Tx:          s.tx,
		Courses:     s.courses,
		Enrollments: s.enrollments,
		Replicas:    s.replicas,
	},
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithNotifier(s.notifier),
	)
	s.tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).AnyTimes()
}

func (s *EnrollmentMockSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EnrollmentMockSuite) TestStoreFailuresAreInternal() {
	ctx := context.Background()
	course := &models.Course{ID: id.NewCourseID(), Name: "Go"}
	user := &replicamodels.UserReplica{UserID: id.UserID(uuid.New()), FullName: "Ed", Status: replicamodels.UserStatusActive}
	boom := errors.New("connection reset")

	s.Run("course lookup", func() {
		s.courses.EXPECT().FindByID(gomock.Any(), course.ID).Return(nil, boom)
		_, err := s.service.Subscribe(ctx, course.ID, user.UserID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.ErrorIs(err, boom)
	})

	s.Run("insert", func() {
		s.courses.EXPECT().FindByID(gomock.Any(), course.ID).Return(course, nil)
		s.replicas.EXPECT().FindByID(gomock.Any(), user.UserID).Return(user, nil)
		s.enrollments.EXPECT().Exists(gomock.Any(), course.ID, user.UserID).Return(false, nil)
		s.enrollments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(boom)
		_, err := s.service.Subscribe(ctx, course.ID, user.UserID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *EnrollmentMockSuite) TestUniqueViolationAtInsertIsConflict() {
	ctx := context.Background()
	course := &models.Course{ID: id.NewCourseID(), Name: "Go"}
	user := &replicamodels.UserReplica{UserID: id.UserID(uuid.New()), FullName: "Ed", Status: replicamodels.UserStatusActive}

	s.courses.EXPECT().FindByID(gomock.Any(), course.ID).Return(course, nil)
	s.replicas.EXPECT().FindByID(gomock.Any(), user.UserID).Return(user, nil)
	s.enrollments.EXPECT().Exists(gomock.Any(), course.ID, user.UserID).Return(false, nil)
	s.enrollments.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinelAlreadyUsed())

	_, err := s.service.Subscribe(ctx, course.ID, user.UserID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func sentinelAlreadyUsed() error {
	return fmt.Errorf("insert enrollment: %w", sentinel.ErrAlreadyUsed)
}
