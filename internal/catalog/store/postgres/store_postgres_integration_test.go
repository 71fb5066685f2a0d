//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	"catalog/internal/catalog/store/postgres"
	replicamodels "catalog/internal/replica/models"
	replicastore "catalog/internal/replica/store"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres    *containers.PostgresContainer
	tx          *postgres.Tx
	courses     *postgres.CourseStore
	modules     *postgres.ModuleStore
	lessons     *postgres.LessonStore
	enrollments *postgres.EnrollmentStore
	replicas    *replicastore.PostgresStore
	now         time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	db := s.postgres.DB
	s.tx = postgres.NewTx(db, 5*time.Second)
	s.courses = postgres.NewCourseStore(db)
	s.modules = postgres.NewModuleStore(db)
	s.lessons = postgres.NewLessonStore(db)
	s.enrollments = postgres.NewEnrollmentStore(db)
	s.replicas = replicastore.NewPostgres(db)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "lessons", "modules", "course_users", "courses", "user_replicas")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newCourse(name string, createdAt time.Time) *models.Course {
	course := models.NewCourse(id.NewCourseID(), models.CourseFields{
		Name:         name,
		Description:  "about " + name,
		Status:       models.CourseStatusPublished,
		Level:        models.CourseLevelBeginner,
		InstructorID: id.UserID(uuid.New()),
	}, createdAt)
	s.Require().NoError(s.courses.Create(context.Background(), course))
	return course
}

func (s *PostgresStoreSuite) newModule(courseID id.CourseID, title string) *models.Module {
	module := models.NewModule(id.NewModuleID(), courseID, models.ModuleFields{Title: title, Description: "d"}, s.now)
	s.Require().NoError(s.modules.Create(context.Background(), module))
	return module
}

func (s *PostgresStoreSuite) TestCourseRoundTripKeepsFields() {
	ctx := context.Background()
	course := s.newCourse("Go", s.now)

	found, err := s.courses.FindByID(ctx, course.ID)
	s.Require().NoError(err)
	s.Equal(course.Name, found.Name)
	s.Equal(course.InstructorID, found.InstructorID)
	s.Equal(models.CourseLevelBeginner, found.Level)
	s.True(course.CreatedAt.Equal(found.CreatedAt))
	s.Empty(found.ImageURL)
}

func (s *PostgresStoreSuite) TestUniqueNameMapsToAlreadyUsed() {
	ctx := context.Background()
	s.newCourse("Go", s.now)
	other := s.newCourse("Rust", s.now)

	dup := models.NewCourse(id.NewCourseID(), models.CourseFields{Name: "Go", Status: models.CourseStatusDraft, Level: models.CourseLevelAdvanced}, s.now)
	s.ErrorIs(s.courses.Create(ctx, dup), sentinel.ErrAlreadyUsed)

	other.Name = "Go"
	s.ErrorIs(s.courses.Update(ctx, other), sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestForeignKeysMapToSentinels() {
	ctx := context.Background()

	orphan := models.NewModule(id.NewModuleID(), id.NewCourseID(), models.ModuleFields{Title: "x"}, s.now)
	s.ErrorIs(s.modules.Create(ctx, orphan), sentinel.ErrNotFound)

	orphanLesson := models.NewLesson(id.NewLessonID(), id.NewModuleID(), models.LessonFields{Title: "x"}, s.now)
	s.ErrorIs(s.lessons.Create(ctx, orphanLesson), sentinel.ErrNotFound)

	course := s.newCourse("Go", s.now)
	s.newModule(course.ID, "Intro")
	s.ErrorIs(s.courses.Delete(ctx, course.ID), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestMissingRowsAreNotFound() {
	ctx := context.Background()
	_, err := s.courses.FindByID(ctx, id.NewCourseID())
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.courses.Delete(ctx, id.NewCourseID()), sentinel.ErrNotFound)

	ghost := models.NewModule(id.NewModuleID(), id.NewCourseID(), models.ModuleFields{Title: "x"}, s.now)
	s.ErrorIs(s.modules.Update(ctx, ghost), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestBulkDeleteInsideTransaction() {
	ctx := context.Background()
	course := s.newCourse("Go", s.now)
	module := s.newModule(course.ID, "Intro")
	var lessonIDs []id.LessonID
	for i := range 3 {
		lesson := models.NewLesson(id.NewLessonID(), module.ID, models.LessonFields{Title: fmt.Sprintf("L%d", i)}, s.now)
		s.Require().NoError(s.lessons.Create(ctx, lesson))
		lessonIDs = append(lessonIDs, lesson.ID)
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.lessons.DeleteMany(txCtx, lessonIDs); err != nil {
			return err
		}
		if err := s.modules.DeleteMany(txCtx, []id.ModuleID{module.ID}); err != nil {
			return err
		}
		return s.courses.Delete(txCtx, course.ID)
	})
	s.Require().NoError(err)

	_, err = s.courses.FindByID(ctx, course.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	remaining, err := s.lessons.ListByModule(ctx, module.ID)
	s.Require().NoError(err)
	s.Empty(remaining)
}

func (s *PostgresStoreSuite) TestRunInTxRollsBack() {
	ctx := context.Background()
	course := s.newCourse("Go", s.now)
	module := s.newModule(course.ID, "Intro")
	boom := errors.New("boom")

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.modules.DeleteMany(txCtx, []id.ModuleID{module.ID}); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	found, err := s.modules.FindByID(ctx, module.ID)
	s.Require().NoError(err)
	s.Equal(module.Title, found.Title)
}

func (s *PostgresStoreSuite) TestConcurrentEnrollmentOneWinner() {
	ctx := context.Background()
	course := s.newCourse("Go", s.now)
	userID := id.UserID(uuid.New())

	var wg sync.WaitGroup
	var created, duplicates atomic.Int32
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.enrollments.Create(ctx, &models.Enrollment{CourseID: course.ID, UserID: userID, CreatedAt: s.now})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				duplicates.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	s.Equal(int32(7), duplicates.Load())
	exists, err := s.enrollments.Exists(ctx, course.ID, userID)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *PostgresStoreSuite) TestEnrollmentOnMissingCourseIsNotFound() {
	err := s.enrollments.Create(context.Background(), &models.Enrollment{
		CourseID: id.NewCourseID(), UserID: id.UserID(uuid.New()), CreatedAt: s.now,
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListCoursesFiltersAndPages() {
	ctx := context.Background()
	for i := range 5 {
		course := s.newCourse(fmt.Sprintf("Course %d", i), s.now.Add(time.Duration(i)*time.Minute))
		if i%2 == 1 {
			course.Level = models.CourseLevelAdvanced
			s.Require().NoError(s.courses.Update(ctx, course))
		}
	}

	pred, err := query.Unscoped(query.Courses).Eq(query.FieldLevel, "BEGINNER").Contains(query.FieldName, "course").Build()
	s.Require().NoError(err)
	page, err := query.NewPage(query.Courses, 0, 2, "", true, 0)
	s.Require().NoError(err)

	items, total, err := s.courses.List(ctx, pred, page)
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(items, 2)
	s.Equal("Course 4", items[0].Name)
	s.Equal("Course 2", items[1].Name)
}

func (s *PostgresStoreSuite) TestListCoursesByEnrolledUser() {
	ctx := context.Background()
	enrolled := s.newCourse("Go", s.now)
	s.newCourse("Rust", s.now)
	userID := id.UserID(uuid.New())
	s.Require().NoError(s.enrollments.Create(ctx, &models.Enrollment{CourseID: enrolled.ID, UserID: userID, CreatedAt: s.now}))

	pred, err := query.Unscoped(query.Courses).Eq(query.FieldUserID, userID.String()).Build()
	s.Require().NoError(err)
	page, _ := query.NewPage(query.Courses, 0, 10, "", false, 0)

	items, total, err := s.courses.List(ctx, pred, page)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(items, 1)
	s.Equal(enrolled.ID, items[0].ID)
}

func (s *PostgresStoreSuite) TestListModulesEscapesLikeWildcards() {
	ctx := context.Background()
	course := s.newCourse("Go", s.now)
	s.newModule(course.ID, "100% Go")
	s.newModule(course.ID, "1000 Go")

	pred, err := query.Scoped(query.Modules, query.FieldCourseID, course.ID.String()).Contains(query.FieldTitle, "0%").Build()
	s.Require().NoError(err)
	page, _ := query.NewPage(query.Modules, 0, 10, query.FieldTitle, false, 0)

	items, total, err := s.modules.List(ctx, pred, page)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("100% Go", items[0].Title)
}

func (s *PostgresStoreSuite) TestListUsersExcludesDeletedReplicas() {
	ctx := context.Background()
	course := s.newCourse("Go", s.now)
	var ids []id.UserID
	for _, name := range []string{"bob", "ana", "carl"} {
		userID := id.UserID(uuid.New())
		ids = append(ids, userID)
		_, err := s.replicas.Upsert(ctx, &replicamodels.UserReplica{
			UserID: userID, Email: name + "@x.io", FullName: name,
			Status: replicamodels.UserStatusActive, Type: replicamodels.UserTypeStudent,
		})
		s.Require().NoError(err)
		s.Require().NoError(s.enrollments.Create(ctx, &models.Enrollment{CourseID: course.ID, UserID: userID, CreatedAt: s.now}))
	}
	_, err := s.replicas.Delete(ctx, ids[2], 0)
	s.Require().NoError(err)

	pred, err := query.Scoped(query.EnrolledUsers, query.FieldCourseID, course.ID.String()).
		Eq(query.FieldStatus, "ACTIVE").
		Build()
	s.Require().NoError(err)
	page, _ := query.NewPage(query.EnrolledUsers, 0, 10, query.FieldFullName, false, 0)

	users, total, err := s.enrollments.ListUsers(ctx, pred, page)
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(users, 2)
	s.Equal("ana", users[0].FullName)
	s.Equal("bob", users[1].FullName)
}
