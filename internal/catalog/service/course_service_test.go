package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"catalog/internal/catalog/authz"
	"catalog/internal/catalog/metrics"
	"catalog/internal/catalog/models"
	"catalog/internal/catalog/store/memory"
	replicamodels "catalog/internal/replica/models"
	replicastore "catalog/internal/replica/store"
	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/requestcontext"
)

// CatalogSuite runs the services against the in-memory stores so cascade and
// rollback behavior is observed end to end.
type CatalogSuite struct {
	suite.Suite
	replicas   *replicastore.InMemory
	db         *memory.DB
	stores     Stores
	courses    *CourseService
	modules    *ModuleService
	lessons    *LessonService
	instructor id.UserID
	ctx        context.Context
	now        time.Time
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.replicas = replicastore.NewInMemory()
	s.db = memory.New(s.replicas)
	s.stores = Stores{
		Tx:          s.db,
		Courses:     s.db.Courses(),
		Modules:     s.db.Modules(),
		Lessons:     s.db.Lessons(),
		Enrollments: s.db.Enrollments(),
		Replicas:    s.replicas,
	}
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.instructor = s.seedUser(replicamodels.UserTypeInstructor, replicamodels.UserStatusActive)
	s.ctx = requestcontext.WithTime(requestcontext.WithUserID(context.Background(), s.instructor), s.now)
	s.build(s.stores)
}

func (s *CatalogSuite) build(stores Stores) {
	opts := []Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())),
		WithInstructorPolicy(authz.NewInstructorPolicy(s.replicas)),
	}
	s.courses = NewCourseService(stores, opts...)
	s.modules = NewModuleService(stores, opts...)
	s.lessons = NewLessonService(stores, opts...)
}

func (s *CatalogSuite) seedUser(userType replicamodels.UserType, status replicamodels.UserStatus) id.UserID {
	userID := id.UserID(uuid.New())
	_, err := s.replicas.Upsert(context.Background(), &replicamodels.UserReplica{
		UserID:   userID,
		Email:    userID.String() + "@example.com",
		FullName: "User " + userID.String()[:8],
		Status:   status,
		Type:     userType,
	})
	s.Require().NoError(err)
	return userID
}

func (s *CatalogSuite) courseFields(name string) models.CourseFields {
	return models.CourseFields{
		Name:         name,
		Description:  "about " + name,
		Status:       models.CourseStatusPublished,
		Level:        models.CourseLevelBeginner,
		InstructorID: s.instructor,
	}
}

// tree creates a course with the given number of modules, each holding
// lessonsPer lessons.
func (s *CatalogSuite) tree(name string, modules, lessonsPer int) (*models.Course, []*models.Module, []*models.Lesson) {
	course, err := s.courses.Create(s.ctx, s.courseFields(name))
	s.Require().NoError(err)
	var ms []*models.Module
	var ls []*models.Lesson
	for range modules {
		m, err := s.modules.Create(s.ctx, course.ID, models.ModuleFields{Title: "Unit", Description: "d"})
		s.Require().NoError(err)
		ms = append(ms, m)
		for range lessonsPer {
			l, err := s.lessons.Create(s.ctx, m.ID, models.LessonFields{Title: "Intro", VideoURL: "https://video.example.com/1"})
			s.Require().NoError(err)
			ls = append(ls, l)
		}
	}
	return course, ms, ls
}

func (s *CatalogSuite) requireCode(err error, code dErrors.Code) {
	s.T().Helper()
	s.Require().Error(err)
	s.Require().True(dErrors.HasCode(err, code), "want %s, got %v", code, err)
}

func (s *CatalogSuite) TestCreateUpdateDeleteCourseHierarchy() {
	course, err := s.courses.Create(s.ctx, s.courseFields("Algebra I"))
	s.Require().NoError(err)
	s.False(course.ID.IsNil())
	s.Equal(s.now, course.CreatedAt)

	_, err = s.courses.Create(s.ctx, s.courseFields("Algebra I"))
	s.requireCode(err, dErrors.CodeConflict)

	module, err := s.modules.Create(s.ctx, course.ID, models.ModuleFields{Title: "Unit 1"})
	s.Require().NoError(err)
	lesson, err := s.lessons.Create(s.ctx, module.ID, models.LessonFields{Title: "Intro", VideoURL: "https://v.example.com/intro"})
	s.Require().NoError(err)

	s.Require().NoError(s.courses.Delete(s.ctx, course.ID))

	_, err = s.lessons.Get(s.ctx, module.ID, lesson.ID)
	s.requireCode(err, dErrors.CodeNotFound)
	_, err = s.modules.Get(s.ctx, course.ID, module.ID)
	s.requireCode(err, dErrors.CodeNotFound)
	_, err = s.courses.Get(s.ctx, course.ID)
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *CatalogSuite) TestCreateCourseChecksInstructor() {
	student := s.seedUser(replicamodels.UserTypeStudent, replicamodels.UserStatusActive)
	asStudent := requestcontext.WithUserID(s.ctx, student)

	s.Run("student cannot be instructor", func() {
		fields := s.courseFields("Physics")
		fields.InstructorID = student
		_, err := s.courses.Create(asStudent, fields)
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("caller cannot name someone else", func() {
		_, err := s.courses.Create(asStudent, s.courseFields("Physics"))
		s.requireCode(err, dErrors.CodeForbidden)
	})

	s.Run("admin may name another instructor", func() {
		asAdmin := requestcontext.WithRoles(asStudent, []string{"ADMIN"})
		_, err := s.courses.Create(asAdmin, s.courseFields("Physics"))
		s.NoError(err)
	})
}

func (s *CatalogSuite) TestUpdateCourse() {
	course, err := s.courses.Create(s.ctx, s.courseFields("Go"))
	s.Require().NoError(err)
	_, err = s.courses.Create(s.ctx, s.courseFields("Rust"))
	s.Require().NoError(err)

	later := requestcontext.WithTime(s.ctx, s.now.Add(time.Hour))

	s.Run("rename onto another course's name is a conflict", func() {
		_, err := s.courses.Update(later, course.ID, s.courseFields("Rust"))
		s.requireCode(err, dErrors.CodeConflict)
	})

	s.Run("update keeps id and creation time", func() {
		fields := s.courseFields("Go Advanced")
		fields.Level = models.CourseLevelAdvanced
		updated, err := s.courses.Update(later, course.ID, fields)
		s.Require().NoError(err)
		s.Equal(course.ID, updated.ID)
		s.Equal(course.CreatedAt, updated.CreatedAt)
		s.Equal(s.now.Add(time.Hour), updated.LastUpdatedAt)
		s.Equal(models.CourseLevelAdvanced, updated.Level)
	})

	s.Run("missing course", func() {
		_, err := s.courses.Update(later, id.NewCourseID(), s.courseFields("Other"))
		s.requireCode(err, dErrors.CodeNotFound)
	})
}

func (s *CatalogSuite) TestCascadeRemovesEverything() {
	course, modules, lessons := s.tree("Go", 3, 2)
	other, _, otherLessons := s.tree("Rust", 1, 1)
	student := s.seedUser(replicamodels.UserTypeStudent, replicamodels.UserStatusActive)
	s.Require().NoError(s.stores.Enrollments.Create(s.ctx, &models.Enrollment{CourseID: course.ID, UserID: student}))
	s.Require().NoError(s.stores.Enrollments.Create(s.ctx, &models.Enrollment{CourseID: other.ID, UserID: student}))

	s.Require().NoError(s.courses.Delete(s.ctx, course.ID))

	for _, m := range modules {
		_, err := s.stores.Modules.FindByID(s.ctx, m.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	}
	for _, l := range lessons {
		_, err := s.stores.Lessons.FindByID(s.ctx, l.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	}
	exists, err := s.stores.Enrollments.Exists(s.ctx, course.ID, student)
	s.Require().NoError(err)
	s.False(exists)

	// the other course is untouched
	_, err = s.stores.Lessons.FindByID(s.ctx, otherLessons[0].ID)
	s.NoError(err)
	exists, err = s.stores.Enrollments.Exists(s.ctx, other.ID, student)
	s.Require().NoError(err)
	s.True(exists)
}

func (s *CatalogSuite) TestCascadeWithoutChildren() {
	course, err := s.courses.Create(s.ctx, s.courseFields("Empty"))
	s.Require().NoError(err)
	s.NoError(s.courses.Delete(s.ctx, course.ID))
	s.requireCode(s.courses.Delete(s.ctx, course.ID), dErrors.CodeNotFound)
}

type failingModules struct {
	*memory.ModuleStore
	err error
}

func (f failingModules) DeleteMany(context.Context, []id.ModuleID) error { return f.err }

func (s *CatalogSuite) TestCascadeRollsBackOnFailure() {
	course, modules, lessons := s.tree("Go", 2, 2)

	broken := s.stores
	broken.Modules = failingModules{ModuleStore: s.db.Modules(), err: errors.New("disk full")}
	s.build(broken)

	err := s.courses.Delete(s.ctx, course.ID)
	s.requireCode(err, dErrors.CodeInternal)

	_, err = s.stores.Courses.FindByID(s.ctx, course.ID)
	s.NoError(err, "course restored")
	for _, m := range modules {
		_, err := s.stores.Modules.FindByID(s.ctx, m.ID)
		s.NoError(err, "module restored")
	}
	for _, l := range lessons {
		_, err := s.stores.Lessons.FindByID(s.ctx, l.ID)
		s.NoError(err, "lessons deleted before the failure are restored")
	}
}

// cancellingLessons cancels the caller's request the first time lessons are
// listed, i.e. in the middle of a cascade.
type cancellingLessons struct {
	*memory.LessonStore
	cancel context.CancelFunc
}

func (c cancellingLessons) ListByModule(ctx context.Context, moduleID id.ModuleID) ([]*models.Lesson, error) {
	c.cancel()
	return c.LessonStore.ListByModule(ctx, moduleID)
}

func (s *CatalogSuite) TestCascadeSurvivesCallerCancellation() {
	course, _, lessons := s.tree("Go", 2, 1)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stores := s.stores
	stores.Lessons = cancellingLessons{LessonStore: s.db.Lessons(), cancel: cancel}
	s.build(stores)

	s.Require().NoError(s.courses.Delete(ctx, course.ID))
	s.Error(ctx.Err(), "caller context was cancelled mid-cascade")

	_, err := s.stores.Lessons.FindByID(s.ctx, lessons[0].ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CatalogSuite) TestDeleteRejectedWhenAlreadyCancelled() {
	course, _, _ := s.tree("Go", 1, 1)
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	s.requireCode(s.courses.Delete(ctx, course.ID), dErrors.CodeTimeout)
	_, err := s.courses.Get(s.ctx, course.ID)
	s.NoError(err)
}

func (s *CatalogSuite) TestModuleDeleteRemovesOnlyItsLessons() {
	course, modules, lessons := s.tree("Go", 2, 2)

	s.Require().NoError(s.modules.Delete(s.ctx, course.ID, modules[0].ID))

	_, err := s.stores.Lessons.FindByID(s.ctx, lessons[0].ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.stores.Lessons.FindByID(s.ctx, lessons[2].ID)
	s.NoError(err)
	_, err = s.courses.Get(s.ctx, course.ID)
	s.NoError(err)
}

func (s *CatalogSuite) TestScopedLookups() {
	course, modules, lessons := s.tree("Go", 1, 1)
	other, otherModules, _ := s.tree("Rust", 1, 0)

	_, err := s.modules.Get(s.ctx, other.ID, modules[0].ID)
	s.requireCode(err, dErrors.CodeNotFound)
	s.requireCode(s.modules.Delete(s.ctx, other.ID, modules[0].ID), dErrors.CodeNotFound)
	_, err = s.lessons.Get(s.ctx, otherModules[0].ID, lessons[0].ID)
	s.requireCode(err, dErrors.CodeNotFound)

	found, err := s.modules.Get(s.ctx, course.ID, modules[0].ID)
	s.Require().NoError(err)
	s.Equal(modules[0].ID, found.ID)
}

func (s *CatalogSuite) TestChildCreationRequiresParent() {
	_, err := s.modules.Create(s.ctx, id.NewCourseID(), models.ModuleFields{Title: "Orphan"})
	s.requireCode(err, dErrors.CodeNotFound)
	_, err = s.lessons.Create(s.ctx, id.NewModuleID(), models.LessonFields{Title: "Orphan"})
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *CatalogSuite) TestUpdateModuleAndLesson() {
	course, modules, lessons := s.tree("Go", 1, 1)

	module, err := s.modules.Update(s.ctx, course.ID, modules[0].ID, models.ModuleFields{Title: "Renamed", Description: "new"})
	s.Require().NoError(err)
	s.Equal("Renamed", module.Title)
	s.Equal(modules[0].CreatedAt, module.CreatedAt)

	lesson, err := s.lessons.Update(s.ctx, modules[0].ID, lessons[0].ID, models.LessonFields{Title: "Basics", VideoURL: "https://v.example.com/b"})
	s.Require().NoError(err)
	s.Equal("Basics", lesson.Title)
	s.Equal(lessons[0].ID, lesson.ID)

	s.Require().NoError(s.lessons.Delete(s.ctx, modules[0].ID, lessons[0].ID))
	_, err = s.lessons.Get(s.ctx, modules[0].ID, lessons[0].ID)
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *CatalogSuite) TestListCourses() {
	for _, name := range []string{"Go Basics", "Go Advanced", "Rust"} {
		_, err := s.courses.Create(s.ctx, s.courseFields(name))
		s.Require().NoError(err)
	}

	s.Run("name filter and paging", func() {
		result, err := s.courses.List(s.ctx, CourseFilter{Name: "go", Level: "beginner"}, PageRequest{Size: 1, Sort: "name"})
		s.Require().NoError(err)
		s.Equal(int64(2), result.TotalElements)
		s.Equal(2, result.TotalPages)
		s.Require().Len(result.Items, 1)
		s.Equal("Go Advanced", result.Items[0].Name)
	})

	s.Run("unknown enum value is a validation error", func() {
		_, err := s.courses.List(s.ctx, CourseFilter{Status: "ARCHIVED"}, PageRequest{})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("unsortable field is a validation error", func() {
		_, err := s.courses.List(s.ctx, CourseFilter{}, PageRequest{Sort: "description"})
		s.requireCode(err, dErrors.CodeValidation)
	})
}

func (s *CatalogSuite) TestListCoursesRespectsMaxPageSize() {
	capped := NewCourseService(s.stores, WithMaxPageSize(10))
	_, err := capped.List(s.ctx, CourseFilter{}, PageRequest{Size: 11})
	s.requireCode(err, dErrors.CodeValidation)
	_, err = capped.List(s.ctx, CourseFilter{}, PageRequest{Size: 10})
	s.NoError(err)
}

func (s *CatalogSuite) TestListModulesAndLessonsAreScoped() {
	course, modules, _ := s.tree("Go", 2, 3)
	s.tree("Rust", 2, 1)

	moduleResult, err := s.modules.List(s.ctx, course.ID, ModuleFilter{}, PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(2), moduleResult.TotalElements)

	lessonResult, err := s.lessons.List(s.ctx, modules[0].ID, LessonFilter{Title: "intro"}, PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(3), lessonResult.TotalElements)

	_, err = s.modules.List(s.ctx, id.NewCourseID(), ModuleFilter{}, PageRequest{})
	s.requireCode(err, dErrors.CodeNotFound)
}
