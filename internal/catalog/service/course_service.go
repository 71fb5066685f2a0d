package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/requestcontext"
)

type CourseService struct {
	stores Stores
	deps
}

func NewCourseService(stores Stores, opts ...Option) *CourseService {
	return &CourseService{stores: stores, deps: newDeps(opts)}
}

func (s *CourseService) authorize(ctx context.Context, instructorID id.UserID) error {
	if s.policy == nil {
		return nil
	}
	return s.policy.AuthorizeInstructor(ctx, instructorID)
}

// Create stores a new course. The name must not be used by any other course.
func (s *CourseService) Create(ctx context.Context, fields models.CourseFields) (*models.Course, error) {
	if err := s.authorize(ctx, fields.InstructorID); err != nil {
		return nil, err
	}

	course := models.NewCourse(id.NewCourseID(), fields, requestcontext.Now(ctx))
	err := s.stores.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.stores.Courses.Create(txCtx, course)
	})
	if err != nil {
		return nil, translate(err, "course not found", "course name already exists", "failed to create course")
	}

	s.logger.InfoContext(ctx, "course created",
		"course_id", course.ID.String(),
		"instructor_id", course.InstructorID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return course, nil
}

// Update replaces every mutable field of a course. Renaming onto a name held by
// another course is a conflict.
func (s *CourseService) Update(ctx context.Context, courseID id.CourseID, fields models.CourseFields) (*models.Course, error) {
	if err := s.authorize(ctx, fields.InstructorID); err != nil {
		return nil, err
	}

	var updated *models.Course
	err := s.stores.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		course, err := s.stores.Courses.FindByID(txCtx, courseID)
		if err != nil {
			return err
		}
		course.ApplyUpdate(fields, requestcontext.Now(ctx))
		if err := s.stores.Courses.Update(txCtx, course); err != nil {
			return err
		}
		updated = course
		return nil
	})
	if err != nil {
		return nil, translate(err, "course not found", "course name already exists", "failed to update course")
	}
	s.invalidate(ctx, courseID)
	return updated, nil
}

func (s *CourseService) Get(ctx context.Context, courseID id.CourseID) (*models.Course, error) {
	course, err := s.stores.Courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, translate(err, "course not found", "", "failed to load course")
	}
	return course, nil
}

func (s *CourseService) List(ctx context.Context, filter CourseFilter, req PageRequest) (query.Result[*models.Course], error) {
	pred, err := filter.predicate()
	if err != nil {
		return query.Result[*models.Course]{}, err
	}
	page, err := s.page(query.Courses, req)
	if err != nil {
		return query.Result[*models.Course]{}, err
	}
	items, total, err := s.stores.Courses.List(ctx, pred, page)
	if err != nil {
		return query.Result[*models.Course]{}, translate(err, "", "", "failed to list courses")
	}
	return query.NewResult(items, page, total), nil
}

// Delete removes a course with all its modules, their lessons and every
// enrollment in it, in one transaction. Once admitted the deletion is not
// cancelled by the caller going away.
func (s *CourseService) Delete(ctx context.Context, courseID id.CourseID) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "CourseService.Delete")
	span.SetAttributes(attribute.String("course.id", courseID.String()))
	defer func() { endSpan(span, err) }()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request cancelled before delete")
	}

	cascadeCtx, cancel := s.detached(ctx)
	defer cancel()

	var removedModules, removedLessons int
	err = s.stores.Tx.RunInTx(cascadeCtx, func(txCtx context.Context) error {
		if _, err := s.stores.Courses.FindByID(txCtx, courseID); err != nil {
			return err
		}
		modules, err := s.stores.Modules.ListByCourse(txCtx, courseID)
		if err != nil {
			return err
		}
		removedModules, removedLessons = 0, 0
		if len(modules) > 0 {
			moduleIDs := make([]id.ModuleID, 0, len(modules))
			for _, module := range modules {
				n, err := deleteLessonsOf(txCtx, s.stores.Lessons, module.ID)
				if err != nil {
					return err
				}
				removedLessons += n
				moduleIDs = append(moduleIDs, module.ID)
			}
			if err := s.stores.Modules.DeleteMany(txCtx, moduleIDs); err != nil {
				return err
			}
			removedModules = len(moduleIDs)
		}
		if err := s.stores.Enrollments.DeleteByCourse(txCtx, courseID); err != nil {
			return err
		}
		return s.stores.Courses.Delete(txCtx, courseID)
	})
	if err != nil {
		s.metrics.ObserveCascade("course", "rolled_back", start)
		s.logger.WarnContext(ctx, "course cascade delete rolled back",
			"course_id", courseID.String(),
			"error", err,
		)
		return translate(err, "course not found", "course changed during delete", "failed to delete course")
	}

	s.invalidate(ctx, courseID)
	s.metrics.ObserveCascade("course", "committed", start)
	s.metrics.AddCascadeDeleted("module", removedModules)
	s.metrics.AddCascadeDeleted("lesson", removedLessons)
	s.metrics.AddCascadeDeleted("course", 1)
	span.SetAttributes(
		attribute.Int("cascade.modules", removedModules),
		attribute.Int("cascade.lessons", removedLessons),
	)
	s.logger.InfoContext(ctx, "course deleted",
		"course_id", courseID.String(),
		"modules", removedModules,
		"lessons", removedLessons,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// deleteLessonsOf bulk-deletes the lessons of one module inside the caller's
// transaction and reports how many were removed.
func deleteLessonsOf(txCtx context.Context, lessons LessonStore, moduleID id.ModuleID) (int, error) {
	found, err := lessons.ListByModule(txCtx, moduleID)
	if err != nil {
		return 0, err
	}
	if len(found) == 0 {
		return 0, nil
	}
	lessonIDs := make([]id.LessonID, len(found))
	for i, lesson := range found {
		lessonIDs[i] = lesson.ID
	}
	if err := lessons.DeleteMany(txCtx, lessonIDs); err != nil {
		return 0, err
	}
	return len(lessonIDs), nil
}

func (s *CourseService) invalidate(ctx context.Context, courseID id.CourseID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, courseID)
	}
}
