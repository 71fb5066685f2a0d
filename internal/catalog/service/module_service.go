package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	id "catalog/pkg/domain"
	dErrors "catalog/pkg/domain-errors"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/requestcontext"
)

type ModuleService struct {
	stores Stores
	deps
}

func NewModuleService(stores Stores, opts ...Option) *ModuleService {
	return &ModuleService{stores: stores, deps: newDeps(opts)}
}

// Create adds a module under an existing course.
func (s *ModuleService) Create(ctx context.Context, courseID id.CourseID, fields models.ModuleFields) (*models.Module, error) {
	module := models.NewModule(id.NewModuleID(), courseID, fields, requestcontext.Now(ctx))
	err := s.stores.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.stores.Courses.FindByID(txCtx, courseID); err != nil {
			return err
		}
		return s.stores.Modules.Create(txCtx, module)
	})
	if err != nil {
		return nil, translate(err, "course not found", "module conflicts with existing data", "failed to create module")
	}
	s.logger.InfoContext(ctx, "module created",
		"module_id", module.ID.String(),
		"course_id", courseID.String(),
	)
	return module, nil
}

// findInCourse loads a module and checks it belongs to courseID. A module under
// another course is reported as not found.
func (s *ModuleService) findInCourse(ctx context.Context, courseID id.CourseID, moduleID id.ModuleID) (*models.Module, error) {
	module, err := s.stores.Modules.FindByID(ctx, moduleID)
	if err != nil {
		return nil, err
	}
	if module.CourseID != courseID {
		return nil, sentinel.ErrNotFound
	}
	return module, nil
}

func (s *ModuleService) Get(ctx context.Context, courseID id.CourseID, moduleID id.ModuleID) (*models.Module, error) {
	module, err := s.findInCourse(ctx, courseID, moduleID)
	if err != nil {
		return nil, translate(err, "module not found for this course", "", "failed to load module")
	}
	return module, nil
}

func (s *ModuleService) Update(ctx context.Context, courseID id.CourseID, moduleID id.ModuleID, fields models.ModuleFields) (*models.Module, error) {
	var updated *models.Module
	err := s.stores.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		module, err := s.findInCourse(txCtx, courseID, moduleID)
		if err != nil {
			return err
		}
		module.ApplyUpdate(fields)
		if err := s.stores.Modules.Update(txCtx, module); err != nil {
			return err
		}
		updated = module
		return nil
	})
	if err != nil {
		return nil, translate(err, "module not found for this course", "", "failed to update module")
	}
	return updated, nil
}

// Delete removes a module and all of its lessons in one transaction.
func (s *ModuleService) Delete(ctx context.Context, courseID id.CourseID, moduleID id.ModuleID) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "ModuleService.Delete")
	span.SetAttributes(
		attribute.String("course.id", courseID.String()),
		attribute.String("module.id", moduleID.String()),
	)
	defer func() { endSpan(span, err) }()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request cancelled before delete")
	}

	cascadeCtx, cancel := s.detached(ctx)
	defer cancel()

	var removedLessons int
	err = s.stores.Tx.RunInTx(cascadeCtx, func(txCtx context.Context) error {
		if _, err := s.findInCourse(txCtx, courseID, moduleID); err != nil {
			return err
		}
		n, err := deleteLessonsOf(txCtx, s.stores.Lessons, moduleID)
		if err != nil {
			return err
		}
		removedLessons = n
		return s.stores.Modules.DeleteMany(txCtx, []id.ModuleID{moduleID})
	})
	if err != nil {
		s.metrics.ObserveCascade("module", "rolled_back", start)
		return translate(err, "module not found for this course", "module changed during delete", "failed to delete module")
	}

	s.metrics.ObserveCascade("module", "committed", start)
	s.metrics.AddCascadeDeleted("module", 1)
	s.metrics.AddCascadeDeleted("lesson", removedLessons)
	s.logger.InfoContext(ctx, "module deleted",
		"module_id", moduleID.String(),
		"course_id", courseID.String(),
		"lessons", removedLessons,
	)
	return nil
}

// List pages the modules of one course. The course scope is always applied on
// top of the caller's filter.
func (s *ModuleService) List(ctx context.Context, courseID id.CourseID, filter ModuleFilter, req PageRequest) (query.Result[*models.Module], error) {
	pred, err := filter.predicate(courseID)
	if err != nil {
		return query.Result[*models.Module]{}, err
	}
	page, err := s.page(query.Modules, req)
	if err != nil {
		return query.Result[*models.Module]{}, err
	}
	if _, err := s.stores.Courses.FindByID(ctx, courseID); err != nil {
		return query.Result[*models.Module]{}, translate(err, "course not found", "", "failed to load course")
	}
	items, total, err := s.stores.Modules.List(ctx, pred, page)
	if err != nil {
		return query.Result[*models.Module]{}, translate(err, "", "", "failed to list modules")
	}
	return query.NewResult(items, page, total), nil
}
