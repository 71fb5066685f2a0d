package service

import (
	"context"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/requestcontext"
)

type LessonService struct {
	stores Stores
	deps
}

func NewLessonService(stores Stores, opts ...Option) *LessonService {
	return &LessonService{stores: stores, deps: newDeps(opts)}
}

func (s *LessonService) Create(ctx context.Context, moduleID id.ModuleID, fields models.LessonFields) (*models.Lesson, error) {
	lesson := models.NewLesson(id.NewLessonID(), moduleID, fields, requestcontext.Now(ctx))
	err := s.stores.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.stores.Modules.FindByID(txCtx, moduleID); err != nil {
			return err
		}
		return s.stores.Lessons.Create(txCtx, lesson)
	})
	if err != nil {
		return nil, translate(err, "module not found", "lesson conflicts with existing data", "failed to create lesson")
	}
	s.logger.InfoContext(ctx, "lesson created",
		"lesson_id", lesson.ID.String(),
		"module_id", moduleID.String(),
	)
	return lesson, nil
}

func (s *LessonService) findInModule(ctx context.Context, moduleID id.ModuleID, lessonID id.LessonID) (*models.Lesson, error) {
	lesson, err := s.stores.Lessons.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.ModuleID != moduleID {
		return nil, sentinel.ErrNotFound
	}
	return lesson, nil
}

func (s *LessonService) Get(ctx context.Context, moduleID id.ModuleID, lessonID id.LessonID) (*models.Lesson, error) {
	lesson, err := s.findInModule(ctx, moduleID, lessonID)
	if err != nil {
		return nil, translate(err, "lesson not found for this module", "", "failed to load lesson")
	}
	return lesson, nil
}

func (s *LessonService) Update(ctx context.Context, moduleID id.ModuleID, lessonID id.LessonID, fields models.LessonFields) (*models.Lesson, error) {
	var updated *models.Lesson
	err := s.stores.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		lesson, err := s.findInModule(txCtx, moduleID, lessonID)
		if err != nil {
			return err
		}
		lesson.ApplyUpdate(fields)
		if err := s.stores.Lessons.Update(txCtx, lesson); err != nil {
			return err
		}
		updated = lesson
		return nil
	})
	if err != nil {
		return nil, translate(err, "lesson not found for this module", "", "failed to update lesson")
	}
	return updated, nil
}

func (s *LessonService) Delete(ctx context.Context, moduleID id.ModuleID, lessonID id.LessonID) error {
	err := s.stores.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.findInModule(txCtx, moduleID, lessonID); err != nil {
			return err
		}
		return s.stores.Lessons.DeleteMany(txCtx, []id.LessonID{lessonID})
	})
	if err != nil {
		return translate(err, "lesson not found for this module", "", "failed to delete lesson")
	}
	s.logger.InfoContext(ctx, "lesson deleted",
		"lesson_id", lessonID.String(),
		"module_id", moduleID.String(),
	)
	return nil
}

func (s *LessonService) List(ctx context.Context, moduleID id.ModuleID, filter LessonFilter, req PageRequest) (query.Result[*models.Lesson], error) {
	pred, err := filter.predicate(moduleID)
	if err != nil {
		return query.Result[*models.Lesson]{}, err
	}
	page, err := s.page(query.Lessons, req)
	if err != nil {
		return query.Result[*models.Lesson]{}, err
	}
	if _, err := s.stores.Modules.FindByID(ctx, moduleID); err != nil {
		return query.Result[*models.Lesson]{}, translate(err, "module not found", "", "failed to load module")
	}
	items, total, err := s.stores.Lessons.List(ctx, pred, page)
	if err != nil {
		return query.Result[*models.Lesson]{}, translate(err, "", "", "failed to list lessons")
	}
	return query.NewResult(items, page, total), nil
}
