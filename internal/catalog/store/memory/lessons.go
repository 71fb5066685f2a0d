package memory

import (
	"context"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
)

type LessonStore struct {
	db *DB
}

// Create inserts a lesson; a missing parent module yields sentinel.ErrNotFound.
func (s *LessonStore) Create(ctx context.Context, lesson *models.Lesson) error {
	return s.db.write(ctx, func() error {
		t := &s.db.data
		if _, ok := t.modules[lesson.ModuleID]; !ok {
			return sentinel.ErrNotFound
		}
		t.lessons[lesson.ID] = *lesson
		return nil
	})
}

func (s *LessonStore) Update(ctx context.Context, lesson *models.Lesson) error {
	return s.db.write(ctx, func() error {
		t := &s.db.data
		if _, ok := t.lessons[lesson.ID]; !ok {
			return sentinel.ErrNotFound
		}
		t.lessons[lesson.ID] = *lesson
		return nil
	})
}

func (s *LessonStore) FindByID(ctx context.Context, lessonID id.LessonID) (*models.Lesson, error) {
	var (
		lesson models.Lesson
		ok     bool
	)
	s.db.read(ctx, func() {
		lesson, ok = s.db.data.lessons[lessonID]
	})
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &lesson, nil
}

func (s *LessonStore) ListByModule(ctx context.Context, moduleID id.ModuleID) ([]*models.Lesson, error) {
	var out []*models.Lesson
	s.db.read(ctx, func() {
		for _, l := range s.db.data.lessons {
			if l.ModuleID == moduleID {
				out = append(out, &l)
			}
		}
	})
	return out, nil
}

func (s *LessonStore) DeleteMany(ctx context.Context, lessonIDs []id.LessonID) error {
	return s.db.write(ctx, func() error {
		for _, lessonID := range lessonIDs {
			delete(s.db.data.lessons, lessonID)
		}
		return nil
	})
}

func (s *LessonStore) List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Lesson, int64, error) {
	var all []models.Lesson
	s.db.read(ctx, func() {
		for _, l := range s.db.data.lessons {
			all = append(all, l)
		}
	})
	field := func(l models.Lesson, f string) string {
		switch f {
		case query.FieldModuleID:
			return l.ModuleID.String()
		case query.FieldTitle:
			return l.Title
		}
		return ""
	}
	sortKey := func(l models.Lesson, f string) any {
		if f == query.FieldCreatedAt {
			return l.CreatedAt
		}
		return field(l, f)
	}
	items, total := filterSortPage(all, pred, page, field, sortKey, func(l models.Lesson) string { return l.ID.String() })
	return pointers(items), total, nil
}
