package memory

import (
	"context"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
)

type ModuleStore struct {
	db *DB
}

// Create inserts a module; a missing parent course yields sentinel.ErrNotFound.
func (s *ModuleStore) Create(ctx context.Context, module *models.Module) error {
	return s.db.write(ctx, func() error {
		t := &s.db.data
		if _, ok := t.courses[module.CourseID]; !ok {
			return sentinel.ErrNotFound
		}
		t.modules[module.ID] = *module
		return nil
	})
}

func (s *ModuleStore) Update(ctx context.Context, module *models.Module) error {
	return s.db.write(ctx, func() error {
		t := &s.db.data
		if _, ok := t.modules[module.ID]; !ok {
			return sentinel.ErrNotFound
		}
		t.modules[module.ID] = *module
		return nil
	})
}

func (s *ModuleStore) FindByID(ctx context.Context, moduleID id.ModuleID) (*models.Module, error) {
	var (
		module models.Module
		ok     bool
	)
	s.db.read(ctx, func() {
		module, ok = s.db.data.modules[moduleID]
	})
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &module, nil
}

func (s *ModuleStore) ListByCourse(ctx context.Context, courseID id.CourseID) ([]*models.Module, error) {
	var out []*models.Module
	s.db.read(ctx, func() {
		for _, m := range s.db.data.modules {
			if m.CourseID == courseID {
				out = append(out, &m)
			}
		}
	})
	return out, nil
}

// DeleteMany removes the given modules. Lessons must already be gone.
func (s *ModuleStore) DeleteMany(ctx context.Context, moduleIDs []id.ModuleID) error {
	return s.db.write(ctx, func() error {
		t := &s.db.data
		for _, l := range t.lessons {
			for _, moduleID := range moduleIDs {
				if l.ModuleID == moduleID {
					return sentinel.ErrConflict
				}
			}
		}
		for _, moduleID := range moduleIDs {
			delete(t.modules, moduleID)
		}
		return nil
	})
}

func (s *ModuleStore) List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Module, int64, error) {
	var all []models.Module
	s.db.read(ctx, func() {
		for _, m := range s.db.data.modules {
			all = append(all, m)
		}
	})
	field := func(m models.Module, f string) string {
		switch f {
		case query.FieldCourseID:
			return m.CourseID.String()
		case query.FieldTitle:
			return m.Title
		}
		return ""
	}
	sortKey := func(m models.Module, f string) any {
		if f == query.FieldCreatedAt {
			return m.CreatedAt
		}
		return field(m, f)
	}
	items, total := filterSortPage(all, pred, page, field, sortKey, func(m models.Module) string { return m.ID.String() })
	return pointers(items), total, nil
}
