package memory

import (
	"context"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
)

type CourseStore struct {
	db *DB
}

// Create inserts a course; a taken name yields sentinel.ErrAlreadyUsed.
func (s *CourseStore) Create(ctx context.Context, course *models.Course) error {
	return s.db.write(ctx, func() error {
		t := &s.db.data
		if _, taken := t.courseNames[course.Name]; taken {
			return sentinel.ErrAlreadyUsed
		}
		t.courses[course.ID] = *course
		t.courseNames[course.Name] = course.ID
		return nil
	})
}

func (s *CourseStore) Update(ctx context.Context, course *models.Course) error {
	return s.db.write(ctx, func() error {
		t := &s.db.data
		existing, ok := t.courses[course.ID]
		if !ok {
			return sentinel.ErrNotFound
		}
		if owner, taken := t.courseNames[course.Name]; taken && owner != course.ID {
			return sentinel.ErrAlreadyUsed
		}
		delete(t.courseNames, existing.Name)
		t.courses[course.ID] = *course
		t.courseNames[course.Name] = course.ID
		return nil
	})
}

func (s *CourseStore) FindByID(ctx context.Context, courseID id.CourseID) (*models.Course, error) {
	var (
		course models.Course
		ok     bool
	)
	s.db.read(ctx, func() {
		course, ok = s.db.data.courses[courseID]
	})
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &course, nil
}

func (s *CourseStore) Delete(ctx context.Context, courseID id.CourseID) error {
	return s.db.write(ctx, func() error {
		t := &s.db.data
		existing, ok := t.courses[courseID]
		if !ok {
			return sentinel.ErrNotFound
		}
		// Mirror the foreign keys: children must be removed first.
		for _, m := range t.modules {
			if m.CourseID == courseID {
				return sentinel.ErrConflict
			}
		}
		for key := range t.enrollments {
			if key.course == courseID {
				return sentinel.ErrConflict
			}
		}
		delete(t.courses, courseID)
		delete(t.courseNames, existing.Name)
		return nil
	})
}

func (s *CourseStore) List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Course, int64, error) {
	var all []models.Course
	enrolled := map[enrollmentKey]bool{}
	s.db.read(ctx, func() {
		for _, c := range s.db.data.courses {
			all = append(all, c)
		}
		for k := range s.db.data.enrollments {
			enrolled[k] = true
		}
	})

	field := func(c models.Course, f string) string {
		switch f {
		case query.FieldName:
			return c.Name
		case query.FieldStatus:
			return string(c.Status)
		case query.FieldLevel:
			return string(c.Level)
		case query.FieldInstructorID:
			return c.InstructorID.String()
		}
		return ""
	}
	// userId is a membership test rather than a column, so evaluate it by
	// substituting the filter value when the course has that enrollment.
	matchesField := func(c models.Course, f string) string {
		if f == query.FieldUserID {
			for _, cond := range pred.Conditions() {
				if cond.Field != query.FieldUserID {
					continue
				}
				if userID, err := id.ParseUserID(cond.Value); err == nil && enrolled[enrollmentKey{c.ID, userID}] {
					return cond.Value
				}
			}
			return ""
		}
		return field(c, f)
	}
	sortKey := func(c models.Course, f string) any {
		switch f {
		case query.FieldCreatedAt:
			return c.CreatedAt
		case query.FieldLastUpdatedAt:
			return c.LastUpdatedAt
		}
		return field(c, f)
	}

	items, total := filterSortPage(all, pred, page, matchesField, sortKey, func(c models.Course) string { return c.ID.String() })
	return pointers(items), total, nil
}

func pointers[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
