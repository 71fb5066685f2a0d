package memory

import (
	"context"
	"errors"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	replicamodels "catalog/internal/replica/models"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
)

type EnrollmentStore struct {
	db *DB
}

func (s *EnrollmentStore) Exists(ctx context.Context, courseID id.CourseID, userID id.UserID) (bool, error) {
	var ok bool
	s.db.read(ctx, func() {
		_, ok = s.db.data.enrollments[enrollmentKey{courseID, userID}]
	})
	return ok, nil
}

// Create inserts the (course, user) pair; a duplicate yields sentinel.ErrAlreadyUsed
// and a missing course sentinel.ErrNotFound.
func (s *EnrollmentStore) Create(ctx context.Context, e *models.Enrollment) error {
	return s.db.write(ctx, func() error {
		t := &s.db.data
		if _, ok := t.courses[e.CourseID]; !ok {
			return sentinel.ErrNotFound
		}
		key := enrollmentKey{e.CourseID, e.UserID}
		if _, ok := t.enrollments[key]; ok {
			return sentinel.ErrAlreadyUsed
		}
		t.enrollments[key] = *e
		return nil
	})
}

func (s *EnrollmentStore) DeleteByCourse(ctx context.Context, courseID id.CourseID) error {
	return s.db.write(ctx, func() error {
		for key := range s.db.data.enrollments {
			if key.course == courseID {
				delete(s.db.data.enrollments, key)
			}
		}
		return nil
	})
}

// ListUsers joins enrollments with live replicas. Enrollments whose replica is
// missing or deleted are skipped.
func (s *EnrollmentStore) ListUsers(ctx context.Context, pred query.Predicate, page query.Page) ([]*replicamodels.UserReplica, int64, error) {
	var enrollments []models.Enrollment
	s.db.read(ctx, func() {
		for _, e := range s.db.data.enrollments {
			enrollments = append(enrollments, e)
		}
	})

	type row struct {
		courseID id.CourseID
		user     replicamodels.UserReplica
	}
	rows := make([]row, 0, len(enrollments))
	for _, e := range enrollments {
		u, err := s.db.replicas.FindByID(ctx, e.UserID)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, row{courseID: e.CourseID, user: *u})
	}

	field := func(r row, f string) string {
		switch f {
		case query.FieldCourseID:
			return r.courseID.String()
		case query.FieldUserID:
			return r.user.UserID.String()
		case query.FieldStatus:
			return string(r.user.Status)
		case query.FieldType:
			return string(r.user.Type)
		case query.FieldEmail:
			return r.user.Email
		case query.FieldFullName:
			return r.user.FullName
		}
		return ""
	}
	sortKey := func(r row, f string) any { return field(r, f) }
	tie := func(r row) string { return r.user.UserID.String() }

	items, total := filterSortPage(rows, pred, page, field, sortKey, tie)
	out := make([]*replicamodels.UserReplica, len(items))
	for i := range items {
		out[i] = &items[i].user
	}
	return out, total, nil
}
