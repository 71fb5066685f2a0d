package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	pg "catalog/internal/platform/postgres"
	replicamodels "catalog/internal/replica/models"
	replicastore "catalog/internal/replica/store"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/platform/tx"
)

type EnrollmentStore struct {
	db *sql.DB
}

func NewEnrollmentStore(db *sql.DB) *EnrollmentStore {
	return &EnrollmentStore{db: db}
}

func (s *EnrollmentStore) Exists(ctx context.Context, courseID id.CourseID, userID id.UserID) (bool, error) {
	var exists bool
	err := tx.ExecutorFor(ctx, s.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM course_users WHERE course_id = $1 AND user_id = $2)`,
		uuid.UUID(courseID), uuid.UUID(userID),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// Create inserts the pair. The primary key makes concurrent duplicates fail with
// sentinel.ErrAlreadyUsed; a deleted course fails the foreign key with ErrNotFound.
func (s *EnrollmentStore) Create(ctx context.Context, e *models.Enrollment) error {
	_, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx,
		`INSERT INTO course_users (course_id, user_id, created_at) VALUES ($1, $2, $3)`,
		uuid.UUID(e.CourseID), uuid.UUID(e.UserID), e.CreatedAt,
	)
	if err != nil {
		switch {
		case pg.IsUniqueViolation(err):
			return sentinel.ErrAlreadyUsed
		case pg.IsForeignKeyViolation(err):
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

func (s *EnrollmentStore) DeleteByCourse(ctx context.Context, courseID id.CourseID) error {
	if _, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM course_users WHERE course_id = $1`, uuid.UUID(courseID)); err != nil {
		return fmt.Errorf("delete enrollments: %w", err)
	}
	return nil
}

const enrolledUsersFrom = `FROM course_users cu JOIN user_replicas u ON u.user_id = cu.user_id AND NOT u.deleted `

// ListUsers returns live replicas of users matching the predicate. The inner
// join drops enrollments whose replica was deleted.
func (s *EnrollmentStore) ListUsers(ctx context.Context, pred query.Predicate, page query.Page) ([]*replicamodels.UserReplica, int64, error) {
	where, args := pred.Where(1)
	exec := tx.ExecutorFor(ctx, s.db)

	var total int64
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) `+enrolledUsersFrom+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count enrolled users: %w", err)
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT u.user_id, u.email, u.full_name, u.status, u.type, u.image_url, u.version, u.deleted, u.updated_at `+
		enrolledUsersFrom+where+` `+query.EnrolledUsers.OrderBy(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list enrolled users: %w", err)
	}
	defer rows.Close()

	var out []*replicamodels.UserReplica
	for rows.Next() {
		u, err := replicastore.ScanReplica(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan enrolled user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate enrolled users: %w", err)
	}
	return out, total, nil
}
