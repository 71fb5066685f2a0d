package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	pg "catalog/internal/platform/postgres"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/platform/tx"
)

type CourseStore struct {
	db *sql.DB
}

func NewCourseStore(db *sql.DB) *CourseStore {
	return &CourseStore{db: db}
}

const courseColumns = `c.id, c.name, c.description, c.status, c.level, c.instructor_id, c.image_url, c.created_at, c.last_updated_at`

// Create inserts a course. The courses_name_key unique index is the authority on
// name uniqueness; a violation yields sentinel.ErrAlreadyUsed.
func (s *CourseStore) Create(ctx context.Context, course *models.Course) error {
	_, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO courses (id, name, description, status, level, instructor_id, image_url, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(course.ID),
		course.Name,
		course.Description,
		string(course.Status),
		string(course.Level),
		uuid.UUID(course.InstructorID),
		nullIfEmpty(course.ImageURL),
		course.CreatedAt,
		course.LastUpdatedAt,
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (s *CourseStore) Update(ctx context.Context, course *models.Course) error {
	res, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, `
		UPDATE courses SET name = $2, description = $3, status = $4, level = $5,
			instructor_id = $6, image_url = $7, last_updated_at = $8
		WHERE id = $1`,
		uuid.UUID(course.ID),
		course.Name,
		course.Description,
		string(course.Status),
		string(course.Level),
		uuid.UUID(course.InstructorID),
		nullIfEmpty(course.ImageURL),
		course.LastUpdatedAt,
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("update course: %w", err)
	}
	return requireRow(res)
}

func (s *CourseStore) FindByID(ctx context.Context, courseID id.CourseID) (*models.Course, error) {
	row := tx.ExecutorFor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, uuid.UUID(courseID))
	course, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return course, nil
}

func (s *CourseStore) Delete(ctx context.Context, courseID id.CourseID) error {
	res, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, uuid.UUID(courseID))
	if err != nil {
		if pg.IsForeignKeyViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("delete course: %w", err)
	}
	return requireRow(res)
}

func (s *CourseStore) List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Course, int64, error) {
	where, args := pred.Where(1)
	exec := tx.ExecutorFor(ctx, s.db)

	var total int64
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses c `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	rows, err := exec.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses c `+where+` `+query.Courses.OrderBy(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, course)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate courses: %w", err)
	}
	return out, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*models.Course, error) {
	var (
		c            models.Course
		courseID     uuid.UUID
		instructorID uuid.UUID
		status       string
		level        string
		imageURL     sql.NullString
	)
	if err := row.Scan(&courseID, &c.Name, &c.Description, &status, &level, &instructorID, &imageURL, &c.CreatedAt, &c.LastUpdatedAt); err != nil {
		return nil, err
	}
	c.ID = id.CourseID(courseID)
	c.InstructorID = id.UserID(instructorID)
	c.Status = models.CourseStatus(status)
	c.Level = models.CourseLevel(level)
	c.ImageURL = imageURL.String
	c.CreatedAt = c.CreatedAt.UTC()
	c.LastUpdatedAt = c.LastUpdatedAt.UTC()
	return &c, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
