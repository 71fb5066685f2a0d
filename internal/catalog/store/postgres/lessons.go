package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"catalog/internal/catalog/models"
	"catalog/internal/catalog/query"
	pg "catalog/internal/platform/postgres"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/platform/tx"
)

type LessonStore struct {
	db *sql.DB
}

func NewLessonStore(db *sql.DB) *LessonStore {
	return &LessonStore{db: db}
}

const lessonColumns = `l.id, l.module_id, l.title, l.description, l.video_url, l.created_at`

func (s *LessonStore) Create(ctx context.Context, lesson *models.Lesson) error {
	_, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO lessons (id, module_id, title, description, video_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(lesson.ID),
		uuid.UUID(lesson.ModuleID),
		lesson.Title,
		lesson.Description,
		lesson.VideoURL,
		lesson.CreatedAt,
	)
	if err != nil {
		if pg.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert lesson: %w", err)
	}
	return nil
}

func (s *LessonStore) Update(ctx context.Context, lesson *models.Lesson) error {
	res, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx,
		`UPDATE lessons SET title = $2, description = $3, video_url = $4 WHERE id = $1`,
		uuid.UUID(lesson.ID), lesson.Title, lesson.Description, lesson.VideoURL,
	)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}
	return requireRow(res)
}

func (s *LessonStore) FindByID(ctx context.Context, lessonID id.LessonID) (*models.Lesson, error) {
	row := tx.ExecutorFor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons l WHERE l.id = $1`, uuid.UUID(lessonID))
	lesson, err := scanLesson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	return lesson, nil
}

func (s *LessonStore) ListByModule(ctx context.Context, moduleID id.ModuleID) ([]*models.Lesson, error) {
	rows, err := tx.ExecutorFor(ctx, s.db).QueryContext(ctx,
		`SELECT `+lessonColumns+` FROM lessons l WHERE l.module_id = $1`, uuid.UUID(moduleID))
	if err != nil {
		return nil, fmt.Errorf("list lessons by module: %w", err)
	}
	defer rows.Close()
	return collectLessons(rows)
}

func (s *LessonStore) DeleteMany(ctx context.Context, lessonIDs []id.LessonID) error {
	ids := make([]string, len(lessonIDs))
	for i, lessonID := range lessonIDs {
		ids[i] = lessonID.String()
	}
	if _, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM lessons WHERE id = ANY($1::uuid[])`, pq.Array(ids)); err != nil {
		return fmt.Errorf("delete lessons: %w", err)
	}
	return nil
}

func (s *LessonStore) List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Lesson, int64, error) {
	where, args := pred.Where(1)
	exec := tx.ExecutorFor(ctx, s.db)

	var total int64
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM lessons l `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count lessons: %w", err)
	}
	rows, err := exec.QueryContext(ctx, `SELECT `+lessonColumns+` FROM lessons l `+where+` `+query.Lessons.OrderBy(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()
	out, err := collectLessons(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectLessons(rows *sql.Rows) ([]*models.Lesson, error) {
	var out []*models.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		out = append(out, lesson)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}
	return out, nil
}

func scanLesson(row rowScanner) (*models.Lesson, error) {
	var (
		l        models.Lesson
		lessonID uuid.UUID
		moduleID uuid.UUID
	)
	if err := row.Scan(&lessonID, &moduleID, &l.Title, &l.Description, &l.VideoURL, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.ID = id.LessonID(lessonID)
	l.ModuleID = id.ModuleID(moduleID)
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}
