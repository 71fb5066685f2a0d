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

type ModuleStore struct {
	db *sql.DB
}

func NewModuleStore(db *sql.DB) *ModuleStore {
	return &ModuleStore{db: db}
}

const moduleColumns = `m.id, m.course_id, m.title, m.description, m.created_at`

// Create inserts a module. The course foreign key is the authority on parent
// existence; a violation yields sentinel.ErrNotFound.
func (s *ModuleStore) Create(ctx context.Context, module *models.Module) error {
	_, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO modules (id, course_id, title, description, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(module.ID),
		uuid.UUID(module.CourseID),
		module.Title,
		module.Description,
		module.CreatedAt,
	)
	if err != nil {
		if pg.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert module: %w", err)
	}
	return nil
}

func (s *ModuleStore) Update(ctx context.Context, module *models.Module) error {
	res, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx,
		`UPDATE modules SET title = $2, description = $3 WHERE id = $1`,
		uuid.UUID(module.ID), module.Title, module.Description,
	)
	if err != nil {
		return fmt.Errorf("update module: %w", err)
	}
	return requireRow(res)
}

func (s *ModuleStore) FindByID(ctx context.Context, moduleID id.ModuleID) (*models.Module, error) {
	row := tx.ExecutorFor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+moduleColumns+` FROM modules m WHERE m.id = $1`, uuid.UUID(moduleID))
	module, err := scanModule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find module: %w", err)
	}
	return module, nil
}

func (s *ModuleStore) ListByCourse(ctx context.Context, courseID id.CourseID) ([]*models.Module, error) {
	rows, err := tx.ExecutorFor(ctx, s.db).QueryContext(ctx,
		`SELECT `+moduleColumns+` FROM modules m WHERE m.course_id = $1`, uuid.UUID(courseID))
	if err != nil {
		return nil, fmt.Errorf("list modules by course: %w", err)
	}
	defer rows.Close()
	return collectModules(rows)
}

// DeleteMany removes modules in one statement.
func (s *ModuleStore) DeleteMany(ctx context.Context, moduleIDs []id.ModuleID) error {
	ids := make([]string, len(moduleIDs))
	for i, moduleID := range moduleIDs {
		ids[i] = moduleID.String()
	}
	_, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx,
		`DELETE FROM modules WHERE id = ANY($1::uuid[])`, pq.Array(ids))
	if err != nil {
		if pg.IsForeignKeyViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("delete modules: %w", err)
	}
	return nil
}

func (s *ModuleStore) List(ctx context.Context, pred query.Predicate, page query.Page) ([]*models.Module, int64, error) {
	where, args := pred.Where(1)
	exec := tx.ExecutorFor(ctx, s.db)

	var total int64
	if err := exec.QueryRowContext(ctx, `SELECT COUNT(*) FROM modules m `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count modules: %w", err)
	}
	rows, err := exec.QueryContext(ctx, `SELECT `+moduleColumns+` FROM modules m `+where+` `+query.Modules.OrderBy(page), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()
	out, err := collectModules(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func collectModules(rows *sql.Rows) ([]*models.Module, error) {
	var out []*models.Module
	for rows.Next() {
		module, err := scanModule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		out = append(out, module)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modules: %w", err)
	}
	return out, nil
}

func scanModule(row rowScanner) (*models.Module, error) {
	var (
		m        models.Module
		moduleID uuid.UUID
		courseID uuid.UUID
	)
	if err := row.Scan(&moduleID, &courseID, &m.Title, &m.Description, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.ID = id.ModuleID(moduleID)
	m.CourseID = id.CourseID(courseID)
	m.CreatedAt = m.CreatedAt.UTC()
	return &m, nil
}
