package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"catalog/internal/replica/models"
	id "catalog/pkg/domain"
	"catalog/pkg/platform/sentinel"
	"catalog/pkg/platform/tx"
	"catalog/pkg/requestcontext"
)

// PostgresStore persists replicas in user_replicas. Version checks happen in the
// upsert's WHERE clause so concurrent writers for one user cannot interleave.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const replicaColumns = `user_id, email, full_name, status, type, image_url, version, deleted, updated_at`

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.UserReplica, error) {
	row := tx.ExecutorFor(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+replicaColumns+` FROM user_replicas WHERE user_id = $1 AND NOT deleted`,
		uuid.UUID(userID),
	)
	u, err := ScanReplica(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user replica: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, replica *models.UserReplica) (bool, error) {
	res, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO user_replicas (`+replicaColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			status = EXCLUDED.status,
			type = EXCLUDED.type,
			image_url = EXCLUDED.image_url,
			version = GREATEST(user_replicas.version, EXCLUDED.version),
			deleted = FALSE,
			updated_at = EXCLUDED.updated_at
		WHERE EXCLUDED.version = 0 OR EXCLUDED.version >= user_replicas.version`,
		uuid.UUID(replica.UserID),
		replica.Email,
		replica.FullName,
		string(replica.Status),
		string(replica.Type),
		nullString(replica.ImageURL),
		replica.Version,
		requestcontext.Now(ctx).UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("upsert user replica: %w", err)
	}
	return affected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, userID id.UserID, version int64) (bool, error) {
	res, err := tx.ExecutorFor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO user_replicas (`+replicaColumns+`)
		VALUES ($1, '', '', '', '', NULL, $2, TRUE, $3)
		ON CONFLICT (user_id) DO UPDATE SET
			version = GREATEST(user_replicas.version, EXCLUDED.version),
			deleted = TRUE,
			updated_at = EXCLUDED.updated_at
		WHERE EXCLUDED.version = 0 OR EXCLUDED.version >= user_replicas.version`,
		uuid.UUID(userID),
		version,
		requestcontext.Now(ctx).UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("delete user replica: %w", err)
	}
	return affected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanReplica reads one row selected with replicaColumns, in order.
func ScanReplica(row rowScanner) (*models.UserReplica, error) {
	var (
		u        models.UserReplica
		userID   uuid.UUID
		status   string
		userType string
		imageURL sql.NullString
	)
	if err := row.Scan(&userID, &u.Email, &u.FullName, &status, &userType, &imageURL, &u.Version, &u.Deleted, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.UserID = id.UserID(userID)
	u.Status = models.UserStatus(status)
	u.Type = models.UserType(userType)
	if imageURL.Valid {
		u.ImageURL = &imageURL.String
	}
	return &u, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
