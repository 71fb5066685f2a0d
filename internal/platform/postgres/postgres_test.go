package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		constraint string
	}{
		{"pgx unique", &pgconn.PgError{Code: "23505", ConstraintName: "courses_name_key"}, true, false, "courses_name_key"},
		{"pgx fk wrapped", fmt.Errorf("insert module: %w", &pgconn.PgError{Code: "23503"}), false, true, ""},
		{"pq unique", &pq.Error{Code: "23505", Constraint: "course_users_pkey"}, true, false, "course_users_pkey"},
		{"pq fk", &pq.Error{Code: "23503"}, false, true, ""},
		{"plain", errors.New("boom"), false, false, ""},
		{"nil", nil, false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueViolation(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyViolation(tt.err))
			assert.Equal(t, tt.constraint, ConstraintName(tt.err))
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"migrations/0001_catalog.sql", "migrations/0002_user_replicas.sql"}, names)
}
