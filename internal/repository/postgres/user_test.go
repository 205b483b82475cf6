package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/mento-app/mento-server/internal/model"
)

func TestNewRepositories(t *testing.T) {
	db := &Connection{}

	assert.Equal(t, db, NewUserRepository(db).db)
	assert.Equal(t, db, NewCompletionRepository(db).db)
	assert.Equal(t, db, NewProgressRepository(db).db)
	assert.Equal(t, db, NewOnboardingRepository(db).db)
}

func TestConnection_NilPool(t *testing.T) {
	db := &Connection{}

	assert.NoError(t, db.Close())
	assert.Error(t, db.Ping(t.Context()))
}

func TestPgErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		foreignKey bool
		unique     bool
	}{
		{
			name:       "foreign key",
			err:        &pgconn.PgError{Code: codeForeignKeyViolation},
			foreignKey: true,
		},
		{
			name:   "unique wrapped",
			err:    fmt.Errorf("exec: %w", &pgconn.PgError{Code: codeUniqueViolation}),
			unique: true,
		},
		{
			name: "check violation",
			err:  &pgconn.PgError{Code: "23514"},
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.foreignKey, isForeignKeyViolation(tt.err))
			assert.Equal(t, tt.unique, isUniqueViolation(tt.err))
		})
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("boom")
	err := storageError("upsert level completion", cause)

	assert.True(t, model.IsStorageError(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "upsert level completion")
}
