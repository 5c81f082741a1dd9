package postgres

import (
	"errors"
	"fmt"
	"testing"

	"docspace/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsTransientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", fmt.Errorf("update: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"marked transient", fmt.Errorf("lost: %w", domain.ErrTransient), true},
		{"no rows", pgx.ErrNoRows, false},
		{"domain error", domain.ErrCycleDetected, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransientError(tt.err))
		})
	}
}

func TestConstraintClassifiers(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsPgDuplicateError(dup))
	assert.False(t, IsPgDuplicateError(fk))
	assert.True(t, IsPgForeignKeyError(fk))
	assert.True(t, IsPgNoRowsError(fmt.Errorf("get: %w", pgx.ErrNoRows)))
}

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")
	assert.Equal(t, "dev_tree_edges", tables.TreeEdges)
	assert.Equal(t, "dev_order_entries", tables.OrderEntries)

	prod := NewTableNames("")
	assert.Equal(t, "folders", prod.Folders)
}

func TestSchemaStatementsUsePrefix(t *testing.T) {
	stmts := schemaStatements(NewTableNames("test_"))
	assert.NotEmpty(t, stmts)
	for _, stmt := range stmts {
		assert.Contains(t, stmt, "test_")
	}
}
