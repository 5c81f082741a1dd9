package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements returns the DDL for every table, in dependency order.
// Order rows use a deferred unique constraint so a shift can pass through
// temporary duplicates inside one statement.
func schemaStatements(t *TableNames) []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				id            UUID PRIMARY KEY,
				tenant_id     TEXT NOT NULL,
				parent_id     UUID NULL,
				title         VARCHAR(255) NOT NULL,
				folder_type   TEXT NOT NULL,
				files_count   INTEGER NOT NULL DEFAULT 0,
				folders_count INTEGER NOT NULL DEFAULT 0,
				used_space    BIGINT NOT NULL DEFAULT 0,
				created_by    TEXT NOT NULL,
				modified_by   TEXT NOT NULL,
				created_at    TIMESTAMPTZ NOT NULL,
				modified_at   TIMESTAMPTZ NOT NULL,
				deleted_at    TIMESTAMPTZ NULL
			)`, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_parent_idx ON %[1]s (tenant_id, parent_id)`, t.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_trash_idx ON %[1]s (deleted_at) WHERE deleted_at IS NOT NULL`, t.Folders),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				tenant_id   TEXT NOT NULL,
				folder_id   UUID NOT NULL,
				ancestor_id UUID NOT NULL,
				level       INTEGER NOT NULL CHECK (level >= 1),
				PRIMARY KEY (tenant_id, folder_id, ancestor_id)
			)`, t.TreeEdges),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_ancestor_idx ON %[1]s (tenant_id, ancestor_id)`, t.TreeEdges),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_level_idx ON %[1]s (tenant_id, folder_id, level DESC)`, t.TreeEdges),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				tenant_id       TEXT NOT NULL,
				id              UUID NOT NULL,
				version         INTEGER NOT NULL CHECK (version >= 1),
				folder_id       UUID NOT NULL,
				title           VARCHAR(255) NOT NULL,
				version_group   INTEGER NOT NULL CHECK (version_group >= 1),
				current_version BOOLEAN NOT NULL DEFAULT FALSE,
				forcesave       TEXT NOT NULL DEFAULT 'none',
				content_length  BIGINT NOT NULL DEFAULT 0,
				comment         TEXT NOT NULL DEFAULT '',
				changes         BYTEA NULL,
				created_by      TEXT NOT NULL,
				created_at      TIMESTAMPTZ NOT NULL,
				modified_at     TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (tenant_id, id, version)
			)`, t.Files),
		fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %[1]s_current_idx ON %[1]s (tenant_id, id) WHERE current_version`, t.Files),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %[1]s_folder_idx ON %[1]s (tenant_id, folder_id) WHERE current_version`, t.Files),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				tenant_id    TEXT NOT NULL,
				file_id      UUID NOT NULL,
				last_version INTEGER NOT NULL,
				PRIMARY KEY (tenant_id, file_id)
			)`, t.FileSequences),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				tenant_id        TEXT NOT NULL,
				parent_folder_id UUID NOT NULL,
				entry_type       TEXT NOT NULL,
				entry_id         UUID NOT NULL,
				"order"          INTEGER NOT NULL CHECK ("order" >= 1),
				PRIMARY KEY (tenant_id, parent_folder_id, entry_type, entry_id),
				CONSTRAINT %[1]s_position_key UNIQUE (tenant_id, parent_folder_id, entry_type, "order")
					DEFERRABLE INITIALLY DEFERRED
			)`, t.OrderEntries),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]s (
				tenant_id   TEXT NOT NULL,
				room_id     UUID NOT NULL,
				indexing    BOOLEAN NOT NULL DEFAULT FALSE,
				quota_bytes BIGINT NOT NULL DEFAULT 0,
				updated_at  TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (tenant_id, room_id)
			)`, t.RoomSettings),
	}
}

// EnsureSchema creates missing tables and indexes. It is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames, logger *slog.Logger) error {
	for _, stmt := range schemaStatements(tables) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	logger.Info("database schema ready", "folders_table", tables.Folders)
	return nil
}

// DropSchema drops every table. Used by the seed command's --drop-tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range tables.dependents() {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}
