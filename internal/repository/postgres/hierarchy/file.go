package hierarchy

import (
	"context"
	"fmt"
	"log/slog"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fileColumns = `id, tenant_id, folder_id, title, version, version_group, current_version,
		forcesave, content_length, comment, changes, created_by, created_at, modified_at`

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *postgres.RepositoryConfig) hierarchyRepo.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Insert stores one version row and keeps the version sequence ahead of it
func (r *PostgresFileRepository) Insert(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (`+fileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		file.ID,
		file.TenantID,
		file.FolderID,
		file.Title,
		file.Version,
		file.VersionGroup,
		file.CurrentVersion,
		file.ForcesaveState,
		file.ContentLength,
		file.Comment,
		file.Changes,
		file.CreatedBy,
		file.CreatedAt,
		file.ModifiedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file %s version %d already exists", file.ID, file.Version),
				ResourceType: "file",
				ResourceID:   file.ID,
			}
		}
		return fmt.Errorf("insert file version: %w", err)
	}

	seq := fmt.Sprintf(`
		INSERT INTO %[1]s (tenant_id, file_id, last_version)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, file_id)
		DO UPDATE SET last_version = GREATEST(%[1]s.last_version, EXCLUDED.last_version)
	`, r.tables.FileSequences)
	if _, err := executor.Exec(ctx, seq, file.TenantID, file.ID, file.Version); err != nil {
		return fmt.Errorf("bump version sequence: %w", err)
	}
	return nil
}

// NextVersion bumps and returns the per-file version sequence
func (r *PostgresFileRepository) NextVersion(ctx context.Context, tenantID, fileID string) (int, error) {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (tenant_id, file_id, last_version)
		VALUES ($1, $2, 1)
		ON CONFLICT (tenant_id, file_id)
		DO UPDATE SET last_version = %[1]s.last_version + 1
		RETURNING last_version
	`, r.tables.FileSequences)

	var next int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, tenantID, fileID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next file version: %w", err)
	}
	return next, nil
}

// GetCurrent retrieves the current version row
func (r *PostgresFileRepository) GetCurrent(ctx context.Context, tenantID, fileID string) (*models.File, error) {
	if uuid.Validate(fileID) != nil {
		return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		SELECT `+fileColumns+`
		FROM %s
		WHERE tenant_id = $1 AND id = $2 AND current_version
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, tenantID, fileID))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get current file version: %w", err)
	}
	return file, nil
}

// GetVersion retrieves a specific version row
func (r *PostgresFileRepository) GetVersion(ctx context.Context, tenantID, fileID string, version int) (*models.File, error) {
	if uuid.Validate(fileID) != nil {
		return nil, fmt.Errorf("file %s version %d: %w", fileID, version, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		SELECT `+fileColumns+`
		FROM %s
		WHERE tenant_id = $1 AND id = $2 AND version = $3
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	file, err := scanFile(executor.QueryRow(ctx, query, tenantID, fileID, version))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("file %s version %d: %w", fileID, version, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file version: %w", err)
	}
	return file, nil
}

// ListVersions lists every version row ordered by version
func (r *PostgresFileRepository) ListVersions(ctx context.Context, tenantID, fileID string) ([]models.File, error) {
	if uuid.Validate(fileID) != nil {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT `+fileColumns+`
		FROM %s
		WHERE tenant_id = $1 AND id = $2
		ORDER BY version
	`, r.tables.Files)
	return r.query(ctx, "list file versions", query, tenantID, fileID)
}

// SetCurrent flags version as current. The flag is cleared first so the
// partial unique index on current rows never sees two of them.
func (r *PostgresFileRepository) SetCurrent(ctx context.Context, tenantID, fileID string, version int) error {
	if _, err := r.GetVersion(ctx, tenantID, fileID, version); err != nil {
		return err
	}
	executor := postgres.GetExecutor(ctx, r.pool)

	clear := fmt.Sprintf(`
		UPDATE %s SET current_version = FALSE
		WHERE tenant_id = $1 AND id = $2 AND current_version AND version <> $3
	`, r.tables.Files)
	if _, err := executor.Exec(ctx, clear, tenantID, fileID, version); err != nil {
		return fmt.Errorf("clear current version: %w", err)
	}

	set := fmt.Sprintf(`
		UPDATE %s SET current_version = TRUE
		WHERE tenant_id = $1 AND id = $2 AND version = $3
	`, r.tables.Files)
	if _, err := executor.Exec(ctx, set, tenantID, fileID, version); err != nil {
		return fmt.Errorf("set current version: %w", err)
	}
	return nil
}

// DeleteVersion removes one version row
func (r *PostgresFileRepository) DeleteVersion(ctx context.Context, tenantID, fileID string, version int) error {
	if uuid.Validate(fileID) != nil {
		return fmt.Errorf("file %s version %d: %w", fileID, version, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND id = $2 AND version = $3`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, tenantID, fileID, version)
	if err != nil {
		return fmt.Errorf("delete file version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("file %s version %d: %w", fileID, version, domain.ErrNotFound)
	}
	return nil
}

// ShiftVersionGroups adds delta to later version groups
func (r *PostgresFileRepository) ShiftVersionGroups(ctx context.Context, tenantID, fileID string, afterVersion, afterGroup, delta int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET version_group = version_group + $5
		WHERE tenant_id = $1 AND id = $2 AND version > $3 AND version_group > $4
	`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, fileID, afterVersion, afterGroup, delta); err != nil {
		return fmt.Errorf("shift version groups: %w", err)
	}
	return nil
}

// Move re-parents every version row of a file
func (r *PostgresFileRepository) Move(ctx context.Context, tenantID, fileID, folderID string) error {
	if uuid.Validate(fileID) != nil {
		return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`UPDATE %s SET folder_id = $3 WHERE tenant_id = $1 AND id = $2`, r.tables.Files)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, tenantID, fileID, folderID)
	if err != nil {
		return fmt.Errorf("move file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	}
	return nil
}

// DeleteFile removes every version row and the version sequence
func (r *PostgresFileRepository) DeleteFile(ctx context.Context, tenantID, fileID string) error {
	if uuid.Validate(fileID) != nil {
		return nil
	}
	executor := postgres.GetExecutor(ctx, r.pool)

	rows := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND id = $2`, r.tables.Files)
	if _, err := executor.Exec(ctx, rows, tenantID, fileID); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	seq := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND file_id = $2`, r.tables.FileSequences)
	if _, err := executor.Exec(ctx, seq, tenantID, fileID); err != nil {
		return fmt.Errorf("delete version sequence: %w", err)
	}
	return nil
}

// DeleteInFolders removes every version row in the listed folders together
// with the sequences of files left without rows
func (r *PostgresFileRepository) DeleteInFolders(ctx context.Context, tenantID string, folderIDs []string) error {
	folderIDs = validUUIDs(folderIDs)
	if len(folderIDs) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		WITH gone AS (
			DELETE FROM %s
			WHERE tenant_id = $1 AND folder_id = ANY($2)
			RETURNING id
		)
		DELETE FROM %s
		WHERE tenant_id = $1 AND file_id IN (SELECT DISTINCT id FROM gone)
	`, r.tables.Files, r.tables.FileSequences)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, folderIDs); err != nil {
		return fmt.Errorf("delete files in folders: %w", err)
	}
	return nil
}

// CountCurrentInFolders counts current versions in the listed folders
func (r *PostgresFileRepository) CountCurrentInFolders(ctx context.Context, tenantID string, folderIDs []string) (int, error) {
	folderIDs = validUUIDs(folderIDs)
	if len(folderIDs) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM %s
		WHERE tenant_id = $1 AND folder_id = ANY($2) AND current_version
	`, r.tables.Files)

	var count int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, tenantID, folderIDs).Scan(&count); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return count, nil
}

// ListCurrentInFolder lists current versions in a folder by creation time
func (r *PostgresFileRepository) ListCurrentInFolder(ctx context.Context, tenantID, folderID string) ([]models.File, error) {
	if uuid.Validate(folderID) != nil {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT `+fileColumns+`
		FROM %s
		WHERE tenant_id = $1 AND folder_id = $2 AND current_version
		ORDER BY created_at, id
	`, r.tables.Files)
	return r.query(ctx, "list files in folder", query, tenantID, folderID)
}

func (r *PostgresFileRepository) query(ctx context.Context, op, query string, args ...any) ([]models.File, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, *file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return files, nil
}

func scanFile(row pgx.Row) (*models.File, error) {
	var f models.File
	err := row.Scan(
		&f.ID,
		&f.TenantID,
		&f.FolderID,
		&f.Title,
		&f.Version,
		&f.VersionGroup,
		&f.CurrentVersion,
		&f.ForcesaveState,
		&f.ContentLength,
		&f.Comment,
		&f.Changes,
		&f.CreatedBy,
		&f.CreatedAt,
		&f.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
