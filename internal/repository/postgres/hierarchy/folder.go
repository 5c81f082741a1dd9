package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	"docspace/internal/domain/repositories"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const folderColumns = `id, tenant_id, parent_id, title, folder_type, files_count, folders_count,
		used_space, created_by, modified_by, created_at, modified_at, deleted_at`

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *postgres.RepositoryConfig) hierarchyRepo.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (`+folderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.TenantID,
		folder.ParentID,
		folder.Title,
		folder.FolderType,
		folder.FilesCount,
		folder.FoldersCount,
		folder.UsedSpace,
		folder.CreatedBy,
		folder.ModifiedBy,
		folder.CreatedAt,
		folder.ModifiedAt,
		folder.DeletedAt,
	)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %s already exists", folder.ID),
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}
	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, tenantID, id string) (*models.Folder, error) {
	return r.getOne(ctx, tenantID, id, "")
}

// LockForUpdate reads the folder row with FOR UPDATE
func (r *PostgresFolderRepository) LockForUpdate(ctx context.Context, tenantID, id string) (*models.Folder, error) {
	if !repositories.InTx(ctx) {
		r.logger.Warn("folder lock requested outside a transaction", "folder_id", id)
	}
	return r.getOne(ctx, tenantID, id, "FOR UPDATE")
}

func (r *PostgresFolderRepository) getOne(ctx context.Context, tenantID, id, suffix string) (*models.Folder, error) {
	if uuid.Validate(id) != nil {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		SELECT `+folderColumns+`
		FROM %s
		WHERE tenant_id = $1 AND id = $2
		%s
	`, r.tables.Folders, suffix)

	executor := postgres.GetExecutor(ctx, r.pool)
	folder, err := scanFolder(executor.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}
	return folder, nil
}

// GetMany retrieves the listed folders, skipping unknown ids
func (r *PostgresFolderRepository) GetMany(ctx context.Context, tenantID string, ids []string) ([]models.Folder, error) {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT `+folderColumns+`
		FROM %s
		WHERE tenant_id = $1 AND id = ANY($2)
		ORDER BY created_at, id
	`, r.tables.Folders)
	return r.query(ctx, "get folders", query, tenantID, ids)
}

// UpdateParent moves a single folder row
func (r *PostgresFolderRepository) UpdateParent(ctx context.Context, tenantID, id string, parentID *string, modifiedBy string, at time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $3, modified_by = $4, modified_at = $5
		WHERE tenant_id = $1 AND id = $2
	`, r.tables.Folders)
	return r.execOne(ctx, "update folder parent", id, query, tenantID, id, parentID, modifiedBy, at)
}

// SetCounters overwrites the file and folder counters
func (r *PostgresFolderRepository) SetCounters(ctx context.Context, tenantID, id string, filesCount, foldersCount int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET files_count = $3, folders_count = $4
		WHERE tenant_id = $1 AND id = $2
	`, r.tables.Folders)
	return r.execOne(ctx, "set folder counters", id, query, tenantID, id, filesCount, foldersCount)
}

// AddUsedSpace adds delta to every listed folder
func (r *PostgresFolderRepository) AddUsedSpace(ctx context.Context, tenantID string, ids []string, delta int64) error {
	ids = validUUIDs(ids)
	if len(ids) == 0 || delta == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		UPDATE %s
		SET used_space = used_space + $3
		WHERE tenant_id = $1 AND id = ANY($2)
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, ids, delta); err != nil {
		return fmt.Errorf("add used space: %w", err)
	}
	return nil
}

// SetDeletedAt moves a folder into or out of the trash
func (r *PostgresFolderRepository) SetDeletedAt(ctx context.Context, tenantID, id string, at *time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET deleted_at = $3
		WHERE tenant_id = $1 AND id = $2
	`, r.tables.Folders)
	return r.execOne(ctx, "set folder deleted_at", id, query, tenantID, id, at)
}

// DeleteMany hard-deletes the listed folders
func (r *PostgresFolderRepository) DeleteMany(ctx context.Context, tenantID string, ids []string) error {
	ids = validUUIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND id = ANY($2)`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, ids); err != nil {
		return fmt.Errorf("delete folders: %w", err)
	}
	return nil
}

// ListChildren lists direct child folders ordered by creation time
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, tenantID, parentID string) ([]models.Folder, error) {
	if uuid.Validate(parentID) != nil {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT `+folderColumns+`
		FROM %s
		WHERE tenant_id = $1 AND parent_id = $2
		ORDER BY created_at, id
	`, r.tables.Folders)
	return r.query(ctx, "list child folders", query, tenantID, parentID)
}

// ListRooms lists root folders of a tenant
func (r *PostgresFolderRepository) ListRooms(ctx context.Context, tenantID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT `+folderColumns+`
		FROM %s
		WHERE tenant_id = $1 AND parent_id IS NULL
		ORDER BY created_at, id
	`, r.tables.Folders)
	return r.query(ctx, "list rooms", query, tenantID)
}

// ListTenantIDs lists tenants owning a room
func (r *PostgresFolderRepository) ListTenantIDs(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT tenant_id
		FROM %s
		WHERE parent_id IS NULL
		ORDER BY tenant_id
	`, r.tables.Folders)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	tenants, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}

// ListTrashedBefore lists trashed folders of every tenant, oldest first
func (r *PostgresFolderRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT `+folderColumns+`
		FROM %s
		WHERE deleted_at IS NOT NULL AND deleted_at < $1
		ORDER BY deleted_at, id
		LIMIT NULLIF($2, 0)
	`, r.tables.Folders)
	return r.query(ctx, "list trashed folders", query, cutoff, limit)
}

func (r *PostgresFolderRepository) query(ctx context.Context, op, query string, args ...any) ([]models.Folder, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, *folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return folders, nil
}

func (r *PostgresFolderRepository) execOne(ctx context.Context, op, id, query string, args ...any) error {
	if uuid.Validate(id) != nil {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanFolder(row pgx.Row) (*models.Folder, error) {
	var f models.Folder
	err := row.Scan(
		&f.ID,
		&f.TenantID,
		&f.ParentID,
		&f.Title,
		&f.FolderType,
		&f.FilesCount,
		&f.FoldersCount,
		&f.UsedSpace,
		&f.CreatedBy,
		&f.ModifiedBy,
		&f.CreatedAt,
		&f.ModifiedAt,
		&f.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// validUUIDs drops ids that cannot be stored in a UUID column; they can
// never match a row and would otherwise fail the whole statement.
func validUUIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if uuid.Validate(id) == nil {
			out = append(out, id)
		}
	}
	return out
}
