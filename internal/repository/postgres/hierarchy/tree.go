package hierarchy

import (
	"context"
	"fmt"
	"log/slog"

	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTreeRepository implements the TreeRepository interface over the
// closure table
type PostgresTreeRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewTreeRepository creates a new closure table repository
func NewTreeRepository(config *postgres.RepositoryConfig) hierarchyRepo.TreeRepository {
	return &PostgresTreeRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// InsertEdges stores closure rows in one batch
func (r *PostgresTreeRepository) InsertEdges(ctx context.Context, edges []models.TreeEdge) error {
	if len(edges) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (tenant_id, folder_id, ancestor_id, level)
		VALUES ($1, $2, $3, $4)
	`, r.tables.TreeEdges)

	batch := &pgx.Batch{}
	for _, e := range edges {
		batch.Queue(query, e.TenantID, e.FolderID, e.AncestorID, e.Level)
	}

	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.SendBatch(ctx, batch).Close(); err != nil {
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("insert tree edges: duplicate edge: %w", err)
		}
		return fmt.Errorf("insert tree edges: %w", err)
	}
	return nil
}

// Ancestors returns the folder's rows, nearest ancestor first
func (r *PostgresTreeRepository) Ancestors(ctx context.Context, tenantID, folderID string) ([]models.TreeEdge, error) {
	if uuid.Validate(folderID) != nil {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT tenant_id, folder_id, ancestor_id, level
		FROM %s
		WHERE tenant_id = $1 AND folder_id = $2
		ORDER BY level
	`, r.tables.TreeEdges)
	return r.query(ctx, "list ancestors", query, tenantID, folderID)
}

// Top returns the folder's farthest ancestor row
func (r *PostgresTreeRepository) Top(ctx context.Context, tenantID, folderID string) (models.TreeEdge, bool, error) {
	if uuid.Validate(folderID) != nil {
		return models.TreeEdge{}, false, nil
	}
	query := fmt.Sprintf(`
		SELECT tenant_id, folder_id, ancestor_id, level
		FROM %s
		WHERE tenant_id = $1 AND folder_id = $2
		ORDER BY level DESC
		LIMIT 1
	`, r.tables.TreeEdges)

	var e models.TreeEdge
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, tenantID, folderID).Scan(&e.TenantID, &e.FolderID, &e.AncestorID, &e.Level)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return models.TreeEdge{}, false, nil
		}
		return models.TreeEdge{}, false, fmt.Errorf("get top ancestor: %w", err)
	}
	return e, true, nil
}

// Descendants returns one row per descendant of folderID
func (r *PostgresTreeRepository) Descendants(ctx context.Context, tenantID, folderID string) ([]models.TreeEdge, error) {
	if uuid.Validate(folderID) != nil {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT tenant_id, folder_id, ancestor_id, level
		FROM %s
		WHERE tenant_id = $1 AND ancestor_id = $2
		ORDER BY level, folder_id
	`, r.tables.TreeEdges)
	return r.query(ctx, "list descendants", query, tenantID, folderID)
}

// DeleteExternalEdges removes rows linking the set to ancestors outside it
func (r *PostgresTreeRepository) DeleteExternalEdges(ctx context.Context, tenantID string, set []string) error {
	set = validUUIDs(set)
	if len(set) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE tenant_id = $1 AND folder_id = ANY($2) AND NOT (ancestor_id = ANY($2))
	`, r.tables.TreeEdges)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, tenantID, set)
	if err != nil {
		return fmt.Errorf("delete external tree edges: %w", err)
	}
	r.logger.Debug("external tree edges deleted", "tenant_id", tenantID, "rows", tag.RowsAffected())
	return nil
}

// DeleteForFolders removes every row whose folder is listed
func (r *PostgresTreeRepository) DeleteForFolders(ctx context.Context, tenantID string, folderIDs []string) error {
	folderIDs = validUUIDs(folderIDs)
	if len(folderIDs) == 0 {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND folder_id = ANY($2)`, r.tables.TreeEdges)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, folderIDs); err != nil {
		return fmt.Errorf("delete tree edges: %w", err)
	}
	return nil
}

func (r *PostgresTreeRepository) query(ctx context.Context, op, query string, args ...any) ([]models.TreeEdge, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var edges []models.TreeEdge
	for rows.Next() {
		var e models.TreeEdge
		if err := rows.Scan(&e.TenantID, &e.FolderID, &e.AncestorID, &e.Level); err != nil {
			return nil, fmt.Errorf("scan tree edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return edges, nil
}
