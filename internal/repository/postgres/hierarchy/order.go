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
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOrderRepository implements the OrderRepository interface. The
// (group, order) unique constraint is deferred, so Shift may pass through
// transient duplicates.
type PostgresOrderRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(config *postgres.RepositoryConfig) hierarchyRepo.OrderRepository {
	return &PostgresOrderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Stats returns count, min and max order of the group
func (r *PostgresOrderRepository) Stats(ctx context.Context, tenantID, parentID string, entryType models.EntryType) (models.OrderGroupStats, error) {
	var stats models.OrderGroupStats
	if uuid.Validate(parentID) != nil {
		return stats, nil
	}
	query := fmt.Sprintf(`
		SELECT COUNT(*), COALESCE(MIN("order"), 0), COALESCE(MAX("order"), 0)
		FROM %s
		WHERE tenant_id = $1 AND parent_folder_id = $2 AND entry_type = $3
	`, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, tenantID, parentID, entryType).Scan(&stats.Count, &stats.MinOrder, &stats.MaxOrder)
	if err != nil {
		return stats, fmt.Errorf("order group stats: %w", err)
	}
	return stats, nil
}

// Get retrieves an entry's row
func (r *PostgresOrderRepository) Get(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType) (*models.OrderEntry, error) {
	if uuid.Validate(parentID) != nil || uuid.Validate(entryID) != nil {
		return nil, fmt.Errorf("order entry %s: %w", entryID, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		SELECT tenant_id, parent_folder_id, entry_id, entry_type, "order"
		FROM %s
		WHERE tenant_id = $1 AND parent_folder_id = $2 AND entry_id = $3 AND entry_type = $4
	`, r.tables.OrderEntries)

	var e models.OrderEntry
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, tenantID, parentID, entryID, entryType).
		Scan(&e.TenantID, &e.ParentID, &e.EntryID, &e.EntryType, &e.Order)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("order entry %s: %w", entryID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get order entry: %w", err)
	}
	return &e, nil
}

// Insert stores a row
func (r *PostgresOrderRepository) Insert(ctx context.Context, entry *models.OrderEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (tenant_id, parent_folder_id, entry_type, entry_id, "order")
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query, entry.TenantID, entry.ParentID, entry.EntryType, entry.EntryID, entry.Order)
	if err != nil {
		if postgres.IsPgDuplicateError(err) {
			return fmt.Errorf("order entry %s in %s: %w", entry.EntryID, entry.ParentID, domain.ErrOrderConflict)
		}
		return fmt.Errorf("insert order entry: %w", err)
	}
	return nil
}

// Shift adds delta to every order >= fromOrder in the group
func (r *PostgresOrderRepository) Shift(ctx context.Context, tenantID, parentID string, entryType models.EntryType, fromOrder, delta int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET "order" = "order" + $5
		WHERE tenant_id = $1 AND parent_folder_id = $2 AND entry_type = $3 AND "order" >= $4
	`, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, parentID, entryType, fromOrder, delta); err != nil {
		return fmt.Errorf("shift order group: %w", err)
	}
	return nil
}

// Delete removes one row
func (r *PostgresOrderRepository) Delete(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType) error {
	if uuid.Validate(parentID) != nil || uuid.Validate(entryID) != nil {
		return nil
	}
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE tenant_id = $1 AND parent_folder_id = $2 AND entry_id = $3 AND entry_type = $4
	`, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, parentID, entryID, entryType); err != nil {
		return fmt.Errorf("delete order entry: %w", err)
	}
	return nil
}

// DeleteGroup removes every row of the group
func (r *PostgresOrderRepository) DeleteGroup(ctx context.Context, tenantID, parentID string, entryType models.EntryType) error {
	if uuid.Validate(parentID) != nil {
		return nil
	}
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE tenant_id = $1 AND parent_folder_id = $2 AND entry_type = $3
	`, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, parentID, entryType); err != nil {
		return fmt.Errorf("delete order group: %w", err)
	}
	return nil
}

// List returns the group's rows by order
func (r *PostgresOrderRepository) List(ctx context.Context, tenantID, parentID string, entryType models.EntryType) ([]models.OrderEntry, error) {
	if uuid.Validate(parentID) != nil {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT tenant_id, parent_folder_id, entry_id, entry_type, "order"
		FROM %s
		WHERE tenant_id = $1 AND parent_folder_id = $2 AND entry_type = $3
		ORDER BY "order"
	`, r.tables.OrderEntries)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, tenantID, parentID, entryType)
	if err != nil {
		return nil, fmt.Errorf("list order group: %w", err)
	}
	defer rows.Close()

	var entries []models.OrderEntry
	for rows.Next() {
		var e models.OrderEntry
		if err := rows.Scan(&e.TenantID, &e.ParentID, &e.EntryID, &e.EntryType, &e.Order); err != nil {
			return nil, fmt.Errorf("scan order entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order group: %w", err)
	}
	return entries, nil
}
