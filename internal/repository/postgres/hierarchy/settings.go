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

// PostgresRoomSettingsRepository implements the RoomSettingsRepository interface
type PostgresRoomSettingsRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewRoomSettingsRepository creates a new room settings repository
func NewRoomSettingsRepository(config *postgres.RepositoryConfig) hierarchyRepo.RoomSettingsRepository {
	return &PostgresRoomSettingsRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Get returns the stored settings of a room
func (r *PostgresRoomSettingsRepository) Get(ctx context.Context, tenantID, roomID string) (*models.RoomSettings, error) {
	if uuid.Validate(roomID) != nil {
		return nil, fmt.Errorf("room settings %s: %w", roomID, domain.ErrNotFound)
	}
	query := fmt.Sprintf(`
		SELECT tenant_id, room_id, indexing, quota_bytes, updated_at
		FROM %s
		WHERE tenant_id = $1 AND room_id = $2
	`, r.tables.RoomSettings)

	var s models.RoomSettings
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, tenantID, roomID).
		Scan(&s.TenantID, &s.RoomID, &s.Indexing, &s.QuotaBytes, &s.UpdatedAt)
	if err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, fmt.Errorf("room settings %s: %w", roomID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get room settings: %w", err)
	}
	return &s, nil
}

// Upsert stores settings for a room
func (r *PostgresRoomSettingsRepository) Upsert(ctx context.Context, settings *models.RoomSettings) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (tenant_id, room_id, indexing, quota_bytes, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, room_id)
		DO UPDATE SET indexing = EXCLUDED.indexing,
		              quota_bytes = EXCLUDED.quota_bytes,
		              updated_at = EXCLUDED.updated_at
	`, r.tables.RoomSettings)

	executor := postgres.GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		settings.TenantID,
		settings.RoomID,
		settings.Indexing,
		settings.QuotaBytes,
		settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert room settings: %w", err)
	}
	return nil
}

// Delete removes a room's settings row
func (r *PostgresRoomSettingsRepository) Delete(ctx context.Context, tenantID, roomID string) error {
	if uuid.Validate(roomID) != nil {
		return nil
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE tenant_id = $1 AND room_id = $2`, r.tables.RoomSettings)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, tenantID, roomID); err != nil {
		return fmt.Errorf("delete room settings: %w", err)
	}
	return nil
}
