package hierarchy

import (
	"context"

	models "docspace/internal/domain/models/hierarchy"
)

// OrderRepository stores manual ordering rows, grouped by
// (tenant, parent folder, entry type)
type OrderRepository interface {
	// Stats returns count, min and max order of the group
	Stats(ctx context.Context, tenantID, parentID string, entryType models.EntryType) (models.OrderGroupStats, error)

	// Get retrieves an entry's row; returns domain.ErrNotFound if absent
	Get(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType) (*models.OrderEntry, error)

	// Insert stores a row; the group's (order) must stay unique
	Insert(ctx context.Context, entry *models.OrderEntry) error

	// Shift adds delta to every order >= fromOrder in the group
	Shift(ctx context.Context, tenantID, parentID string, entryType models.EntryType, fromOrder, delta int) error

	// Delete removes one row
	Delete(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType) error

	// DeleteGroup removes every row of the group
	DeleteGroup(ctx context.Context, tenantID, parentID string, entryType models.EntryType) error

	// List returns the group's rows ordered by order ascending
	List(ctx context.Context, tenantID, parentID string, entryType models.EntryType) ([]models.OrderEntry, error)
}

// RoomSettingsRepository persists per-room settings
type RoomSettingsRepository interface {
	// Get returns the stored settings; returns domain.ErrNotFound if none were saved
	Get(ctx context.Context, tenantID, roomID string) (*models.RoomSettings, error)

	// Upsert stores settings for a room
	Upsert(ctx context.Context, settings *models.RoomSettings) error

	// Delete removes a room's settings row
	Delete(ctx context.Context, tenantID, roomID string) error
}
