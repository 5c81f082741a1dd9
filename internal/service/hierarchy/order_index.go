package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/domain/services"
)

// OrderIndex maintains the manual position of entries inside a parent folder.
// Within one (tenant, parent, entry type) group orders are exactly 1..n.
// Insert and Remove are no-ops unless the parent's room has indexing enabled.
// Callers serialize writes to a group by locking the room and the parent folder rows.
type OrderIndex struct {
	orders   hierarchyRepo.OrderRepository
	tree     *TreeIndex
	settings services.RoomSettingsResolver
	logger   *slog.Logger
}

// NewOrderIndex creates an order index
func NewOrderIndex(
	orders hierarchyRepo.OrderRepository,
	tree *TreeIndex,
	settings services.RoomSettingsResolver,
	logger *slog.Logger,
) *OrderIndex {
	return &OrderIndex{
		orders:   orders,
		tree:     tree,
		settings: settings,
		logger:   logger,
	}
}

// Enabled reports whether the room containing parentID uses manual ordering
func (o *OrderIndex) Enabled(ctx context.Context, tenantID, parentID string) (bool, error) {
	roomID, err := o.tree.Root(ctx, tenantID, parentID)
	if err != nil {
		return false, err
	}
	enabled, err := o.settings.IsIndexingEnabled(ctx, tenantID, roomID)
	if err != nil {
		return false, fmt.Errorf("resolve indexing for room %s: %w", roomID, err)
	}
	return enabled, nil
}

// NextOrder returns max(order)+1 for the group, or 1 when it is empty
func (o *OrderIndex) NextOrder(ctx context.Context, tenantID, parentID string, entryType models.EntryType) (int, error) {
	stats, err := o.orders.Stats(ctx, tenantID, parentID, entryType)
	if err != nil {
		return 0, fmt.Errorf("order stats: %w", err)
	}
	if stats.Count == 0 {
		return 1, nil
	}
	return stats.MaxOrder + 1, nil
}

// Insert places entryID at atOrder, shifting entries at or after it up by
// one. atOrder 0 appends. Returns nil when ordering is disabled for the room.
func (o *OrderIndex) Insert(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType, atOrder int) (*models.OrderEntry, error) {
	enabled, err := o.Enabled(ctx, tenantID, parentID)
	if err != nil || !enabled {
		return nil, err
	}
	return o.insert(ctx, tenantID, parentID, entryID, entryType, atOrder)
}

func (o *OrderIndex) insert(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType, atOrder int) (*models.OrderEntry, error) {
	stats, err := o.denseStats(ctx, tenantID, parentID, entryType)
	if err != nil {
		return nil, err
	}

	if atOrder == 0 {
		atOrder = stats.Count + 1
	}
	if atOrder < 1 || atOrder > stats.Count+1 {
		return nil, domain.NewValidation(fmt.Sprintf("order %d out of range 1..%d", atOrder, stats.Count+1))
	}

	if atOrder <= stats.Count {
		if err := o.orders.Shift(ctx, tenantID, parentID, entryType, atOrder, 1); err != nil {
			return nil, fmt.Errorf("shift %s orders from %d: %w", entryType, atOrder, err)
		}
	}

	entry := &models.OrderEntry{
		TenantID:  tenantID,
		ParentID:  parentID,
		EntryID:   entryID,
		EntryType: entryType,
		Order:     atOrder,
	}
	if err := o.orders.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("insert order entry: %w", err)
	}
	return entry, nil
}

// Remove deletes the entry's row and closes the gap behind it. A missing row
// is not an error: the entry was created while indexing was off.
func (o *OrderIndex) Remove(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType) error {
	enabled, err := o.Enabled(ctx, tenantID, parentID)
	if err != nil || !enabled {
		return err
	}
	_, err = o.remove(ctx, tenantID, parentID, entryID, entryType)
	return err
}

func (o *OrderIndex) remove(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType) (*models.OrderEntry, error) {
	entry, err := o.orders.Get(ctx, tenantID, parentID, entryID, entryType)
	if errors.Is(err, domain.ErrNotFound) {
		o.logger.Debug("no order entry to remove",
			"tenant_id", tenantID,
			"parent_id", parentID,
			"entry_id", entryID,
			"entry_type", entryType,
		)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order entry: %w", err)
	}

	if _, err := o.denseStats(ctx, tenantID, parentID, entryType); err != nil {
		return nil, err
	}

	if err := o.orders.Delete(ctx, tenantID, parentID, entryID, entryType); err != nil {
		return nil, fmt.Errorf("delete order entry: %w", err)
	}
	if err := o.orders.Shift(ctx, tenantID, parentID, entryType, entry.Order+1, -1); err != nil {
		return nil, fmt.Errorf("shift %s orders after %d: %w", entryType, entry.Order, err)
	}
	return entry, nil
}

// Move repositions an existing entry within its group
func (o *OrderIndex) Move(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType, toOrder int) (*models.OrderEntry, error) {
	removed, err := o.remove(ctx, tenantID, parentID, entryID, entryType)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, domain.NewNotFound("order entry", entryID)
	}
	return o.insert(ctx, tenantID, parentID, entryID, entryType, toOrder)
}

// ClearGroup deletes every row of the group
func (o *OrderIndex) ClearGroup(ctx context.Context, tenantID, parentID string, entryType models.EntryType) error {
	if err := o.orders.DeleteGroup(ctx, tenantID, parentID, entryType); err != nil {
		return fmt.Errorf("clear %s order group of %s: %w", entryType, parentID, err)
	}
	return nil
}

// Seed numbers entryIDs 1..n in the given order. The group must be empty.
func (o *OrderIndex) Seed(ctx context.Context, tenantID, parentID string, entryType models.EntryType, entryIDs []string) error {
	stats, err := o.orders.Stats(ctx, tenantID, parentID, entryType)
	if err != nil {
		return fmt.Errorf("order stats: %w", err)
	}
	if stats.Count > 0 {
		return fmt.Errorf("%w: cannot seed non-empty %s group of %s", domain.ErrOrderConflict, entryType, parentID)
	}

	for i, id := range entryIDs {
		entry := &models.OrderEntry{
			TenantID:  tenantID,
			ParentID:  parentID,
			EntryID:   id,
			EntryType: entryType,
			Order:     i + 1,
		}
		if err := o.orders.Insert(ctx, entry); err != nil {
			return fmt.Errorf("seed order entry: %w", err)
		}
	}
	return nil
}

// List returns the group's rows in order
func (o *OrderIndex) List(ctx context.Context, tenantID, parentID string, entryType models.EntryType) ([]models.OrderEntry, error) {
	return o.orders.List(ctx, tenantID, parentID, entryType)
}

// denseStats fails with ErrOrderConflict when the group has gaps or duplicates.
// Such a group is never renumbered automatically.
func (o *OrderIndex) denseStats(ctx context.Context, tenantID, parentID string, entryType models.EntryType) (models.OrderGroupStats, error) {
	stats, err := o.orders.Stats(ctx, tenantID, parentID, entryType)
	if err != nil {
		return stats, fmt.Errorf("order stats: %w", err)
	}
	if !stats.Dense() {
		o.logger.Error("order group is not dense",
			"tenant_id", tenantID,
			"parent_id", parentID,
			"entry_type", entryType,
			"count", stats.Count,
			"min_order", stats.MinOrder,
			"max_order", stats.MaxOrder,
		)
		return stats, fmt.Errorf("%w: %s group of %s holds %d entries in %d..%d",
			domain.ErrOrderConflict, entryType, parentID, stats.Count, stats.MinOrder, stats.MaxOrder)
	}
	return stats, nil
}
