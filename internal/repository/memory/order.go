package memory

import (
	"context"
	"fmt"
	"sort"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
)

// OrderRepository implements hierarchyRepo.OrderRepository in memory
type OrderRepository struct {
	store *Store
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(store *Store) hierarchyRepo.OrderRepository {
	return &OrderRepository{store: store}
}

// Stats summarizes a group
func (r *OrderRepository) Stats(ctx context.Context, tenantID, parentID string, entryType models.EntryType) (models.OrderGroupStats, error) {
	var stats models.OrderGroupStats
	err := r.store.view(ctx, func(st *state) error {
		for _, order := range st.orders[groupKey{tenantID, parentID, entryType}] {
			if stats.Count == 0 || order < stats.MinOrder {
				stats.MinOrder = order
			}
			if order > stats.MaxOrder {
				stats.MaxOrder = order
			}
			stats.Count++
		}
		return nil
	})
	return stats, err
}

// Get retrieves an entry's order row
func (r *OrderRepository) Get(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType) (*models.OrderEntry, error) {
	var out *models.OrderEntry
	err := r.store.view(ctx, func(st *state) error {
		order, ok := st.orders[groupKey{tenantID, parentID, entryType}][entryID]
		if !ok {
			return fmt.Errorf("order entry %s: %w", entryID, domain.ErrNotFound)
		}
		out = &models.OrderEntry{TenantID: tenantID, ParentID: parentID, EntryID: entryID, EntryType: entryType, Order: order}
		return nil
	})
	return out, err
}

// Insert stores an order row, enforcing uniqueness of entry and order
func (r *OrderRepository) Insert(ctx context.Context, entry *models.OrderEntry) error {
	return r.store.view(ctx, func(st *state) error {
		key := groupKey{entry.TenantID, entry.ParentID, entry.EntryType}
		group := st.orders[key]
		if group == nil {
			group = make(map[string]int)
			st.orders[key] = group
		}
		if _, ok := group[entry.EntryID]; ok {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("entry %s is already ordered", entry.EntryID),
				ResourceType: "order",
				ResourceID:   entry.EntryID,
			}
		}
		for id, order := range group {
			if order == entry.Order {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("order %d is taken by %s", order, id),
					ResourceType: "order",
					ResourceID:   id,
				}
			}
		}
		group[entry.EntryID] = entry.Order
		return nil
	})
}

// Shift moves every order >= fromOrder by delta
func (r *OrderRepository) Shift(ctx context.Context, tenantID, parentID string, entryType models.EntryType, fromOrder, delta int) error {
	return r.store.view(ctx, func(st *state) error {
		group := st.orders[groupKey{tenantID, parentID, entryType}]
		for id, order := range group {
			if order >= fromOrder {
				group[id] = order + delta
			}
		}
		return nil
	})
}

// Delete removes one order row
func (r *OrderRepository) Delete(ctx context.Context, tenantID, parentID, entryID string, entryType models.EntryType) error {
	return r.store.view(ctx, func(st *state) error {
		key := groupKey{tenantID, parentID, entryType}
		delete(st.orders[key], entryID)
		if len(st.orders[key]) == 0 {
			delete(st.orders, key)
		}
		return nil
	})
}

// DeleteGroup removes every row of a group
func (r *OrderRepository) DeleteGroup(ctx context.Context, tenantID, parentID string, entryType models.EntryType) error {
	return r.store.view(ctx, func(st *state) error {
		delete(st.orders, groupKey{tenantID, parentID, entryType})
		return nil
	})
}

// List returns a group ordered by position
func (r *OrderRepository) List(ctx context.Context, tenantID, parentID string, entryType models.EntryType) ([]models.OrderEntry, error) {
	var out []models.OrderEntry
	err := r.store.view(ctx, func(st *state) error {
		for id, order := range st.orders[groupKey{tenantID, parentID, entryType}] {
			out = append(out, models.OrderEntry{TenantID: tenantID, ParentID: parentID, EntryID: id, EntryType: entryType, Order: order})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, err
}

// SettingsRepository implements hierarchyRepo.RoomSettingsRepository in memory
type SettingsRepository struct {
	store *Store
}

// NewSettingsRepository creates a new room settings repository
func NewSettingsRepository(store *Store) hierarchyRepo.RoomSettingsRepository {
	return &SettingsRepository{store: store}
}

// Get returns stored settings
func (r *SettingsRepository) Get(ctx context.Context, tenantID, roomID string) (*models.RoomSettings, error) {
	var out *models.RoomSettings
	err := r.store.view(ctx, func(st *state) error {
		s, ok := st.settings[tenantKey{tenantID, roomID}]
		if !ok {
			return fmt.Errorf("settings for room %s: %w", roomID, domain.ErrNotFound)
		}
		out = &s
		return nil
	})
	return out, err
}

// Upsert stores settings
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.RoomSettings) error {
	return r.store.view(ctx, func(st *state) error {
		st.settings[tenantKey{settings.TenantID, settings.RoomID}] = *settings
		return nil
	})
}

// Delete removes settings
func (r *SettingsRepository) Delete(ctx context.Context, tenantID, roomID string) error {
	return r.store.view(ctx, func(st *state) error {
		delete(st.settings, tenantKey{tenantID, roomID})
		return nil
	})
}
