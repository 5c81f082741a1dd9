package hierarchy

import (
	"context"
	"errors"
	"strconv"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	"docspace/internal/domain/services"
	hierarchySvc "docspace/internal/domain/services/hierarchy"
)

// SetEntryOrder moves an entry to a new position inside its parent
func (m *mutator) SetEntryOrder(ctx context.Context, req *hierarchySvc.SetOrderRequest) (*models.OrderEntry, error) {
	op, err := m.begin(ctx, "set_entry_order")
	if err != nil {
		return nil, err
	}
	if err := validateSetOrder(req); err != nil {
		return nil, op.finish(ctx, err)
	}

	var entry *models.OrderEntry
	err = m.run(ctx, op, func(ctx context.Context) error {
		if _, err := m.lock(ctx, op, req.ParentID); err != nil {
			return err
		}
		enabled, err := m.order.Enabled(ctx, op.tenantID, req.ParentID)
		if err != nil {
			return err
		}
		if !enabled {
			return invalidf("manual ordering is disabled for the room of folder %s", req.ParentID)
		}
		stats, err := m.order.denseStats(ctx, op.tenantID, req.ParentID, req.EntryType)
		if err != nil {
			return err
		}
		if req.Order > stats.Count {
			return domain.NewValidation("order " + strconv.Itoa(req.Order) + " out of range 1.." + strconv.Itoa(stats.Count))
		}

		op.enter(ctx, StateMutating)
		entry, err = m.order.Move(ctx, op.tenantID, req.ParentID, req.EntryID, req.EntryType, req.Order)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.emit(ctx, op, services.AuditEntryReordered, req.EntryID, map[string]string{
		"parent_id":  req.ParentID,
		"entry_type": string(req.EntryType),
		"order":      strconv.Itoa(entry.Order),
	})
	return entry, nil
}

// SetRoomIndexing switches manual ordering for a room. Disabling drops every
// order group of the room; enabling numbers the active entries of every
// folder by creation time.
func (m *mutator) SetRoomIndexing(ctx context.Context, roomID string, enabled bool) (*models.RoomSettings, error) {
	op, err := m.begin(ctx, "set_room_indexing")
	if err != nil {
		return nil, err
	}
	if err := requireID("room_id", roomID); err != nil {
		return nil, op.finish(ctx, err)
	}

	var (
		settings *models.RoomSettings
		changed  bool
	)
	err = m.run(ctx, op, func(ctx context.Context) error {
		locked, err := m.lock(ctx, op, roomID)
		if err != nil {
			return err
		}
		room := locked[roomID]
		if !room.IsRoot() {
			return invalidf("folder %s is not a room", roomID)
		}

		settings, err = m.settings.Get(ctx, op.tenantID, roomID)
		if errors.Is(err, domain.ErrNotFound) {
			defaults := m.types.DefaultSettings(room.FolderType)
			defaults.TenantID = op.tenantID
			defaults.RoomID = roomID
			settings, err = &defaults, nil
		}
		if err != nil {
			return err
		}
		changed = settings.Indexing != enabled
		if !changed {
			return nil
		}

		subtree, err := m.tree.Subtree(ctx, op.tenantID, roomID)
		if err != nil {
			return err
		}

		op.enter(ctx, StateMutating)
		for _, folderID := range subtree {
			if enabled {
				err = m.seedFolder(ctx, op.tenantID, folderID)
			} else {
				err = m.clearFolder(ctx, op.tenantID, folderID)
			}
			if err != nil {
				return err
			}
		}

		settings.Indexing = enabled
		settings.UpdatedAt = m.now()
		return m.settings.Upsert(ctx, settings)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		m.resolver.Invalidate(ctx, op.tenantID, roomID)
		m.emit(ctx, op, services.AuditRoomIndexing, roomID, map[string]string{
			"indexing": strconv.FormatBool(enabled),
		})
	}
	return settings, nil
}

func (m *mutator) clearFolder(ctx context.Context, tenantID, folderID string) error {
	for _, entryType := range models.EntryTypes {
		if err := m.order.ClearGroup(ctx, tenantID, folderID, entryType); err != nil {
			return err
		}
	}
	return nil
}

// seedFolder numbers the active child folders and current files of folderID
func (m *mutator) seedFolder(ctx context.Context, tenantID, folderID string) error {
	children, err := m.folders.ListChildren(ctx, tenantID, folderID)
	if err != nil {
		return err
	}
	folderIDs := make([]string, 0, len(children))
	for _, c := range children {
		if !c.IsTrashed() {
			folderIDs = append(folderIDs, c.ID)
		}
	}
	if err := m.order.Seed(ctx, tenantID, folderID, models.EntryTypeFolder, folderIDs); err != nil {
		return err
	}

	files, err := m.files.ListCurrentInFolder(ctx, tenantID, folderID)
	if err != nil {
		return err
	}
	fileIDs := make([]string, len(files))
	for i, f := range files {
		fileIDs[i] = f.ID
	}
	return m.order.Seed(ctx, tenantID, folderID, models.EntryTypeFile, fileIDs)
}

// RecountRoom recomputes the file and folder counters of every folder in a
// room. Used to repair drift; the counters are otherwise kept current.
func (m *mutator) RecountRoom(ctx context.Context, roomID string) error {
	op, err := m.begin(ctx, "recount_room")
	if err != nil {
		return err
	}
	if err := requireID("room_id", roomID); err != nil {
		return op.finish(ctx, err)
	}

	return m.run(ctx, op, func(ctx context.Context) error {
		if _, err := m.lock(ctx, op, roomID); err != nil {
			return err
		}
		subtree, err := m.tree.Subtree(ctx, op.tenantID, roomID)
		if err != nil {
			return err
		}
		op.enter(ctx, StateMutating)
		return m.counters.BulkRecount(ctx, op.tenantID, subtree)
	})
}
