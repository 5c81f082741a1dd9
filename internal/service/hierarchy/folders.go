package hierarchy

import (
	"context"
	"strconv"
	"time"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	"docspace/internal/domain/services"
	hierarchySvc "docspace/internal/domain/services/hierarchy"
)

// CreateRoom creates a root folder together with its settings row
func (m *mutator) CreateRoom(ctx context.Context, req *hierarchySvc.CreateRoomRequest) (*models.Folder, error) {
	op, err := m.begin(ctx, "create_room")
	if err != nil {
		return nil, err
	}
	if err := m.validateCreateRoom(req); err != nil {
		return nil, op.finish(ctx, err)
	}

	now := m.now()
	room := &models.Folder{
		ID:         m.newID(),
		TenantID:   op.tenantID,
		Title:      req.Title,
		FolderType: req.FolderType,
		CreatedBy:  op.userID,
		ModifiedBy: op.userID,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	settings := m.types.DefaultSettings(req.FolderType)
	settings.TenantID = op.tenantID
	settings.RoomID = room.ID
	settings.UpdatedAt = now
	if req.Indexing != nil {
		settings.Indexing = *req.Indexing
	}
	if req.QuotaBytes != nil {
		settings.QuotaBytes = *req.QuotaBytes
	}

	err = m.run(ctx, op, func(ctx context.Context) error {
		op.enter(ctx, StateLocked)
		op.enter(ctx, StateMutating)
		if err := m.folders.Create(ctx, room); err != nil {
			return err
		}
		return m.settings.Upsert(ctx, &settings)
	})
	if err != nil {
		return nil, err
	}

	m.resolver.Invalidate(ctx, op.tenantID, room.ID)
	m.emit(ctx, op, services.AuditRoomCreated, room.ID, map[string]string{
		"title":       room.Title,
		"folder_type": string(room.FolderType),
	})
	return room, nil
}

// CreateFolder creates a folder under an existing parent
func (m *mutator) CreateFolder(ctx context.Context, req *hierarchySvc.CreateFolderRequest) (*models.Folder, error) {
	op, err := m.begin(ctx, "create_folder")
	if err != nil {
		return nil, err
	}
	if err := validateCreateFolder(req); err != nil {
		return nil, op.finish(ctx, err)
	}

	var folder *models.Folder
	err = m.run(ctx, op, func(ctx context.Context) error {
		locked, err := m.lock(ctx, op, req.ParentID)
		if err != nil {
			return err
		}
		if err := m.ensureActive(ctx, op.tenantID, locked[req.ParentID]); err != nil {
			return err
		}

		op.enter(ctx, StateMutating)
		now := m.now()
		parentID := req.ParentID
		folder = &models.Folder{
			ID:         m.newID(),
			TenantID:   op.tenantID,
			ParentID:   &parentID,
			Title:      req.Title,
			FolderType: models.FolderTypeDefault,
			CreatedBy:  op.userID,
			ModifiedBy: op.userID,
			CreatedAt:  now,
			ModifiedAt: now,
		}
		if err := m.folders.Create(ctx, folder); err != nil {
			return err
		}
		if err := m.tree.Attach(ctx, op.tenantID, folder.ID, parentID); err != nil {
			return err
		}
		if _, err := m.order.Insert(ctx, op.tenantID, parentID, folder.ID, models.EntryTypeFolder, 0); err != nil {
			return err
		}
		return m.recountChains(ctx, op.tenantID, parentID)
	})
	if err != nil {
		return nil, err
	}

	m.emit(ctx, op, services.AuditFolderCreated, folder.ID, map[string]string{
		"parent_id": req.ParentID,
		"title":     folder.Title,
	})
	return folder, nil
}

// MoveSubtree re-parents a folder and its whole subtree. Every structural
// check runs before the first write.
func (m *mutator) MoveSubtree(ctx context.Context, folderID, newParentID string) (*models.Folder, error) {
	op, err := m.begin(ctx, "move_subtree")
	if err != nil {
		return nil, err
	}
	if err := requireID("folder_id", folderID); err != nil {
		return nil, op.finish(ctx, err)
	}
	if err := requireID("parent_id", newParentID); err != nil {
		return nil, op.finish(ctx, err)
	}

	var (
		moved       *models.Folder
		oldParentID string
	)
	err = m.run(ctx, op, func(ctx context.Context) error {
		current, err := m.folders.GetByID(ctx, op.tenantID, folderID)
		if err != nil {
			return err
		}
		if current.IsRoot() {
			return invalidf("room %s cannot be moved", folderID)
		}
		oldParentID = *current.ParentID

		locked, err := m.lock(ctx, op, folderID, oldParentID, newParentID)
		if err != nil {
			return err
		}
		folder := locked[folderID]
		if folder.ParentID == nil || *folder.ParentID != oldParentID {
			return domain.ErrConcurrentModification
		}
		if err := m.ensureActive(ctx, op.tenantID, locked[newParentID]); err != nil {
			return err
		}
		if err := m.tree.CheckMove(ctx, op.tenantID, folderID, newParentID); err != nil {
			return err
		}
		if oldParentID == newParentID {
			moved = folder
			return nil
		}

		oldRoom, err := m.tree.Root(ctx, op.tenantID, oldParentID)
		if err != nil {
			return err
		}
		newRoom, err := m.tree.Root(ctx, op.tenantID, newParentID)
		if err != nil {
			return err
		}
		if oldRoom != newRoom {
			if err := m.counters.EnsureQuota(ctx, op.tenantID, newParentID, folder.UsedSpace); err != nil {
				return err
			}
		}

		op.enter(ctx, StateMutating)
		if !folder.IsTrashed() {
			if err := m.order.Remove(ctx, op.tenantID, oldParentID, folderID, models.EntryTypeFolder); err != nil {
				return err
			}
		}
		if err := m.tree.Reparent(ctx, op.tenantID, folderID, newParentID); err != nil {
			return err
		}
		now := m.now()
		if err := m.folders.UpdateParent(ctx, op.tenantID, folderID, &newParentID, op.userID, now); err != nil {
			return err
		}
		if err := m.counters.AdjustUsedSpace(ctx, op.tenantID, oldParentID, -folder.UsedSpace); err != nil {
			return err
		}
		if err := m.counters.AdjustUsedSpace(ctx, op.tenantID, newParentID, folder.UsedSpace); err != nil {
			return err
		}
		if !folder.IsTrashed() {
			if _, err := m.order.Insert(ctx, op.tenantID, newParentID, folderID, models.EntryTypeFolder, 0); err != nil {
				return err
			}
		}
		if err := m.recountChains(ctx, op.tenantID, oldParentID, newParentID); err != nil {
			return err
		}

		moved, err = m.folders.GetByID(ctx, op.tenantID, folderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if oldParentID != newParentID {
		m.emit(ctx, op, services.AuditFolderMoved, folderID, map[string]string{
			"from_parent_id": oldParentID,
			"to_parent_id":   newParentID,
		})
	}
	return moved, nil
}

// DeleteSubtree permanently deletes a folder with everything below it
func (m *mutator) DeleteSubtree(ctx context.Context, folderID string) error {
	op, err := m.begin(ctx, "delete_subtree")
	if err != nil {
		return err
	}
	if err := requireID("folder_id", folderID); err != nil {
		return op.finish(ctx, err)
	}

	var (
		deleted []string
		isRoom  bool
	)
	err = m.run(ctx, op, func(ctx context.Context) error {
		folder, err := m.lockWithParent(ctx, op, folderID)
		if err != nil {
			return err
		}
		isRoom = folder.IsRoot()
		deleted, err = m.deleteSubtree(ctx, op, folder)
		return err
	})
	if err != nil {
		return err
	}

	if isRoom {
		m.resolver.Invalidate(ctx, op.tenantID, folderID)
	}

	m.emit(ctx, op, services.AuditFolderDeleted, folderID, map[string]string{
		"folders_deleted": strconv.Itoa(len(deleted)),
	})
	return nil
}

// lockWithParent locks a folder and, unless it is a room, its parent
func (m *mutator) lockWithParent(ctx context.Context, op *operation, folderID string) (*models.Folder, error) {
	folder, err := m.folders.GetByID(ctx, op.tenantID, folderID)
	if err != nil {
		return nil, err
	}
	ids := []string{folderID}
	if folder.ParentID != nil {
		ids = append(ids, *folder.ParentID)
	}
	locked, err := m.lock(ctx, op, ids...)
	if err != nil {
		return nil, err
	}
	folder = locked[folderID]
	if folder.ParentID != nil && locked[*folder.ParentID] == nil {
		return nil, domain.ErrConcurrentModification
	}
	return folder, nil
}

// deleteSubtree removes folder, its descendants, their files, order rows and
// closure rows, then rolls the freed space off the parent chain
func (m *mutator) deleteSubtree(ctx context.Context, op *operation, folder *models.Folder) ([]string, error) {
	op.enter(ctx, StateMutating)

	if folder.ParentID != nil && !folder.IsTrashed() {
		if err := m.order.Remove(ctx, op.tenantID, *folder.ParentID, folder.ID, models.EntryTypeFolder); err != nil {
			return nil, err
		}
	}

	set, err := m.tree.Detach(ctx, op.tenantID, folder.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range set {
		for _, entryType := range models.EntryTypes {
			if err := m.order.ClearGroup(ctx, op.tenantID, id, entryType); err != nil {
				return nil, err
			}
		}
	}
	if err := m.files.DeleteInFolders(ctx, op.tenantID, set); err != nil {
		return nil, err
	}
	if err := m.folders.DeleteMany(ctx, op.tenantID, set); err != nil {
		return nil, err
	}

	if folder.ParentID == nil {
		if err := m.settings.Delete(ctx, op.tenantID, folder.ID); err != nil {
			return nil, err
		}
		return set, nil
	}

	if err := m.counters.AdjustUsedSpace(ctx, op.tenantID, *folder.ParentID, -folder.UsedSpace); err != nil {
		return nil, err
	}
	if err := m.recountChains(ctx, op.tenantID, *folder.ParentID); err != nil {
		return nil, err
	}
	return set, nil
}

// TrashFolder moves a folder into the trash. It stays in the tree and keeps
// counting toward used space until purged.
func (m *mutator) TrashFolder(ctx context.Context, folderID string) (*models.Folder, error) {
	return m.setTrashed(ctx, "trash_folder", folderID, true)
}

// RestoreFolder takes a folder out of the trash and appends it to its
// parent's manual order
func (m *mutator) RestoreFolder(ctx context.Context, folderID string) (*models.Folder, error) {
	return m.setTrashed(ctx, "restore_folder", folderID, false)
}

func (m *mutator) setTrashed(ctx context.Context, name, folderID string, trash bool) (*models.Folder, error) {
	op, err := m.begin(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := requireID("folder_id", folderID); err != nil {
		return nil, op.finish(ctx, err)
	}

	var result *models.Folder
	err = m.run(ctx, op, func(ctx context.Context) error {
		folder, err := m.lockWithParent(ctx, op, folderID)
		if err != nil {
			return err
		}
		if folder.IsRoot() {
			return invalidf("room %s cannot be trashed", folderID)
		}
		if folder.IsTrashed() == trash {
			if trash {
				return invalidf("folder %s is already in the trash", folderID)
			}
			return invalidf("folder %s is not in the trash", folderID)
		}

		op.enter(ctx, StateMutating)
		var at *time.Time
		if trash {
			now := m.now()
			at = &now
			err = m.order.Remove(ctx, op.tenantID, *folder.ParentID, folderID, models.EntryTypeFolder)
		} else {
			_, err = m.order.Insert(ctx, op.tenantID, *folder.ParentID, folderID, models.EntryTypeFolder, 0)
		}
		if err != nil {
			return err
		}
		if err := m.folders.SetDeletedAt(ctx, op.tenantID, folderID, at); err != nil {
			return err
		}
		folder.DeletedAt = at
		result = folder
		return nil
	})
	if err != nil {
		return nil, err
	}

	action := services.AuditFolderRestored
	if trash {
		action = services.AuditFolderTrashed
	}
	m.emit(ctx, op, action, folderID, nil)
	return result, nil
}

// PurgeTrashed permanently deletes folderID if it is still in the trash and
// was trashed before cutoff
func (m *mutator) PurgeTrashed(ctx context.Context, folderID string, cutoff time.Time) (bool, error) {
	op, err := m.begin(ctx, "purge_trashed")
	if err != nil {
		return false, err
	}

	purged := false
	err = m.run(ctx, op, func(ctx context.Context) error {
		purged = false
		folder, err := m.lockWithParent(ctx, op, folderID)
		if err != nil {
			return err
		}
		if !folder.IsTrashed() || !folder.DeletedAt.Before(cutoff) {
			return nil
		}
		if _, err := m.deleteSubtree(ctx, op, folder); err != nil {
			return err
		}
		purged = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if purged {
		m.emit(ctx, op, services.AuditFolderDeleted, folderID, map[string]string{"reason": "trash_retention"})
	}
	return purged, nil
}
