package hierarchy

import (
	"context"
	"strconv"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	"docspace/internal/domain/services"
	hierarchySvc "docspace/internal/domain/services/hierarchy"
)

// CreateFile creates version 1 of a new file
func (m *mutator) CreateFile(ctx context.Context, req *hierarchySvc.CreateFileRequest) (*models.File, error) {
	op, err := m.begin(ctx, "create_file")
	if err != nil {
		return nil, err
	}
	if err := validateCreateFile(req); err != nil {
		return nil, op.finish(ctx, err)
	}

	var file *models.File
	err = m.run(ctx, op, func(ctx context.Context) error {
		locked, err := m.lock(ctx, op, req.FolderID)
		if err != nil {
			return err
		}
		if err := m.ensureActive(ctx, op.tenantID, locked[req.FolderID]); err != nil {
			return err
		}
		if err := m.counters.EnsureQuota(ctx, op.tenantID, req.FolderID, req.ContentLength); err != nil {
			return err
		}

		op.enter(ctx, StateMutating)
		now := m.now()
		file = &models.File{
			ID:             m.newID(),
			TenantID:       op.tenantID,
			FolderID:       req.FolderID,
			Title:          req.Title,
			ForcesaveState: models.ForcesaveNone,
			ContentLength:  req.ContentLength,
			Comment:        req.Comment,
			CreatedBy:      op.userID,
			CreatedAt:      now,
			ModifiedAt:     now,
		}
		if err := m.versions.Create(ctx, file); err != nil {
			return err
		}
		if _, err := m.order.Insert(ctx, op.tenantID, req.FolderID, file.ID, models.EntryTypeFile, 0); err != nil {
			return err
		}
		if err := m.counters.AdjustUsedSpace(ctx, op.tenantID, req.FolderID, req.ContentLength); err != nil {
			return err
		}
		return m.recountChains(ctx, op.tenantID, req.FolderID)
	})
	if err != nil {
		return nil, err
	}

	m.emit(ctx, op, services.AuditFileCreated, file.ID, map[string]string{
		"folder_id": file.FolderID,
		"title":     file.Title,
	})
	return file, nil
}

// lockFile locks the folder holding fileID plus any extra folders and
// returns the current version read after the locks were taken
func (m *mutator) lockFile(ctx context.Context, op *operation, fileID string, extra ...string) (*models.File, map[string]*models.Folder, error) {
	current, err := m.files.GetCurrent(ctx, op.tenantID, fileID)
	if err != nil {
		return nil, nil, err
	}
	locked, err := m.lock(ctx, op, append([]string{current.FolderID}, extra...)...)
	if err != nil {
		return nil, nil, err
	}

	current, err = m.files.GetCurrent(ctx, op.tenantID, fileID)
	if err != nil {
		return nil, nil, err
	}
	if locked[current.FolderID] == nil {
		return nil, nil, domain.ErrConcurrentModification
	}
	return current, locked, nil
}

// fileSize sums the content length of every version of a file
func (m *mutator) fileSize(ctx context.Context, tenantID, fileID string) (int64, error) {
	versions, err := m.files.ListVersions(ctx, tenantID, fileID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, v := range versions {
		total += v.ContentLength
	}
	return total, nil
}

// MoveFile moves every version of a file to another folder
func (m *mutator) MoveFile(ctx context.Context, fileID, folderID string) (*models.File, error) {
	op, err := m.begin(ctx, "move_file")
	if err != nil {
		return nil, err
	}
	if err := requireID("file_id", fileID); err != nil {
		return nil, op.finish(ctx, err)
	}
	if err := requireID("folder_id", folderID); err != nil {
		return nil, op.finish(ctx, err)
	}

	var (
		moved   *models.File
		fromID  string
		changed bool
	)
	err = m.run(ctx, op, func(ctx context.Context) error {
		current, locked, err := m.lockFile(ctx, op, fileID, folderID)
		if err != nil {
			return err
		}
		fromID = current.FolderID
		changed = fromID != folderID
		if err := m.ensureActive(ctx, op.tenantID, locked[folderID]); err != nil {
			return err
		}
		if !changed {
			moved = current
			return nil
		}

		size, err := m.fileSize(ctx, op.tenantID, fileID)
		if err != nil {
			return err
		}
		oldRoom, err := m.tree.Root(ctx, op.tenantID, fromID)
		if err != nil {
			return err
		}
		newRoom, err := m.tree.Root(ctx, op.tenantID, folderID)
		if err != nil {
			return err
		}
		if oldRoom != newRoom {
			if err := m.counters.EnsureQuota(ctx, op.tenantID, folderID, size); err != nil {
				return err
			}
		}

		op.enter(ctx, StateMutating)
		if err := m.order.Remove(ctx, op.tenantID, fromID, fileID, models.EntryTypeFile); err != nil {
			return err
		}
		if err := m.files.Move(ctx, op.tenantID, fileID, folderID); err != nil {
			return err
		}
		if err := m.counters.AdjustUsedSpace(ctx, op.tenantID, fromID, -size); err != nil {
			return err
		}
		if err := m.counters.AdjustUsedSpace(ctx, op.tenantID, folderID, size); err != nil {
			return err
		}
		if _, err := m.order.Insert(ctx, op.tenantID, folderID, fileID, models.EntryTypeFile, 0); err != nil {
			return err
		}
		if err := m.recountChains(ctx, op.tenantID, fromID, folderID); err != nil {
			return err
		}

		moved = current
		moved.FolderID = folderID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		m.emit(ctx, op, services.AuditFileMoved, fileID, map[string]string{
			"from_folder_id": fromID,
			"to_folder_id":   folderID,
		})
	}
	return moved, nil
}

// DeleteFile deletes a file with all of its versions
func (m *mutator) DeleteFile(ctx context.Context, fileID string) error {
	op, err := m.begin(ctx, "delete_file")
	if err != nil {
		return err
	}
	if err := requireID("file_id", fileID); err != nil {
		return op.finish(ctx, err)
	}

	var folderID string
	err = m.run(ctx, op, func(ctx context.Context) error {
		current, _, err := m.lockFile(ctx, op, fileID)
		if err != nil {
			return err
		}
		folderID = current.FolderID
		size, err := m.fileSize(ctx, op.tenantID, fileID)
		if err != nil {
			return err
		}

		op.enter(ctx, StateMutating)
		if err := m.order.Remove(ctx, op.tenantID, folderID, fileID, models.EntryTypeFile); err != nil {
			return err
		}
		if err := m.files.DeleteFile(ctx, op.tenantID, fileID); err != nil {
			return err
		}
		if err := m.counters.AdjustUsedSpace(ctx, op.tenantID, folderID, -size); err != nil {
			return err
		}
		return m.recountChains(ctx, op.tenantID, folderID)
	})
	if err != nil {
		return err
	}

	m.emit(ctx, op, services.AuditFileDeleted, fileID, map[string]string{"folder_id": folderID})
	return nil
}

// AddFileVersion appends a version, makes it current and charges its size
// to the folder chain
func (m *mutator) AddFileVersion(ctx context.Context, req *hierarchySvc.AddVersionRequest) (*models.File, error) {
	op, err := m.begin(ctx, "add_file_version")
	if err != nil {
		return nil, err
	}
	if err := validateAddVersion(req); err != nil {
		return nil, op.finish(ctx, err)
	}

	var added *models.File
	err = m.run(ctx, op, func(ctx context.Context) error {
		current, _, err := m.lockFile(ctx, op, req.FileID)
		if err != nil {
			return err
		}
		if err := ExpectCurrent(current, req.ExpectedCurrent); err != nil {
			return err
		}
		if err := m.counters.EnsureQuota(ctx, op.tenantID, current.FolderID, req.ContentLength); err != nil {
			return err
		}

		op.enter(ctx, StateMutating)
		added, err = m.versions.AppendVersion(ctx, op.tenantID, req.FileID, models.NewVersion{
			Title:         req.Title,
			ContentLength: req.ContentLength,
			Comment:       req.Comment,
			Changes:       req.Changes,
			Forcesave:     req.Forcesave,
		}, op.userID, m.now())
		if err != nil {
			return err
		}
		return m.counters.AdjustUsedSpace(ctx, op.tenantID, current.FolderID, req.ContentLength)
	})
	if err != nil {
		return nil, err
	}

	m.emit(ctx, op, services.AuditVersionAdded, req.FileID, map[string]string{
		"version":       strconv.Itoa(added.Version),
		"version_group": strconv.Itoa(added.VersionGroup),
	})
	return added, nil
}

// PromoteFileVersion makes an older version current again
func (m *mutator) PromoteFileVersion(ctx context.Context, req *hierarchySvc.PromoteVersionRequest) (*models.File, error) {
	op, err := m.begin(ctx, "promote_file_version")
	if err != nil {
		return nil, err
	}
	if err := validatePromoteVersion(req); err != nil {
		return nil, op.finish(ctx, err)
	}

	var promoted *models.File
	err = m.run(ctx, op, func(ctx context.Context) error {
		current, _, err := m.lockFile(ctx, op, req.FileID)
		if err != nil {
			return err
		}
		if err := ExpectCurrent(current, req.ExpectedCurrent); err != nil {
			return err
		}
		if current.Version == req.Version {
			promoted = current
			return nil
		}
		if _, err := m.files.GetVersion(ctx, op.tenantID, req.FileID, req.Version); err != nil {
			return err
		}

		op.enter(ctx, StateMutating)
		promoted, err = m.versions.PromoteVersion(ctx, op.tenantID, req.FileID, req.Version)
		return err
	})
	if err != nil {
		return nil, err
	}

	m.emit(ctx, op, services.AuditVersionPromoted, req.FileID, map[string]string{
		"version": strconv.Itoa(promoted.Version),
	})
	return promoted, nil
}

// DeleteFileVersion deletes a non-current version and releases its space
func (m *mutator) DeleteFileVersion(ctx context.Context, fileID string, version int) error {
	op, err := m.begin(ctx, "delete_file_version")
	if err != nil {
		return err
	}
	if err := requireID("file_id", fileID); err != nil {
		return op.finish(ctx, err)
	}
	if version < 1 {
		return op.finish(ctx, domain.NewValidation("version must be positive"))
	}

	err = m.run(ctx, op, func(ctx context.Context) error {
		current, _, err := m.lockFile(ctx, op, fileID)
		if err != nil {
			return err
		}
		target, err := m.files.GetVersion(ctx, op.tenantID, fileID, version)
		if err != nil {
			return err
		}
		if target.CurrentVersion {
			return invalidf("version %d of file %s is current; promote another version first", version, fileID)
		}

		op.enter(ctx, StateMutating)
		deleted, err := m.versions.DeleteVersion(ctx, op.tenantID, fileID, version)
		if err != nil {
			return err
		}
		return m.counters.AdjustUsedSpace(ctx, op.tenantID, current.FolderID, -deleted.ContentLength)
	})
	if err != nil {
		return err
	}

	m.emit(ctx, op, services.AuditVersionDeleted, fileID, map[string]string{
		"version": strconv.Itoa(version),
	})
	return nil
}
