package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"

	"github.com/google/uuid"
)

// FolderRepository implements hierarchyRepo.FolderRepository in memory
type FolderRepository struct {
	store *Store
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(store *Store) hierarchyRepo.FolderRepository {
	return &FolderRepository{store: store}
}

// Create creates a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}
	return r.store.view(ctx, func(st *state) error {
		key := tenantKey{folder.TenantID, folder.ID}
		if _, ok := st.folders[key]; ok {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder %s already exists", folder.ID),
				ResourceType: "folder",
				ResourceID:   folder.ID,
			}
		}
		st.folders[key] = copyFolder(*folder)
		return nil
	})
}

// GetByID retrieves a folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, tenantID, id string) (*models.Folder, error) {
	var out *models.Folder
	err := r.store.view(ctx, func(st *state) error {
		f, ok := st.folders[tenantKey{tenantID, id}]
		if !ok {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		c := copyFolder(f)
		out = &c
		return nil
	})
	return out, err
}

// GetMany retrieves the listed folders, skipping unknown ids
func (r *FolderRepository) GetMany(ctx context.Context, tenantID string, ids []string) ([]models.Folder, error) {
	var out []models.Folder
	err := r.store.view(ctx, func(st *state) error {
		for _, id := range ids {
			if f, ok := st.folders[tenantKey{tenantID, id}]; ok {
				out = append(out, copyFolder(f))
			}
		}
		return nil
	})
	return out, err
}

// LockForUpdate reads a folder. Transactions on the store are already
// serialized, so no additional lock is taken.
func (r *FolderRepository) LockForUpdate(ctx context.Context, tenantID, id string) (*models.Folder, error) {
	return r.GetByID(ctx, tenantID, id)
}

// UpdateParent moves a folder row
func (r *FolderRepository) UpdateParent(ctx context.Context, tenantID, id string, parentID *string, modifiedBy string, at time.Time) error {
	return r.update(ctx, tenantID, id, func(f *models.Folder) {
		if parentID == nil {
			f.ParentID = nil
		} else {
			p := *parentID
			f.ParentID = &p
		}
		f.ModifiedBy = modifiedBy
		f.ModifiedAt = at
	})
}

// SetCounters overwrites file and folder counters
func (r *FolderRepository) SetCounters(ctx context.Context, tenantID, id string, filesCount, foldersCount int) error {
	return r.update(ctx, tenantID, id, func(f *models.Folder) {
		f.FilesCount = filesCount
		f.FoldersCount = foldersCount
	})
}

// AddUsedSpace adds delta to the used space of each listed folder
func (r *FolderRepository) AddUsedSpace(ctx context.Context, tenantID string, ids []string, delta int64) error {
	return r.store.view(ctx, func(st *state) error {
		for _, id := range ids {
			key := tenantKey{tenantID, id}
			f, ok := st.folders[key]
			if !ok {
				return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
			}
			f.UsedSpace += delta
			st.folders[key] = f
		}
		return nil
	})
}

// SetDeletedAt sets or clears the trash timestamp
func (r *FolderRepository) SetDeletedAt(ctx context.Context, tenantID, id string, at *time.Time) error {
	return r.update(ctx, tenantID, id, func(f *models.Folder) {
		if at == nil {
			f.DeletedAt = nil
		} else {
			d := *at
			f.DeletedAt = &d
		}
	})
}

// DeleteMany hard-deletes the listed folders
func (r *FolderRepository) DeleteMany(ctx context.Context, tenantID string, ids []string) error {
	return r.store.view(ctx, func(st *state) error {
		for _, id := range ids {
			delete(st.folders, tenantKey{tenantID, id})
		}
		return nil
	})
}

// ListChildren lists direct child folders
func (r *FolderRepository) ListChildren(ctx context.Context, tenantID, parentID string) ([]models.Folder, error) {
	return r.list(ctx, func(f models.Folder) bool {
		return f.TenantID == tenantID && f.ParentID != nil && *f.ParentID == parentID
	})
}

// ListRooms lists root folders of a tenant
func (r *FolderRepository) ListRooms(ctx context.Context, tenantID string) ([]models.Folder, error) {
	return r.list(ctx, func(f models.Folder) bool {
		return f.TenantID == tenantID && f.ParentID == nil
	})
}

// ListTenantIDs lists tenants owning a room, sorted
func (r *FolderRepository) ListTenantIDs(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	err := r.store.view(ctx, func(st *state) error {
		for key, f := range st.folders {
			if f.ParentID == nil {
				seen[key.tenant] = true
			}
		}
		return nil
	})
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, err
}

// ListTrashedBefore lists trashed folders of every tenant
func (r *FolderRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Folder, error) {
	folders, err := r.list(ctx, func(f models.Folder) bool {
		return f.DeletedAt != nil && f.DeletedAt.Before(cutoff)
	})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(folders) > limit {
		folders = folders[:limit]
	}
	return folders, nil
}

func (r *FolderRepository) update(ctx context.Context, tenantID, id string, fn func(f *models.Folder)) error {
	return r.store.view(ctx, func(st *state) error {
		key := tenantKey{tenantID, id}
		f, ok := st.folders[key]
		if !ok {
			return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		fn(&f)
		st.folders[key] = f
		return nil
	})
}

func (r *FolderRepository) list(ctx context.Context, match func(f models.Folder) bool) ([]models.Folder, error) {
	var out []models.Folder
	err := r.store.view(ctx, func(st *state) error {
		for _, f := range st.folders {
			if match(f) {
				out = append(out, copyFolder(f))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
