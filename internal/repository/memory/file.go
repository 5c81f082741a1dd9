package memory

import (
	"context"
	"fmt"
	"sort"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
)

// FileRepository implements hierarchyRepo.FileRepository in memory
type FileRepository struct {
	store *Store
}

// NewFileRepository creates a new file repository
func NewFileRepository(store *Store) hierarchyRepo.FileRepository {
	return &FileRepository{store: store}
}

// Insert stores a version row
func (r *FileRepository) Insert(ctx context.Context, file *models.File) error {
	return r.store.view(ctx, func(st *state) error {
		key := tenantKey{file.TenantID, file.ID}
		versions := st.files[key]
		if versions == nil {
			versions = make(map[int]models.File)
			st.files[key] = versions
		}
		if _, ok := versions[file.Version]; ok {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("file %s version %d already exists", file.ID, file.Version),
				ResourceType: "file",
				ResourceID:   file.ID,
			}
		}
		versions[file.Version] = copyFile(*file)
		if st.fileSeq[key] < file.Version {
			st.fileSeq[key] = file.Version
		}
		return nil
	})
}

// NextVersion bumps the per-file sequence
func (r *FileRepository) NextVersion(ctx context.Context, tenantID, fileID string) (int, error) {
	var next int
	err := r.store.view(ctx, func(st *state) error {
		key := tenantKey{tenantID, fileID}
		next = st.fileSeq[key] + 1
		st.fileSeq[key] = next
		return nil
	})
	return next, err
}

// GetCurrent retrieves the current version
func (r *FileRepository) GetCurrent(ctx context.Context, tenantID, fileID string) (*models.File, error) {
	var out *models.File
	err := r.store.view(ctx, func(st *state) error {
		for _, f := range st.files[tenantKey{tenantID, fileID}] {
			if f.CurrentVersion {
				c := copyFile(f)
				out = &c
				return nil
			}
		}
		return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
	})
	return out, err
}

// GetVersion retrieves a version row
func (r *FileRepository) GetVersion(ctx context.Context, tenantID, fileID string, version int) (*models.File, error) {
	var out *models.File
	err := r.store.view(ctx, func(st *state) error {
		f, ok := st.files[tenantKey{tenantID, fileID}][version]
		if !ok {
			return fmt.Errorf("file %s version %d: %w", fileID, version, domain.ErrNotFound)
		}
		c := copyFile(f)
		out = &c
		return nil
	})
	return out, err
}

// ListVersions lists version rows ordered by version
func (r *FileRepository) ListVersions(ctx context.Context, tenantID, fileID string) ([]models.File, error) {
	var out []models.File
	err := r.store.view(ctx, func(st *state) error {
		for _, f := range st.files[tenantKey{tenantID, fileID}] {
			out = append(out, copyFile(f))
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, err
}

// SetCurrent flags one version as current
func (r *FileRepository) SetCurrent(ctx context.Context, tenantID, fileID string, version int) error {
	return r.store.view(ctx, func(st *state) error {
		versions := st.files[tenantKey{tenantID, fileID}]
		if _, ok := versions[version]; !ok {
			return fmt.Errorf("file %s version %d: %w", fileID, version, domain.ErrNotFound)
		}
		for v, f := range versions {
			f.CurrentVersion = v == version
			versions[v] = f
		}
		return nil
	})
}

// DeleteVersion removes a version row
func (r *FileRepository) DeleteVersion(ctx context.Context, tenantID, fileID string, version int) error {
	return r.store.view(ctx, func(st *state) error {
		versions := st.files[tenantKey{tenantID, fileID}]
		if _, ok := versions[version]; !ok {
			return fmt.Errorf("file %s version %d: %w", fileID, version, domain.ErrNotFound)
		}
		delete(versions, version)
		return nil
	})
}

// ShiftVersionGroups adjusts version groups after a deleted version
func (r *FileRepository) ShiftVersionGroups(ctx context.Context, tenantID, fileID string, afterVersion, afterGroup, delta int) error {
	return r.store.view(ctx, func(st *state) error {
		versions := st.files[tenantKey{tenantID, fileID}]
		for v, f := range versions {
			if f.Version > afterVersion && f.VersionGroup > afterGroup {
				f.VersionGroup += delta
				versions[v] = f
			}
		}
		return nil
	})
}

// Move re-parents every version of a file
func (r *FileRepository) Move(ctx context.Context, tenantID, fileID, folderID string) error {
	return r.store.view(ctx, func(st *state) error {
		versions, ok := st.files[tenantKey{tenantID, fileID}]
		if !ok || len(versions) == 0 {
			return fmt.Errorf("file %s: %w", fileID, domain.ErrNotFound)
		}
		for v, f := range versions {
			f.FolderID = folderID
			versions[v] = f
		}
		return nil
	})
}

// DeleteFile removes every version of a file
func (r *FileRepository) DeleteFile(ctx context.Context, tenantID, fileID string) error {
	return r.store.view(ctx, func(st *state) error {
		key := tenantKey{tenantID, fileID}
		delete(st.files, key)
		delete(st.fileSeq, key)
		return nil
	})
}

// DeleteInFolders removes every version row in the listed folders
func (r *FileRepository) DeleteInFolders(ctx context.Context, tenantID string, folderIDs []string) error {
	set := toSet(folderIDs)
	return r.store.view(ctx, func(st *state) error {
		for key, versions := range st.files {
			if key.tenant != tenantID {
				continue
			}
			for v, f := range versions {
				if set[f.FolderID] {
					delete(versions, v)
				}
			}
			if len(versions) == 0 {
				delete(st.files, key)
				delete(st.fileSeq, key)
			}
		}
		return nil
	})
}

// CountCurrentInFolders counts distinct current files in the listed folders
func (r *FileRepository) CountCurrentInFolders(ctx context.Context, tenantID string, folderIDs []string) (int, error) {
	set := toSet(folderIDs)
	count := 0
	err := r.store.view(ctx, func(st *state) error {
		for key, versions := range st.files {
			if key.tenant != tenantID {
				continue
			}
			for _, f := range versions {
				if f.CurrentVersion && set[f.FolderID] {
					count++
					break
				}
			}
		}
		return nil
	})
	return count, err
}

// ListCurrentInFolder lists current versions in a folder ordered by creation time
func (r *FileRepository) ListCurrentInFolder(ctx context.Context, tenantID, folderID string) ([]models.File, error) {
	var out []models.File
	err := r.store.view(ctx, func(st *state) error {
		for key, versions := range st.files {
			if key.tenant != tenantID {
				continue
			}
			for _, f := range versions {
				if f.CurrentVersion && f.FolderID == folderID {
					out = append(out, copyFile(f))
				}
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

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
