package hierarchy

import (
	"context"
	"math"
	"sort"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
)

// GetFolder returns a folder of the current tenant
func (m *mutator) GetFolder(ctx context.Context, folderID string) (*models.Folder, error) {
	tenantID, err := m.tenant.CurrentTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return m.folders.GetByID(ctx, tenantID, folderID)
}

// GetPath returns a folder with its ancestors, room first
func (m *mutator) GetPath(ctx context.Context, folderID string) (*models.FolderPath, error) {
	tenantID, err := m.tenant.CurrentTenantID(ctx)
	if err != nil {
		return nil, err
	}
	folder, err := m.folders.GetByID(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}
	edges, err := m.tree.Ancestors(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.AncestorID
	}
	found, err := m.folders.GetMany(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Folder, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}

	ancestors := make([]models.Folder, 0, len(edges))
	for i := len(edges) - 1; i >= 0; i-- {
		if f, ok := byID[edges[i].AncestorID]; ok {
			ancestors = append(ancestors, f)
		}
	}
	return &models.FolderPath{Folder: folder, Ancestors: ancestors}, nil
}

// RoomOf returns the room a folder lives in
func (m *mutator) RoomOf(ctx context.Context, folderID string) (*models.Folder, error) {
	tenantID, err := m.tenant.CurrentTenantID(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := m.folders.GetByID(ctx, tenantID, folderID); err != nil {
		return nil, err
	}
	roomID, err := m.tree.Root(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}
	return m.folders.GetByID(ctx, tenantID, roomID)
}

// ListChildren lists the active subfolders and current files of a folder.
// Entries follow the manual order when the room is indexed, otherwise
// creation time.
func (m *mutator) ListChildren(ctx context.Context, folderID string) (*models.FolderContents, error) {
	tenantID, err := m.tenant.CurrentTenantID(ctx)
	if err != nil {
		return nil, err
	}
	folder, err := m.folders.GetByID(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}

	children, err := m.folders.ListChildren(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}
	folders := make([]models.Folder, 0, len(children))
	for _, c := range children {
		if !c.IsTrashed() {
			folders = append(folders, c)
		}
	}
	files, err := m.files.ListCurrentInFolder(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}

	roomID, err := m.tree.Root(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}
	indexed, err := m.resolver.IsIndexingEnabled(ctx, tenantID, roomID)
	if err != nil {
		return nil, err
	}
	if indexed {
		folderPos, err := m.positions(ctx, tenantID, folderID, models.EntryTypeFolder)
		if err != nil {
			return nil, err
		}
		filePos, err := m.positions(ctx, tenantID, folderID, models.EntryTypeFile)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(folders, func(i, j int) bool {
			return rank(folderPos, folders[i].ID) < rank(folderPos, folders[j].ID)
		})
		sort.SliceStable(files, func(i, j int) bool {
			return rank(filePos, files[i].ID) < rank(filePos, files[j].ID)
		})
	}

	return &models.FolderContents{Folder: folder, Folders: folders, Files: files}, nil
}

func (m *mutator) positions(ctx context.Context, tenantID, parentID string, entryType models.EntryType) (map[string]int, error) {
	entries, err := m.order.List(ctx, tenantID, parentID, entryType)
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int, len(entries))
	for _, e := range entries {
		pos[e.EntryID] = e.Order
	}
	return pos, nil
}

// rank sorts entries without an order row after the ordered ones
func rank(pos map[string]int, id string) int {
	if p, ok := pos[id]; ok {
		return p
	}
	return math.MaxInt
}

// ListRooms lists the rooms of the current tenant
func (m *mutator) ListRooms(ctx context.Context) ([]models.Folder, error) {
	tenantID, err := m.tenant.CurrentTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return m.folders.ListRooms(ctx, tenantID)
}

// GetFile returns the current version of a file
func (m *mutator) GetFile(ctx context.Context, fileID string) (*models.File, error) {
	tenantID, err := m.tenant.CurrentTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return m.files.GetCurrent(ctx, tenantID, fileID)
}

// ListVersions lists every version of a file, oldest first
func (m *mutator) ListVersions(ctx context.Context, fileID string) ([]models.File, error) {
	tenantID, err := m.tenant.CurrentTenantID(ctx)
	if err != nil {
		return nil, err
	}
	versions, err := m.files.ListVersions(ctx, tenantID, fileID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, domain.NewNotFound("file", fileID)
	}
	return versions, nil
}

// StableVersion returns the last version at or below maxVersion that was not
// a system forcesave
func (m *mutator) StableVersion(ctx context.Context, fileID string, maxVersion int) (*models.File, error) {
	tenantID, err := m.tenant.CurrentTenantID(ctx)
	if err != nil {
		return nil, err
	}
	return m.versions.StableVersionAt(ctx, tenantID, fileID, maxVersion)
}
