package memory

import (
	"context"
	"fmt"
	"sort"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
)

// TreeRepository implements hierarchyRepo.TreeRepository in memory
type TreeRepository struct {
	store *Store
}

// NewTreeRepository creates a new closure-table repository
func NewTreeRepository(store *Store) hierarchyRepo.TreeRepository {
	return &TreeRepository{store: store}
}

// InsertEdges stores closure rows in both indexes
func (r *TreeRepository) InsertEdges(ctx context.Context, edges []models.TreeEdge) error {
	return r.store.view(ctx, func(st *state) error {
		for _, e := range edges {
			if e.Level < 1 {
				return fmt.Errorf("edge %s->%s level %d: %w", e.FolderID, e.AncestorID, e.Level, domain.ErrValidation)
			}
			fk := tenantKey{e.TenantID, e.FolderID}
			ak := tenantKey{e.TenantID, e.AncestorID}
			if _, dup := st.descendants[ak][e.FolderID]; dup {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("edge %s->%s already exists", e.FolderID, e.AncestorID),
					ResourceType: "tree_edge",
					ResourceID:   e.FolderID,
				}
			}

			rows := append(st.ancestors[fk], e)
			sort.Slice(rows, func(i, j int) bool { return rows[i].Level < rows[j].Level })
			st.ancestors[fk] = rows

			if st.descendants[ak] == nil {
				st.descendants[ak] = make(map[string]int)
			}
			st.descendants[ak][e.FolderID] = e.Level
		}
		return nil
	})
}

// Ancestors returns the rows of a folder, closest first
func (r *TreeRepository) Ancestors(ctx context.Context, tenantID, folderID string) ([]models.TreeEdge, error) {
	var out []models.TreeEdge
	err := r.store.view(ctx, func(st *state) error {
		out = append(out, st.ancestors[tenantKey{tenantID, folderID}]...)
		return nil
	})
	return out, err
}

// Top returns the greatest-level row of a folder
func (r *TreeRepository) Top(ctx context.Context, tenantID, folderID string) (models.TreeEdge, bool, error) {
	var top models.TreeEdge
	var ok bool
	err := r.store.view(ctx, func(st *state) error {
		rows := st.ancestors[tenantKey{tenantID, folderID}]
		if len(rows) > 0 {
			top, ok = rows[len(rows)-1], true
		}
		return nil
	})
	return top, ok, err
}

// Descendants returns one row per descendant of folderID
func (r *TreeRepository) Descendants(ctx context.Context, tenantID, folderID string) ([]models.TreeEdge, error) {
	var out []models.TreeEdge
	err := r.store.view(ctx, func(st *state) error {
		for d, level := range st.descendants[tenantKey{tenantID, folderID}] {
			out = append(out, models.TreeEdge{TenantID: tenantID, FolderID: d, AncestorID: folderID, Level: level})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].FolderID < out[j].FolderID
	})
	return out, err
}

// DeleteExternalEdges drops rows leading from the set to ancestors outside it
func (r *TreeRepository) DeleteExternalEdges(ctx context.Context, tenantID string, set []string) error {
	inSet := toSet(set)
	return r.store.view(ctx, func(st *state) error {
		for _, id := range set {
			fk := tenantKey{tenantID, id}
			kept := st.ancestors[fk][:0]
			for _, e := range st.ancestors[fk] {
				if inSet[e.AncestorID] {
					kept = append(kept, e)
					continue
				}
				removeDescendant(st, tenantKey{tenantID, e.AncestorID}, id)
			}
			setAncestors(st, fk, kept)
		}
		return nil
	})
}

// DeleteForFolders drops every row of the listed folders
func (r *TreeRepository) DeleteForFolders(ctx context.Context, tenantID string, folderIDs []string) error {
	return r.store.view(ctx, func(st *state) error {
		for _, id := range folderIDs {
			fk := tenantKey{tenantID, id}
			for _, e := range st.ancestors[fk] {
				removeDescendant(st, tenantKey{tenantID, e.AncestorID}, id)
			}
			delete(st.ancestors, fk)
		}
		return nil
	})
}

func removeDescendant(st *state, ancestor tenantKey, folderID string) {
	m := st.descendants[ancestor]
	delete(m, folderID)
	if len(m) == 0 {
		delete(st.descendants, ancestor)
	}
}

func setAncestors(st *state, key tenantKey, rows []models.TreeEdge) {
	if len(rows) == 0 {
		delete(st.ancestors, key)
		return
	}
	st.ancestors[key] = rows
}
