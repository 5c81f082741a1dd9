package hierarchy

import (
	"context"
	"fmt"
	"log/slog"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
)

// TreeIndex maintains the closure table. For a folder F with parent chain
// F -> P1 -> ... -> Pd it stores (F, Pi, i) for every ancestor; roots have no
// rows. Ancestor, descendant and room lookups are single indexed reads.
type TreeIndex struct {
	tree   hierarchyRepo.TreeRepository
	logger *slog.Logger
}

// NewTreeIndex creates a tree index over the closure repository
func NewTreeIndex(tree hierarchyRepo.TreeRepository, logger *slog.Logger) *TreeIndex {
	return &TreeIndex{tree: tree, logger: logger}
}

// Ancestors returns the ancestors of folderID, closest first. Empty for a root.
func (t *TreeIndex) Ancestors(ctx context.Context, tenantID, folderID string) ([]models.TreeEdge, error) {
	edges, err := t.tree.Ancestors(ctx, tenantID, folderID)
	if err != nil {
		return nil, fmt.Errorf("get ancestors of %s: %w", folderID, err)
	}
	return edges, nil
}

// Chain returns folderID followed by its ancestors, closest first
func (t *TreeIndex) Chain(ctx context.Context, tenantID, folderID string) ([]string, error) {
	edges, err := t.Ancestors(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}
	chain := make([]string, 0, len(edges)+1)
	chain = append(chain, folderID)
	for _, e := range edges {
		chain = append(chain, e.AncestorID)
	}
	return chain, nil
}

// Root returns the room of folderID: its greatest-level ancestor, or the
// folder itself when it is a root
func (t *TreeIndex) Root(ctx context.Context, tenantID, folderID string) (string, error) {
	top, ok, err := t.tree.Top(ctx, tenantID, folderID)
	if err != nil {
		return "", fmt.Errorf("get root of %s: %w", folderID, err)
	}
	if !ok {
		return folderID, nil
	}
	return top.AncestorID, nil
}

// Descendants returns every folder below folderID (excluding it), with
// Level holding the distance from folderID
func (t *TreeIndex) Descendants(ctx context.Context, tenantID, folderID string) ([]models.TreeEdge, error) {
	edges, err := t.tree.Descendants(ctx, tenantID, folderID)
	if err != nil {
		return nil, fmt.Errorf("get descendants of %s: %w", folderID, err)
	}
	return edges, nil
}

// Subtree returns folderID followed by all of its descendants
func (t *TreeIndex) Subtree(ctx context.Context, tenantID, folderID string) ([]string, error) {
	edges, err := t.Descendants(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges)+1)
	ids = append(ids, folderID)
	for _, e := range edges {
		ids = append(ids, e.FolderID)
	}
	return ids, nil
}

// IsAncestor reports whether ancestorID is strictly above folderID
func (t *TreeIndex) IsAncestor(ctx context.Context, tenantID, ancestorID, folderID string) (bool, error) {
	edges, err := t.Ancestors(ctx, tenantID, folderID)
	if err != nil {
		return false, err
	}
	for _, e := range edges {
		if e.AncestorID == ancestorID {
			return true, nil
		}
	}
	return false, nil
}

// CheckMove returns a CycleError if newParentID is folderID or lies below it.
// It performs no writes.
func (t *TreeIndex) CheckMove(ctx context.Context, tenantID, folderID, newParentID string) error {
	if folderID == newParentID {
		return &domain.CycleError{FolderID: folderID, NewParentID: newParentID}
	}
	below, err := t.IsAncestor(ctx, tenantID, folderID, newParentID)
	if err != nil {
		return err
	}
	if below {
		return &domain.CycleError{FolderID: folderID, NewParentID: newParentID}
	}
	return nil
}

// Attach stores the closure rows of a new folder placed under parentID:
// one row per ancestor of the parent shifted one level, plus the direct row
func (t *TreeIndex) Attach(ctx context.Context, tenantID, newFolderID, parentID string) error {
	if err := t.CheckMove(ctx, tenantID, newFolderID, parentID); err != nil {
		return err
	}

	parentEdges, err := t.Ancestors(ctx, tenantID, parentID)
	if err != nil {
		return err
	}

	edges := make([]models.TreeEdge, 0, len(parentEdges)+1)
	edges = append(edges, models.TreeEdge{TenantID: tenantID, FolderID: newFolderID, AncestorID: parentID, Level: 1})
	for _, e := range parentEdges {
		edges = append(edges, models.TreeEdge{TenantID: tenantID, FolderID: newFolderID, AncestorID: e.AncestorID, Level: e.Level + 1})
	}

	if err := t.tree.InsertEdges(ctx, edges); err != nil {
		return fmt.Errorf("attach %s under %s: %w", newFolderID, parentID, err)
	}
	return nil
}

// Reparent moves the subtree rooted at folderID under newParentID. Rows that
// point from the subtree to ancestors outside it are replaced by rows to the
// new ancestor chain; rows inside the subtree keep their relative levels.
// The cycle check runs before any write.
func (t *TreeIndex) Reparent(ctx context.Context, tenantID, folderID, newParentID string) error {
	if folderID == newParentID {
		return &domain.CycleError{FolderID: folderID, NewParentID: newParentID}
	}

	descendants, err := t.Descendants(ctx, tenantID, folderID)
	if err != nil {
		return err
	}
	for _, d := range descendants {
		if d.FolderID == newParentID {
			return &domain.CycleError{FolderID: folderID, NewParentID: newParentID}
		}
	}

	newAncestors, err := t.Ancestors(ctx, tenantID, newParentID)
	if err != nil {
		return err
	}

	// distance of every subtree member from folderID
	members := make([]models.TreeEdge, 0, len(descendants)+1)
	members = append(members, models.TreeEdge{FolderID: folderID, Level: 0})
	members = append(members, descendants...)

	set := make([]string, len(members))
	for i, m := range members {
		set[i] = m.FolderID
	}

	if err := t.tree.DeleteExternalEdges(ctx, tenantID, set); err != nil {
		return fmt.Errorf("detach subtree %s: %w", folderID, err)
	}

	edges := make([]models.TreeEdge, 0, len(members)*(len(newAncestors)+1))
	for _, m := range members {
		edges = append(edges, models.TreeEdge{TenantID: tenantID, FolderID: m.FolderID, AncestorID: newParentID, Level: m.Level + 1})
		for _, a := range newAncestors {
			edges = append(edges, models.TreeEdge{TenantID: tenantID, FolderID: m.FolderID, AncestorID: a.AncestorID, Level: m.Level + 1 + a.Level})
		}
	}

	if err := t.tree.InsertEdges(ctx, edges); err != nil {
		return fmt.Errorf("attach subtree %s under %s: %w", folderID, newParentID, err)
	}

	t.logger.Debug("subtree reparented",
		"tenant_id", tenantID,
		"folder_id", folderID,
		"new_parent_id", newParentID,
		"subtree_size", len(members),
		"rows_written", len(edges),
	)
	return nil
}

// Detach deletes the closure rows of folderID and its whole subtree and
// returns the ids of the subtree (folderID first)
func (t *TreeIndex) Detach(ctx context.Context, tenantID, folderID string) ([]string, error) {
	set, err := t.Subtree(ctx, tenantID, folderID)
	if err != nil {
		return nil, err
	}
	if err := t.tree.DeleteForFolders(ctx, tenantID, set); err != nil {
		return nil, fmt.Errorf("detach %s: %w", folderID, err)
	}
	return set, nil
}
