package hierarchy

import (
	"context"

	models "docspace/internal/domain/models/hierarchy"
)

// TreeRepository stores closure-table rows. Ancestor and descendant lookups
// are both single indexed reads.
type TreeRepository interface {
	// InsertEdges stores closure rows
	InsertEdges(ctx context.Context, edges []models.TreeEdge) error

	// Ancestors returns the rows of folderID ordered by level ascending
	Ancestors(ctx context.Context, tenantID, folderID string) ([]models.TreeEdge, error)

	// Top returns the row of folderID with the greatest level; ok=false for a root
	Top(ctx context.Context, tenantID, folderID string) (edge models.TreeEdge, ok bool, err error)

	// Descendants returns rows whose ancestor is folderID (one per descendant)
	Descendants(ctx context.Context, tenantID, folderID string) ([]models.TreeEdge, error)

	// DeleteExternalEdges deletes rows whose folder is in set and whose
	// ancestor is not in set
	DeleteExternalEdges(ctx context.Context, tenantID string, set []string) error

	// DeleteForFolders deletes every row whose folder is listed
	DeleteForFolders(ctx context.Context, tenantID string, folderIDs []string) error
}
