package hierarchy

import (
	"context"
	"time"

	models "docspace/internal/domain/models/hierarchy"
)

// FolderRepository defines data access operations for folders.
// Every method is scoped by tenantID; rows of other tenants are invisible.
type FolderRepository interface {
	// Create inserts a folder. ID is assigned by the repository when empty.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder; returns domain.ErrNotFound for unknown or foreign ids
	GetByID(ctx context.Context, tenantID, id string) (*models.Folder, error)

	// GetMany retrieves the given folders, silently skipping unknown ids
	GetMany(ctx context.Context, tenantID string, ids []string) ([]models.Folder, error)

	// LockForUpdate reads the folder row and holds a row lock until the
	// surrounding transaction ends
	LockForUpdate(ctx context.Context, tenantID, id string) (*models.Folder, error)

	// UpdateParent moves a single folder row (closure rows are handled separately)
	UpdateParent(ctx context.Context, tenantID, id string, parentID *string, modifiedBy string, at time.Time) error

	// SetCounters overwrites the denormalized file and folder counters
	SetCounters(ctx context.Context, tenantID, id string, filesCount, foldersCount int) error

	// AddUsedSpace adds delta to the used space counter of every listed folder
	AddUsedSpace(ctx context.Context, tenantID string, ids []string, delta int64) error

	// SetDeletedAt moves a folder into (non-nil) or out of (nil) the trash
	SetDeletedAt(ctx context.Context, tenantID, id string, at *time.Time) error

	// DeleteMany hard-deletes the listed folders
	DeleteMany(ctx context.Context, tenantID string, ids []string) error

	// ListChildren lists the direct child folders, trashed ones included,
	// ordered by creation time
	ListChildren(ctx context.Context, tenantID, parentID string) ([]models.Folder, error)

	// ListRooms lists the tenant's root folders
	ListRooms(ctx context.Context, tenantID string) ([]models.Folder, error)

	// ListTenantIDs lists every tenant owning at least one room. Used by the
	// recount job.
	ListTenantIDs(ctx context.Context) ([]string, error)

	// ListTrashedBefore lists trashed folders of any tenant with deletedAt < cutoff.
	// Used by the purge job, which re-enters the core per tenant.
	ListTrashedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Folder, error)
}
