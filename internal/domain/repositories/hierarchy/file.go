package hierarchy

import (
	"context"

	models "docspace/internal/domain/models/hierarchy"
)

// FileRepository defines data access operations for file version rows
type FileRepository interface {
	// Insert stores one version row; (id, version) must be unique
	Insert(ctx context.Context, file *models.File) error

	// NextVersion bumps and returns the per-file version sequence. The sequence
	// never decreases, even when versions are deleted.
	NextVersion(ctx context.Context, tenantID, fileID string) (int, error)

	// GetCurrent retrieves the current version row of a file
	GetCurrent(ctx context.Context, tenantID, fileID string) (*models.File, error)

	// GetVersion retrieves a specific version row
	GetVersion(ctx context.Context, tenantID, fileID string, version int) (*models.File, error)

	// ListVersions lists every version row of a file ordered by version ascending
	ListVersions(ctx context.Context, tenantID, fileID string) ([]models.File, error)

	// SetCurrent flags version as current and clears the flag on every other row
	SetCurrent(ctx context.Context, tenantID, fileID string, version int) error

	// DeleteVersion removes one version row
	DeleteVersion(ctx context.Context, tenantID, fileID string, version int) error

	// ShiftVersionGroups adds delta to version_group of rows with
	// version > afterVersion and version_group > afterGroup
	ShiftVersionGroups(ctx context.Context, tenantID, fileID string, afterVersion, afterGroup, delta int) error

	// Move re-parents every version row of a file
	Move(ctx context.Context, tenantID, fileID, folderID string) error

	// DeleteFile removes every version row and the version sequence of a file
	DeleteFile(ctx context.Context, tenantID, fileID string) error

	// DeleteInFolders removes every version row whose folder is listed
	DeleteInFolders(ctx context.Context, tenantID string, folderIDs []string) error

	// CountCurrentInFolders counts distinct files (current versions) in the listed folders
	CountCurrentInFolders(ctx context.Context, tenantID string, folderIDs []string) (int, error)

	// ListCurrentInFolder lists current versions in one folder ordered by creation time
	ListCurrentInFolder(ctx context.Context, tenantID, folderID string) ([]models.File, error)
}
