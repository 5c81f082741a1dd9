package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
)

// VersionChain maintains the version rows of a file: version numbers from a
// per-file sequence, dense version groups, and exactly one current row.
type VersionChain struct {
	files  hierarchyRepo.FileRepository
	logger *slog.Logger
}

// NewVersionChain creates a version chain maintainer
func NewVersionChain(files hierarchyRepo.FileRepository, logger *slog.Logger) *VersionChain {
	return &VersionChain{files: files, logger: logger}
}

// Create stores version 1 of a new file in group 1 and makes it current
func (v *VersionChain) Create(ctx context.Context, file *models.File) error {
	version, err := v.files.NextVersion(ctx, file.TenantID, file.ID)
	if err != nil {
		return fmt.Errorf("allocate version: %w", err)
	}
	file.Version = version
	file.VersionGroup = 1
	file.CurrentVersion = true
	if file.ForcesaveState == "" {
		file.ForcesaveState = models.ForcesaveNone
	}

	if err := v.files.Insert(ctx, file); err != nil {
		return fmt.Errorf("insert file %s: %w", file.ID, err)
	}
	return nil
}

// AppendVersion adds a version after the highest existing one and makes it
// current. A saved version opens a new group; a forcesave joins the group of
// the version it supersedes.
func (v *VersionChain) AppendVersion(ctx context.Context, tenantID, fileID string, nv models.NewVersion, userID string, at time.Time) (*models.File, error) {
	versions, err := v.files.ListVersions(ctx, tenantID, fileID)
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", fileID, err)
	}
	if len(versions) == 0 {
		return nil, domain.NewNotFound("file", fileID)
	}

	var current *models.File
	maxGroup := 0
	for i := range versions {
		if versions[i].CurrentVersion {
			current = &versions[i]
		}
		maxGroup = max(maxGroup, versions[i].VersionGroup)
	}
	if current == nil {
		return nil, fmt.Errorf("file %s has no current version", fileID)
	}

	number, err := v.files.NextVersion(ctx, tenantID, fileID)
	if err != nil {
		return nil, fmt.Errorf("allocate version: %w", err)
	}

	group := maxGroup + 1
	forcesave := nv.Forcesave
	if forcesave == "" {
		forcesave = models.ForcesaveNone
	}
	if forcesave.IsForcesave() {
		group = current.VersionGroup
	}

	title := nv.Title
	if title == "" {
		title = current.Title
	}

	row := &models.File{
		ID:             fileID,
		TenantID:       tenantID,
		FolderID:       current.FolderID,
		Title:          title,
		Version:        number,
		VersionGroup:   group,
		ForcesaveState: forcesave,
		ContentLength:  nv.ContentLength,
		Comment:        nv.Comment,
		Changes:        nv.Changes,
		CreatedBy:      userID,
		CreatedAt:      versions[0].CreatedAt,
		ModifiedAt:     at,
	}
	if err := v.files.Insert(ctx, row); err != nil {
		return nil, fmt.Errorf("insert version %d of %s: %w", number, fileID, err)
	}
	if err := v.files.SetCurrent(ctx, tenantID, fileID, number); err != nil {
		return nil, fmt.Errorf("set current version: %w", err)
	}
	row.CurrentVersion = true

	v.logger.Debug("version appended",
		"tenant_id", tenantID,
		"file_id", fileID,
		"version", number,
		"version_group", group,
		"forcesave", forcesave,
	)
	return row, nil
}

// PromoteVersion makes an existing version the current one
func (v *VersionChain) PromoteVersion(ctx context.Context, tenantID, fileID string, version int) (*models.File, error) {
	row, err := v.files.GetVersion(ctx, tenantID, fileID, version)
	if err != nil {
		return nil, err
	}
	if err := v.files.SetCurrent(ctx, tenantID, fileID, version); err != nil {
		return nil, fmt.Errorf("set current version: %w", err)
	}
	row.CurrentVersion = true
	return row, nil
}

// DeleteVersion removes a non-current version. When this empties its group,
// later groups are renumbered down by one so groups stay dense.
func (v *VersionChain) DeleteVersion(ctx context.Context, tenantID, fileID string, version int) (*models.File, error) {
	row, err := v.files.GetVersion(ctx, tenantID, fileID, version)
	if err != nil {
		return nil, err
	}
	if row.CurrentVersion {
		return nil, fmt.Errorf("%w: version %d of file %s is current; promote another version first",
			domain.ErrInvalidOperation, version, fileID)
	}

	if err := v.files.DeleteVersion(ctx, tenantID, fileID, version); err != nil {
		return nil, fmt.Errorf("delete version %d of %s: %w", version, fileID, err)
	}

	remaining, err := v.files.ListVersions(ctx, tenantID, fileID)
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", fileID, err)
	}
	for _, r := range remaining {
		if r.VersionGroup == row.VersionGroup {
			return row, nil
		}
	}

	if err := v.files.ShiftVersionGroups(ctx, tenantID, fileID, version, row.VersionGroup, -1); err != nil {
		return nil, fmt.Errorf("renumber version groups of %s: %w", fileID, err)
	}
	return row, nil
}

// StableVersionAt returns the highest version <= maxVersion that was not
// produced by a system forcesave. maxVersion <= 0 means no upper bound.
func (v *VersionChain) StableVersionAt(ctx context.Context, tenantID, fileID string, maxVersion int) (*models.File, error) {
	versions, err := v.files.ListVersions(ctx, tenantID, fileID)
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", fileID, err)
	}
	if len(versions) == 0 {
		return nil, domain.NewNotFound("file", fileID)
	}

	for i := len(versions) - 1; i >= 0; i-- {
		r := versions[i]
		if maxVersion > 0 && r.Version > maxVersion {
			continue
		}
		if r.ForcesaveState == models.ForcesaveSystem {
			continue
		}
		return &r, nil
	}
	return nil, domain.NewNotFound("stable version of file", fileID)
}

// ExpectCurrent fails with ErrConcurrentModification when expected is set
// and differs from the current version number
func ExpectCurrent(current *models.File, expected int) error {
	if expected == 0 || current.Version == expected {
		return nil
	}
	return fmt.Errorf("%w: file %s current version is %d, expected %d",
		domain.ErrConcurrentModification, current.ID, current.Version, expected)
}
