package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docspace/internal/config"
	"docspace/internal/domain"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/tenancy"
)

// TrashPurger is the subset of the hierarchy service used by the purge job
type TrashPurger interface {
	PurgeTrashed(ctx context.Context, folderID string, cutoff time.Time) (bool, error)
}

// PurgeJob permanently deletes folders that stayed in the trash longer than
// the retention period
type PurgeJob struct {
	folders   hierarchyRepo.FolderRepository
	purger    TrashPurger
	retention time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewPurgeJob creates the trash purge job
func NewPurgeJob(folders hierarchyRepo.FolderRepository, purger TrashPurger, retention time.Duration, logger *slog.Logger) *PurgeJob {
	return &PurgeJob{
		folders:   folders,
		purger:    purger,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *PurgeJob) Name() string { return "trash-purge" }

// Run purges one batch. Each folder is purged in its own tenant-scoped call;
// a failure is logged and does not stop the batch.
func (j *PurgeJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	candidates, err := j.folders.ListTrashedBefore(ctx, cutoff, config.MaxPurgeBatch)
	if err != nil {
		return fmt.Errorf("list trashed folders: %w", err)
	}

	var errs []error
	purged := 0
	for _, folder := range candidates {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		tctx := tenancy.WithTenant(ctx, folder.TenantID)
		ok, err := j.purger.PurgeTrashed(tctx, folder.ID, cutoff)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// removed together with a trashed ancestor earlier in the batch
		case err != nil:
			j.logger.Warn("purge failed", "tenant_id", folder.TenantID, "folder_id", folder.ID, "error", err)
			errs = append(errs, fmt.Errorf("purge folder %s: %w", folder.ID, err))
		case ok:
			purged++
		}
	}

	j.logger.Info("trash purge finished",
		"candidates", len(candidates),
		"purged", purged,
		"failed", len(errs),
		"cutoff", cutoff,
	)
	return errors.Join(errs...)
}
