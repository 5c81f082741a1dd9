package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/tenancy"
)

// RoomRecounter is the subset of the hierarchy service used by the recount job
type RoomRecounter interface {
	ListRooms(ctx context.Context) ([]models.Folder, error)
	RecountRoom(ctx context.Context, roomID string) error
}

// RecountJob recomputes the counters of every room of every tenant to repair drift
type RecountJob struct {
	folders   hierarchyRepo.FolderRepository
	recounter RoomRecounter
	logger    *slog.Logger
}

// NewRecountJob creates the counter repair job
func NewRecountJob(folders hierarchyRepo.FolderRepository, recounter RoomRecounter, logger *slog.Logger) *RecountJob {
	return &RecountJob{folders: folders, recounter: recounter, logger: logger}
}

func (j *RecountJob) Name() string { return "room-recount" }

// Run recounts rooms tenant by tenant
func (j *RecountJob) Run(ctx context.Context) error {
	tenants, err := j.folders.ListTenantIDs(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}

	var errs []error
	rooms := 0
	for _, tenantID := range tenants {
		tctx := tenancy.WithTenant(ctx, tenantID)
		list, err := j.recounter.ListRooms(tctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("list rooms of %s: %w", tenantID, err))
			continue
		}
		for _, room := range list {
			if ctx.Err() != nil {
				return errors.Join(append(errs, ctx.Err())...)
			}
			if err := j.recounter.RecountRoom(tctx, room.ID); err != nil {
				j.logger.Warn("recount failed", "tenant_id", tenantID, "room_id", room.ID, "error", err)
				errs = append(errs, fmt.Errorf("recount room %s: %w", room.ID, err))
				continue
			}
			rooms++
		}
	}

	j.logger.Info("room recount finished", "tenants", len(tenants), "rooms", rooms, "failed", len(errs))
	return errors.Join(errs...)
}
