package hierarchy

import (
	"context"
	"fmt"
	"log/slog"

	"docspace/internal/domain"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/domain/services"
)

// AggregateCounters maintains the denormalized file count, folder count and
// used space of each folder. Counts are recomputed from the closure table;
// used space is adjusted incrementally along the current ancestor chain.
type AggregateCounters struct {
	folders  hierarchyRepo.FolderRepository
	files    hierarchyRepo.FileRepository
	tree     *TreeIndex
	settings services.RoomSettingsResolver
	logger   *slog.Logger
}

// NewAggregateCounters creates the counter maintainer
func NewAggregateCounters(
	folders hierarchyRepo.FolderRepository,
	files hierarchyRepo.FileRepository,
	tree *TreeIndex,
	settings services.RoomSettingsResolver,
	logger *slog.Logger,
) *AggregateCounters {
	return &AggregateCounters{
		folders:  folders,
		files:    files,
		tree:     tree,
		settings: settings,
		logger:   logger,
	}
}

// RecountFolder recomputes and stores the counters of folderID. filesCount
// covers current file versions anywhere in the subtree, folderID included;
// foldersCount is the number of descendant folders.
func (c *AggregateCounters) RecountFolder(ctx context.Context, tenantID, folderID string) (filesCount, foldersCount int, err error) {
	subtree, err := c.tree.Subtree(ctx, tenantID, folderID)
	if err != nil {
		return 0, 0, err
	}

	filesCount, err = c.files.CountCurrentInFolders(ctx, tenantID, subtree)
	if err != nil {
		return 0, 0, fmt.Errorf("count files under %s: %w", folderID, err)
	}
	foldersCount = len(subtree) - 1

	if err := c.folders.SetCounters(ctx, tenantID, folderID, filesCount, foldersCount); err != nil {
		return 0, 0, fmt.Errorf("store counters of %s: %w", folderID, err)
	}
	return filesCount, foldersCount, nil
}

// BulkRecount recounts every listed folder once, ignoring repeats
func (c *AggregateCounters) BulkRecount(ctx context.Context, tenantID string, folderIDs []string) error {
	seen := make(map[string]bool, len(folderIDs))
	for _, id := range folderIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, _, err := c.RecountFolder(ctx, tenantID, id); err != nil {
			return err
		}
	}
	return nil
}

// AdjustUsedSpace adds delta to folderID and every one of its ancestors
func (c *AggregateCounters) AdjustUsedSpace(ctx context.Context, tenantID, folderID string, delta int64) error {
	if delta == 0 {
		return nil
	}
	chain, err := c.tree.Chain(ctx, tenantID, folderID)
	if err != nil {
		return err
	}
	if err := c.folders.AddUsedSpace(ctx, tenantID, chain, delta); err != nil {
		return fmt.Errorf("adjust used space from %s by %d: %w", folderID, delta, err)
	}
	return nil
}

// EnsureQuota fails with a QuotaError when adding delta bytes below folderID
// would push its room over the configured quota
func (c *AggregateCounters) EnsureQuota(ctx context.Context, tenantID, folderID string, delta int64) error {
	if delta <= 0 {
		return nil
	}

	roomID, err := c.tree.Root(ctx, tenantID, folderID)
	if err != nil {
		return err
	}
	settings, err := c.settings.Settings(ctx, tenantID, roomID)
	if err != nil {
		return fmt.Errorf("resolve settings for room %s: %w", roomID, err)
	}
	if settings.Unlimited() {
		return nil
	}

	room, err := c.folders.GetByID(ctx, tenantID, roomID)
	if err != nil {
		return err
	}
	if room.UsedSpace+delta > settings.QuotaBytes {
		c.logger.Info("room quota exceeded",
			"tenant_id", tenantID,
			"room_id", roomID,
			"quota", settings.QuotaBytes,
			"used", room.UsedSpace,
			"requested", delta,
		)
		return &domain.QuotaError{
			RoomID:    roomID,
			Quota:     settings.QuotaBytes,
			Used:      room.UsedSpace,
			Requested: delta,
		}
	}
	return nil
}
