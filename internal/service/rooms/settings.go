package rooms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/domain/services"
	"docspace/internal/foldertypes"
)

// settingsResolver reads stored room settings and falls back to the
// defaults of the room's folder type
type settingsResolver struct {
	settings hierarchyRepo.RoomSettingsRepository
	folders  hierarchyRepo.FolderRepository
	types    *foldertypes.Registry
	logger   *slog.Logger
}

// NewSettingsResolver creates a resolver backed by the settings repository
func NewSettingsResolver(
	settings hierarchyRepo.RoomSettingsRepository,
	folders hierarchyRepo.FolderRepository,
	types *foldertypes.Registry,
	logger *slog.Logger,
) services.RoomSettingsResolver {
	return &settingsResolver{
		settings: settings,
		folders:  folders,
		types:    types,
		logger:   logger,
	}
}

// Settings returns the stored settings or the folder type defaults
func (r *settingsResolver) Settings(ctx context.Context, tenantID, roomID string) (*models.RoomSettings, error) {
	stored, err := r.settings.Get(ctx, tenantID, roomID)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get settings of room %s: %w", roomID, err)
	}

	room, err := r.folders.GetByID(ctx, tenantID, roomID)
	if err != nil {
		return nil, err
	}
	defaults := r.types.DefaultSettings(room.FolderType)
	defaults.TenantID = tenantID
	defaults.RoomID = roomID

	r.logger.Debug("using folder type defaults",
		"tenant_id", tenantID,
		"room_id", roomID,
		"folder_type", room.FolderType,
	)
	return &defaults, nil
}

// IsIndexingEnabled reports whether the room uses manual ordering
func (r *settingsResolver) IsIndexingEnabled(ctx context.Context, tenantID, roomID string) (bool, error) {
	s, err := r.Settings(ctx, tenantID, roomID)
	if err != nil {
		return false, err
	}
	return s.Indexing, nil
}

// Invalidate is a no-op; every call reads the repository
func (r *settingsResolver) Invalidate(context.Context, string, string) {}
