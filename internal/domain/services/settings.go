package services

import (
	"context"

	models "docspace/internal/domain/models/hierarchy"
)

// RoomSettingsResolver resolves the settings of a room folder
type RoomSettingsResolver interface {
	// IsIndexingEnabled reports whether the room uses manual ordering
	IsIndexingEnabled(ctx context.Context, tenantID, roomID string) (bool, error)

	// Settings returns the room's effective settings (stored or type defaults)
	Settings(ctx context.Context, tenantID, roomID string) (*models.RoomSettings, error)

	// Invalidate drops any cached settings for the room
	Invalidate(ctx context.Context, tenantID, roomID string)
}
