package auth

import (
	"context"
	"errors"
	"fmt"

	"docspace/internal/domain"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/domain/services"
)

// RoomOwnerGate implements services.SecurityGate using ownership checks.
// A user may change anything inside a room they created.
type RoomOwnerGate struct {
	folders hierarchyRepo.FolderRepository
	files   hierarchyRepo.FileRepository
	tree    hierarchyRepo.TreeRepository
}

// NewRoomOwnerGate creates a new ownership-based gate
func NewRoomOwnerGate(
	folders hierarchyRepo.FolderRepository,
	files hierarchyRepo.FileRepository,
	tree hierarchyRepo.TreeRepository,
) services.SecurityGate {
	return &RoomOwnerGate{
		folders: folders,
		files:   files,
		tree:    tree,
	}
}

// CanModifyFolder checks if user owns the folder's room
func (g *RoomOwnerGate) CanModifyFolder(ctx context.Context, tenantID, userID, folderID string) error {
	return g.ownsRoomOf(ctx, tenantID, userID, folderID)
}

// CanModifyFile checks if user owns the room holding the file
func (g *RoomOwnerGate) CanModifyFile(ctx context.Context, tenantID, userID, fileID string) error {
	file, err := g.files.GetCurrent(ctx, tenantID, fileID)
	if err != nil {
		return fmt.Errorf("get file for auth: %w", err)
	}
	return g.ownsRoomOf(ctx, tenantID, userID, file.FolderID)
}

// CanCreateIn checks if user owns the room of the target folder
func (g *RoomOwnerGate) CanCreateIn(ctx context.Context, tenantID, userID, folderID string) error {
	return g.ownsRoomOf(ctx, tenantID, userID, folderID)
}

func (g *RoomOwnerGate) ownsRoomOf(ctx context.Context, tenantID, userID, folderID string) error {
	roomID := folderID
	top, ok, err := g.tree.Top(ctx, tenantID, folderID)
	if err != nil {
		return fmt.Errorf("resolve room for auth: %w", err)
	}
	if ok {
		roomID = top.AncestorID
	}

	room, err := g.folders.GetByID(ctx, tenantID, roomID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("folder %s: %w", folderID, domain.ErrNotFound)
		}
		return fmt.Errorf("get room for auth: %w", err)
	}
	if room.CreatedBy != userID {
		return &domain.ForbiddenError{Message: fmt.Sprintf("access denied to room %s", room.ID)}
	}
	return nil
}
