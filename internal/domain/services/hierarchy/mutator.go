package hierarchy

import (
	"context"
	"time"

	models "docspace/internal/domain/models/hierarchy"
)

// Mutator is the only entry point allowed to change more than one of the
// closure table, order index, aggregate counters and version chain in one
// logical operation. Every mutating call runs in a single transaction.
type Mutator interface {
	// CreateRoom creates a root folder and its settings row
	CreateRoom(ctx context.Context, req *CreateRoomRequest) (*models.Folder, error)

	// CreateFolder creates a folder under an existing parent
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// MoveSubtree re-parents a folder together with its whole subtree
	MoveSubtree(ctx context.Context, folderID, newParentID string) (*models.Folder, error)

	// DeleteSubtree permanently deletes a folder, its subfolders and their files
	DeleteSubtree(ctx context.Context, folderID string) error

	// TrashFolder soft-deletes a folder; RestoreFolder undoes it
	TrashFolder(ctx context.Context, folderID string) (*models.Folder, error)
	RestoreFolder(ctx context.Context, folderID string) (*models.Folder, error)

	// PurgeTrashed permanently deletes a folder if it is still in the trash
	// and was trashed before cutoff; reports whether it was deleted
	PurgeTrashed(ctx context.Context, folderID string, cutoff time.Time) (bool, error)

	// CreateFile creates version 1 of a new file
	CreateFile(ctx context.Context, req *CreateFileRequest) (*models.File, error)

	// MoveFile moves every version of a file to another folder
	MoveFile(ctx context.Context, fileID, folderID string) (*models.File, error)

	// DeleteFile deletes a file and all its versions
	DeleteFile(ctx context.Context, fileID string) error

	// AddFileVersion appends a version and makes it current
	AddFileVersion(ctx context.Context, req *AddVersionRequest) (*models.File, error)

	// PromoteFileVersion makes an existing version current
	PromoteFileVersion(ctx context.Context, req *PromoteVersionRequest) (*models.File, error)

	// DeleteFileVersion deletes a non-current version
	DeleteFileVersion(ctx context.Context, fileID string, version int) error

	// SetEntryOrder moves an entry to a new position within its parent
	SetEntryOrder(ctx context.Context, req *SetOrderRequest) (*models.OrderEntry, error)

	// SetRoomIndexing toggles manual ordering for a room
	SetRoomIndexing(ctx context.Context, roomID string, enabled bool) (*models.RoomSettings, error)

	// RecountRoom recomputes file and folder counters for every folder of a room
	RecountRoom(ctx context.Context, roomID string) error
}

// Reader exposes the read side of the hierarchy
type Reader interface {
	GetFolder(ctx context.Context, folderID string) (*models.Folder, error)
	GetPath(ctx context.Context, folderID string) (*models.FolderPath, error)
	RoomOf(ctx context.Context, folderID string) (*models.Folder, error)
	ListChildren(ctx context.Context, folderID string) (*models.FolderContents, error)
	ListRooms(ctx context.Context) ([]models.Folder, error)
	GetFile(ctx context.Context, fileID string) (*models.File, error)
	ListVersions(ctx context.Context, fileID string) ([]models.File, error)
	StableVersion(ctx context.Context, fileID string, maxVersion int) (*models.File, error)
}

// CreateRoomRequest represents a room creation request
type CreateRoomRequest struct {
	Title      string            `json:"title"`
	FolderType models.FolderType `json:"folder_type"`
	Indexing   *bool             `json:"indexing,omitempty"`    // nil = folder type default
	QuotaBytes *int64            `json:"quota_bytes,omitempty"` // nil = folder type default
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	ParentID string `json:"parent_id"`
	Title    string `json:"title"`
}

// CreateFileRequest represents a file creation request
type CreateFileRequest struct {
	FolderID      string `json:"folder_id"`
	Title         string `json:"title"`
	ContentLength int64  `json:"content_length"`
	Comment       string `json:"comment,omitempty"`
}

// AddVersionRequest represents a request to append a file version
type AddVersionRequest struct {
	FileID          string                `json:"file_id"`
	Title           string                `json:"title,omitempty"`
	ContentLength   int64                 `json:"content_length"`
	Comment         string                `json:"comment,omitempty"`
	Changes         []byte                `json:"changes,omitempty"`
	Forcesave       models.ForcesaveState `json:"forcesave,omitempty"`
	ExpectedCurrent int                   `json:"expected_current,omitempty"` // 0 = unchecked
}

// PromoteVersionRequest represents a request to restore an older version
type PromoteVersionRequest struct {
	FileID          string `json:"file_id"`
	Version         int    `json:"version"`
	ExpectedCurrent int    `json:"expected_current,omitempty"` // 0 = unchecked
}

// SetOrderRequest represents a manual reorder request
type SetOrderRequest struct {
	ParentID  string           `json:"parent_id"`
	EntryID   string           `json:"entry_id"`
	EntryType models.EntryType `json:"entry_type"`
	Order     int              `json:"order"`
}
