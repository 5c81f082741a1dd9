package hierarchy

import (
	"time"
)

// FolderType classifies a folder. Room types act as workspace boundaries.
type FolderType string

const (
	FolderTypeDefault         FolderType = "default"
	FolderTypeCustomRoom      FolderType = "custom_room"
	FolderTypeEditingRoom     FolderType = "editing_room"
	FolderTypeVirtualDataRoom FolderType = "virtual_data_room"
	FolderTypePublicRoom      FolderType = "public_room"
)

type Folder struct {
	ID           string     `json:"id" db:"id"`
	TenantID     string     `json:"tenant_id" db:"tenant_id"`
	ParentID     *string    `json:"parent_id" db:"parent_id"` // NULL = room (tree root)
	Title        string     `json:"title" db:"title"`
	FolderType   FolderType `json:"folder_type" db:"folder_type"`
	FilesCount   int        `json:"files_count" db:"files_count"`
	FoldersCount int        `json:"folders_count" db:"folders_count"`
	UsedSpace    int64      `json:"used_space" db:"used_space"`
	CreatedBy    string     `json:"created_by" db:"created_by"`
	ModifiedBy   string     `json:"modified_by" db:"modified_by"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	ModifiedAt   time.Time  `json:"modified_at" db:"modified_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"` // set while in trash
}

// IsRoot reports whether the folder has no parent
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}

// IsTrashed reports whether the folder is in the trash (soft-deleted)
func (f *Folder) IsTrashed() bool {
	return f.DeletedAt != nil
}

// FolderPath is a folder with its resolved ancestor chain (root first)
type FolderPath struct {
	Folder    *Folder  `json:"folder"`
	Ancestors []Folder `json:"ancestors"`
}
