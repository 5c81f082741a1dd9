package hierarchy

import "time"

// RoomSettings are the per-room switches consulted by the hierarchy core
type RoomSettings struct {
	TenantID   string    `json:"tenant_id" db:"tenant_id"`
	RoomID     string    `json:"room_id" db:"room_id"`
	Indexing   bool      `json:"indexing" db:"indexing"`
	QuotaBytes int64     `json:"quota_bytes" db:"quota_bytes"` // 0 = unlimited
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Unlimited reports whether the room has no storage quota
func (s RoomSettings) Unlimited() bool {
	return s.QuotaBytes <= 0
}

// FolderContents is a folder listing: subfolders and current file versions
type FolderContents struct {
	Folder  *Folder  `json:"folder"`
	Folders []Folder `json:"folders"`
	Files   []File   `json:"files"`
}
