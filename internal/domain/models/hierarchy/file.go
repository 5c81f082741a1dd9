package hierarchy

import "time"

// ForcesaveState marks versions produced by forced saves of an open editing
// session instead of an explicit "save version" action.
type ForcesaveState string

const (
	ForcesaveNone   ForcesaveState = "none"
	ForcesaveUser   ForcesaveState = "user"
	ForcesaveSystem ForcesaveState = "system"
)

// IsForcesave reports whether the version was produced by a forced save
func (s ForcesaveState) IsForcesave() bool {
	return s == ForcesaveUser || s == ForcesaveSystem
}

// File is one version row of a file. Rows sharing an ID form the version chain;
// exactly one of them has CurrentVersion set.
type File struct {
	ID             string         `json:"id" db:"id"`
	TenantID       string         `json:"tenant_id" db:"tenant_id"`
	FolderID       string         `json:"folder_id" db:"folder_id"`
	Title          string         `json:"title" db:"title"`
	Version        int            `json:"version" db:"version"`
	VersionGroup   int            `json:"version_group" db:"version_group"`
	CurrentVersion bool           `json:"current_version" db:"current_version"`
	ForcesaveState ForcesaveState `json:"forcesave" db:"forcesave"`
	ContentLength  int64          `json:"content_length" db:"content_length"`
	Comment        string         `json:"comment,omitempty" db:"comment"`
	Changes        []byte         `json:"-" db:"changes"`
	CreatedBy      string         `json:"created_by" db:"created_by"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	ModifiedAt     time.Time      `json:"modified_at" db:"modified_at"`
}

// NewVersion describes a version to append to an existing file
type NewVersion struct {
	Title         string // empty keeps the current title
	ContentLength int64
	Comment       string
	Changes       []byte
	Forcesave     ForcesaveState
}
