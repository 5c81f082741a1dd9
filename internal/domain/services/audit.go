package services

import (
	"context"
	"time"
)

// AuditAction names a structural event
type AuditAction string

const (
	AuditFolderCreated   AuditAction = "folder.created"
	AuditFolderMoved     AuditAction = "folder.moved"
	AuditFolderDeleted   AuditAction = "folder.deleted"
	AuditFolderTrashed   AuditAction = "folder.trashed"
	AuditFolderRestored  AuditAction = "folder.restored"
	AuditRoomCreated     AuditAction = "room.created"
	AuditRoomIndexing    AuditAction = "room.indexing_changed"
	AuditFileCreated     AuditAction = "file.created"
	AuditFileMoved       AuditAction = "file.moved"
	AuditFileDeleted     AuditAction = "file.deleted"
	AuditVersionAdded    AuditAction = "file.version_added"
	AuditVersionPromoted AuditAction = "file.version_promoted"
	AuditVersionDeleted  AuditAction = "file.version_deleted"
	AuditEntryReordered  AuditAction = "entry.reordered"
)

// AuditEvent is emitted after a structural change commits
type AuditEvent struct {
	Action     AuditAction       `json:"action"`
	TenantID   string            `json:"tenant_id"`
	UserID     string            `json:"user_id"`
	TargetID   string            `json:"target_id"`
	Details    map[string]string `json:"details,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// AuditSink receives structural events. Emit must not block the caller and
// its failures are not propagated.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}
