package services

import "context"

// SecurityGate checks whether a user may perform a structural change.
// Callers of the hierarchy core (handlers, jobs) consult it before invoking
// move/delete/trash; the core itself trusts that it has been called.
type SecurityGate interface {
	// CanModifyFolder checks if user can change or remove a folder subtree
	CanModifyFolder(ctx context.Context, tenantID, userID, folderID string) error

	// CanModifyFile checks if user can change or remove a file
	CanModifyFile(ctx context.Context, tenantID, userID, fileID string) error

	// CanCreateIn checks if user can create entries inside a folder
	CanCreateIn(ctx context.Context, tenantID, userID, folderID string) error
}
