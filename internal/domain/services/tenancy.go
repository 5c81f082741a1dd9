package services

import "context"

// TenantContext resolves the tenant of the current operation
type TenantContext interface {
	CurrentTenantID(ctx context.Context) (string, error)
}

// IdentityProvider resolves the acting user; used only for created_by/modified_by stamps
type IdentityProvider interface {
	CurrentUserID(ctx context.Context) (string, error)
}
