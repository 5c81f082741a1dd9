package tenancy

import (
	"context"
	"fmt"

	"docspace/internal/domain"
)

type contextKey string

const (
	tenantIDKey contextKey = "tenantID"
	userIDKey   contextKey = "userID"
)

// WithTenant returns a context scoped to a tenant
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDKey, tenantID)
}

// WithUser returns a context carrying the acting user
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// TenantID retrieves the tenant from context, returns empty string if not found
func TenantID(ctx context.Context) string {
	id, _ := ctx.Value(tenantIDKey).(string)
	return id
}

// UserID retrieves the user from context, returns empty string if not found
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// ContextResolver implements services.TenantContext and services.IdentityProvider
// from values stored on the context by the auth middleware or a job runner.
type ContextResolver struct {
	// SystemUserID stamps changes made without an acting user (jobs)
	SystemUserID string
}

// NewContextResolver creates a context-backed resolver
func NewContextResolver(systemUserID string) *ContextResolver {
	return &ContextResolver{SystemUserID: systemUserID}
}

// CurrentTenantID returns the tenant of the context or ErrUnauthorized
func (r *ContextResolver) CurrentTenantID(ctx context.Context) (string, error) {
	id := TenantID(ctx)
	if id == "" {
		return "", fmt.Errorf("tenant not found in context: %w", domain.ErrUnauthorized)
	}
	return id, nil
}

// CurrentUserID returns the acting user, falling back to the system user
func (r *ContextResolver) CurrentUserID(ctx context.Context) (string, error) {
	if id := UserID(ctx); id != "" {
		return id, nil
	}
	if r.SystemUserID != "" {
		return r.SystemUserID, nil
	}
	return "", fmt.Errorf("user not found in context: %w", domain.ErrUnauthorized)
}
