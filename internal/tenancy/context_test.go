package tenancy

import (
	"context"
	"testing"

	"docspace/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextResolver(t *testing.T) {
	r := NewContextResolver("system")

	_, err := r.CurrentTenantID(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	ctx := WithUser(WithTenant(context.Background(), "t1"), "u1")
	tenant, err := r.CurrentTenantID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", tenant)

	user, err := r.CurrentUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", user)

	user, err = r.CurrentUserID(WithTenant(context.Background(), "t1"))
	require.NoError(t, err)
	assert.Equal(t, "system", user)

	_, err = NewContextResolver("").CurrentUserID(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
