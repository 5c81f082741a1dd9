package hierarchy

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderIndex(t *testing.T, indexed bool) (*OrderIndex, hierarchyRepo.OrderRepository) {
	t.Helper()
	store := memory.NewStore()
	tree := NewTreeIndex(memory.NewTreeRepository(store), discardLogger())
	require.NoError(t, tree.Attach(context.Background(), testTenant, "A", "R"))

	orders := memory.NewOrderRepository(store)
	resolver := &stubResolver{indexing: map[string]bool{"R": indexed}}
	return NewOrderIndex(orders, tree, resolver, discardLogger()), orders
}

func groupOrders(t *testing.T, idx *OrderIndex, parentID string) []string {
	t.Helper()
	entries, err := idx.List(context.Background(), testTenant, parentID, models.EntryTypeFile)
	require.NoError(t, err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%s=%d", e.EntryID, e.Order)
	}
	return out
}

func TestOrderIndex_RemoveClosesGap(t *testing.T) {
	ctx := context.Background()
	idx, _ := newOrderIndex(t, true)

	for _, id := range []string{"f1", "f2", "f3"} {
		_, err := idx.Insert(ctx, testTenant, "A", id, models.EntryTypeFile, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"f1=1", "f2=2", "f3=3"}, groupOrders(t, idx, "A"))

	require.NoError(t, idx.Remove(ctx, testTenant, "A", "f2", models.EntryTypeFile))
	assert.Equal(t, []string{"f1=1", "f3=2"}, groupOrders(t, idx, "A"))
}

func TestOrderIndex_InsertShiftsCollidingEntries(t *testing.T) {
	ctx := context.Background()
	idx, _ := newOrderIndex(t, true)

	for _, id := range []string{"f1", "f2"} {
		_, err := idx.Insert(ctx, testTenant, "A", id, models.EntryTypeFile, 0)
		require.NoError(t, err)
	}

	entry, err := idx.Insert(ctx, testTenant, "A", "f0", models.EntryTypeFile, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Order)
	assert.Equal(t, []string{"f0=1", "f1=2", "f2=3"}, groupOrders(t, idx, "A"))

	next, err := idx.NextOrder(ctx, testTenant, "A", models.EntryTypeFile)
	require.NoError(t, err)
	assert.Equal(t, 4, next)

	_, err = idx.Insert(ctx, testTenant, "A", "far", models.EntryTypeFile, 9)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOrderIndex_NextOrderOfEmptyGroup(t *testing.T) {
	idx, _ := newOrderIndex(t, true)
	next, err := idx.NextOrder(context.Background(), testTenant, "A", models.EntryTypeFolder)
	require.NoError(t, err)
	assert.Equal(t, 1, next)
}

func TestOrderIndex_DisabledRoomIsNoOp(t *testing.T) {
	ctx := context.Background()
	idx, _ := newOrderIndex(t, false)

	entry, err := idx.Insert(ctx, testTenant, "A", "f1", models.EntryTypeFile, 0)
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Empty(t, groupOrders(t, idx, "A"))

	require.NoError(t, idx.Remove(ctx, testTenant, "A", "f1", models.EntryTypeFile))
}

func TestOrderIndex_RemoveMissingEntry(t *testing.T) {
	idx, _ := newOrderIndex(t, true)
	require.NoError(t, idx.Remove(context.Background(), testTenant, "A", "ghost", models.EntryTypeFile))
}

func TestOrderIndex_GappedGroupIsRejected(t *testing.T) {
	ctx := context.Background()
	idx, orders := newOrderIndex(t, true)

	require.NoError(t, orders.Insert(ctx, &models.OrderEntry{TenantID: testTenant, ParentID: "A", EntryID: "f1", EntryType: models.EntryTypeFile, Order: 1}))
	require.NoError(t, orders.Insert(ctx, &models.OrderEntry{TenantID: testTenant, ParentID: "A", EntryID: "f3", EntryType: models.EntryTypeFile, Order: 3}))

	_, err := idx.Insert(ctx, testTenant, "A", "f4", models.EntryTypeFile, 0)
	require.ErrorIs(t, err, domain.ErrOrderConflict)

	err = idx.Remove(ctx, testTenant, "A", "f1", models.EntryTypeFile)
	require.ErrorIs(t, err, domain.ErrOrderConflict)

	assert.Equal(t, []string{"f1=1", "f3=3"}, groupOrders(t, idx, "A"), "a broken group is left untouched")
}

func TestOrderIndex_Move(t *testing.T) {
	ctx := context.Background()
	idx, _ := newOrderIndex(t, true)
	require.NoError(t, idx.Seed(ctx, testTenant, "A", models.EntryTypeFile, []string{"a", "b", "c", "d"}))

	_, err := idx.Move(ctx, testTenant, "A", "d", models.EntryTypeFile, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a=1", "d=2", "b=3", "c=4"}, groupOrders(t, idx, "A"))

	_, err = idx.Move(ctx, testTenant, "A", "a", models.EntryTypeFile, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"d=1", "b=2", "c=3", "a=4"}, groupOrders(t, idx, "A"))

	_, err = idx.Move(ctx, testTenant, "A", "ghost", models.EntryTypeFile, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderIndex_SeedRequiresEmptyGroup(t *testing.T) {
	ctx := context.Background()
	idx, _ := newOrderIndex(t, true)
	require.NoError(t, idx.Seed(ctx, testTenant, "A", models.EntryTypeFile, []string{"a"}))

	err := idx.Seed(ctx, testTenant, "A", models.EntryTypeFile, []string{"b"})
	assert.ErrorIs(t, err, domain.ErrOrderConflict)

	require.NoError(t, idx.ClearGroup(ctx, testTenant, "A", models.EntryTypeFile))
	assert.Empty(t, groupOrders(t, idx, "A"))
}

func TestOrderIndex_RandomOperationsStayDense(t *testing.T) {
	ctx := context.Background()
	idx, _ := newOrderIndex(t, true)
	rng := rand.New(rand.NewSource(42))

	var members []string
	for i := 0; i < 200; i++ {
		if len(members) == 0 || rng.Intn(3) > 0 {
			id := fmt.Sprintf("e%d", i)
			at := rng.Intn(len(members) + 2) // 0 appends
			_, err := idx.Insert(ctx, testTenant, "A", id, models.EntryTypeFile, at)
			require.NoError(t, err)
			members = append(members, id)
		} else {
			k := rng.Intn(len(members))
			require.NoError(t, idx.Remove(ctx, testTenant, "A", members[k], models.EntryTypeFile))
			members = append(members[:k], members[k+1:]...)
		}

		entries, err := idx.List(ctx, testTenant, "A", models.EntryTypeFile)
		require.NoError(t, err)
		require.Len(t, entries, len(members))
		for pos, e := range entries {
			require.Equal(t, pos+1, e.Order, "step %d", i)
		}
	}
}
