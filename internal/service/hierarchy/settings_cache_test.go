package hierarchy

import (
	"context"
	"sync"
	"testing"
	"time"

	models "docspace/internal/domain/models/hierarchy"
	hierarchySvc "docspace/internal/domain/services/hierarchy"
	redisRepo "docspace/internal/repository/redis"
	"docspace/internal/service/rooms"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lateWriteKV ignores deletes, as if a reader that loaded settings before an
// update stored them again right after the invalidation
type lateWriteKV struct {
	mu     sync.Mutex
	values map[string]string
}

func (k *lateWriteKV) Get(_ context.Context, key string) *goredis.StringCmd {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (k *lateWriteKV) Set(_ context.Context, key string, value interface{}, _ time.Duration) *goredis.StatusCmd {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = string(value.([]byte))
	return goredis.NewStatusResult("OK", nil)
}

func (k *lateWriteKV) Del(context.Context, ...string) *goredis.IntCmd {
	return goredis.NewIntResult(0, nil)
}

func TestMutator_StaleSettingsCacheDoesNotSkipOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	cache := redisRepo.NewSettingsCache(
		rooms.NewSettingsResolver(f.settings, f.folders, f.deps.Types, discardLogger()),
		&lateWriteKV{values: map[string]string{}},
		time.Hour,
		discardLogger(),
	)
	svc := f.serviceWith(func(deps *Deps) { deps.Resolver = cache })

	room, err := svc.CreateRoom(ctx, &hierarchySvc.CreateRoomRequest{Title: "R", FolderType: models.FolderTypeEditingRoom})
	require.NoError(t, err)
	_, err = svc.ListChildren(ctx, room.ID)
	require.NoError(t, err)

	_, err = svc.SetRoomIndexing(ctx, room.ID, true)
	require.NoError(t, err)
	cached, err := cache.IsIndexingEnabled(ctx, testTenant, room.ID)
	require.NoError(t, err)
	require.False(t, cached, "cache still holds the old flag")

	a, err := svc.CreateFolder(ctx, &hierarchySvc.CreateFolderRequest{ParentID: room.ID, Title: "A"})
	require.NoError(t, err)
	b, err := svc.CreateFolder(ctx, &hierarchySvc.CreateFolderRequest{ParentID: room.ID, Title: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID + "=1", b.ID + "=2"}, f.orderOf(t, room.ID, models.EntryTypeFolder))

	_, err = svc.SetEntryOrder(ctx, &hierarchySvc.SetOrderRequest{
		ParentID:  room.ID,
		EntryID:   b.ID,
		EntryType: models.EntryTypeFolder,
		Order:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID + "=1", a.ID + "=2"}, f.orderOf(t, room.ID, models.EntryTypeFolder))
}
