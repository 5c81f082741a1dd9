package hierarchy

import (
	"context"
	"fmt"
	"testing"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	"docspace/internal/domain/services"
	hierarchySvc "docspace/internal/domain/services/hierarchy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestMutator_MoveSubtreeBetweenRooms(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)
	a := f.folder(t, ctx, r.ID, "A")
	b := f.folder(t, ctx, a.ID, "B")
	f1 := f.file(t, ctx, b.ID, "f1.docx", 100)

	assert.Equal(t, []string{a.ID + "@1", r.ID + "@2"}, f.ancestorPairs(t, b.ID))
	room, err := f.svc.RoomOf(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, room.ID)

	rootRow := f.getFolder(t, r.ID)
	assert.Equal(t, 1, rootRow.FilesCount)
	assert.Equal(t, 2, rootRow.FoldersCount)
	assert.Equal(t, int64(100), rootRow.UsedSpace)

	r2 := f.room(t, ctx, "R2", models.FolderTypeCustomRoom)
	moved, err := f.svc.MoveSubtree(ctx, a.ID, r2.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, r2.ID, *moved.ParentID)

	assert.Equal(t, []string{a.ID + "@1", r2.ID + "@2"}, f.ancestorPairs(t, b.ID))

	oldRoom := f.getFolder(t, r.ID)
	assert.Zero(t, oldRoom.FilesCount)
	assert.Zero(t, oldRoom.FoldersCount)
	assert.Zero(t, oldRoom.UsedSpace)

	newRoom := f.getFolder(t, r2.ID)
	assert.Equal(t, 1, newRoom.FilesCount)
	assert.Equal(t, 2, newRoom.FoldersCount)
	assert.Equal(t, int64(100), newRoom.UsedSpace)

	file, err := f.svc.GetFile(ctx, f1.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, file.FolderID)

	assert.Equal(t, []OpState{StateValidating, StateLocked, StateMutating, StateCommitted}, f.statesOf("move_subtree"))
	assert.Contains(t, f.audit.actions(), services.AuditFolderMoved)
}

func TestMutator_MoveSubtreeRejectsCycleWithoutWrites(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "R", models.FolderTypeVirtualDataRoom)
	a := f.folder(t, ctx, r.ID, "A")
	b := f.folder(t, ctx, a.ID, "B")
	c := f.folder(t, ctx, b.ID, "C")

	before := map[string][]string{}
	for _, id := range []string{a.ID, b.ID, c.ID} {
		before[id] = f.ancestorPairs(t, id)
	}
	orderBefore := f.orderOf(t, r.ID, models.EntryTypeFolder)
	auditBefore := len(f.audit.actions())

	for _, target := range []string{a.ID, b.ID, c.ID} {
		f.resetTransitions()
		_, err := f.svc.MoveSubtree(ctx, a.ID, target)
		require.ErrorIs(t, err, domain.ErrCycleDetected)

		states := f.statesOf("move_subtree")
		assert.NotContains(t, states, StateMutating)
		assert.Equal(t, StateRejected, states[len(states)-1])
	}

	for id, want := range before {
		assert.Equal(t, want, f.ancestorPairs(t, id))
	}
	assert.Equal(t, orderBefore, f.orderOf(t, r.ID, models.EntryTypeFolder))
	assert.Len(t, f.audit.actions(), auditBefore, "rejected operations are not audited")
}

func TestMutator_RoomsCannotMove(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)
	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)
	r2 := f.room(t, ctx, "R2", models.FolderTypeCustomRoom)

	_, err := f.svc.MoveSubtree(ctx, r.ID, r2.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestMutator_OrderRenumberedAfterRemoval(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "VDR", models.FolderTypeVirtualDataRoom)
	f1 := f.file(t, ctx, r.ID, "1.pdf", 1)
	f2 := f.file(t, ctx, r.ID, "2.pdf", 1)
	f3 := f.file(t, ctx, r.ID, "3.pdf", 1)
	assert.Equal(t, []string{f1.ID + "=1", f2.ID + "=2", f3.ID + "=3"}, f.orderOf(t, r.ID, models.EntryTypeFile))

	require.NoError(t, f.svc.DeleteFile(ctx, f2.ID))
	assert.Equal(t, []string{f1.ID + "=1", f3.ID + "=2"}, f.orderOf(t, r.ID, models.EntryTypeFile))
	assert.Equal(t, int64(2), f.getFolder(t, r.ID).UsedSpace)
}

func TestMutator_UnindexedRoomHasNoOrderRows(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)
	f.folder(t, ctx, r.ID, "A")
	f.file(t, ctx, r.ID, "x.txt", 1)

	assert.Empty(t, f.orderOf(t, r.ID, models.EntryTypeFolder))
	assert.Empty(t, f.orderOf(t, r.ID, models.EntryTypeFile))

	_, err := f.svc.SetEntryOrder(ctx, &hierarchySvc.SetOrderRequest{
		ParentID: r.ID, EntryID: "any", EntryType: models.EntryTypeFile, Order: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestMutator_MoveAcrossIndexedFolders(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "VDR", models.FolderTypeVirtualDataRoom)
	a := f.folder(t, ctx, r.ID, "A")
	b := f.folder(t, ctx, r.ID, "B")
	c := f.folder(t, ctx, r.ID, "C")
	assert.Equal(t, []string{a.ID + "=1", b.ID + "=2", c.ID + "=3"}, f.orderOf(t, r.ID, models.EntryTypeFolder))

	_, err := f.svc.MoveSubtree(ctx, a.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID + "=1", c.ID + "=2"}, f.orderOf(t, r.ID, models.EntryTypeFolder))
	assert.Equal(t, []string{a.ID + "=1"}, f.orderOf(t, c.ID, models.EntryTypeFolder))

	doc := f.file(t, ctx, b.ID, "doc", 5)
	_, err = f.svc.MoveFile(ctx, doc.ID, c.ID)
	require.NoError(t, err)
	assert.Empty(t, f.orderOf(t, b.ID, models.EntryTypeFile))
	assert.Equal(t, []string{doc.ID + "=1"}, f.orderOf(t, c.ID, models.EntryTypeFile))
	assert.Zero(t, f.getFolder(t, b.ID).UsedSpace)
	assert.Equal(t, int64(5), f.getFolder(t, c.ID).UsedSpace)
	assert.Equal(t, int64(5), f.getFolder(t, r.ID).UsedSpace)
	assert.Equal(t, 1, f.getFolder(t, c.ID).FilesCount)
	assert.Zero(t, f.getFolder(t, b.ID).FilesCount)
}

func TestMutator_DeleteSubtree(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "VDR", models.FolderTypeVirtualDataRoom)
	keep := f.folder(t, ctx, r.ID, "keep")
	a := f.folder(t, ctx, r.ID, "A")
	b := f.folder(t, ctx, a.ID, "B")
	f.file(t, ctx, a.ID, "a.txt", 10)
	inB := f.file(t, ctx, b.ID, "b.txt", 20)
	f.file(t, ctx, keep.ID, "k.txt", 5)

	require.NoError(t, f.svc.DeleteSubtree(ctx, a.ID))

	for _, id := range []string{a.ID, b.ID} {
		_, err := f.folders.GetByID(context.Background(), testTenant, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.ancestorPairs(t, id))
		assert.Empty(t, f.orderOf(t, id, models.EntryTypeFile))
	}
	_, err := f.svc.GetFile(ctx, inB.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	room := f.getFolder(t, r.ID)
	assert.Equal(t, int64(5), room.UsedSpace)
	assert.Equal(t, 1, room.FilesCount)
	assert.Equal(t, 1, room.FoldersCount)
	assert.Equal(t, []string{keep.ID + "=1"}, f.orderOf(t, r.ID, models.EntryTypeFolder))
}

func TestMutator_DeleteRoomDropsSettings(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)
	f.folder(t, ctx, r.ID, "A")

	require.NoError(t, f.svc.DeleteSubtree(ctx, r.ID))
	_, err := f.settings.Get(context.Background(), testTenant, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rooms, err := f.svc.ListRooms(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestMutator_FileVersions(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)
	a := f.folder(t, ctx, r.ID, "A")
	doc := f.file(t, ctx, a.ID, "doc.docx", 100)

	v2, err := f.svc.AddFileVersion(ctx, &hierarchySvc.AddVersionRequest{FileID: doc.ID, ContentLength: 50, ExpectedCurrent: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, int64(150), f.getFolder(t, r.ID).UsedSpace)

	_, err = f.svc.AddFileVersion(ctx, &hierarchySvc.AddVersionRequest{FileID: doc.ID, ContentLength: 1, ExpectedCurrent: 1})
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	err = f.svc.DeleteFileVersion(ctx, doc.ID, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	promoted, err := f.svc.PromoteFileVersion(ctx, &hierarchySvc.PromoteVersionRequest{FileID: doc.ID, Version: 1, ExpectedCurrent: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, promoted.Version)

	require.NoError(t, f.svc.DeleteFileVersion(ctx, doc.ID, 2))
	assert.Equal(t, int64(100), f.getFolder(t, r.ID).UsedSpace)
	assert.Equal(t, int64(100), f.getFolder(t, a.ID).UsedSpace)

	versions, err := f.svc.ListVersions(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.True(t, versions[0].CurrentVersion)

	v3, err := f.svc.AddFileVersion(ctx, &hierarchySvc.AddVersionRequest{FileID: doc.ID, ContentLength: 1, Forcesave: models.ForcesaveSystem})
	require.NoError(t, err)
	assert.Equal(t, 3, v3.Version, "the deleted version number is not reused")

	stable, err := f.svc.StableVersion(ctx, doc.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, stable.Version)
}

func TestMutator_QuotaIsEnforcedBeforeWrites(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	small, err := f.svc.CreateRoom(ctx, &hierarchySvc.CreateRoomRequest{
		Title: "small", FolderType: models.FolderTypeCustomRoom, QuotaBytes: int64Ptr(1000),
	})
	require.NoError(t, err)
	big := f.room(t, ctx, "big", models.FolderTypeCustomRoom)

	doc := f.file(t, ctx, small.ID, "a", 600)

	_, err = f.svc.CreateFile(ctx, &hierarchySvc.CreateFileRequest{FolderID: small.ID, Title: "b", ContentLength: 500})
	require.ErrorIs(t, err, domain.ErrStorageQuotaExceeded)
	assert.Equal(t, StateRejected, last(f.statesOf("create_file")))

	_, err = f.svc.AddFileVersion(ctx, &hierarchySvc.AddVersionRequest{FileID: doc.ID, ContentLength: 401})
	require.ErrorIs(t, err, domain.ErrStorageQuotaExceeded)

	heavy := f.folder(t, ctx, big.ID, "heavy")
	f.file(t, ctx, heavy.ID, "blob", 2000)
	_, err = f.svc.MoveSubtree(ctx, heavy.ID, small.ID)
	require.ErrorIs(t, err, domain.ErrStorageQuotaExceeded)

	assert.Equal(t, int64(600), f.getFolder(t, small.ID).UsedSpace)
	assert.Equal(t, int64(2000), f.getFolder(t, big.ID).UsedSpace)
	versions, err := f.svc.ListVersions(ctx, doc.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func last(states []OpState) OpState {
	if len(states) == 0 {
		return ""
	}
	return states[len(states)-1]
}

func TestMutator_TenantsAreIsolated(t *testing.T) {
	f := newFixture(t)
	ctxA := tenantCtx(testTenant)
	ctxB := tenantCtx("tenant-b")

	r := f.room(t, ctxA, "R", models.FolderTypeCustomRoom)
	a := f.folder(t, ctxA, r.ID, "A")
	doc := f.file(t, ctxA, a.ID, "doc", 1)
	rb := f.room(t, ctxB, "RB", models.FolderTypeCustomRoom)

	_, err := f.svc.GetFolder(ctxB, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.CreateFolder(ctxB, &hierarchySvc.CreateFolderRequest{ParentID: r.ID, Title: "intruder"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.MoveSubtree(ctxB, a.ID, rb.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.MoveSubtree(ctxA, a.ID, rb.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.svc.DeleteFile(ctxB, doc.ID), domain.ErrNotFound)

	roomsB, err := f.svc.ListRooms(ctxB)
	require.NoError(t, err)
	require.Len(t, roomsB, 1)
	assert.Equal(t, rb.ID, roomsB[0].ID)

	_, err = f.svc.ListRooms(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMutator_CancellationBeforeCommitIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)
	r := f.room(t, ctx, "R", models.FolderTypeVirtualDataRoom)

	cancelCtx, cancel := context.WithCancel(ctx)
	f.hook = func(op string, state OpState) {
		if op == "create_folder" && state == StateMutating {
			cancel()
		}
	}

	_, err := f.svc.CreateFolder(cancelCtx, &hierarchySvc.CreateFolderRequest{ParentID: r.ID, Title: "A"})
	require.ErrorIs(t, err, context.Canceled)
	f.hook = nil

	contents, err := f.svc.ListChildren(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, contents.Folders)
	assert.Empty(t, f.orderOf(t, r.ID, models.EntryTypeFolder))
	assert.Zero(t, f.getFolder(t, r.ID).FoldersCount)
	assert.Equal(t, StateAborted, last(f.statesOf("create_folder")))
}

func TestMutator_TransientCommitFailureIsRetried(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)
	r := f.room(t, ctx, "R", models.FolderTypeVirtualDataRoom)

	f.store.FailNextCommits(
		fmt.Errorf("deadlock detected: %w", domain.ErrTransient),
		fmt.Errorf("connection reset: %w", domain.ErrTransient),
	)
	a, err := f.svc.CreateFolder(ctx, &hierarchySvc.CreateFolderRequest{ParentID: r.ID, Title: "A"})
	require.NoError(t, err)

	contents, err := f.svc.ListChildren(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, contents.Folders, 1)
	assert.Equal(t, a.ID, contents.Folders[0].ID)
	assert.Equal(t, []string{r.ID + "@1"}, f.ancestorPairs(t, a.ID))
	assert.Equal(t, []string{a.ID + "=1"}, f.orderOf(t, r.ID, models.EntryTypeFolder))
	assert.Equal(t, 1, f.getFolder(t, r.ID).FoldersCount)
}

func TestMutator_TransientFailureGivesUp(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)
	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)

	failures := make([]error, 4)
	for i := range failures {
		failures[i] = fmt.Errorf("serialization failure: %w", domain.ErrTransient)
	}
	f.store.FailNextCommits(failures...)

	_, err := f.svc.CreateFolder(ctx, &hierarchySvc.CreateFolderRequest{ParentID: r.ID, Title: "A"})
	require.ErrorIs(t, err, domain.ErrTransient)

	contents, err := f.svc.ListChildren(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, contents.Folders)
}

func TestMutator_TrashRestoreAndPurge(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "VDR", models.FolderTypeVirtualDataRoom)
	a := f.folder(t, ctx, r.ID, "A")
	b := f.folder(t, ctx, r.ID, "B")
	f.file(t, ctx, a.ID, "a.txt", 10)

	trashed, err := f.svc.TrashFolder(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, trashed.DeletedAt)
	assert.Equal(t, []string{b.ID + "=1"}, f.orderOf(t, r.ID, models.EntryTypeFolder))

	contents, err := f.svc.ListChildren(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, contents.Folders, 1)
	assert.Equal(t, b.ID, contents.Folders[0].ID)
	assert.Equal(t, int64(10), f.getFolder(t, r.ID).UsedSpace, "trash keeps counting toward used space")

	_, err = f.svc.TrashFolder(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	_, err = f.svc.TrashFolder(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	_, err = f.svc.CreateFolder(ctx, &hierarchySvc.CreateFolderRequest{ParentID: a.ID, Title: "inside"})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	restored, err := f.svc.RestoreFolder(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	assert.Equal(t, []string{b.ID + "=1", a.ID + "=2"}, f.orderOf(t, r.ID, models.EntryTypeFolder))

	_, err = f.svc.TrashFolder(ctx, a.ID)
	require.NoError(t, err)
	trashedAt := *f.getFolder(t, a.ID).DeletedAt

	purged, err := f.svc.PurgeTrashed(ctx, a.ID, trashedAt)
	require.NoError(t, err)
	assert.False(t, purged, "folder is younger than the cutoff")

	purged, err = f.svc.PurgeTrashed(ctx, a.ID, trashedAt.Add(1))
	require.NoError(t, err)
	assert.True(t, purged)

	_, err = f.svc.GetFolder(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.getFolder(t, r.ID).UsedSpace)
	assert.Equal(t, []string{b.ID + "=1"}, f.orderOf(t, r.ID, models.EntryTypeFolder))

	purged, err = f.svc.PurgeTrashed(ctx, b.ID, trashedAt.Add(1))
	require.NoError(t, err)
	assert.False(t, purged, "active folders are never purged")
}

func TestMutator_SetRoomIndexing(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)
	x := f.folder(t, ctx, r.ID, "X")
	y := f.folder(t, ctx, r.ID, "Y")
	inX1 := f.file(t, ctx, x.ID, "1", 1)
	inX2 := f.file(t, ctx, x.ID, "2", 1)

	settings, err := f.svc.SetRoomIndexing(ctx, r.ID, true)
	require.NoError(t, err)
	assert.True(t, settings.Indexing)

	assert.Equal(t, []string{x.ID + "=1", y.ID + "=2"}, f.orderOf(t, r.ID, models.EntryTypeFolder))
	assert.Equal(t, []string{inX1.ID + "=1", inX2.ID + "=2"}, f.orderOf(t, x.ID, models.EntryTypeFile))

	entry, err := f.svc.SetEntryOrder(ctx, &hierarchySvc.SetOrderRequest{
		ParentID: r.ID, EntryID: y.ID, EntryType: models.EntryTypeFolder, Order: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Order)

	contents, err := f.svc.ListChildren(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, contents.Folders, 2)
	assert.Equal(t, y.ID, contents.Folders[0].ID)
	assert.Equal(t, x.ID, contents.Folders[1].ID)

	_, err = f.svc.SetEntryOrder(ctx, &hierarchySvc.SetOrderRequest{
		ParentID: r.ID, EntryID: y.ID, EntryType: models.EntryTypeFolder, Order: 3,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.SetRoomIndexing(ctx, x.ID, false)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	_, err = f.svc.SetRoomIndexing(ctx, r.ID, false)
	require.NoError(t, err)
	assert.Empty(t, f.orderOf(t, r.ID, models.EntryTypeFolder))
	assert.Empty(t, f.orderOf(t, x.ID, models.EntryTypeFile))

	contents, err = f.svc.ListChildren(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, x.ID, contents.Folders[0].ID, "creation order once indexing is off")
}

func TestMutator_RecountRoomRepairsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)
	a := f.folder(t, ctx, r.ID, "A")
	f.file(t, ctx, a.ID, "x", 1)

	require.NoError(t, f.folders.SetCounters(context.Background(), testTenant, r.ID, 42, 42))
	require.NoError(t, f.folders.SetCounters(context.Background(), testTenant, a.ID, 0, 7))

	require.NoError(t, f.svc.RecountRoom(ctx, r.ID))

	room := f.getFolder(t, r.ID)
	assert.Equal(t, 1, room.FilesCount)
	assert.Equal(t, 1, room.FoldersCount)
	folder := f.getFolder(t, a.ID)
	assert.Equal(t, 1, folder.FilesCount)
	assert.Zero(t, folder.FoldersCount)
}

func TestMutator_GetPath(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)

	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)
	a := f.folder(t, ctx, r.ID, "A")
	b := f.folder(t, ctx, a.ID, "B")

	path, err := f.svc.GetPath(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, path.Folder.ID)
	require.Len(t, path.Ancestors, 2)
	assert.Equal(t, r.ID, path.Ancestors[0].ID)
	assert.Equal(t, a.ID, path.Ancestors[1].ID)
}

func TestMutator_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := tenantCtx(testTenant)
	r := f.room(t, ctx, "R", models.FolderTypeCustomRoom)

	tests := []struct {
		name string
		call func() error
	}{
		{"room needs a room type", func() error {
			_, err := f.svc.CreateRoom(ctx, &hierarchySvc.CreateRoomRequest{Title: "x", FolderType: models.FolderTypeDefault})
			return err
		}},
		{"room title required", func() error {
			_, err := f.svc.CreateRoom(ctx, &hierarchySvc.CreateRoomRequest{FolderType: models.FolderTypeCustomRoom})
			return err
		}},
		{"negative quota", func() error {
			_, err := f.svc.CreateRoom(ctx, &hierarchySvc.CreateRoomRequest{Title: "x", FolderType: models.FolderTypeCustomRoom, QuotaBytes: int64Ptr(-1)})
			return err
		}},
		{"folder title required", func() error {
			_, err := f.svc.CreateFolder(ctx, &hierarchySvc.CreateFolderRequest{ParentID: r.ID})
			return err
		}},
		{"negative file size", func() error {
			_, err := f.svc.CreateFile(ctx, &hierarchySvc.CreateFileRequest{FolderID: r.ID, Title: "x", ContentLength: -1})
			return err
		}},
		{"unknown forcesave state", func() error {
			_, err := f.svc.AddFileVersion(ctx, &hierarchySvc.AddVersionRequest{FileID: "x", Forcesave: "sometimes"})
			return err
		}},
		{"order must be positive", func() error {
			_, err := f.svc.SetEntryOrder(ctx, &hierarchySvc.SetOrderRequest{ParentID: r.ID, EntryID: "x", EntryType: models.EntryTypeFile})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), domain.ErrValidation)
		})
	}
}
