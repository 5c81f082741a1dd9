package hierarchy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/domain/services"
	hierarchySvc "docspace/internal/domain/services/hierarchy"
	"docspace/internal/foldertypes"
	"docspace/internal/repository/memory"
	"docspace/internal/repository/retry"
	"docspace/internal/service/rooms"
	"docspace/internal/tenancy"

	"github.com/stretchr/testify/require"
)

const (
	testTenant = "tenant-a"
	testUser   = "user-1"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type transition struct {
	op    string
	state OpState
}

type fixture struct {
	store    *memory.Store
	folders  hierarchyRepo.FolderRepository
	files    hierarchyRepo.FileRepository
	tree     hierarchyRepo.TreeRepository
	orders   hierarchyRepo.OrderRepository
	settings hierarchyRepo.RoomSettingsRepository
	svc      Service
	index    *TreeIndex
	deps     Deps

	audit *recordingSink
	hook  func(op string, state OpState)

	mu          sync.Mutex
	transitions []transition
	now         time.Time
	nextID      int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	types, err := foldertypes.NewRegistry()
	require.NoError(t, err)

	logger := discardLogger()
	store := memory.NewStore()
	f := &fixture{
		store:    store,
		folders:  memory.NewFolderRepository(store),
		files:    memory.NewFileRepository(store),
		tree:     memory.NewTreeRepository(store),
		orders:   memory.NewOrderRepository(store),
		settings: memory.NewSettingsRepository(store),
		audit:    &recordingSink{},
		now:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.index = NewTreeIndex(f.tree, logger)

	policy := retry.Policy{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
	identity := tenancy.NewContextResolver("")

	f.deps = Deps{
		Folders:   f.folders,
		Files:     f.files,
		Tree:      f.tree,
		Orders:    f.orders,
		Settings:  f.settings,
		Resolver:  rooms.NewSettingsResolver(f.settings, f.folders, types, logger),
		Types:     types,
		TxManager: memory.NewTransactionManager(store, policy, logger),
		Tenant:    identity,
		Identity:  identity,
		Audit:     f.audit,
		Logger:    logger,
	}
	f.svc = NewService(f.deps, f.options()...)
	return f
}

func (f *fixture) options() []Option {
	return []Option{WithClock(f.clock), WithIDGenerator(f.id), WithObserver(f.observe)}
}

// serviceWith builds another service over the same store, ids and clock
func (f *fixture) serviceWith(mod func(*Deps)) Service {
	deps := f.deps
	mod(&deps)
	return NewService(deps, f.options()...)
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fixture) id() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("id-%03d", f.nextID)
}

func (f *fixture) observe(_ context.Context, op string, state OpState) {
	f.mu.Lock()
	f.transitions = append(f.transitions, transition{op: op, state: state})
	hook := f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(op, state)
	}
}

// statesOf returns the states recorded for op, in order
func (f *fixture) statesOf(op string) []OpState {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []OpState
	for _, tr := range f.transitions {
		if tr.op == op {
			out = append(out, tr.state)
		}
	}
	return out
}

func (f *fixture) resetTransitions() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transitions = nil
}

func tenantCtx(tenantID string) context.Context {
	ctx := tenancy.WithTenant(context.Background(), tenantID)
	return tenancy.WithUser(ctx, testUser)
}

func (f *fixture) room(t *testing.T, ctx context.Context, title string, folderType models.FolderType) *models.Folder {
	t.Helper()
	room, err := f.svc.CreateRoom(ctx, &hierarchySvc.CreateRoomRequest{Title: title, FolderType: folderType})
	require.NoError(t, err)
	return room
}

func (f *fixture) folder(t *testing.T, ctx context.Context, parentID, title string) *models.Folder {
	t.Helper()
	folder, err := f.svc.CreateFolder(ctx, &hierarchySvc.CreateFolderRequest{ParentID: parentID, Title: title})
	require.NoError(t, err)
	return folder
}

func (f *fixture) file(t *testing.T, ctx context.Context, folderID, title string, size int64) *models.File {
	t.Helper()
	file, err := f.svc.CreateFile(ctx, &hierarchySvc.CreateFileRequest{FolderID: folderID, Title: title, ContentLength: size})
	require.NoError(t, err)
	return file
}

func (f *fixture) getFolder(t *testing.T, id string) *models.Folder {
	t.Helper()
	folder, err := f.folders.GetByID(context.Background(), testTenant, id)
	require.NoError(t, err)
	return folder
}

// ancestorPairs renders Ancestors(folderID) as "id@level" strings
func (f *fixture) ancestorPairs(t *testing.T, folderID string) []string {
	t.Helper()
	edges, err := f.tree.Ancestors(context.Background(), testTenant, folderID)
	require.NoError(t, err)
	out := make([]string, len(edges))
	for i, e := range edges {
		out[i] = fmt.Sprintf("%s@%d", e.AncestorID, e.Level)
	}
	return out
}

func (f *fixture) orderOf(t *testing.T, parentID string, entryType models.EntryType) []string {
	t.Helper()
	entries, err := f.orders.List(context.Background(), testTenant, parentID, entryType)
	require.NoError(t, err)
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%s=%d", e.EntryID, e.Order)
	}
	return out
}

// stubResolver serves fixed room settings
type stubResolver struct {
	indexing map[string]bool
	quota    map[string]int64
}

func (r *stubResolver) IsIndexingEnabled(_ context.Context, _, roomID string) (bool, error) {
	return r.indexing[roomID], nil
}

func (r *stubResolver) Settings(_ context.Context, tenantID, roomID string) (*models.RoomSettings, error) {
	return &models.RoomSettings{
		TenantID:   tenantID,
		RoomID:     roomID,
		Indexing:   r.indexing[roomID],
		QuotaBytes: r.quota[roomID],
	}, nil
}

func (r *stubResolver) Invalidate(context.Context, string, string) {}

// recordingSink keeps every emitted audit event
type recordingSink struct {
	mu     sync.Mutex
	events []services.AuditEvent
}

func (s *recordingSink) Emit(_ context.Context, event services.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) actions() []services.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]services.AuditAction, len(s.events))
	for i, e := range s.events {
		out[i] = e.Action
	}
	return out
}
