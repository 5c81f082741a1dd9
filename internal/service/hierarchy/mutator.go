package hierarchy

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	"docspace/internal/domain/repositories"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/domain/services"
	hierarchySvc "docspace/internal/domain/services/hierarchy"
	"docspace/internal/foldertypes"
	"docspace/internal/service/rooms"

	"github.com/google/uuid"
)

// Deps are the collaborators of the mutator
type Deps struct {
	Folders   hierarchyRepo.FolderRepository
	Files     hierarchyRepo.FileRepository
	Tree      hierarchyRepo.TreeRepository
	Orders    hierarchyRepo.OrderRepository
	Settings  hierarchyRepo.RoomSettingsRepository
	Resolver  services.RoomSettingsResolver // listings and invalidation; may be cached
	Types     *foldertypes.Registry
	TxManager repositories.TransactionManager
	Tenant    services.TenantContext
	Identity  services.IdentityProvider
	Audit     services.AuditSink // optional
	Logger    *slog.Logger
}

// Option customizes a mutator
type Option func(*mutator)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *mutator) { m.now = now }
}

// WithIDGenerator replaces uuid.NewString for new folder and file ids
func WithIDGenerator(newID func() string) Option {
	return func(m *mutator) { m.newID = newID }
}

// WithObserver registers a state transition observer
func WithObserver(observer StateObserver) Option {
	return func(m *mutator) { m.observer = observer }
}

type mutator struct {
	folders  hierarchyRepo.FolderRepository
	files    hierarchyRepo.FileRepository
	settings hierarchyRepo.RoomSettingsRepository
	resolver services.RoomSettingsResolver
	types    *foldertypes.Registry
	tx       repositories.TransactionManager
	tenant   services.TenantContext
	identity services.IdentityProvider
	audit    services.AuditSink

	tree     *TreeIndex
	order    *OrderIndex
	counters *AggregateCounters
	versions *VersionChain

	now      func() time.Time
	newID    func() string
	observer StateObserver
	logger   *slog.Logger
}

// Service implements both the mutating and the read side of the hierarchy
type Service interface {
	hierarchySvc.Mutator
	hierarchySvc.Reader
}

// NewService creates the hierarchy service
func NewService(deps Deps, opts ...Option) Service {
	tree := NewTreeIndex(deps.Tree, deps.Logger)
	// transactions read settings from the repository; deps.Resolver may be
	// cached and only serves listings
	stored := rooms.NewSettingsResolver(deps.Settings, deps.Folders, deps.Types, deps.Logger)
	m := &mutator{
		folders:  deps.Folders,
		files:    deps.Files,
		settings: deps.Settings,
		resolver: deps.Resolver,
		types:    deps.Types,
		tx:       deps.TxManager,
		tenant:   deps.Tenant,
		identity: deps.Identity,
		audit:    deps.Audit,
		tree:     tree,
		order:    NewOrderIndex(deps.Orders, tree, stored, deps.Logger),
		counters: NewAggregateCounters(deps.Folders, deps.Files, tree, stored, deps.Logger),
		versions: NewVersionChain(deps.Files, deps.Logger),
		now:      time.Now,
		newID:    uuid.NewString,
		logger:   deps.Logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// begin resolves the acting tenant and user and enters Validating
func (m *mutator) begin(ctx context.Context, name string) (*operation, error) {
	op := &operation{m: m, name: name}
	op.enter(ctx, StateValidating)

	tenantID, err := m.tenant.CurrentTenantID(ctx)
	if err != nil {
		return nil, op.finish(ctx, err)
	}
	userID, err := m.identity.CurrentUserID(ctx)
	if err != nil {
		return nil, op.finish(ctx, err)
	}
	op.tenantID = tenantID
	op.userID = userID
	return op, nil
}

// run executes fn in one transaction and records the terminal state.
// fn may run again when a transient failure is retried.
func (m *mutator) run(ctx context.Context, op *operation, fn func(ctx context.Context) error) error {
	err := m.tx.ExecTx(ctx, func(ctx context.Context) error {
		op.enter(ctx, StateValidating)
		return fn(ctx)
	})
	if err != nil {
		m.logger.Debug("operation failed",
			"op", op.name,
			"tenant_id", op.tenantID,
			"state", op.state,
			"error", err,
		)
	}
	return op.finish(ctx, err)
}

// lock takes row locks on the rooms of the given folders, then on the
// folders themselves, each set in id order. Every operation that changes a
// room's tree holds the room row, so work inside one room is serialized and
// counters and quota are read after the previous writer committed.
func (m *mutator) lock(ctx context.Context, op *operation, ids ...string) (map[string]*models.Folder, error) {
	targets := sortedIDs(ids)

	roomOf := make(map[string]string, len(targets))
	roomIDs := make([]string, 0, len(targets))
	for _, id := range targets {
		roomID, err := m.tree.Root(ctx, op.tenantID, id)
		if err != nil {
			return nil, err
		}
		roomOf[id] = roomID
		roomIDs = append(roomIDs, roomID)
	}

	locked := make(map[string]*models.Folder, len(targets)+len(roomIDs))
	for _, id := range append(sortedIDs(roomIDs), targets...) {
		if locked[id] != nil {
			continue
		}
		folder, err := m.folders.LockForUpdate(ctx, op.tenantID, id)
		if err != nil {
			return nil, err
		}
		locked[id] = folder
	}

	// a move that committed while we waited may have carried a target into
	// a room we do not hold
	for _, id := range targets {
		roomID, err := m.tree.Root(ctx, op.tenantID, id)
		if err != nil {
			return nil, err
		}
		if roomID != roomOf[id] {
			return nil, fmt.Errorf("%w: folder %s changed room while locking", domain.ErrTransient, id)
		}
	}

	op.enter(ctx, StateLocked)
	return locked, nil
}

func sortedIDs(ids []string) []string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

// ensureActive fails when folder or any of its ancestors is in the trash
func (m *mutator) ensureActive(ctx context.Context, tenantID string, folder *models.Folder) error {
	if folder.IsTrashed() {
		return invalidf("folder %s is in the trash", folder.ID)
	}
	edges, err := m.tree.Ancestors(ctx, tenantID, folder.ID)
	if err != nil {
		return err
	}
	if len(edges) == 0 {
		return nil
	}
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.AncestorID
	}
	ancestors, err := m.folders.GetMany(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	for _, a := range ancestors {
		if a.IsTrashed() {
			return invalidf("folder %s is inside trashed folder %s", folder.ID, a.ID)
		}
	}
	return nil
}

// recountChains recounts every folder on the chains starting at the given folders
func (m *mutator) recountChains(ctx context.Context, tenantID string, folderIDs ...string) error {
	var all []string
	for _, id := range folderIDs {
		chain, err := m.tree.Chain(ctx, tenantID, id)
		if err != nil {
			return err
		}
		all = append(all, chain...)
	}
	return m.counters.BulkRecount(ctx, tenantID, all)
}

// emit sends an audit event after commit; failures stay inside the sink
func (m *mutator) emit(ctx context.Context, op *operation, action services.AuditAction, targetID string, details map[string]string) {
	m.logger.Info("hierarchy changed",
		"op", op.name,
		"action", action,
		"tenant_id", op.tenantID,
		"user_id", op.userID,
		"target_id", targetID,
	)
	if m.audit == nil {
		return
	}
	m.audit.Emit(ctx, services.AuditEvent{
		Action:     action,
		TenantID:   op.tenantID,
		UserID:     op.userID,
		TargetID:   targetID,
		Details:    details,
		OccurredAt: m.now(),
	})
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidOperation}, args...)...)
}

func requireID(name, id string) error {
	if id == "" {
		return domain.NewValidation(name + " is required")
	}
	return nil
}
