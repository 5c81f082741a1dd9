package memory

import (
	"context"
	"log/slog"
	"sync"

	models "docspace/internal/domain/models/hierarchy"
	"docspace/internal/domain/repositories"
	"docspace/internal/repository/retry"
)

type tenantKey struct {
	tenant string
	id     string
}

type groupKey struct {
	tenant    string
	parent    string
	entryType models.EntryType
}

// state is the whole dataset. Closure rows are indexed in both directions:
// ancestors maps a folder to its rows sorted by level, descendants maps an
// ancestor to descendant -> level. Both are always updated together.
type state struct {
	folders     map[tenantKey]models.Folder
	files       map[tenantKey]map[int]models.File
	fileSeq     map[tenantKey]int
	ancestors   map[tenantKey][]models.TreeEdge
	descendants map[tenantKey]map[string]int
	orders      map[groupKey]map[string]int
	settings    map[tenantKey]models.RoomSettings
}

func newState() *state {
	return &state{
		folders:     make(map[tenantKey]models.Folder),
		files:       make(map[tenantKey]map[int]models.File),
		fileSeq:     make(map[tenantKey]int),
		ancestors:   make(map[tenantKey][]models.TreeEdge),
		descendants: make(map[tenantKey]map[string]int),
		orders:      make(map[groupKey]map[string]int),
		settings:    make(map[tenantKey]models.RoomSettings),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.folders {
		c.folders[k] = copyFolder(v)
	}
	for k, versions := range s.files {
		m := make(map[int]models.File, len(versions))
		for ver, f := range versions {
			m[ver] = copyFile(f)
		}
		c.files[k] = m
	}
	for k, v := range s.fileSeq {
		c.fileSeq[k] = v
	}
	for k, v := range s.ancestors {
		c.ancestors[k] = append([]models.TreeEdge(nil), v...)
	}
	for k, v := range s.descendants {
		m := make(map[string]int, len(v))
		for d, l := range v {
			m[d] = l
		}
		c.descendants[k] = m
	}
	for k, v := range s.orders {
		m := make(map[string]int, len(v))
		for e, o := range v {
			m[e] = o
		}
		c.orders[k] = m
	}
	for k, v := range s.settings {
		c.settings[k] = v
	}
	return c
}

func copyFolder(f models.Folder) models.Folder {
	if f.ParentID != nil {
		p := *f.ParentID
		f.ParentID = &p
	}
	if f.DeletedAt != nil {
		d := *f.DeletedAt
		f.DeletedAt = &d
	}
	return f
}

func copyFile(f models.File) models.File {
	if f.Changes != nil {
		f.Changes = append([]byte(nil), f.Changes...)
	}
	return f
}

// Store is an in-process dataset shared by the memory repositories.
// Transactions are serialized by mu; reads outside a transaction take mu
// for the duration of the call.
type Store struct {
	mu     sync.Mutex
	state  *state
	faults []error
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{state: newState()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// view runs fn against the current state, joining the caller's transaction
// when there is one
func (s *Store) view(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// FailNextCommits makes the next len(errs) commits fail with the given errors,
// rolling their transactions back. Used to exercise retry paths.
func (s *Store) FailNextCommits(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, errs...)
}

func (s *Store) takeFault() error {
	if len(s.faults) == 0 {
		return nil
	}
	err := s.faults[0]
	s.faults = s.faults[1:]
	return err
}

// TransactionManager runs functions against a snapshot of the store and
// restores the snapshot when they fail
type TransactionManager struct {
	store  *Store
	policy retry.Policy
	logger *slog.Logger
}

// NewTransactionManager creates a transaction manager for the store
func NewTransactionManager(store *Store, policy retry.Policy, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{store: store, policy: policy, logger: logger}
}

// ExecTx executes a function within a transaction
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if tm.store.inTx(ctx) {
		return fn(ctx)
	}
	return retry.Do(ctx, tm.policy, retry.IsTransient, tm.logger, func(ctx context.Context) error {
		return tm.attempt(ctx, fn)
	})
}

func (tm *TransactionManager) attempt(ctx context.Context, fn repositories.TxFn) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := tm.store
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	txCtx := context.WithValue(ctx, txKey{}, s)

	if err := fn(txCtx); err != nil {
		s.state = snapshot
		return err
	}

	// Last point where cancellation is honored
	if err := ctx.Err(); err != nil {
		s.state = snapshot
		return err
	}

	if err := s.takeFault(); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}
