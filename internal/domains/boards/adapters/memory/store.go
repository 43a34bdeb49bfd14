package memory

import (
	"context"
	"sync"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

var _ ports.Transactor = (*Store)(nil)

// Store keeps projects and snapshots in process memory. It backs development
// runs, tests and contract verification.
type Store struct {
	// txMu serializes writers against each other and against readers outside
	// a transaction. A transaction holds it exclusively for its whole lifetime.
	txMu sync.RWMutex
	mu   sync.RWMutex

	projects       map[int64]*domain.Project
	snapshots      map[int64]*domain.Snapshot
	nextProjectID  int64
	nextSnapshotID int64
}

type txKey struct{}

type txState struct {
	undo []func()
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		projects:  map[int64]*domain.Project{},
		snapshots: map[int64]*domain.Snapshot{},
	}
}

// Projects returns the project repository view of the store.
func (s *Store) Projects() *ProjectRepository {
	return &ProjectRepository{store: s}
}

// Snapshots returns the snapshot repository view of the store.
func (s *Store) Snapshots() *SnapshotRepository {
	return &SnapshotRepository{store: s}
}

// WithinTransaction runs fn with every write recorded in an undo log. The log
// is replayed in reverse when fn fails or panics. Identifiers handed out
// inside a rolled back transaction are not reused.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txState{}
	defer func() {
		if r := recover(); r != nil {
			s.rollback(tx)
			panic(r)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		s.rollback(tx)
	}
	return err
}

// Reset drops every project and snapshot and restarts identifiers at 1.
func (s *Store) Reset() {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = map[int64]*domain.Project{}
	s.snapshots = map[int64]*domain.Snapshot{}
	s.nextProjectID = 0
	s.nextSnapshotID = 0
}

func (s *Store) rollback(tx *txState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

// read runs fn under the data read lock. Outside a transaction it first waits
// for any open transaction, so uncommitted writes are never observed.
func (s *Store) read(ctx context.Context, fn func()) {
	if _, inTx := ctx.Value(txKey{}).(*txState); !inTx {
		s.txMu.RLock()
		defer s.txMu.RUnlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

// write applies mutate under the data lock. Outside a transaction it also
// takes txMu so it never interleaves with an open transaction.
func (s *Store) write(ctx context.Context, mutate func() (undo func(), err error)) error {
	tx, inTx := ctx.Value(txKey{}).(*txState)
	if !inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	undo, err := mutate()
	if err != nil {
		return err
	}
	if inTx && undo != nil {
		tx.undo = append(tx.undo, undo)
	}
	return nil
}

// removeSnapshotsOf deletes every snapshot of projectID and returns the
// removed entries. Callers hold mu.
func (s *Store) removeSnapshotsOf(projectID int64) []*domain.Snapshot {
	var removed []*domain.Snapshot
	for id, snapshot := range s.snapshots {
		if snapshot.ProjectID == projectID {
			removed = append(removed, snapshot)
			delete(s.snapshots, id)
		}
	}
	return removed
}

func (s *Store) restoreSnapshots(snapshots []*domain.Snapshot) {
	for _, snapshot := range snapshots {
		s.snapshots[snapshot.ID] = snapshot
	}
}
