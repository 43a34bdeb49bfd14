package memory

import (
	"context"
	"errors"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)

// SnapshotRepository is the in-memory snapshot storage.
type SnapshotRepository struct {
	store *Store
}

// Create stores a copy of snapshot under the next identifier.
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *domain.Snapshot) (*domain.Snapshot, error) {
	if snapshot == nil {
		return nil, errors.New("cannot create nil snapshot")
	}
	var saved *domain.Snapshot
	err := r.store.write(ctx, func() (func(), error) {
		if _, ok := r.store.projects[snapshot.ProjectID]; !ok {
			return nil, ports.ErrProjectNotFound
		}
		r.store.nextSnapshotID++
		stored := snapshot.Clone()
		stored.ID = r.store.nextSnapshotID
		r.store.snapshots[stored.ID] = stored
		saved = stored.Clone()
		return func() { delete(r.store.snapshots, stored.ID) }, nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetByID fetches a snapshot regardless of its owner.
func (r *SnapshotRepository) GetByID(ctx context.Context, id int64) (*domain.Snapshot, error) {
	var snapshot *domain.Snapshot
	r.store.read(ctx, func() {
		if stored, ok := r.store.snapshots[id]; ok {
			snapshot = stored.Clone()
		}
	})
	if snapshot == nil {
		return nil, ports.ErrSnapshotNotFound
	}
	return snapshot, nil
}

// ListByProject returns the snapshots of projectID, newest first.
func (r *SnapshotRepository) ListByProject(ctx context.Context, projectID int64) ([]*domain.Snapshot, error) {
	snapshots := []*domain.Snapshot{}
	r.store.read(ctx, func() {
		for _, snapshot := range r.store.snapshots {
			if snapshot.ProjectID == projectID {
				snapshots = append(snapshots, snapshot.Clone())
			}
		}
	})
	domain.SortNewestFirst(snapshots)
	return snapshots, nil
}

// Delete removes a single snapshot.
func (r *SnapshotRepository) Delete(ctx context.Context, id int64) error {
	return r.store.write(ctx, func() (func(), error) {
		previous, ok := r.store.snapshots[id]
		if !ok {
			return nil, ports.ErrSnapshotNotFound
		}
		delete(r.store.snapshots, id)
		return func() { r.store.snapshots[previous.ID] = previous }, nil
	})
}

// DeleteByProject removes every snapshot of projectID and reports how many
// were dropped.
func (r *SnapshotRepository) DeleteByProject(ctx context.Context, projectID int64) (int64, error) {
	var count int64
	err := r.store.write(ctx, func() (func(), error) {
		removed := r.store.removeSnapshotsOf(projectID)
		count = int64(len(removed))
		return func() { r.store.restoreSnapshots(removed) }, nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
