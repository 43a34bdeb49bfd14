package application

import (
	"context"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

// SnapshotService orchestrates the snapshot use cases.
type SnapshotService struct {
	projects  ports.ProjectRepository
	snapshots ports.SnapshotRepository
	tx        ports.Transactor
	settings  settings
}

// NewSnapshotService wires the snapshot service with its storage.
func NewSnapshotService(projects ports.ProjectRepository, snapshots ports.SnapshotRepository, tx ports.Transactor, opts ...Option) *SnapshotService {
	return &SnapshotService{
		projects:  projects,
		snapshots: snapshots,
		tx:        tx,
		settings:  newSettings(opts),
	}
}

// ListSnapshots returns the history of a project, newest first.
func (s *SnapshotService) ListSnapshots(ctx context.Context, projectID int64) ([]*domain.Snapshot, error) {
	var snapshots []*domain.Snapshot
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireProject(ctx, projectID); err != nil {
			return err
		}
		var err error
		snapshots, err = s.snapshots.ListByProject(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return snapshots, nil
}

// GetSnapshot loads a snapshot owned by projectID.
func (s *SnapshotService) GetSnapshot(ctx context.Context, projectID, snapshotID int64) (*domain.Snapshot, error) {
	snapshot, err := s.ownedSnapshot(ctx, projectID, snapshotID)
	if err != nil {
		return nil, mapError(err)
	}
	return snapshot, nil
}

// CreateSnapshot stores a new snapshot and caches its payload on the parent
// project. Both writes commit or roll back together.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, projectID int64, data domain.ShapesData) (*domain.Snapshot, error) {
	if err := data.Validate(); err != nil {
		return nil, mapError(err)
	}
	var saved *domain.Snapshot
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		project, err := s.projects.GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		now, err := s.settings.updateTime(ctx, s.projects)
		if err != nil {
			return err
		}
		snapshot, err := domain.NewSnapshot(project.ID, data, now)
		if err != nil {
			return err
		}
		saved, err = s.snapshots.Create(ctx, snapshot)
		if err != nil {
			return err
		}
		if err := project.RecordShapes(saved.ShapesData, saved.CreatedAt); err != nil {
			return err
		}
		_, err = s.projects.Update(ctx, project)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteAllSnapshots clears a project's history. The project's cached shapes
// are left as they are.
func (s *SnapshotService) DeleteAllSnapshots(ctx context.Context, projectID int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.requireProject(ctx, projectID); err != nil {
			return err
		}
		_, err := s.snapshots.DeleteByProject(ctx, projectID)
		return err
	})
	return mapError(err)
}

// DeleteSnapshot removes one snapshot owned by projectID. The project's
// cached shapes are left as they are.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, projectID, snapshotID int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.ownedSnapshot(ctx, projectID, snapshotID); err != nil {
			return err
		}
		return s.snapshots.Delete(ctx, snapshotID)
	})
	return mapError(err)
}

func (s *SnapshotService) requireProject(ctx context.Context, projectID int64) error {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return err
	}
	if !exists {
		return ports.ErrProjectNotFound
	}
	return nil
}

func (s *SnapshotService) ownedSnapshot(ctx context.Context, projectID, snapshotID int64) (*domain.Snapshot, error) {
	snapshot, err := s.snapshots.GetByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if !snapshot.BelongsTo(projectID) {
		return nil, mismatchError(projectID, snapshotID)
	}
	return snapshot, nil
}

var _ ports.SnapshotService = (*SnapshotService)(nil)
