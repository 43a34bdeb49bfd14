package ports

import (
	"context"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
)

// ProjectWithSnapshots is the composite read used to resume a board.
type ProjectWithSnapshots struct {
	Project   *domain.Project
	Snapshots []*domain.Snapshot
}

// ProjectService exposes project use cases to adapters.
type ProjectService interface {
	ListProjects(ctx context.Context) ([]*domain.Project, error)
	GetLatestProjectWithSnapshots(ctx context.Context) (*ProjectWithSnapshots, error)
	GetProjectByID(ctx context.Context, id int64) (*domain.Project, error)
	CreateProject(ctx context.Context, title string) (*domain.Project, error)
	UpdateProject(ctx context.Context, id int64, title string) (*domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// SnapshotService exposes snapshot use cases to adapters. Every operation
// scoped to a single snapshot checks that it belongs to projectID.
type SnapshotService interface {
	ListSnapshots(ctx context.Context, projectID int64) ([]*domain.Snapshot, error)
	GetSnapshot(ctx context.Context, projectID, snapshotID int64) (*domain.Snapshot, error)
	CreateSnapshot(ctx context.Context, projectID int64, data domain.ShapesData) (*domain.Snapshot, error)
	DeleteAllSnapshots(ctx context.Context, projectID int64) error
	DeleteSnapshot(ctx context.Context, projectID, snapshotID int64) error
}
