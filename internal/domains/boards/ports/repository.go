package ports

import (
	"context"
	"errors"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// ProjectRepository persists projects. List and Latest order by UpdatedAt
// descending, higher ids first on ties.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context) ([]*domain.Project, error)
	// Latest returns ErrProjectNotFound when no project exists.
	Latest(ctx context.Context) (*domain.Project, error)
	// Update writes title, last shapes data and UpdatedAt.
	Update(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id int64) error
}

// SnapshotRepository persists snapshots. ListByProject orders by CreatedAt
// descending, newest insertion first on ties.
type SnapshotRepository interface {
	// Create returns ErrProjectNotFound when the owning project is gone.
	Create(ctx context.Context, snapshot *domain.Snapshot) (*domain.Snapshot, error)
	GetByID(ctx context.Context, id int64) (*domain.Snapshot, error)
	ListByProject(ctx context.Context, projectID int64) ([]*domain.Snapshot, error)
	Delete(ctx context.Context, id int64) error
	DeleteByProject(ctx context.Context, projectID int64) (int64, error)
}

// Transactor runs fn inside a single storage transaction. Repositories called
// with the context handed to fn take part in that transaction; a non-nil
// error from fn rolls every write back. Nested calls join the outer one.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
