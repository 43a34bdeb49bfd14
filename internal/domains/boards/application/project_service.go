package application

import (
	"context"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

// ProjectService orchestrates the project use cases.
type ProjectService struct {
	projects  ports.ProjectRepository
	snapshots ports.SnapshotRepository
	tx        ports.Transactor
	settings  settings
}

// NewProjectService wires the project service with its storage.
func NewProjectService(projects ports.ProjectRepository, snapshots ports.SnapshotRepository, tx ports.Transactor, opts ...Option) *ProjectService {
	return &ProjectService{
		projects:  projects,
		snapshots: snapshots,
		tx:        tx,
		settings:  newSettings(opts),
	}
}

// ListProjects returns every project, most recently updated first.
func (s *ProjectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return projects, nil
}

// GetLatestProjectWithSnapshots loads the most recently updated project with
// its full snapshot history.
func (s *ProjectService) GetLatestProjectWithSnapshots(ctx context.Context) (*ports.ProjectWithSnapshots, error) {
	var result *ports.ProjectWithSnapshots
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		project, err := s.projects.Latest(ctx)
		if err != nil {
			return err
		}
		snapshots, err := s.snapshots.ListByProject(ctx, project.ID)
		if err != nil {
			return err
		}
		result = &ports.ProjectWithSnapshots{Project: project, Snapshots: snapshots}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

// GetProjectByID loads a single project without its snapshots.
func (s *ProjectService) GetProjectByID(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return project, nil
}

// CreateProject persists a new, empty board.
func (s *ProjectService) CreateProject(ctx context.Context, title string) (*domain.Project, error) {
	project, err := domain.NewProject(title, s.settings.timestamp())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateProject replaces the title of an existing project.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, title string) (*domain.Project, error) {
	var updated *domain.Project
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		project, err := s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		now, err := s.settings.updateTime(ctx, s.projects)
		if err != nil {
			return err
		}
		if err := project.Rename(title, now); err != nil {
			return err
		}
		updated, err = s.projects.Update(ctx, project)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// DeleteProject removes a project together with all of its snapshots.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.projects.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ports.ErrProjectNotFound
		}
		if _, err := s.snapshots.DeleteByProject(ctx, id); err != nil {
			return err
		}
		return s.projects.Delete(ctx, id)
	})
	return mapError(err)
}

var _ ports.ProjectService = (*ProjectService)(nil)
