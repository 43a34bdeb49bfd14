package memory

import (
	"context"
	"errors"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

var _ ports.ProjectRepository = (*ProjectRepository)(nil)

// ProjectRepository is the in-memory project storage.
type ProjectRepository struct {
	store *Store
}

// Create assigns the next identifier and stores a copy of project.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, errors.New("cannot create nil project")
	}
	var saved *domain.Project
	err := r.store.write(ctx, func() (func(), error) {
		r.store.nextProjectID++
		stored := project.Clone()
		stored.ID = r.store.nextProjectID
		r.store.projects[stored.ID] = stored
		saved = stored.Clone()
		return func() { delete(r.store.projects, stored.ID) }, nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetByID fetches a project if present.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var project *domain.Project
	r.store.read(ctx, func() {
		if stored, ok := r.store.projects[id]; ok {
			project = stored.Clone()
		}
	})
	if project == nil {
		return nil, ports.ErrProjectNotFound
	}
	return project, nil
}

// Exists reports whether a project with id is stored.
func (r *ProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	r.store.read(ctx, func() { _, ok = r.store.projects[id] })
	return ok, nil
}

// List returns every project, most recently updated first.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	r.store.read(ctx, func() { projects = r.sortedLocked() })
	return projects, nil
}

// Latest returns the most recently updated project.
func (r *ProjectRepository) Latest(ctx context.Context) (*domain.Project, error) {
	var projects []*domain.Project
	r.store.read(ctx, func() { projects = r.sortedLocked() })
	if len(projects) == 0 {
		return nil, ports.ErrProjectNotFound
	}
	return projects[0], nil
}

// Update overwrites the mutable fields of a stored project.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if project == nil {
		return nil, errors.New("cannot update nil project")
	}
	var saved *domain.Project
	err := r.store.write(ctx, func() (func(), error) {
		previous, ok := r.store.projects[project.ID]
		if !ok {
			return nil, ports.ErrProjectNotFound
		}
		stored := project.Clone()
		stored.CreatedAt = previous.CreatedAt
		r.store.projects[stored.ID] = stored
		saved = stored.Clone()
		return func() { r.store.projects[previous.ID] = previous }, nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete removes a project and, like a cascading foreign key, its snapshots.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	return r.store.write(ctx, func() (func(), error) {
		previous, ok := r.store.projects[id]
		if !ok {
			return nil, ports.ErrProjectNotFound
		}
		delete(r.store.projects, id)
		removed := r.store.removeSnapshotsOf(id)
		return func() {
			r.store.projects[previous.ID] = previous
			r.store.restoreSnapshots(removed)
		}, nil
	})
}

func (r *ProjectRepository) sortedLocked() []*domain.Project {
	projects := make([]*domain.Project, 0, len(r.store.projects))
	for _, project := range r.store.projects {
		projects = append(projects, project.Clone())
	}
	domain.SortRecentlyUpdatedFirst(projects)
	return projects
}
