package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

// ProjectService decorates the project port with tracing, logging, and metrics.
type ProjectService struct {
	inner ports.ProjectService
	instrumentation
}

// NewProjectService wires a decorator around the core project service.
func NewProjectService(inner ports.ProjectService, opts ...Option) ports.ProjectService {
	return &ProjectService{inner: inner, instrumentation: newInstrumentation(opts)}
}

// ListProjects returns every project with instrumentation.
func (s *ProjectService) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	ctx, span := s.startSpan(ctx, "ProjectService.ListProjects")
	defer span.End()

	result, err := s.inner.ListProjects(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list projects")
	}
	span.SetAttributes(attribute.Int("project.result.count", len(result)))
	s.logInfo(ctx, "listed projects", slog.Int("count", len(result)))
	return result, nil
}

// GetLatestProjectWithSnapshots loads the resume view of the newest project.
func (s *ProjectService) GetLatestProjectWithSnapshots(ctx context.Context) (*ports.ProjectWithSnapshots, error) {
	ctx, span := s.startSpan(ctx, "ProjectService.GetLatestProjectWithSnapshots")
	defer span.End()

	result, err := s.inner.GetLatestProjectWithSnapshots(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load latest project")
	}
	span.SetAttributes(
		attribute.Int64("project.id", result.Project.ID),
		attribute.Int("snapshot.result.count", len(result.Snapshots)),
	)
	s.logInfo(ctx, "latest project loaded",
		slog.Int64("project.id", result.Project.ID),
		slog.Int("snapshots", len(result.Snapshots)))
	return result, nil
}

// GetProjectByID loads a single project.
func (s *ProjectService) GetProjectByID(ctx context.Context, id int64) (*domain.Project, error) {
	ctx, span := s.startSpan(ctx, "ProjectService.GetProjectByID", attribute.Int64("project.id", id))
	defer span.End()

	result, err := s.inner.GetProjectByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load project", slog.Int64("project.id", id))
	}
	return result, nil
}

// CreateProject persists a new project.
func (s *ProjectService) CreateProject(ctx context.Context, title string) (*domain.Project, error) {
	ctx, span := s.startSpan(ctx, "ProjectService.CreateProject")
	defer span.End()

	s.logInfo(ctx, "creating project")
	result, err := s.inner.CreateProject(ctx, title)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create project")
	}
	span.SetAttributes(attribute.Int64("project.id", result.ID))
	s.metrics.recordProjectCreated(ctx)
	s.logInfo(ctx, "project created", slog.Int64("project.id", result.ID))
	return result, nil
}

// UpdateProject renames an existing project.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, title string) (*domain.Project, error) {
	ctx, span := s.startSpan(ctx, "ProjectService.UpdateProject", attribute.Int64("project.id", id))
	defer span.End()

	s.logInfo(ctx, "updating project", slog.Int64("project.id", id))
	result, err := s.inner.UpdateProject(ctx, id, title)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update project", slog.Int64("project.id", id))
	}
	s.logInfo(ctx, "project updated", slog.Int64("project.id", id))
	return result, nil
}

// DeleteProject removes a project and its history.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "ProjectService.DeleteProject", attribute.Int64("project.id", id))
	defer span.End()

	s.logInfo(ctx, "deleting project", slog.Int64("project.id", id))
	if err := s.inner.DeleteProject(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete project", slog.Int64("project.id", id))
	}
	s.metrics.recordProjectDeleted(ctx)
	s.logInfo(ctx, "project deleted", slog.Int64("project.id", id))
	return nil
}

var _ ports.ProjectService = (*ProjectService)(nil)
