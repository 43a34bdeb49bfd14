package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

// SnapshotService decorates the snapshot port with tracing, logging, and metrics.
type SnapshotService struct {
	inner ports.SnapshotService
	instrumentation
}

// NewSnapshotService wires a decorator around the core snapshot service.
func NewSnapshotService(inner ports.SnapshotService, opts ...Option) ports.SnapshotService {
	return &SnapshotService{inner: inner, instrumentation: newInstrumentation(opts)}
}

// ListSnapshots returns a project's history.
func (s *SnapshotService) ListSnapshots(ctx context.Context, projectID int64) ([]*domain.Snapshot, error) {
	ctx, span := s.startSpan(ctx, "SnapshotService.ListSnapshots", attribute.Int64("project.id", projectID))
	defer span.End()

	result, err := s.inner.ListSnapshots(ctx, projectID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list snapshots", slog.Int64("project.id", projectID))
	}
	span.SetAttributes(attribute.Int("snapshot.result.count", len(result)))
	s.logInfo(ctx, "listed snapshots", slog.Int64("project.id", projectID), slog.Int("count", len(result)))
	return result, nil
}

// GetSnapshot loads one snapshot of a project.
func (s *SnapshotService) GetSnapshot(ctx context.Context, projectID, snapshotID int64) (*domain.Snapshot, error) {
	ctx, span := s.startSpan(ctx, "SnapshotService.GetSnapshot",
		attribute.Int64("project.id", projectID),
		attribute.Int64("snapshot.id", snapshotID),
	)
	defer span.End()

	result, err := s.inner.GetSnapshot(ctx, projectID, snapshotID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load snapshot",
			slog.Int64("project.id", projectID), slog.Int64("snapshot.id", snapshotID))
	}
	return result, nil
}

// CreateSnapshot saves a new snapshot.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, projectID int64, data domain.ShapesData) (*domain.Snapshot, error) {
	ctx, span := s.startSpan(ctx, "SnapshotService.CreateSnapshot",
		attribute.Int64("project.id", projectID),
		attribute.Int("snapshot.size_bytes", len(data)),
	)
	defer span.End()

	s.logInfo(ctx, "saving snapshot", slog.Int64("project.id", projectID), slog.Int("size_bytes", len(data)))
	result, err := s.inner.CreateSnapshot(ctx, projectID, data)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to save snapshot", slog.Int64("project.id", projectID))
	}
	span.SetAttributes(attribute.Int64("snapshot.id", result.ID))
	s.metrics.recordSnapshotCreated(ctx, projectID)
	s.logInfo(ctx, "snapshot saved", slog.Int64("project.id", projectID), slog.Int64("snapshot.id", result.ID))
	return result, nil
}

// DeleteAllSnapshots clears a project's history.
func (s *SnapshotService) DeleteAllSnapshots(ctx context.Context, projectID int64) error {
	ctx, span := s.startSpan(ctx, "SnapshotService.DeleteAllSnapshots", attribute.Int64("project.id", projectID))
	defer span.End()

	s.logInfo(ctx, "deleting all snapshots", slog.Int64("project.id", projectID))
	if err := s.inner.DeleteAllSnapshots(ctx, projectID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete snapshots", slog.Int64("project.id", projectID))
	}
	s.metrics.recordSnapshotsDeleted(ctx, "project")
	s.logInfo(ctx, "snapshots deleted", slog.Int64("project.id", projectID))
	return nil
}

// DeleteSnapshot removes one snapshot.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, projectID, snapshotID int64) error {
	ctx, span := s.startSpan(ctx, "SnapshotService.DeleteSnapshot",
		attribute.Int64("project.id", projectID),
		attribute.Int64("snapshot.id", snapshotID),
	)
	defer span.End()

	attrs := []slog.Attr{slog.Int64("project.id", projectID), slog.Int64("snapshot.id", snapshotID)}
	s.logInfo(ctx, "deleting snapshot", attrs...)
	if err := s.inner.DeleteSnapshot(ctx, projectID, snapshotID); err != nil {
		return s.handleError(ctx, span, err, "failed to delete snapshot", attrs...)
	}
	s.metrics.recordSnapshotsDeleted(ctx, "single")
	s.logInfo(ctx, "snapshot deleted", attrs...)
	return nil
}

var _ ports.SnapshotService = (*SnapshotService)(nil)
