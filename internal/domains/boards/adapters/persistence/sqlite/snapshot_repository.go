package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
	platformsqlite "github.com/Apurer/svgboard-api/internal/platform/sqlite"
)

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)

// SnapshotRepository stores snapshots in SQLite.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository wires a SQLite-backed repository.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a snapshot. A missing owner surfaces as ErrProjectNotFound.
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *domain.Snapshot) (*domain.Snapshot, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, errors.New("snapshot is nil")
	}
	result, err := platformsqlite.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO snapshot (project_id, shapes_data, created_at) VALUES (?, ?, ?)`,
		snapshot.ProjectID,
		string(snapshot.ShapesData),
		toMicros(snapshot.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ports.ErrProjectNotFound
		}
		return nil, fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read snapshot id: %w", err)
	}
	saved := snapshot.Clone()
	saved.ID = id
	saved.CreatedAt = fromMicros(toMicros(snapshot.CreatedAt))
	return saved, nil
}

// GetByID fetches a snapshot regardless of its owner.
func (r *SnapshotRepository) GetByID(ctx context.Context, id int64) (*domain.Snapshot, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	row := platformsqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, project_id, shapes_data, created_at FROM snapshot WHERE id = ?`, id)
	snapshot, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return snapshot, nil
}

// ListByProject returns the snapshots of a project, newest first.
func (r *SnapshotRepository) ListByProject(ctx context.Context, projectID int64) ([]*domain.Snapshot, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	rows, err := platformsqlite.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT id, project_id, shapes_data, created_at FROM snapshot
		 WHERE project_id = ?
		 ORDER BY created_at DESC, id DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*domain.Snapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// Delete removes a snapshot by id.
func (r *SnapshotRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result, err := platformsqlite.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM snapshot WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if affected == 0 {
		return ports.ErrSnapshotNotFound
	}
	return nil
}

// DeleteByProject removes every snapshot of a project.
func (r *SnapshotRepository) DeleteByProject(ctx context.Context, projectID int64) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result, err := platformsqlite.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM snapshot WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, fmt.Errorf("delete project snapshots: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete project snapshots: %w", err)
	}
	return affected, nil
}

func (r *SnapshotRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("sqlite snapshot repository not configured")
	}
	return nil
}

func scanSnapshot(row scanner) (*domain.Snapshot, error) {
	var (
		snapshot  domain.Snapshot
		shapes    string
		createdAt int64
	)
	if err := row.Scan(&snapshot.ID, &snapshot.ProjectID, &shapes, &createdAt); err != nil {
		return nil, err
	}
	snapshot.ShapesData = domain.ShapesData(shapes)
	snapshot.CreatedAt = fromMicros(createdAt)
	return &snapshot, nil
}
