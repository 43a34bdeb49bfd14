// Package sqlite persists boards in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
	platformsqlite "github.com/Apurer/svgboard-api/internal/platform/sqlite"
)

var (
	_ ports.ProjectRepository = (*ProjectRepository)(nil)
	_ ports.Transactor        = (*platformsqlite.Transactor)(nil)
)

const projectColumns = `id, title, last_shapes_data, created_at, updated_at`

// ProjectRepository stores projects in SQLite. Timestamps are kept as unix
// microseconds.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository wires a SQLite-backed repository. Caller manages DB
// lifecycle and schema.
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a project and returns it with the generated id.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.New("project is nil")
	}
	result, err := platformsqlite.Conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO project (title, last_shapes_data, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		project.Title,
		nullableShapes(project.LastShapesData),
		toMicros(project.CreatedAt),
		toMicros(project.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read project id: %w", err)
	}
	saved := project.Clone()
	saved.ID = id
	saved.CreatedAt = fromMicros(toMicros(project.CreatedAt))
	saved.UpdatedAt = fromMicros(toMicros(project.UpdatedAt))
	return saved, nil
}

// GetByID fetches a project by id.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	row := platformsqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM project WHERE id = ?`, id)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// Exists reports whether the project row is present.
func (r *ProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var exists bool
	if err := platformsqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM project WHERE id = ?)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check project: %w", err)
	}
	return exists, nil
}

// List returns all projects, most recently updated first.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	rows, err := platformsqlite.Conn(ctx, r.db).QueryContext(ctx,
		`SELECT `+projectColumns+` FROM project ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []*domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// Latest returns the most recently updated project.
func (r *ProjectRepository) Latest(ctx context.Context) (*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	row := platformsqlite.Conn(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM project ORDER BY updated_at DESC, id DESC LIMIT 1`)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ports.ErrProjectNotFound
		}
		return nil, fmt.Errorf("latest project: %w", err)
	}
	return project, nil
}

// Update writes title, last shapes data and updated_at.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.New("project is nil")
	}
	result, err := platformsqlite.Conn(ctx, r.db).ExecContext(ctx,
		`UPDATE project SET title = ?, last_shapes_data = ?, updated_at = ? WHERE id = ?`,
		project.Title,
		nullableShapes(project.LastShapesData),
		toMicros(project.UpdatedAt),
		project.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	} else if affected == 0 {
		return nil, ports.ErrProjectNotFound
	}
	return r.GetByID(ctx, project.ID)
}

// Delete removes a project. The schema cascades the delete to its snapshots.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result, err := platformsqlite.Conn(ctx, r.db).ExecContext(ctx, `DELETE FROM project WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected == 0 {
		return ports.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("sqlite project repository not configured")
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*domain.Project, error) {
	var (
		project   domain.Project
		shapes    sql.NullString
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&project.ID, &project.Title, &shapes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if shapes.Valid {
		data := domain.ShapesData(shapes.String)
		project.LastShapesData = &data
	}
	project.CreatedAt = fromMicros(createdAt)
	project.UpdatedAt = fromMicros(updatedAt)
	return &project, nil
}

func nullableShapes(data *domain.ShapesData) sql.NullString {
	if data == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*data), Valid: true}
}

func toMicros(value time.Time) int64 {
	return value.UTC().UnixMicro()
}

func fromMicros(value int64) time.Time {
	return time.UnixMicro(value).UTC()
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *msqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY
}
