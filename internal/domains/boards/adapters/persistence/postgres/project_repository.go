package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
	platformpg "github.com/Apurer/svgboard-api/internal/platform/postgres"
)

var (
	_ ports.ProjectRepository = (*ProjectRepository)(nil)
	_ ports.Transactor        = (*platformpg.Transactor)(nil)
)

const projectOrder = "updated_at DESC, id DESC"

// ProjectRepository persists projects in PostgreSQL using GORM. It takes part
// in any transaction opened by platformpg.Transactor on the same context.
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository wires a PostgreSQL-backed repository. Caller manages DB
// lifecycle and schema.
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
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
	record := toProjectRecord(project)
	record.ID = 0
	if err := platformpg.Conn(ctx, r.db).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches a project by id.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record projectRecord
	if err := platformpg.Conn(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProjectNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Exists reports whether the project row is present.
func (r *ProjectRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := platformpg.Conn(ctx, r.db).Model(&projectRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns all projects, most recently updated first.
func (r *ProjectRepository) List(ctx context.Context) ([]*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []projectRecord
	if err := platformpg.Conn(ctx, r.db).Order(projectOrder).Find(&records).Error; err != nil {
		return nil, err
	}
	projects := make([]*domain.Project, 0, len(records))
	for i := range records {
		projects = append(projects, records[i].toDomain())
	}
	return projects, nil
}

// Latest returns the most recently updated project.
func (r *ProjectRepository) Latest(ctx context.Context) (*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record projectRecord
	if err := platformpg.Conn(ctx, r.db).Order(projectOrder).Take(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrProjectNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Update writes title, last shapes data and updated_at.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.New("project is nil")
	}
	record := toProjectRecord(project)
	result := platformpg.Conn(ctx, r.db).
		Model(&projectRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"title":            record.Title,
			"last_shapes_data": record.LastShapesData,
			"updated_at":       record.UpdatedAt,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrProjectNotFound
	}
	return r.GetByID(ctx, record.ID)
}

// Delete removes a project. The schema cascades the delete to its snapshots.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := platformpg.Conn(ctx, r.db).Where("id = ?", id).Delete(&projectRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres project repository not configured")
	}
	return nil
}
