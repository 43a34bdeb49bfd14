package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
	platformpg "github.com/Apurer/svgboard-api/internal/platform/postgres"
)

var _ ports.SnapshotRepository = (*SnapshotRepository)(nil)

// SnapshotRepository persists snapshots in PostgreSQL using GORM.
type SnapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository wires a PostgreSQL-backed repository.
func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
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
	record := toSnapshotRecord(snapshot)
	record.ID = 0
	if err := platformpg.Conn(ctx, r.db).Create(&record).Error; err != nil {
		if foreignKeyViolation(err) {
			return nil, ports.ErrProjectNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches a snapshot regardless of its owner.
func (r *SnapshotRepository) GetByID(ctx context.Context, id int64) (*domain.Snapshot, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record snapshotRecord
	if err := platformpg.Conn(ctx, r.db).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrSnapshotNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByProject returns the snapshots of a project, newest first.
func (r *SnapshotRepository) ListByProject(ctx context.Context, projectID int64) ([]*domain.Snapshot, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []snapshotRecord
	if err := platformpg.Conn(ctx, r.db).
		Where("project_id = ?", projectID).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	snapshots := make([]*domain.Snapshot, 0, len(records))
	for i := range records {
		snapshots = append(snapshots, records[i].toDomain())
	}
	return snapshots, nil
}

// Delete removes a snapshot by id.
func (r *SnapshotRepository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := platformpg.Conn(ctx, r.db).Where("id = ?", id).Delete(&snapshotRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrSnapshotNotFound
	}
	return nil
}

// DeleteByProject removes every snapshot of a project.
func (r *SnapshotRepository) DeleteByProject(ctx context.Context, projectID int64) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := platformpg.Conn(ctx, r.db).Where("project_id = ?", projectID).Delete(&snapshotRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *SnapshotRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres snapshot repository not configured")
	}
	return nil
}
