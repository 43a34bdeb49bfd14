package postgres

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
)

type projectRecord struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	Title          string    `gorm:"column:title"`
	LastShapesData *string   `gorm:"column:last_shapes_data"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (projectRecord) TableName() string { return "project" }

type snapshotRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	ProjectID  int64     `gorm:"column:project_id"`
	ShapesData string    `gorm:"column:shapes_data"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime:false"`
}

func (snapshotRecord) TableName() string { return "snapshot" }

func toProjectRecord(project *domain.Project) projectRecord {
	record := projectRecord{
		ID:        project.ID,
		Title:     project.Title,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
	if project.LastShapesData != nil {
		data := string(*project.LastShapesData)
		record.LastShapesData = &data
	}
	return record
}

func (r projectRecord) toDomain() *domain.Project {
	project := &domain.Project{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
	if r.LastShapesData != nil {
		data := domain.ShapesData(*r.LastShapesData)
		project.LastShapesData = &data
	}
	return project
}

func toSnapshotRecord(snapshot *domain.Snapshot) snapshotRecord {
	return snapshotRecord{
		ID:         snapshot.ID,
		ProjectID:  snapshot.ProjectID,
		ShapesData: string(snapshot.ShapesData),
		CreatedAt:  snapshot.CreatedAt,
	}
}

func (r snapshotRecord) toDomain() *domain.Snapshot {
	return &domain.Snapshot{
		ID:         r.ID,
		ProjectID:  r.ProjectID,
		ShapesData: domain.ShapesData(r.ShapesData),
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

// foreignKeyViolation matches both the translated pgx error and the raw
// lib/pq error, which GORM does not translate.
func foreignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
