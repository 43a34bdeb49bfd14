package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the board schema. Adapters never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&projectRecord{},
		&snapshotRecord{},
	)
}

// Project schema mirrors the boards Postgres adapter.
type projectRecord struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	Title          string    `gorm:"column:title;not null"`
	LastShapesData *string   `gorm:"column:last_shapes_data;type:text"`
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;not null;index"`
}

func (projectRecord) TableName() string { return "project" }

// Snapshot schema mirrors the boards Postgres adapter. Deleting a project
// cascades to its snapshots.
type snapshotRecord struct {
	ID         int64          `gorm:"primaryKey;column:id"`
	ProjectID  int64          `gorm:"column:project_id;not null;index:idx_snapshot_project_created,priority:1"`
	ShapesData string         `gorm:"column:shapes_data;type:text;not null"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null;index:idx_snapshot_project_created,priority:2"`
	Project    *projectRecord `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (snapshotRecord) TableName() string { return "snapshot" }
