package domain

import (
	"sort"
	"time"
)

// Snapshot is an immutable saved copy of a project's shapes.
type Snapshot struct {
	ID         int64
	ProjectID  int64
	ShapesData ShapesData
	CreatedAt  time.Time
}

// NewSnapshot builds a snapshot owned by projectID.
func NewSnapshot(projectID int64, data ShapesData, now time.Time) (*Snapshot, error) {
	if err := ValidateProjectID(projectID); err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &Snapshot{ProjectID: projectID, ShapesData: data, CreatedAt: now}, nil
}

// BelongsTo reports whether the snapshot is owned by projectID.
func (s *Snapshot) BelongsTo(projectID int64) bool {
	return s != nil && s.ProjectID == projectID
}

// Clone returns a copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

// SortNewestFirst orders snapshots by CreatedAt descending. Snapshots sharing
// a timestamp keep insertion order, newest insertion first.
func SortNewestFirst(snapshots []*Snapshot) {
	sort.SliceStable(snapshots, func(i, j int) bool {
		a, b := snapshots[i], snapshots[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// SortRecentlyUpdatedFirst orders projects by UpdatedAt descending, higher ids
// first on ties.
func SortRecentlyUpdatedFirst(projects []*Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		a, b := projects[i], projects[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID > b.ID
	})
}
