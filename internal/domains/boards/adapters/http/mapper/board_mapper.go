package mapper

import (
	"time"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

// Project is the HTTP representation of a board. LastShapesData is null until
// the first snapshot is saved.
type Project struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	LastShapesData *string   `json:"lastShapesData"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProjectWithSnapshots is the resume view returned by /projects/latest.
type ProjectWithSnapshots struct {
	Project
	Snapshots []Snapshot `json:"snapshots"`
}

// Snapshot is the HTTP representation of a saved board state.
type Snapshot struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"projectId"`
	ShapesData string    `json:"shapesData"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromProject converts a domain project to its transport shape.
func FromProject(project *domain.Project) Project {
	if project == nil {
		return Project{}
	}
	out := Project{
		ID:        project.ID,
		Title:     project.Title,
		CreatedAt: project.CreatedAt,
		UpdatedAt: project.UpdatedAt,
	}
	if project.HasShapes() {
		data := string(*project.LastShapesData)
		out.LastShapesData = &data
	}
	return out
}

// FromProjects converts a list, never returning nil.
func FromProjects(projects []*domain.Project) []Project {
	out := make([]Project, 0, len(projects))
	for _, project := range projects {
		out = append(out, FromProject(project))
	}
	return out
}

// FromSnapshot converts a domain snapshot to its transport shape.
func FromSnapshot(snapshot *domain.Snapshot) Snapshot {
	if snapshot == nil {
		return Snapshot{}
	}
	return Snapshot{
		ID:         snapshot.ID,
		ProjectID:  snapshot.ProjectID,
		ShapesData: string(snapshot.ShapesData),
		CreatedAt:  snapshot.CreatedAt,
	}
}

// FromSnapshots converts a list, never returning nil.
func FromSnapshots(snapshots []*domain.Snapshot) []Snapshot {
	out := make([]Snapshot, 0, len(snapshots))
	for _, snapshot := range snapshots {
		out = append(out, FromSnapshot(snapshot))
	}
	return out
}

// FromProjectWithSnapshots flattens the composite read.
func FromProjectWithSnapshots(view *ports.ProjectWithSnapshots) ProjectWithSnapshots {
	if view == nil {
		return ProjectWithSnapshots{Snapshots: []Snapshot{}}
	}
	return ProjectWithSnapshots{
		Project:   FromProject(view.Project),
		Snapshots: FromSnapshots(view.Snapshots),
	}
}
