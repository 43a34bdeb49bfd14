package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

func TestFromProject_NullShapesUntilFirstSnapshot(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	project, err := domain.NewProject("board", at)
	require.NoError(t, err)
	project.ID = 3

	raw, err := json.Marshal(FromProject(project))
	require.NoError(t, err)
	require.JSONEq(t, `{
		"id": 3,
		"title": "board",
		"lastShapesData": null,
		"createdAt": "2026-03-01T12:00:00Z",
		"updatedAt": "2026-03-01T12:00:00Z"
	}`, string(raw))

	require.NoError(t, project.RecordShapes(`{"shapes": []}`, at))
	out := FromProject(project)
	require.NotNil(t, out.LastShapesData)
	require.Equal(t, `{"shapes": []}`, *out.LastShapesData)
}

func TestFromProjectWithSnapshots_FlattensProject(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	view := &ports.ProjectWithSnapshots{
		Project: &domain.Project{ID: 1, Title: "A", CreatedAt: at, UpdatedAt: at},
	}

	raw, err := json.Marshal(FromProjectWithSnapshots(view))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "A", decoded["title"])
	require.Equal(t, []any{}, decoded["snapshots"])
}

func TestFromSnapshots_NeverNil(t *testing.T) {
	require.NotNil(t, FromSnapshots(nil))
	require.NotNil(t, FromProjects(nil))
}
