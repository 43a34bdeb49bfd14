package boardserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	boardhttpmapper "github.com/Apurer/svgboard-api/internal/domains/boards/adapters/http/mapper"
	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	boardsports "github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

// SnapshotAPI wires HTTP transport with the snapshot use cases.
type SnapshotAPI struct {
	service boardsports.SnapshotService
}

// NewSnapshotAPI creates a SnapshotAPI backed by the provided service.
func NewSnapshotAPI(service boardsports.SnapshotService) SnapshotAPI {
	return SnapshotAPI{service: service}
}

// Get /projects/:projectId/snapshots
// List snapshots of a project, newest first
func (api *SnapshotAPI) ListSnapshots(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	snapshots, err := api.service.ListSnapshots(c.Request.Context(), projectID)
	if err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, boardhttpmapper.FromSnapshots(snapshots))
}

// Get /projects/:projectId/snapshots/:snapshotId
// Find snapshot by ID within a project
func (api *SnapshotAPI) GetSnapshotById(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	snapshotID, ok := parseIDParam(c, "snapshotId")
	if !ok {
		return
	}
	snapshot, err := api.service.GetSnapshot(c.Request.Context(), projectID, snapshotID)
	if err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, boardhttpmapper.FromSnapshot(snapshot))
}

// Post /projects/:projectId/snapshots
// Save the current shapes of a project
func (api *SnapshotAPI) CreateSnapshot(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	var payload SnapshotRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	snapshot, err := api.service.CreateSnapshot(c.Request.Context(), projectID, domain.ShapesData(payload.shapesData()))
	if err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, boardhttpmapper.FromSnapshot(snapshot))
}

// Delete /projects/:projectId/snapshots
// Delete every snapshot of a project
func (api *SnapshotAPI) DeleteAllSnapshots(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	if err := api.service.DeleteAllSnapshots(c.Request.Context(), projectID); err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /projects/:projectId/snapshots/:snapshotId
// Delete one snapshot of a project
func (api *SnapshotAPI) DeleteSnapshot(c *gin.Context) {
	projectID, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	snapshotID, ok := parseIDParam(c, "snapshotId")
	if !ok {
		return
	}
	if err := api.service.DeleteSnapshot(c.Request.Context(), projectID, snapshotID); err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
