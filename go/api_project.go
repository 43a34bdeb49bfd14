package boardserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	boardhttpmapper "github.com/Apurer/svgboard-api/internal/domains/boards/adapters/http/mapper"
	boardsports "github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

// ProjectAPI wires HTTP transport with the project use cases.
type ProjectAPI struct {
	service boardsports.ProjectService
}

// NewProjectAPI creates a ProjectAPI backed by the provided service.
func NewProjectAPI(service boardsports.ProjectService) ProjectAPI {
	return ProjectAPI{service: service}
}

// Get /projects
// List projects, most recently updated first
func (api *ProjectAPI) ListProjects(c *gin.Context) {
	projects, err := api.service.ListProjects(c.Request.Context())
	if err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, boardhttpmapper.FromProjects(projects))
}

// Get /projects/latest
// Resume the most recently updated project with its snapshots
func (api *ProjectAPI) GetLatestProject(c *gin.Context) {
	view, err := api.service.GetLatestProjectWithSnapshots(c.Request.Context())
	if err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, boardhttpmapper.FromProjectWithSnapshots(view))
}

// Get /projects/:projectId
// Find project by ID
func (api *ProjectAPI) GetProjectById(c *gin.Context) {
	id, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	project, err := api.service.GetProjectByID(c.Request.Context(), id)
	if err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, boardhttpmapper.FromProject(project))
}

// Post /projects
// Create a new project
func (api *ProjectAPI) CreateProject(c *gin.Context) {
	var payload ProjectRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	project, err := api.service.CreateProject(c.Request.Context(), payload.title())
	if err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, boardhttpmapper.FromProject(project))
}

// Patch /projects/:projectId
// Rename a project
func (api *ProjectAPI) UpdateProject(c *gin.Context) {
	id, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	var payload ProjectRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	project, err := api.service.UpdateProject(c.Request.Context(), id, payload.title())
	if err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, boardhttpmapper.FromProject(project))
}

// Delete /projects/:projectId
// Delete a project and its snapshots
func (api *ProjectAPI) DeleteProject(c *gin.Context) {
	id, ok := parseIDParam(c, "projectId")
	if !ok {
		return
	}
	if err := api.service.DeleteProject(c.Request.Context(), id); err != nil {
		respondBoardServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
