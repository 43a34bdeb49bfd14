package boardserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/svgboard-api/internal/shared/errors"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers served by the router.
type ApiHandleFunctions struct {
	// Routes for the ProjectAPI part of the API
	ProjectAPI ProjectAPI
	// Routes for the SnapshotAPI part of the API
	SnapshotAPI SnapshotAPI
	// Routes for the HealthAPI part of the API
	HealthAPI HealthAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine. Unknown
// paths and methods answer with problem documents.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.HandleMethodNotAllowed = true
	for _, route := range getRoutes(handleFunctions) {
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	router.NoRoute(func(c *gin.Context) {
		respondProblem(c, apierrors.ErrNotFound.WithDetail("no route matches "+c.Request.Method+" "+c.Request.URL.Path))
	})
	router.NoMethod(func(c *gin.Context) {
		respondProblem(c, apierrors.ErrMethodNotAllowed.WithDetail(c.Request.Method+" is not supported on "+c.Request.URL.Path))
	})
	return router
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListProjects",
			http.MethodGet,
			"/projects",
			handleFunctions.ProjectAPI.ListProjects,
		},
		{
			"CreateProject",
			http.MethodPost,
			"/projects",
			handleFunctions.ProjectAPI.CreateProject,
		},
		{
			"GetLatestProject",
			http.MethodGet,
			"/projects/latest",
			handleFunctions.ProjectAPI.GetLatestProject,
		},
		{
			"GetProjectById",
			http.MethodGet,
			"/projects/:projectId",
			handleFunctions.ProjectAPI.GetProjectById,
		},
		{
			"UpdateProject",
			http.MethodPatch,
			"/projects/:projectId",
			handleFunctions.ProjectAPI.UpdateProject,
		},
		{
			"DeleteProject",
			http.MethodDelete,
			"/projects/:projectId",
			handleFunctions.ProjectAPI.DeleteProject,
		},
		{
			"ListSnapshots",
			http.MethodGet,
			"/projects/:projectId/snapshots",
			handleFunctions.SnapshotAPI.ListSnapshots,
		},
		{
			"CreateSnapshot",
			http.MethodPost,
			"/projects/:projectId/snapshots",
			handleFunctions.SnapshotAPI.CreateSnapshot,
		},
		{
			"DeleteAllSnapshots",
			http.MethodDelete,
			"/projects/:projectId/snapshots",
			handleFunctions.SnapshotAPI.DeleteAllSnapshots,
		},
		{
			"GetSnapshotById",
			http.MethodGet,
			"/projects/:projectId/snapshots/:snapshotId",
			handleFunctions.SnapshotAPI.GetSnapshotById,
		},
		{
			"DeleteSnapshot",
			http.MethodDelete,
			"/projects/:projectId/snapshots/:snapshotId",
			handleFunctions.SnapshotAPI.DeleteSnapshot,
		},
		{
			"Health",
			http.MethodGet,
			"/health",
			handleFunctions.HealthAPI.HealthCheck,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			handleFunctions.HealthAPI.HealthCheck,
		},
	}
}
