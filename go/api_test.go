package boardserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	boardhttpmapper "github.com/Apurer/svgboard-api/internal/domains/boards/adapters/http/mapper"
	boardmemory "github.com/Apurer/svgboard-api/internal/domains/boards/adapters/memory"
	boardsapp "github.com/Apurer/svgboard-api/internal/domains/boards/application"
	apierrors "github.com/Apurer/svgboard-api/internal/shared/errors"
)

type testServer struct {
	router *gin.Engine
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ts := &testServer{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time {
		ts.now = ts.now.Add(time.Second)
		return ts.now
	}
	store := boardmemory.NewStore()
	handlers := ApiHandleFunctions{
		ProjectAPI:  NewProjectAPI(boardsapp.NewProjectService(store.Projects(), store.Snapshots(), store, boardsapp.WithClock(clock))),
		SnapshotAPI: NewSnapshotAPI(boardsapp.NewSnapshotService(store.Projects(), store.Snapshots(), store, boardsapp.WithClock(clock))),
		HealthAPI:   NewHealthAPI("svgboard-api", "test", "memory", nil),
	}
	ts.router = NewRouter(handlers)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (ts *testServer) createProject(t *testing.T, title string) boardhttpmapper.Project {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/projects", map[string]string{"title": title})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[boardhttpmapper.Project](t, rec)
}

func (ts *testServer) createSnapshot(t *testing.T, projectID int64, data string) boardhttpmapper.Snapshot {
	t.Helper()
	rec := ts.do(t, http.MethodPost, fmt.Sprintf("/projects/%d/snapshots", projectID), map[string]string{"shapesData": data})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[boardhttpmapper.Snapshot](t, rec)
}

func requireProblem(t *testing.T, rec *httptest.ResponseRecorder, status int) apierrors.ProblemDetail {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, status, problem.Status)
	return problem
}

func TestProjects_CreateListGetDelete(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createProject(t, "My board")
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "My board", created.Title)
	assert.Nil(t, created.LastShapesData)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	rec := ts.do(t, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]boardhttpmapper.Project](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = ts.do(t, http.MethodGet, "/projects/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "snapshots")
	assert.Contains(t, raw, "lastShapesData")
	assert.Nil(t, raw["lastShapesData"])

	rec = ts.do(t, http.MethodDelete, "/projects/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	requireProblem(t, ts.do(t, http.MethodGet, "/projects/1", nil), http.StatusNotFound)
	requireProblem(t, ts.do(t, http.MethodDelete, "/projects/1", nil), http.StatusNotFound)
}

func TestProjects_Validation(t *testing.T) {
	ts := newTestServer(t)

	problem := requireProblem(t, ts.do(t, http.MethodPost, "/projects", map[string]string{"title": "  "}), http.StatusBadRequest)
	assert.Equal(t, apierrors.TypeValidation, problem.Type)
	requireProblem(t, ts.do(t, http.MethodPost, "/projects", map[string]any{}), http.StatusBadRequest)
	problem = requireProblem(t, ts.do(t, http.MethodPost, "/projects", `{"title":`), http.StatusBadRequest)
	assert.Equal(t, apierrors.TypeBadRequest, problem.Type)

	problem = requireProblem(t, ts.do(t, http.MethodGet, "/projects/abc", nil), http.StatusBadRequest)
	assert.Equal(t, "/projects/abc", problem.Instance)
	requireProblem(t, ts.do(t, http.MethodDelete, "/projects/1.5", nil), http.StatusBadRequest)
}

func TestProjects_UpdateMovesProjectToFront(t *testing.T) {
	ts := newTestServer(t)

	var ids []int64
	for i := 1; i <= 5; i++ {
		ids = append(ids, ts.createProject(t, fmt.Sprintf("project %d", i)).ID)
	}

	rec := ts.do(t, http.MethodPatch, fmt.Sprintf("/projects/%d", ids[0]), map[string]string{"title": "renamed"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[boardhttpmapper.Project](t, rec)
	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	list := decode[[]boardhttpmapper.Project](t, ts.do(t, http.MethodGet, "/projects", nil))
	require.Len(t, list, 5)
	assert.Equal(t, ids[0], list[0].ID)
	assert.Equal(t, ids[4], list[1].ID)

	requireProblem(t, ts.do(t, http.MethodPatch, "/projects/99", map[string]string{"title": "x"}), http.StatusNotFound)
	requireProblem(t, ts.do(t, http.MethodPatch, fmt.Sprintf("/projects/%d", ids[1]), map[string]string{"title": ""}), http.StatusBadRequest)
}

func TestLatest_ResumesMostRecentProject(t *testing.T) {
	ts := newTestServer(t)

	requireProblem(t, ts.do(t, http.MethodGet, "/projects/latest", nil), http.StatusNotFound)

	project := ts.createProject(t, "A")
	snapshot := ts.createSnapshot(t, project.ID, `{"shapes": []}`)

	rec := ts.do(t, http.MethodGet, "/projects/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	latest := decode[boardhttpmapper.ProjectWithSnapshots](t, rec)
	assert.Equal(t, "A", latest.Title)
	require.NotNil(t, latest.LastShapesData)
	assert.Equal(t, `{"shapes": []}`, *latest.LastShapesData)
	require.Len(t, latest.Snapshots, 1)
	assert.Equal(t, snapshot.ID, latest.Snapshots[0].ID)
	assert.Equal(t, snapshot.CreatedAt, latest.UpdatedAt)
}

func TestSnapshots_Lifecycle(t *testing.T) {
	ts := newTestServer(t)
	project := ts.createProject(t, "board")
	base := fmt.Sprintf("/projects/%d/snapshots", project.ID)

	rec := ts.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	s1 := ts.createSnapshot(t, project.ID, `{"shapes":[1]}`)
	s2 := ts.createSnapshot(t, project.ID, `{"shapes":[2]}`)
	s3 := ts.createSnapshot(t, project.ID, `{"shapes":[3]}`)
	assert.Equal(t, project.ID, s1.ProjectID)

	list := decode[[]boardhttpmapper.Snapshot](t, ts.do(t, http.MethodGet, base, nil))
	require.Len(t, list, 3)
	assert.Equal(t, []int64{s3.ID, s2.ID, s1.ID}, []int64{list[0].ID, list[1].ID, list[2].ID})

	rec = ts.do(t, http.MethodGet, fmt.Sprintf("%s/%d", base, s2.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"shapes":[2]}`, decode[boardhttpmapper.Snapshot](t, rec).ShapesData)

	rec = ts.do(t, http.MethodDelete, fmt.Sprintf("%s/%d", base, s3.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	requireProblem(t, ts.do(t, http.MethodGet, fmt.Sprintf("%s/%d", base, s3.ID), nil), http.StatusNotFound)

	rec = ts.do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.JSONEq(t, `[]`, ts.do(t, http.MethodGet, base, nil).Body.String())

	current := decode[boardhttpmapper.Project](t, ts.do(t, http.MethodGet, fmt.Sprintf("/projects/%d", project.ID), nil))
	require.NotNil(t, current.LastShapesData)
	assert.Equal(t, `{"shapes":[3]}`, *current.LastShapesData)
}

func TestSnapshots_PayloadRoundTripsVerbatim(t *testing.T) {
	ts := newTestServer(t)
	project := ts.createProject(t, "board")

	payload := "{ \"shapes\" : [ {\"type\":\"rect\",\"x\":1.50} ] ,\n\"ü\":\"\\u00fc\" }"
	created := ts.createSnapshot(t, project.ID, payload)
	assert.Equal(t, payload, created.ShapesData)

	fetched := decode[boardhttpmapper.Snapshot](t, ts.do(t, http.MethodGet, fmt.Sprintf("/projects/%d/snapshots/%d", project.ID, created.ID), nil))
	assert.Equal(t, payload, fetched.ShapesData)
}

func TestSnapshots_Errors(t *testing.T) {
	ts := newTestServer(t)
	a := ts.createProject(t, "A")
	b := ts.createProject(t, "B")
	snapshot := ts.createSnapshot(t, a.ID, `{}`)

	problem := requireProblem(t, ts.do(t, http.MethodGet, fmt.Sprintf("/projects/%d/snapshots/%d", b.ID, snapshot.ID), nil), http.StatusNotFound)
	assert.Equal(t, "project-mismatch", problem.Extensions["reason"])
	requireProblem(t, ts.do(t, http.MethodDelete, fmt.Sprintf("/projects/%d/snapshots/%d", b.ID, snapshot.ID), nil), http.StatusNotFound)

	problem = requireProblem(t, ts.do(t, http.MethodGet, fmt.Sprintf("/projects/%d/snapshots/999", a.ID), nil), http.StatusNotFound)
	assert.Equal(t, "snapshot", problem.Extensions["resourceType"])
	assert.NotContains(t, problem.Extensions, "reason")

	requireProblem(t, ts.do(t, http.MethodGet, "/projects/999/snapshots", nil), http.StatusNotFound)
	requireProblem(t, ts.do(t, http.MethodDelete, "/projects/999/snapshots", nil), http.StatusNotFound)
	requireProblem(t, ts.do(t, http.MethodPost, "/projects/999/snapshots", map[string]string{"shapesData": "{}"}), http.StatusNotFound)
	requireProblem(t, ts.do(t, http.MethodPost, fmt.Sprintf("/projects/%d/snapshots", a.ID), map[string]string{"shapesData": ""}), http.StatusBadRequest)
	requireProblem(t, ts.do(t, http.MethodPost, fmt.Sprintf("/projects/%d/snapshots", a.ID), map[string]any{}), http.StatusBadRequest)
	requireProblem(t, ts.do(t, http.MethodGet, fmt.Sprintf("/projects/%d/snapshots/x", a.ID), nil), http.StatusBadRequest)
}

func TestDeleteProject_RemovesSnapshots(t *testing.T) {
	ts := newTestServer(t)
	project := ts.createProject(t, "board")
	snapshot := ts.createSnapshot(t, project.ID, `{}`)

	require.Equal(t, http.StatusNoContent, ts.do(t, http.MethodDelete, fmt.Sprintf("/projects/%d", project.ID), nil).Code)
	requireProblem(t, ts.do(t, http.MethodGet, fmt.Sprintf("/projects/%d/snapshots/%d", project.ID, snapshot.ID), nil), http.StatusNotFound)
}

func TestRouter_UnknownRoutesAndMethods(t *testing.T) {
	ts := newTestServer(t)

	notFound := requireProblem(t, ts.do(t, http.MethodGet, "/nope", nil), http.StatusNotFound)
	assert.Equal(t, apierrors.TypeNotFound, notFound.Type)
	notAllowed := requireProblem(t, ts.do(t, http.MethodPut, "/projects", nil), http.StatusMethodNotAllowed)
	assert.Equal(t, apierrors.TypeMethodNotAllowed, notAllowed.Type)
	assert.Equal(t, "Method Not Allowed", notAllowed.Title)
}

func TestRouter_EveryRouteHasHandler(t *testing.T) {
	store := boardmemory.NewStore()
	routes := getRoutes(ApiHandleFunctions{
		ProjectAPI:  NewProjectAPI(boardsapp.NewProjectService(store.Projects(), store.Snapshots(), store)),
		SnapshotAPI: NewSnapshotAPI(boardsapp.NewSnapshotService(store.Projects(), store.Snapshots(), store)),
		HealthAPI:   NewHealthAPI("svgboard-api", "test", "memory", nil),
	})

	seen := map[string]bool{}
	for _, route := range routes {
		require.NotNil(t, route.HandlerFunc, route.Name)
		key := route.Method + " " + route.Pattern
		require.False(t, seen[key], key)
		seen[key] = true
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/health", "/healthz"} {
		rec := ts.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		health := decode[HealthResponse](t, rec)
		assert.Equal(t, "ok", health.Status)
		assert.Equal(t, "memory", health.Storage)
		assert.Equal(t, "svgboard-api", health.Service)
	}
}
