package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	boardserver "github.com/Apurer/svgboard-api/go"
	"github.com/Apurer/svgboard-api/internal/platform/middleware"
	platformobservability "github.com/Apurer/svgboard-api/internal/platform/observability"
	apierrors "github.com/Apurer/svgboard-api/internal/shared/errors"
)

func testInstruments() *platformobservability.Instruments {
	return &platformobservability.Instruments{
		Logger:         slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)),
		TracerProvider: tracenoop.NewTracerProvider(),
		MeterProvider:  metricnoop.NewMeterProvider(),
	}
}

func testConfig(t *testing.T, vars map[string]string) Config {
	t.Helper()
	cfg, err := parseWith(vars)
	require.NoError(t, err)
	return cfg
}

func TestOpenStorage_Memory(t *testing.T) {
	cfg := testConfig(t, map[string]string{"STORAGE_BACKEND": "memory"})
	st, err := openStorage(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, st.backend)
	assert.Nil(t, st.pinger)
	require.NoError(t, st.close())
}

func TestOpenStorage_AutoPicksSQLiteWhenPathSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.db")
	cfg := testConfig(t, map[string]string{"SQLITE_PATH": path})

	st, err := openStorage(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.close() })
	assert.Equal(t, StorageSQLite, st.backend)
	require.NoError(t, st.pinger.PingContext(context.Background()))
}

func TestOpenStorage_AutoWithoutDatabaseUsesMemory(t *testing.T) {
	cfg := testConfig(t, map[string]string{})
	st, err := openStorage(context.Background(), cfg, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)))
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, st.backend)
}

func TestNewRouter_ServesBoardsWithMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boards.db")
	cfg := testConfig(t, map[string]string{"STORAGE_BACKEND": "sqlite", "SQLITE_PATH": path})
	st, err := openStorage(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.close() })

	router := newRouter(cfg, st, testInstruments())

	req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewBufferString(`{"title":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/projects/1/snapshots", bytes.NewBufferString(`{"shapesData":"{\"shapes\": []}"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var latest struct {
		Title          string  `json:"title"`
		LastShapesData *string `json:"lastShapesData"`
		Snapshots      []any   `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &latest))
	assert.Equal(t, "A", latest.Title)
	require.NotNil(t, latest.LastShapesData)
	assert.Equal(t, `{"shapes": []}`, *latest.LastShapesData)
	assert.Len(t, latest.Snapshots, 1)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var health boardserver.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, StorageSQLite, health.Storage)
}

func TestNewRouter_RecoversPanicsAsProblem(t *testing.T) {
	cfg := testConfig(t, map[string]string{"STORAGE_BACKEND": "memory"})
	st, err := openStorage(context.Background(), cfg, slog.Default())
	require.NoError(t, err)

	router := newRouter(cfg, st, testInstruments())
	router.GET("/panic", func(*gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeInternal, problem.Type)
	assert.NotEmpty(t, problem.Extensions["requestId"])
}
