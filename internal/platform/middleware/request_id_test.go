package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/Apurer/svgboard-api/internal/shared/errors"
)

func newEngine(logger *slog.Logger, seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(logger))
	r.GET("/ok", func(c *gin.Context) {
		*seen = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})
	return r
}

func TestRequestID_GeneratesUUID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	r := newEngine(slog.New(slog.NewJSONHandler(&buf, nil)), &seen)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	rid := rec.Header().Get(HeaderRequestID)
	_, err := uuid.Parse(rid)
	require.NoError(t, err)
	assert.Equal(t, rid, seen)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request handled", entry["msg"])
	assert.Equal(t, rid, entry["request.id"])
	assert.Equal(t, "/ok", entry["http.path"])
	assert.Equal(t, float64(http.StatusOK), entry["http.status"])
}

func TestRequestID_ReusesInboundHeader(t *testing.T) {
	var seen string
	r := newEngine(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), &seen)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
	assert.Equal(t, "abc-123", seen)
}

func TestRequestID_ReplacesOversizedHeader(t *testing.T) {
	var seen string
	r := newEngine(slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), &seen)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxRequestIDLength+1))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	require.NoError(t, err)
}

func TestRequestID_LogsServerErrorsAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	r := newEngine(slog.New(slog.NewJSONHandler(&buf, nil)), &seen)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/projects", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/projects", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecovery_AnswersPanicsWithProblem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := gin.New()
	r.Use(Recovery(logger), RequestID(logger))
	r.GET("/panic", func(*gin.Context) { panic("kaboom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, apierrors.TypeInternal, problem.Type)
	assert.Equal(t, "/panic", problem.Instance)
	assert.Equal(t, "abc-123", problem.Extensions["requestId"])
	assert.NotContains(t, rec.Body.String(), "kaboom")

	assert.Contains(t, buf.String(), `"msg":"panic recovered"`)
	assert.Contains(t, buf.String(), `"panic":"kaboom"`)
}
