package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoardMissing = errors.New("board missing")

func serve(t *testing.T, handler gin.HandlerFunc, requestID string) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/projects/:id", func(c *gin.Context) {
		if requestID != "" {
			c.Set("request_id", requestID)
		}
		handler(c)
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/7", nil))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespond_WritesProblemJSON(t *testing.T) {
	rec, problem := serve(t, func(c *gin.Context) {
		Respond(c, ErrNotFound.WithDetail("project 7 not found"))
	}, "rid-1")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, TypeNotFound, problem.Type)
	assert.Equal(t, "/projects/7", problem.Instance)
	assert.Equal(t, "rid-1", problem.Extensions["requestId"])
}

func TestResponder_BaseURIPrefixesRelativeTypes(t *testing.T) {
	responder := NewResponder("https://boards.example")
	_, problem := serve(t, func(c *gin.Context) {
		responder.BadRequest(c, "invalid id")
	}, "")

	assert.Equal(t, "https://boards.example"+TypeBadRequest, problem.Type)
	assert.Equal(t, "invalid id", problem.Detail)
	assert.Empty(t, problem.Extensions)
}

func TestChainedResponder_UsesFirstMatchingMapper(t *testing.T) {
	responder := NewChainedResponder("",
		func(err error) (ProblemDetail, bool) {
			if errors.Is(err, errBoardMissing) {
				return ErrNotFound.WithExtension("resourceType", "project"), true
			}
			return ProblemDetail{}, false
		},
		func(error) (ProblemDetail, bool) {
			return ErrValidation, true
		},
	)

	rec, problem := serve(t, func(c *gin.Context) {
		responder.RespondError(c, fmt.Errorf("load: %w", errBoardMissing))
	}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "project", problem.Extensions["resourceType"])
}

func TestChainedResponder_FallbackHidesInternalDetail(t *testing.T) {
	responder := NewChainedResponder("")

	rec, problem := serve(t, func(c *gin.Context) {
		responder.RespondError(c, errors.New("pq: connection refused"))
	}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, problem.Detail, "pq")

	rec, problem = serve(t, func(c *gin.Context) {
		responder.RespondError(c, fmt.Errorf("wrapped: %w", ErrValidation.WithDetail("title is empty")))
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title is empty", problem.Detail)
}

func TestWithExtension_DoesNotMutateTemplate(t *testing.T) {
	first := ErrNotFound.WithExtension("resourceType", "project")
	second := first.WithExtension("reason", "project-mismatch")

	assert.Nil(t, ErrNotFound.Extensions)
	assert.NotContains(t, first.Extensions, "reason")
	assert.Equal(t, "project-mismatch", second.Extensions["reason"])
	assert.Equal(t, "Resource Not Found: gone", ErrNotFound.WithDetail("gone").Error())
}
