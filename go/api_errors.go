package boardserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	boardsapp "github.com/Apurer/svgboard-api/internal/domains/boards/application"
	boardsports "github.com/Apurer/svgboard-api/internal/domains/boards/ports"
	apierrors "github.com/Apurer/svgboard-api/internal/shared/errors"
)

// boardResponder turns board service errors into problem documents. Errors
// no mapper recognizes become a generic 500.
var boardResponder = apierrors.NewChainedResponder("",
	mapSnapshotMismatch,
	mapNotFound,
	mapInvalidInput,
)

func mapSnapshotMismatch(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, boardsapp.ErrSnapshotMismatch) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrNotFound.
		WithDetail(err.Error()).
		WithExtension("resourceType", "snapshot").
		WithExtension("reason", "project-mismatch"), true
}

func mapNotFound(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, boardsports.ErrProjectNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "project"), true
	case errors.Is(err, boardsports.ErrSnapshotNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "snapshot"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInvalidInput(err error) (apierrors.ProblemDetail, bool) {
	if !errors.Is(err, boardsapp.ErrInvalidInput) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrValidation.WithDetail(err.Error()), true
}

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	apierrors.DefaultResponder.BadRequest(c, err.Error())
}

func respondBoardServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	boardResponder.RespondError(c, err)
}
