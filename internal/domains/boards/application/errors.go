package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/svgboard-api/internal/domains/boards/domain"
	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid board input")
	// ErrSnapshotMismatch signals a snapshot that exists under a different
	// project than the one addressed. It always travels together with
	// ports.ErrSnapshotNotFound.
	ErrSnapshotMismatch = errors.New("snapshot belongs to another project")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrEmptyShapesData) ||
		errors.Is(err, domain.ErrInvalidProjectID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func mismatchError(projectID, snapshotID int64) error {
	return fmt.Errorf("%w: %w: snapshot %d is not part of project %d",
		ports.ErrSnapshotNotFound, ErrSnapshotMismatch, snapshotID, projectID)
}
