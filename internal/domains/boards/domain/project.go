package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyTitle       = errors.New("project title is required")
	ErrEmptyShapesData  = errors.New("shapes data is required")
	ErrInvalidProjectID = errors.New("project id must be greater than zero")
)

// ShapesData is the opaque JSON text describing drawable shapes. It is stored
// and returned verbatim and never parsed.
type ShapesData string

// Validate rejects an empty payload. The content itself is not inspected.
func (d ShapesData) Validate() error {
	if len(d) == 0 {
		return ErrEmptyShapesData
	}
	return nil
}

// Project is the drawing board aggregate root.
type Project struct {
	ID             int64
	Title          string
	LastShapesData *ShapesData
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProject validates the title and stamps both timestamps with now.
func NewProject(title string, now time.Time) (*Project, error) {
	p := &Project{CreatedAt: now, UpdatedAt: now}
	if err := p.setTitle(title); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename replaces the title and refreshes UpdatedAt.
func (p *Project) Rename(title string, now time.Time) error {
	if err := p.setTitle(title); err != nil {
		return err
	}
	p.UpdatedAt = now
	return nil
}

// RecordShapes caches the payload of the newest snapshot on the project.
func (p *Project) RecordShapes(data ShapesData, now time.Time) error {
	if err := data.Validate(); err != nil {
		return err
	}
	p.LastShapesData = &data
	p.UpdatedAt = now
	return nil
}

// HasShapes reports whether a snapshot was ever recorded for the project.
func (p *Project) HasShapes() bool {
	return p.LastShapesData != nil
}

// Clone returns a deep copy safe to hand out of a repository.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	clone := *p
	if p.LastShapesData != nil {
		data := *p.LastShapesData
		clone.LastShapesData = &data
	}
	return &clone
}

func (p *Project) setTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	p.Title = title
	return nil
}

// ValidateProjectID rejects identifiers storage can never assign.
func ValidateProjectID(id int64) error {
	if id <= 0 {
		return ErrInvalidProjectID
	}
	return nil
}
