package application

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/svgboard-api/internal/domains/boards/ports"
)

type settings struct {
	now func() time.Time
}

// Option customizes the board services.
type Option func(*settings)

// WithClock overrides the time source used to stamp projects and snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// timestamp is UTC at microsecond precision so every storage engine
// round-trips it unchanged.
func (s settings) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// updateTime stamps a write that must make its project the most recently
// updated one. It stays strictly after the current latest project even when
// the clock steps back or two writes share a microsecond.
func (s settings) updateTime(ctx context.Context, projects ports.ProjectRepository) (time.Time, error) {
	now := s.timestamp()
	latest, err := projects.Latest(ctx)
	if errors.Is(err, ports.ErrProjectNotFound) {
		return now, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if floor := latest.UpdatedAt.UTC().Add(time.Microsecond); now.Before(floor) {
		return floor, nil
	}
	return now, nil
}
