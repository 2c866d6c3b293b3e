package sync

import (
	"context"
	"log/slog"
	"time"
)

// Runner is one unit of schedulable work.
type Runner interface {
	RunOnce(ctx context.Context) error
}

// Scheduler repeats a Runner on a fixed interval. Ticks never overlap:
// the loop is sequential, so a tick that outlasts the interval simply
// defers the next one. Cancelling ctx stops the loop and its timer; no
// callback ever reschedules itself.
type Scheduler struct {
	Runner   Runner
	Interval time.Duration
}

func (s *Scheduler) Run(ctx context.Context) {
	if s.Runner == nil || s.Interval <= 0 {
		return
	}

	// Poll immediately at startup to discover syncs started by another
	// session before the first interval elapses.
	if err := s.Runner.RunOnce(ctx); err != nil {
		slog.Warn("initial poll failed", "err", err)
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Runner.RunOnce(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Warn("scheduled poll failed", "err", err)
			}
		}
	}
}
