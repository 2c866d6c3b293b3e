package sync

import (
	"log/slog"
	stdsync "sync"
	"time"
)

const (
	defaultProgressInterval    = 5 * time.Second
	defaultProgressPercentStep = int64(5)
)

// Event is one progress observation for an integration's sync run.
type Event struct {
	Integration string
	Stage       string
	Percent     int64
	Message     string
	Done        bool
	Failed      bool
	At          time.Time
}

// Reporter receives progress events from the poller.
type Reporter interface {
	Report(Event)
}

type logReporterKey struct {
	integration string
	stage       string
}

type logReporterState struct {
	lastLoggedAt      time.Time
	lastLoggedPercent int64
}

// LogReporter logs progress events to the default slog logger, throttling
// repeated mid-run updates so a busy sync doesn't flood the log.
type LogReporter struct {
	Logger              *slog.Logger
	ProgressInterval    time.Duration
	ProgressPercentStep int64

	mu    stdsync.Mutex
	state map[logReporterKey]logReporterState
}

func (r *LogReporter) Report(e Event) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := e.At
	if now.IsZero() {
		now = time.Now()
	}

	attrs := []any{"integration", e.Integration, "percent", e.Percent}
	if e.Stage != "" {
		attrs = append(attrs, "stage", e.Stage)
	}

	message := e.Message
	if e.Failed {
		if message == "" {
			message = "sync failed"
		}
		logger.Error(message, attrs...)
		return
	}
	if message == "" {
		if e.Done {
			message = "sync complete"
		} else {
			return
		}
	}

	if !r.shouldLogEvent(now, e) {
		return
	}
	logger.Info(message, attrs...)
}

func (r *LogReporter) shouldLogEvent(now time.Time, e Event) bool {
	interval := r.ProgressInterval
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	step := r.ProgressPercentStep
	if step <= 0 {
		step = defaultProgressPercentStep
	}

	// Completion and run boundaries always log.
	if e.Done || e.Percent <= 0 || e.Percent >= 100 {
		r.recordProgress(now, e, step)
		return true
	}

	// Throttle mid-run progress logs.
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		r.state = make(map[logReporterKey]logReporterState)
	}
	key := logReporterKey{integration: e.Integration, stage: e.Stage}
	state := r.state[key]
	if !state.lastLoggedAt.IsZero() {
		if now.Sub(state.lastLoggedAt) < interval && e.Percent < state.lastLoggedPercent+step {
			return false
		}
	}

	percent := e.Percent
	if step > 0 {
		percent = (percent / step) * step
	}
	r.state[key] = logReporterState{
		lastLoggedAt:      now,
		lastLoggedPercent: percent,
	}
	return true
}

func (r *LogReporter) recordProgress(now time.Time, e Event, step int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == nil {
		r.state = make(map[logReporterKey]logReporterState)
	}
	key := logReporterKey{integration: e.Integration, stage: e.Stage}
	percent := e.Percent
	if percent > 0 && step > 0 {
		percent = (percent / step) * step
	}
	r.state[key] = logReporterState{
		lastLoggedAt:      now,
		lastLoggedPercent: percent,
	}
}
