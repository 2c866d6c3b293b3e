// Package sync tracks backend-executed sync jobs: it polls the shared
// sync-progress endpoint, normalizes heterogeneous phase data into one
// snapshot shape per integration, and drives the per-integration
// idle → polling → terminal → idle cycle.
package sync

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// OverallStatus is the normalized status of one sync run.
type OverallStatus string

const (
	StatusRunning   OverallStatus = "running"
	StatusPartial   OverallStatus = "partial"
	StatusCompleted OverallStatus = "completed"
	StatusFailed    OverallStatus = "failed"
)

// Active reports whether the run is still in flight.
func (s OverallStatus) Active() bool {
	return s == StatusRunning || s == StatusPartial
}

// Terminal reports whether the run has finished, successfully or not.
func (s OverallStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Phase is one named stage of a sync job with its own item counts.
type Phase struct {
	Type               string     `json:"type"`
	Status             string     `json:"status"`
	ProgressPercentage int        `json:"progress_percentage"`
	TotalItems         *int64     `json:"total_items,omitempty"`
	ProcessedItems     *int64     `json:"processed_items,omitempty"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ErrorMessage       string     `json:"error_message,omitempty"`
}

// Progress is the per-integration snapshot, rebuilt wholesale on every
// poll tick. It is never patched incrementally.
type Progress struct {
	OverallStatus   OverallStatus `json:"overall_status"`
	OverallProgress int           `json:"overall_progress"`
	CurrentStage    string        `json:"current_stage,omitempty"`
	ProgressMessage string        `json:"progress_message"`
	Phases          []Phase       `json:"phases"`
	ObservedAt      time.Time     `json:"observed_at"`
}

// ProcessedItems sums the phase-level processed counts, used as the
// estimate tier when authoritative data-point stats are unavailable.
func (p Progress) ProcessedItems() int64 {
	var total int64
	for _, phase := range p.Phases {
		if phase.ProcessedItems != nil {
			total += *phase.ProcessedItems
		}
	}
	return total
}

var errEmptyProgress = errors.New("empty progress entry")

// decodeProgress parses one raw sync-progress entry and normalizes it.
// The backend's per-provider shapes differ in which fields they fill in;
// anything missing is derived from the phases.
func decodeProgress(raw json.RawMessage, now time.Time) (Progress, error) {
	if len(raw) == 0 {
		return Progress{}, errEmptyProgress
	}
	var wire struct {
		OverallStatus   string  `json:"overall_status"`
		OverallProgress *int    `json:"overall_progress"`
		CurrentStage    string  `json:"current_stage"`
		ProgressMessage string  `json:"progress_message"`
		Phases          []Phase `json:"phases"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Progress{}, err
	}

	status := OverallStatus(strings.ToLower(strings.TrimSpace(wire.OverallStatus)))
	switch status {
	case StatusRunning, StatusPartial, StatusCompleted, StatusFailed:
	default:
		return Progress{}, errors.New("unknown overall_status " + strings.TrimSpace(wire.OverallStatus))
	}

	p := Progress{
		OverallStatus:   status,
		CurrentStage:    strings.TrimSpace(wire.CurrentStage),
		ProgressMessage: strings.TrimSpace(wire.ProgressMessage),
		Phases:          wire.Phases,
		ObservedAt:      now,
	}

	switch {
	case wire.OverallProgress != nil:
		p.OverallProgress = clampPercent(*wire.OverallProgress)
	case len(p.Phases) > 0:
		p.OverallProgress = phaseAverage(p.Phases)
	}
	if status == StatusCompleted {
		p.OverallProgress = 100
	}

	if p.CurrentStage == "" {
		for _, phase := range p.Phases {
			if strings.EqualFold(strings.TrimSpace(phase.Status), "running") {
				p.CurrentStage = phase.Type
				break
			}
		}
	}
	if p.ProgressMessage == "" {
		p.ProgressMessage = defaultMessage(status, p.CurrentStage)
	}
	return p, nil
}

// merge applies the monotonic-progress invariant: while a run is in
// flight, a recomputed snapshot may never report less progress than the
// previous one for the same run.
func merge(prior Progress, next Progress, hadPrior bool) Progress {
	if !hadPrior {
		return next
	}
	if prior.OverallStatus.Active() && next.OverallStatus.Active() && next.OverallProgress < prior.OverallProgress {
		next.OverallProgress = prior.OverallProgress
	}
	return next
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func phaseAverage(phases []Phase) int {
	if len(phases) == 0 {
		return 0
	}
	var sum int
	for _, phase := range phases {
		sum += clampPercent(phase.ProgressPercentage)
	}
	return sum / len(phases)
}

func defaultMessage(status OverallStatus, stage string) string {
	switch status {
	case StatusCompleted:
		return "sync completed"
	case StatusFailed:
		return "sync failed"
	default:
		if stage != "" {
			return "syncing " + stage
		}
		return "sync in progress"
	}
}
