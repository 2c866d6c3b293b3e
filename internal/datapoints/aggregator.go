// Package datapoints reconciles synced data-point counts. The backend's
// stats endpoint is the single authoritative source; when it is
// unavailable the aggregator degrades through strictly less authoritative
// estimate tiers and labels the result so callers can tell a confirmed
// count from an estimate.
package datapoints

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/adbridge/adbridge/internal/backend"
	"github.com/adbridge/adbridge/internal/metrics"
	"github.com/adbridge/adbridge/internal/sync"
)

// Source identifies which tier produced a Stats value.
type Source string

const (
	// SourceConfirmed is the backend's authoritative stats read.
	SourceConfirmed Source = "confirmed"
	// SourcePhaseEstimate sums last-known phase-level processed items.
	SourcePhaseEstimate Source = "phase_estimate"
	// SourceCachedEstimate falls back to each integration's cached
	// data_points_synced field.
	SourceCachedEstimate Source = "cached_estimate"
)

// Stats is a total-and-per-integration data-point count.
type Stats struct {
	Total                  int64            `json:"total"`
	BreakdownByIntegration map[string]int64 `json:"breakdown_by_integration"`
	Source                 Source           `json:"source"`
	AsOf                   time.Time        `json:"as_of"`
}

// API is the slice of the backend client the aggregator needs.
type API interface {
	DataPointsStats(ctx context.Context, session backend.Session) (backend.DataPointsStats, error)
}

// Aggregator caches the last authoritative read and derives estimates when
// no authoritative read has succeeded.
type Aggregator struct {
	api API

	mu        stdsync.RWMutex
	confirmed *Stats

	now func() time.Time
}

func NewAggregator(api API) *Aggregator {
	return &Aggregator{api: api}
}

// Refresh queries the authoritative stats endpoint. It is called once on
// load, after every successful connect/disconnect, and after terminal sync
// transitions. A failed refresh keeps the previous confirmed value, if any.
func (a *Aggregator) Refresh(ctx context.Context, session backend.Session) error {
	raw, err := a.api.DataPointsStats(ctx, session)
	if err != nil {
		return err
	}

	breakdown := make(map[string]int64, len(raw.BreakdownByIntegration))
	for id, count := range raw.BreakdownByIntegration {
		breakdown[id] = count
	}
	stats := Stats{
		Total:                  raw.TotalDataPoints,
		BreakdownByIntegration: breakdown,
		Source:                 SourceConfirmed,
		AsOf:                   a.clock(),
	}

	a.mu.Lock()
	a.confirmed = &stats
	a.mu.Unlock()

	metrics.DataPointsTotal.WithLabelValues(string(SourceConfirmed)).Set(float64(stats.Total))
	return nil
}

// Invalidate drops the cached confirmed read, forcing the next Current
// call onto the estimate tiers until a Refresh succeeds again.
func (a *Aggregator) Invalidate() {
	a.mu.Lock()
	a.confirmed = nil
	a.mu.Unlock()
}

// Current returns the best available stats. Priority order: the last
// confirmed read; the sum of last-known phase-level processed items; each
// integration's cached data_points_synced field.
func (a *Aggregator) Current(integrations []backend.Integration, progressFor func(id string) (sync.Progress, bool)) Stats {
	a.mu.RLock()
	confirmed := a.confirmed
	a.mu.RUnlock()
	if confirmed != nil {
		out := Stats{
			Total:                  confirmed.Total,
			BreakdownByIntegration: make(map[string]int64, len(confirmed.BreakdownByIntegration)),
			Source:                 confirmed.Source,
			AsOf:                   confirmed.AsOf,
		}
		for id, count := range confirmed.BreakdownByIntegration {
			out.BreakdownByIntegration[id] = count
		}
		return out
	}

	stats := Stats{
		BreakdownByIntegration: make(map[string]int64, len(integrations)),
		Source:                 SourceCachedEstimate,
		AsOf:                   a.clock(),
	}
	usedPhases := false
	for _, integration := range integrations {
		count := integration.DataPointsSynced
		if progressFor != nil {
			if progress, ok := progressFor(integration.ID); ok {
				if processed := progress.ProcessedItems(); processed > 0 {
					count = processed
					usedPhases = true
				}
			}
		}
		stats.BreakdownByIntegration[integration.ID] = count
		stats.Total += count
	}
	if usedPhases {
		stats.Source = SourcePhaseEstimate
	}

	metrics.DataPointsTotal.WithLabelValues(string(stats.Source)).Set(float64(stats.Total))
	return stats
}

func (a *Aggregator) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}
