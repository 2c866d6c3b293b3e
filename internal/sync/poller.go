package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adbridge/adbridge/internal/backend"
	"github.com/adbridge/adbridge/internal/metrics"
)

// API is the slice of the backend client the poller needs.
type API interface {
	SyncProgress(ctx context.Context, session backend.Session) (map[string]json.RawMessage, error)
	ListIntegrations(ctx context.Context, session backend.Session) ([]backend.Integration, error)
}

// Sink is where the poller reads and writes shared state. The connect flow
// writes to the same state; conflicts resolve last-writer-wins per
// integration id.
type Sink interface {
	Integrations() []backend.Integration
	ReplaceIntegration(i backend.Integration)
	LastProgress(id string) (Progress, bool)
	SetProgress(id string, p Progress)
}

// StatsRefresher re-queries the authoritative data-point stats; the poller
// triggers it after observing terminal sync transitions.
type StatsRefresher interface {
	Refresh(ctx context.Context, session backend.Session) error
}

// Poller fetches the shared sync-progress snapshot for all integrations in
// a single request per tick and folds it into the sink.
type Poller struct {
	API      API
	Session  backend.Session
	Sink     Sink
	Stats    StatsRefresher
	Reporter Reporter

	now func() time.Time
}

// RunOnce executes one poll cycle. A failed or partially malformed poll
// retains all prior progress; only server-reported failed status ever
// marks a sync as failed.
func (p *Poller) RunOnce(ctx context.Context) error {
	start := time.Now()
	raw, err := p.API.SyncProgress(ctx, p.Session)
	metrics.PollDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PollTicksTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.PollTicksTotal.WithLabelValues("success").Inc()

	now := p.clock()
	var completed []string

	for id, entry := range raw {
		next, decodeErr := decodeProgress(entry, now)
		if decodeErr != nil {
			// Tolerate partial data: keep whatever we knew before and do
			// not invent a failure the server never reported.
			slog.Warn("malformed sync progress entry retained prior state", "integration", id, "err", decodeErr)
			metrics.PollTicksTotal.WithLabelValues("malformed_entry").Inc()
			continue
		}

		prior, hadPrior := p.Sink.LastProgress(id)
		next = merge(prior, next, hadPrior)
		p.Sink.SetProgress(id, next)
		p.report(id, next)

		// A terminal status is a transition only the first time we see it;
		// the refresh of the persisted record happens exactly once.
		if next.OverallStatus.Terminal() && (!hadPrior || !prior.OverallStatus.Terminal()) {
			completed = append(completed, id)
			metrics.SyncTerminalTransitionsTotal.WithLabelValues(providerFor(p.Sink, id), string(next.OverallStatus)).Inc()
		}
	}

	if len(completed) == 0 {
		return nil
	}
	return p.refreshAfterTerminal(ctx, completed)
}

// refreshAfterTerminal re-reads the persisted integration records (one
// request covering all of them) and the authoritative data-point stats.
func (p *Poller) refreshAfterTerminal(ctx context.Context, ids []string) error {
	var integrations []backend.Integration

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		integrations, err = p.API.ListIntegrations(gctx, p.Session)
		return err
	})
	if p.Stats != nil {
		g.Go(func() error {
			if err := p.Stats.Refresh(gctx, p.Session); err != nil {
				slog.Warn("data point stats refresh failed after sync", "err", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("integration refresh failed after terminal sync", "err", err)
		return nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	for _, integration := range integrations {
		if _, ok := wanted[integration.ID]; !ok {
			continue
		}
		p.Sink.ReplaceIntegration(integration)
		if integration.LastSync != nil {
			metrics.SyncLastCompletedTimestamp.WithLabelValues(integration.Provider, integration.ID).Set(float64(integration.LastSync.Unix()))
		}
	}
	return nil
}

func (p *Poller) report(id string, progress Progress) {
	if p.Reporter == nil {
		return
	}
	e := Event{
		Integration: id,
		Stage:       progress.CurrentStage,
		Percent:     int64(progress.OverallProgress),
		Message:     progress.ProgressMessage,
		Done:        progress.OverallStatus.Terminal(),
		At:          progress.ObservedAt,
	}
	if progress.OverallStatus == StatusFailed {
		e.Failed = true
	}
	p.Reporter.Report(e)
}

func (p *Poller) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

func providerFor(sink Sink, id string) string {
	for _, integration := range sink.Integrations() {
		if integration.ID == id {
			return integration.Provider
		}
	}
	return "unknown"
}
