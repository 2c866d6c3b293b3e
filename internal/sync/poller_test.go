package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/adbridge/adbridge/internal/backend"
)

type fakePollAPI struct {
	snapshots []map[string]json.RawMessage
	pollCalls int
	pollErr   error

	integrations []backend.Integration
	listCalls    int
	listErr      error
}

func (f *fakePollAPI) SyncProgress(context.Context, backend.Session) (map[string]json.RawMessage, error) {
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	if f.pollCalls >= len(f.snapshots) {
		return nil, errors.New("no snapshot scripted")
	}
	snap := f.snapshots[f.pollCalls]
	f.pollCalls++
	return snap, nil
}

func (f *fakePollAPI) ListIntegrations(context.Context, backend.Session) ([]backend.Integration, error) {
	f.listCalls++
	return f.integrations, f.listErr
}

type fakeSink struct {
	integrations map[string]backend.Integration
	progress     map[string]Progress
	setCalls     int
	replaced     []string
}

func newFakeSink(integrations ...backend.Integration) *fakeSink {
	s := &fakeSink{
		integrations: make(map[string]backend.Integration),
		progress:     make(map[string]Progress),
	}
	for _, integration := range integrations {
		s.integrations[integration.ID] = integration
	}
	return s
}

func (s *fakeSink) Integrations() []backend.Integration {
	out := make([]backend.Integration, 0, len(s.integrations))
	for _, integration := range s.integrations {
		out = append(out, integration)
	}
	return out
}

func (s *fakeSink) ReplaceIntegration(i backend.Integration) {
	s.integrations[i.ID] = i
	s.replaced = append(s.replaced, i.ID)
}

func (s *fakeSink) LastProgress(id string) (Progress, bool) {
	p, ok := s.progress[id]
	return p, ok
}

func (s *fakeSink) SetProgress(id string, p Progress) {
	s.progress[id] = p
	s.setCalls++
}

type fakeStats struct {
	refreshCalls int
	err          error
}

func (f *fakeStats) Refresh(context.Context, backend.Session) error {
	f.refreshCalls++
	return f.err
}

type recordingReporter struct {
	events []Event
}

func (r *recordingReporter) Report(e Event) { r.events = append(r.events, e) }

func runningEntry(percent int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{"overall_status":"running","overall_progress":%d}`, percent))
}

func TestPollerProgressIsMonotonicAcrossTicks(t *testing.T) {
	t.Parallel()
	lastSync := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	api := &fakePollAPI{
		snapshots: []map[string]json.RawMessage{
			{"int-1": runningEntry(30)},
			{"int-1": runningEntry(65)},
			{"int-1": runningEntry(45)},
			{"int-1": json.RawMessage(`{"overall_status":"completed"}`)},
		},
		integrations: []backend.Integration{
			{ID: "int-1", Provider: "facebook_ads", Status: backend.StatusConnected, LastSync: &lastSync, DataPointsSynced: 900},
		},
	}
	sink := newFakeSink(backend.Integration{ID: "int-1", Provider: "facebook_ads"})
	stats := &fakeStats{}
	reporter := &recordingReporter{}
	poller := &Poller{API: api, Sink: sink, Stats: stats, Reporter: reporter}

	ctx := context.Background()
	wantProgress := []int{30, 65, 65, 100}
	for i, want := range wantProgress {
		if err := poller.RunOnce(ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
		p, ok := sink.LastProgress("int-1")
		if !ok {
			t.Fatalf("tick %d: progress missing", i)
		}
		if p.OverallProgress != want {
			t.Fatalf("tick %d: progress=%d want %d", i, p.OverallProgress, want)
		}
	}

	if api.listCalls != 1 {
		t.Fatalf("listCalls=%d want exactly 1 refresh after terminal transition", api.listCalls)
	}
	if stats.refreshCalls != 1 {
		t.Fatalf("refreshCalls=%d want 1", stats.refreshCalls)
	}
	if got := sink.integrations["int-1"].DataPointsSynced; got != 900 {
		t.Fatalf("integration not refreshed, data points=%d", got)
	}

	last := reporter.events[len(reporter.events)-1]
	if !last.Done || last.Failed || last.Percent != 100 {
		t.Fatalf("final event = %+v, want done at 100", last)
	}
}

func TestPollerTerminalRefreshHappensOnlyOnce(t *testing.T) {
	t.Parallel()
	api := &fakePollAPI{
		snapshots: []map[string]json.RawMessage{
			{"int-1": json.RawMessage(`{"overall_status":"completed"}`)},
			{"int-1": json.RawMessage(`{"overall_status":"completed"}`)},
			{"int-1": json.RawMessage(`{"overall_status":"completed"}`)},
		},
		integrations: []backend.Integration{{ID: "int-1", Provider: "klaviyo"}},
	}
	sink := newFakeSink(backend.Integration{ID: "int-1", Provider: "klaviyo"})
	poller := &Poller{API: api, Sink: sink}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := poller.RunOnce(ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if api.listCalls != 1 {
		t.Fatalf("listCalls=%d want 1; an already-terminal run must not re-trigger the refresh", api.listCalls)
	}
}

func TestPollerMalformedEntryRetainsPriorState(t *testing.T) {
	t.Parallel()
	api := &fakePollAPI{
		snapshots: []map[string]json.RawMessage{
			{"int-1": runningEntry(40)},
			{"int-1": json.RawMessage(`{"overall_status":"halted???"}`)},
		},
	}
	sink := newFakeSink(backend.Integration{ID: "int-1", Provider: "gohighlevel"})
	poller := &Poller{API: api, Sink: sink}

	ctx := context.Background()
	if err := poller.RunOnce(ctx); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	if err := poller.RunOnce(ctx); err != nil {
		t.Fatalf("second tick: %v", err)
	}

	p, ok := sink.LastProgress("int-1")
	if !ok {
		t.Fatal("prior progress dropped")
	}
	if p.OverallStatus != StatusRunning || p.OverallProgress != 40 {
		t.Fatalf("progress=%+v want prior running/40 retained", p)
	}
	if sink.setCalls != 1 {
		t.Fatalf("setCalls=%d; malformed entry must not write", sink.setCalls)
	}
}

func TestPollerPollErrorLeavesStateUntouched(t *testing.T) {
	t.Parallel()
	sink := newFakeSink(backend.Integration{ID: "int-1"})
	sink.progress["int-1"] = Progress{OverallStatus: StatusRunning, OverallProgress: 75}
	poller := &Poller{API: &fakePollAPI{pollErr: errors.New("backend down")}, Sink: sink}

	if err := poller.RunOnce(context.Background()); err == nil {
		t.Fatal("expected poll error")
	}
	p, _ := sink.LastProgress("int-1")
	if p.OverallStatus != StatusRunning || p.OverallProgress != 75 {
		t.Fatalf("progress=%+v want untouched", p)
	}
}

func TestPollerFailedRunReportsFailure(t *testing.T) {
	t.Parallel()
	api := &fakePollAPI{
		snapshots: []map[string]json.RawMessage{
			{"int-1": json.RawMessage(`{"overall_status":"failed","overall_progress":60,"progress_message":"token expired mid-run"}`)},
		},
		integrations: []backend.Integration{{ID: "int-1", Provider: "google_ads"}},
	}
	sink := newFakeSink(backend.Integration{ID: "int-1", Provider: "google_ads"})
	reporter := &recordingReporter{}
	poller := &Poller{API: api, Sink: sink, Reporter: reporter}

	if err := poller.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(reporter.events) != 1 {
		t.Fatalf("events=%d want 1", len(reporter.events))
	}
	e := reporter.events[0]
	if !e.Failed || !e.Done {
		t.Fatalf("event=%+v want failed terminal", e)
	}
	if e.Message != "token expired mid-run" {
		t.Fatalf("message=%q", e.Message)
	}
	// Failure is terminal too: the persisted record refresh still runs.
	if api.listCalls != 1 {
		t.Fatalf("listCalls=%d want 1", api.listCalls)
	}
}

func TestPollerRefreshFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	api := &fakePollAPI{
		snapshots: []map[string]json.RawMessage{
			{"int-1": json.RawMessage(`{"overall_status":"completed"}`)},
		},
		listErr: errors.New("list unavailable"),
	}
	sink := newFakeSink(backend.Integration{ID: "int-1"})
	poller := &Poller{API: api, Sink: sink}

	if err := poller.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce should tolerate refresh failure, got %v", err)
	}
	if len(sink.replaced) != 0 {
		t.Fatalf("replaced=%v want none on failed refresh", sink.replaced)
	}
}
