package sync

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func reporterWithBuffer() (*LogReporter, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return &LogReporter{Logger: logger}, &buf
}

func TestLogReporterThrottlesMidRunUpdates(t *testing.T) {
	t.Parallel()
	r, buf := reporterWithBuffer()
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	r.Report(Event{Integration: "int-1", Percent: 10, Message: "syncing campaigns", At: base})
	first := buf.Len()
	if first == 0 {
		t.Fatal("first mid-run update should log")
	}

	// Same stage one second later with barely more progress: throttled.
	r.Report(Event{Integration: "int-1", Percent: 11, Message: "syncing campaigns", At: base.Add(time.Second)})
	if buf.Len() != first {
		t.Fatalf("throttled update logged: %q", buf.String())
	}

	// A big jump logs even inside the interval.
	r.Report(Event{Integration: "int-1", Percent: 45, Message: "syncing campaigns", At: base.Add(2 * time.Second)})
	if buf.Len() == first {
		t.Fatal("large progress jump should log")
	}
}

func TestLogReporterAlwaysLogsCompletionAndFailure(t *testing.T) {
	t.Parallel()
	r, buf := reporterWithBuffer()
	base := time.Now()

	r.Report(Event{Integration: "int-1", Percent: 99, Message: "almost", At: base})
	r.Report(Event{Integration: "int-1", Percent: 100, Done: true, At: base.Add(time.Millisecond)})
	if !strings.Contains(buf.String(), "sync complete") {
		t.Fatalf("completion not logged: %q", buf.String())
	}

	buf.Reset()
	r.Report(Event{Integration: "int-2", Percent: 30, Failed: true, At: base})
	out := buf.String()
	if !strings.Contains(out, "sync failed") || !strings.Contains(out, "level=ERROR") {
		t.Fatalf("failure not logged as error: %q", out)
	}
}

func TestLogReporterSkipsEmptyMidRunMessages(t *testing.T) {
	t.Parallel()
	r, buf := reporterWithBuffer()
	r.Report(Event{Integration: "int-1", Percent: 50, At: time.Now()})
	if buf.Len() != 0 {
		t.Fatalf("empty mid-run message should not log: %q", buf.String())
	}
}
