package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorStringIncludesStepAndCause(t *testing.T) {
	t.Parallel()
	err := Wrap(KindNetwork, StepTesting, "could not reach the backend", errors.New("dial refused"))
	got := err.Error()
	want := "testing: could not reach the backend: dial refused"
	if got != want {
		t.Fatalf("Error()=%q want %q", got, want)
	}

	bare := New(KindServer, "", "")
	if bare.Error() != "server" {
		t.Fatalf("Error()=%q want kind fallback", bare.Error())
	}
}

func TestUnwrapPreservesCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("root cause")
	err := Wrap(KindTimeout, StepSyncing, "timed out", cause)
	if !errors.Is(err, cause) {
		t.Fatal("errors.Is should see the wrapped cause")
	}
}

func TestKindAndStepExtractionThroughWrapping(t *testing.T) {
	t.Parallel()
	inner := New(KindInvalidCredentials, StepTesting, "rejected")
	outer := fmt.Errorf("connect failed: %w", inner)

	if KindOf(outer) != KindInvalidCredentials {
		t.Fatalf("KindOf=%s", KindOf(outer))
	}
	if StepOf(outer) != StepTesting {
		t.Fatalf("StepOf=%s", StepOf(outer))
	}
	if KindOf(errors.New("plain")) != KindServer {
		t.Fatal("unclassified errors default to server kind")
	}
	if StepOf(errors.New("plain")) != "" {
		t.Fatal("unclassified errors have no step")
	}
}

func TestRetryableOnlyForTransportFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindNetwork, true},
		{KindTimeout, true},
		{KindValidation, false},
		{KindInvalidCredentials, false},
		{KindServer, false},
		{KindUnauthenticated, false},
		{KindCatalogUnavailable, false},
		{KindConflict, false},
		{KindMalformedResponse, false},
	}
	for _, tt := range tests {
		if got := Retryable(New(tt.kind, StepTesting, "x")); got != tt.want {
			t.Fatalf("Retryable(%s)=%v want %v", tt.kind, got, tt.want)
		}
	}
}

func TestMessageOf(t *testing.T) {
	t.Parallel()
	if got := MessageOf(New(KindServer, StepStats, "database down")); got != "database down" {
		t.Fatalf("MessageOf=%q", got)
	}
	if got := MessageOf(errors.New("raw")); got != "raw" {
		t.Fatalf("MessageOf=%q", got)
	}
	if got := MessageOf(nil); got != "" {
		t.Fatalf("MessageOf(nil)=%q", got)
	}
}
