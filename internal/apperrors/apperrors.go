// Package apperrors defines the error taxonomy shared by the orchestrator,
// the backend client, and the HTTP surface. Every terminal failure carries
// the kind of failure and the step it happened in, so callers can always
// tell "fix your credentials" apart from "try again" and "contact support".
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindNetwork            Kind = "network"
	KindTimeout            Kind = "timeout"
	KindServer             Kind = "server"
	KindUnauthenticated    Kind = "unauthenticated"
	KindCatalogUnavailable Kind = "catalog_unavailable"
	KindConflict           Kind = "conflict"
	KindMalformedResponse  Kind = "malformed_response"
)

// Step names the stage of a flow that failed.
type Step string

const (
	StepCatalog      Step = "catalog"
	StepIntegrations Step = "integrations"
	StepTesting      Step = "testing"
	StepSaving       Step = "saving"
	StepProbing      Step = "probing"
	StepSyncing      Step = "syncing"
	StepStats        Step = "stats"
	StepDisconnect   Step = "disconnect"
)

// Error is a classified failure. Message is safe to show to an operator;
// for server-side failures it carries the server-provided message verbatim.
type Error struct {
	Kind    Kind
	Step    Step
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Step != "" {
		b.WriteString(string(e.Step))
		b.WriteString(": ")
	}
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString(string(e.Kind))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error with an operator-facing message.
func New(kind Kind, step Step, message string) *Error {
	return &Error{Kind: kind, Step: step, Message: message}
}

// Wrap classifies an underlying error.
func Wrap(kind Kind, step Step, message string, err error) *Error {
	return &Error{Kind: kind, Step: step, Message: message, Err: err}
}

// KindOf extracts the Kind from err, or KindServer when unclassified.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindServer
}

// StepOf extracts the failing Step from err, if any.
func StepOf(err error) Step {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Step
	}
	return ""
}

// Retryable reports whether it is safe to offer the operator a retry.
// Only transport-level failures qualify; invalid credentials must prompt
// re-entry and server-side failures need investigation first.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindTimeout:
		return true
	default:
		return false
	}
}

// MessageOf returns the operator-facing message from err, falling back to
// err.Error() for unclassified errors.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
