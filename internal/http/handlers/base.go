// Package handlers contains HTTP handler logic split by domain.
package handlers

import (
	"context"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/adbridge/adbridge/internal/backend"
	"github.com/adbridge/adbridge/internal/config"
	"github.com/adbridge/adbridge/internal/datapoints"
	"github.com/adbridge/adbridge/internal/orchestrator"
	"github.com/adbridge/adbridge/internal/providers"
	"github.com/adbridge/adbridge/internal/sync"
)

const (
	// ContextKeyRequestID stores the request id (X-Request-ID) for logging and client error references.
	ContextKeyRequestID = "request_id"

	// InternalErrorCode is a stable error code safe to return to clients.
	InternalErrorCode = "INTERNAL_ERROR"
)

// Orchestrator is the surface the handlers drive.
type Orchestrator interface {
	ListProviders(ctx context.Context, session backend.Session, category string) ([]backend.Provider, error)
	Connect(ctx context.Context, session backend.Session, kind string, creds providers.CredentialSet, name string) (orchestrator.ConnectionSummary, error)
	Disconnect(ctx context.Context, session backend.Session, id string) error
	Integrations() []backend.Integration
	Progress(id string) (sync.Progress, bool)
	DataPoints() datapoints.Stats
}

// Handlers groups all HTTP handlers and shared dependencies.
type Handlers struct {
	Cfg  config.Config
	Orch Orchestrator
}

// Session resolves the backend session for a request. A bearer token on
// the request wins; otherwise the configured service token is used.
func (h *Handlers) Session(c *echo.Context) backend.Session {
	auth := strings.TrimSpace(c.Request().Header.Get("Authorization"))
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		if token = strings.TrimSpace(token); token != "" {
			return backend.Session{Token: token}
		}
	}
	return backend.Session{Token: h.Cfg.SessionToken}
}
