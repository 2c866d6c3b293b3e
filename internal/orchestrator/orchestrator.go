// Package orchestrator drives the connect/disconnect transaction and owns
// the shared state the poller and the HTTP surface read from. It enforces
// the one supported ordering: validate locally, test credentials, save,
// then the optional capability probe, with each step gated on the previous
// step's resolved result.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/adbridge/adbridge/internal/apperrors"
	"github.com/adbridge/adbridge/internal/backend"
	"github.com/adbridge/adbridge/internal/datapoints"
	"github.com/adbridge/adbridge/internal/metrics"
	"github.com/adbridge/adbridge/internal/providers"
	"github.com/adbridge/adbridge/internal/sync"
)

// API is the slice of the backend client the orchestrator needs.
type API interface {
	ListProviders(ctx context.Context, session backend.Session) ([]backend.Provider, error)
	ListIntegrations(ctx context.Context, session backend.Session) ([]backend.Integration, error)
	TestCredentials(ctx context.Context, session backend.Session, provider string, req backend.ConnectRequest) (backend.TestResult, error)
	SaveIntegration(ctx context.Context, session backend.Session, provider string, req backend.ConnectRequest) (backend.SaveResult, error)
	ProbeAnalyticsEvents(ctx context.Context, session backend.Session, provider string, req backend.ProbeRequest) (backend.ProbeResult, error)
	DeleteIntegration(ctx context.Context, session backend.Session, id string) error
}

// Orchestrator coordinates connect flows, disconnects, and reads.
type Orchestrator struct {
	api      API
	registry *providers.Registry
	store    *Store
	stats    *datapoints.Aggregator
}

func New(api API, registry *providers.Registry, stats *datapoints.Aggregator) *Orchestrator {
	return &Orchestrator{
		api:      api,
		registry: registry,
		store:    NewStore(),
		stats:    stats,
	}
}

// Store exposes the shared state store, primarily to wire the poller sink.
func (o *Orchestrator) Store() *Store { return o.store }

// InitialLoad primes the cached integration list and the authoritative
// data-point stats in parallel. A failed stats read is not fatal: the
// aggregator's estimate tiers cover until the next refresh.
func (o *Orchestrator) InitialLoad(ctx context.Context, session backend.Session) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := o.api.ListIntegrations(gctx, session)
		if err != nil {
			return err
		}
		o.store.SetIntegrations(list)
		return nil
	})
	g.Go(func() error {
		if err := o.stats.Refresh(gctx, session); err != nil {
			slog.Warn("initial data point stats read failed; falling back to estimates", "err", err)
		}
		return nil
	})
	return g.Wait()
}

// ListProviders fetches the provider catalog. An empty catalog is an
// error, never silently papered over with a hardcoded list: fabricated
// providers would mask a backend outage.
func (o *Orchestrator) ListProviders(ctx context.Context, session backend.Session, category string) ([]backend.Provider, error) {
	list, err := o.api.ListProviders(ctx, session)
	if err != nil {
		return nil, err
	}
	if category = strings.TrimSpace(category); category != "" {
		filtered := list[:0]
		for _, p := range list {
			if strings.EqualFold(p.Category, category) {
				filtered = append(filtered, p)
			}
		}
		list = filtered
	}
	if len(list) == 0 {
		return nil, apperrors.New(apperrors.KindCatalogUnavailable, apperrors.StepCatalog, "no providers available from the backend")
	}
	return list, nil
}

// Connect runs one full connect flow for provider kind and returns the
// connection summary. Credentials live only for the duration of the call.
func (o *Orchestrator) Connect(ctx context.Context, session backend.Session, kind string, creds providers.CredentialSet, name string) (ConnectionSummary, error) {
	def, ok := o.registry.Get(kind)
	if !ok {
		return ConnectionSummary{}, apperrors.New(apperrors.KindValidation, apperrors.StepTesting, fmt.Sprintf("unknown provider %q", kind))
	}
	if !session.Valid() {
		return ConnectionSummary{}, apperrors.New(apperrors.KindUnauthenticated, apperrors.StepTesting, "no active session; sign in again")
	}

	creds = creds.Normalized()
	name = strings.TrimSpace(name)
	if name == "" {
		name = def.DisplayName()
	}

	// Fail fast on obviously invalid input before spending any quota.
	if rejection := def.ValidateCredentials(creds); rejection != nil {
		metrics.CredentialPrecheckRejectionsTotal.WithLabelValues(def.Kind(), rejection.Reason).Inc()
		metrics.ConnectAttemptsTotal.WithLabelValues(def.Kind(), "validation_rejected").Inc()
		return ConnectionSummary{}, apperrors.New(apperrors.KindValidation, apperrors.StepTesting, rejection.Message)
	}

	req := backend.ConnectRequest{
		IntegrationName: name,
		Credentials:     def.CredentialFields(creds),
	}

	test, err := o.api.TestCredentials(ctx, session, def.Kind(), req)
	if err != nil {
		metrics.ConnectAttemptsTotal.WithLabelValues(def.Kind(), "test_failed").Inc()
		return ConnectionSummary{}, err
	}
	if !test.Valid {
		metrics.ConnectAttemptsTotal.WithLabelValues(def.Kind(), "invalid_credentials").Inc()
		msg := strings.TrimSpace(test.Error)
		if msg == "" {
			msg = "the provider rejected these credentials"
		}
		return ConnectionSummary{}, apperrors.New(apperrors.KindInvalidCredentials, apperrors.StepTesting, msg)
	}

	// Save only ever runs after a valid test for this same attempt.
	save, err := o.api.SaveIntegration(ctx, session, def.Kind(), req)
	if err != nil {
		metrics.ConnectAttemptsTotal.WithLabelValues(def.Kind(), "save_failed").Inc()
		return ConnectionSummary{}, err
	}

	// The secondary capability probe is best-effort: its failure feeds the
	// summary's limitations but never rolls back the completed save.
	var probe *backend.ProbeResult
	var probeErr error
	if property, supported := def.ProbeProperty(creds); supported && property != "" {
		result, err := o.api.ProbeAnalyticsEvents(ctx, session, def.Kind(), backend.ProbeRequest{
			Credentials: def.CredentialFields(creds),
			PropertyID:  property,
		})
		if err != nil {
			probeErr = err
			slog.Warn("analytics probe failed after save", "provider", def.Kind(), "err", err)
		} else {
			probe = &result
		}
	}

	o.store.ReplaceIntegration(save.Integration)
	if err := o.stats.Refresh(ctx, session); err != nil {
		slog.Warn("data point stats refresh failed after connect", "provider", def.Kind(), "err", err)
	}

	metrics.ConnectAttemptsTotal.WithLabelValues(def.Kind(), "connected").Inc()
	summary := BuildSummary(def, test, save, probe, probeErr)
	slog.Info("integration connected",
		"provider", def.Kind(),
		"integration", save.Integration.ID,
		"permission_level", summary.PermissionLevel,
	)
	return summary, nil
}

// Disconnect removes the integration server-side, drops it locally, and
// re-queries data-point stats.
func (o *Orchestrator) Disconnect(ctx context.Context, session backend.Session, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.New(apperrors.KindValidation, apperrors.StepDisconnect, "integration id is required")
	}
	if !session.Valid() {
		return apperrors.New(apperrors.KindUnauthenticated, apperrors.StepDisconnect, "no active session; sign in again")
	}

	if err := o.api.DeleteIntegration(ctx, session, id); err != nil {
		return err
	}
	o.store.RemoveIntegration(id)
	if err := o.stats.Refresh(ctx, session); err != nil {
		// The last confirmed read still counts the removed integration.
		o.stats.Invalidate()
		slog.Warn("data point stats refresh failed after disconnect", "integration", id, "err", err)
	}
	slog.Info("integration disconnected", "integration", id)
	return nil
}

// Integrations returns the cached integration list snapshot.
func (o *Orchestrator) Integrations() []backend.Integration {
	return o.store.Integrations()
}

// Progress returns the last-known sync progress for id.
func (o *Orchestrator) Progress(id string) (sync.Progress, bool) {
	return o.store.LastProgress(id)
}

// DataPoints returns the best available data-point stats, labeled by tier.
func (o *Orchestrator) DataPoints() datapoints.Stats {
	return o.stats.Current(o.store.Integrations(), o.store.LastProgress)
}
