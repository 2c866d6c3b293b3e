package main

import (
	"github.com/adbridge/adbridge/internal/backend"
	"github.com/adbridge/adbridge/internal/config"
	"github.com/adbridge/adbridge/internal/datapoints"
	"github.com/adbridge/adbridge/internal/orchestrator"
	"github.com/adbridge/adbridge/internal/providers"
)

// appDeps bundles the wiring every command needs: the backend client, the
// provider registry, the stats aggregator, and the orchestrator on top.
type appDeps struct {
	cfg     config.Config
	client  *backend.Client
	stats   *datapoints.Aggregator
	orch    *orchestrator.Orchestrator
	session backend.Session
}

func buildDeps() (appDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return appDeps{}, err
	}
	return buildDepsWith(cfg)
}

func buildDepsWith(cfg config.Config) (appDeps, error) {
	client, err := backend.New(cfg.BackendURL)
	if err != nil {
		return appDeps{}, err
	}
	client.RequestTimeout = cfg.RequestTimeout
	client.PollTimeout = cfg.PollTimeout

	stats := datapoints.NewAggregator(client)
	orch := orchestrator.New(client, providers.Default(), stats)
	return appDeps{
		cfg:     cfg,
		client:  client,
		stats:   stats,
		orch:    orch,
		session: backend.Session{Token: cfg.SessionToken},
	}, nil
}
