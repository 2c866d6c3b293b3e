package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapp "github.com/adbridge/adbridge/internal/http"
	"github.com/adbridge/adbridge/internal/logging"
	"github.com/adbridge/adbridge/internal/metrics"
	"github.com/adbridge/adbridge/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background sync-progress poller.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	if _, err := logging.BootstrapFromEnv(logging.BootstrapOptions{Command: "adbridge serve"}); err != nil {
		return err
	}

	deps, err := buildDeps()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Prime the integration list and stats before serving. A backend
	// outage here is survivable; the poller keeps retrying on its ticks.
	if err := deps.orch.InitialLoad(ctx, deps.session); err != nil {
		slog.Warn("initial backend load failed; starting with empty state", "error", err)
	}

	poller := &sync.Poller{
		API:      deps.client,
		Session:  deps.session,
		Sink:     deps.orch.Store(),
		Stats:    deps.stats,
		Reporter: &sync.LogReporter{},
	}
	scheduler := sync.Scheduler{Runner: poller, Interval: deps.cfg.PollInterval}
	go scheduler.Run(ctx)

	_, metricsErrCh := metrics.StartServer(ctx, deps.cfg.MetricsAddr)

	srv, err := httpapp.NewEchoServer(deps.cfg, deps.orch)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              deps.cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", deps.cfg.HTTPAddr)
		errCh <- srv.StartServer(httpServer)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-metricsErrCh:
		return err
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
