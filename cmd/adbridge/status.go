package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/adbridge/adbridge/internal/backend"
	"github.com/adbridge/adbridge/internal/sync"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show integrations, sync progress, and data-point counts.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd)
	},
}

func runStatus(cmd *cobra.Command) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := deps.orch.InitialLoad(ctx, deps.session); err != nil {
		return err
	}

	poller := &sync.Poller{
		API:     deps.client,
		Session: deps.session,
		Sink:    deps.orch.Store(),
		Stats:   deps.stats,
	}
	if err := poller.RunOnce(ctx); err != nil {
		cmd.PrintErrf("warning: sync progress unavailable: %v\n", err)
	}

	integrations := deps.orch.Integrations()
	if len(integrations) == 0 {
		cmd.Println("no integrations connected")
	} else {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tNAME\tSTATUS\tSYNC\tLAST SYNC\tDATA POINTS\tHEALTH")
		for _, integration := range integrations {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
				integration.Provider,
				integration.Name,
				integration.Status,
				syncColumn(deps.orch.Progress(integration.ID)),
				lastSyncColumn(integration),
				integration.DataPointsSynced,
				integration.HealthScore,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	stats := deps.orch.DataPoints()
	cmd.Printf("data points: %d (%s)\n", stats.Total, stats.Source)
	return nil
}

func syncColumn(p sync.Progress, known bool) string {
	if !known {
		return "idle"
	}
	if p.OverallStatus.Active() {
		return fmt.Sprintf("%s %d%%", p.OverallStatus, p.OverallProgress)
	}
	return string(p.OverallStatus)
}

func lastSyncColumn(integration backend.Integration) string {
	if integration.LastSync == nil {
		return "never"
	}
	return integration.LastSync.Format(time.RFC3339)
}
