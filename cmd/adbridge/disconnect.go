package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var disconnectCmd = &cobra.Command{
	Use:   "disconnect <integration-id>",
	Short: "Remove a connected integration.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDisconnect(cmd, args[0])
	},
}

func runDisconnect(cmd *cobra.Command, id string) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := deps.orch.Disconnect(ctx, deps.session, id); err != nil {
		return err
	}
	cmd.Printf("disconnected %s\n", id)
	return nil
}
