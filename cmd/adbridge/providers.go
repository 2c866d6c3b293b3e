package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var providersCategory string

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List connectable providers from the backend catalog.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProviders(cmd)
	},
}

func init() {
	providersCmd.Flags().StringVar(&providersCategory, "category", "", "Filter by category (ad-intelligence, customer-intelligence, behavior-intelligence)")
}

func runProviders(cmd *cobra.Command) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	list, err := deps.orch.ListProviders(ctx, deps.session, providersCategory)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tCOMPLEXITY\tDATA TYPES")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Category, p.SetupComplexity, strings.Join(p.DataTypes, ","))
	}
	return w.Flush()
}
