// ABOUTME: routes subcommands: list the routes index and check it for problems.
// ABOUTME: Checks are diagnostics only; the server itself never rejects a routes file.
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/2389-research/blocksite/store"
	"github.com/spf13/cobra"
)

func newRoutesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect the routes index",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List routes as the server sees them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPATH\tCONTENT")
			for _, r := range a.store().LoadRoutes() {
				file := "-"
				if len(r.BlockIDs) > 0 {
					file = r.BlockIDs[0]
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Path, file)
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report duplicate names, duplicate paths, and routes without content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			problems := store.ValidateRoutes(a.store().LoadRoutes())
			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problem(s) in routes index", len(problems))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "routes ok")
			return nil
		},
	})

	return cmd
}
