// ABOUTME: mcp subcommand: serves the content store to MCP clients over stdin/stdout.
// ABOUTME: Logs go to stderr so they never corrupt the protocol stream.
package main

import (
	"os/signal"
	"syscall"

	"github.com/2389-research/blocksite/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run a Model Context Protocol server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := mcp.NewServer(a.store(), version, a.logger)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}
