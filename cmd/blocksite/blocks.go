// ABOUTME: blocks subcommands: print a route's document and check it strictly.
// ABOUTME: check surfaces the parse errors that page loads swallow and log.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/2389-research/blocksite/content"
	"github.com/2389-research/blocksite/render"
	"github.com/spf13/cobra"
)

func newBlocksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "Inspect a route's blocks",
	}

	var withDefault bool
	show := &cobra.Command{
		Use:   "show <route>",
		Short: "Print the blocks a route would serve",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := a.store()
			blocks, err := st.LoadRouteBlocks(args[0])
			if err != nil {
				return err
			}
			if withDefault {
				blocks = st.DefaultIfEmpty(args[0], blocks)
			}
			data, err := content.MarshalDocument(content.NewDocument(blocks))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	show.Flags().BoolVar(&withDefault, "default", false, "substitute the seed content when the route has no blocks")

	check := &cobra.Command{
		Use:   "check <route>",
		Short: "Parse, render, and look for duplicate ids in a route's content file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.store().ResolveContentPath(args[0])
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no content file yet\n", path)
				return nil
			}
			if err != nil {
				return err
			}

			doc, err := content.ParseDocument(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if _, err := render.Blocks(doc.Blocks); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if dups := content.DuplicateIDs(doc.Blocks); len(dups) > 0 {
				return fmt.Errorf("%s: duplicate block ids %v", path, dups)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d block(s) ok\n", path, len(doc.Blocks))
			return nil
		},
	}

	cmd.AddCommand(show, check)
	return cmd
}
