// ABOUTME: CLI entrypoint for the block site: serve the website, run the MCP server, and inspect content.
// ABOUTME: Configuration comes from flags, BLOCKSITE_* env vars, .env, and an optional blocksite.yaml.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/2389-research/blocksite/config"
	"github.com/2389-research/blocksite/logging"
	"github.com/2389-research/blocksite/metrics"
	"github.com/2389-research/blocksite/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand once configuration is loaded.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "blocksite",
		Short:         "Block-based website with a JSON-file content store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./blocksite.yaml)")
	flags.String("root", ".", "directory relative content paths resolve against")
	flags.String("routes-file", "data/routes.json", "routes index, relative to --root")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	_ = a.v.BindPFlag(config.KeyRoot, flags.Lookup("root"))
	_ = a.v.BindPFlag(config.KeyRoutesFile, flags.Lookup("routes-file"))
	_ = a.v.BindPFlag(config.KeyVerbose, flags.Lookup("verbose"))

	root.AddCommand(
		newServeCmd(a),
		newMCPCmd(a),
		newRoutesCmd(a),
		newBlocksCmd(a),
		newVersionCmd(),
	)
	return root
}

// init loads .env and configuration, then builds the logger and metrics.
func (a *app) init() error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Verbose)
	if err != nil {
		return err
	}
	a.logger = logger

	if cfg.Metrics {
		a.metrics = metrics.New()
	}
	return nil
}

func (a *app) store() *store.Store {
	return store.New(
		store.Config{Root: a.cfg.Root, RoutesFile: a.cfg.RoutesFile},
		store.WithLogger(a.logger),
		store.WithMetrics(a.metrics),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// Skips config loading so version works anywhere.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "blocksite %s\n", version)
		},
	}
}
