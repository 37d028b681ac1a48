// ABOUTME: serve subcommand: runs the HTTP server, and the content watcher when enabled.
// ABOUTME: SIGINT and SIGTERM trigger a graceful shutdown.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/2389-research/blocksite/config"
	"github.com/2389-research/blocksite/watch"
	"github.com/2389-research/blocksite/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the website and admin editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("bind", config.DefaultBind, "listen address (default 0.0.0.0:$PORT when PORT is set)")
	flags.Bool("watch", false, "log content files edited outside the server")
	flags.Bool("metrics", true, "expose Prometheus metrics at /metrics")
	_ = a.v.BindPFlag(config.KeyBind, flags.Lookup("bind"))
	_ = a.v.BindPFlag(config.KeyWatch, flags.Lookup("watch"))
	_ = a.v.BindPFlag(config.KeyMetrics, flags.Lookup("metrics"))

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	st := a.store()

	opts := []web.ServerOption{web.WithLogger(a.logger)}
	if a.metrics != nil {
		opts = append(opts, web.WithMetrics(a.metrics))
	}
	srv, err := web.NewServer(st, web.ServerConfig{Addr: a.cfg.Bind, SiteTitle: a.cfg.SiteTitle}, opts...)
	if err != nil {
		return err
	}

	if !config.IsLoopback(a.cfg.Bind) {
		a.logger.Warn("admin editor is reachable from the network without authentication", zap.String("bind", a.cfg.Bind))
	}

	if a.cfg.Watch {
		w, err := watch.New(st, watch.WithLogger(a.logger), watch.WithMetrics(a.metrics))
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				a.logger.Error("watcher stopped", zap.Error(err))
			}
		}()
	}

	a.logger.Info("starting blocksite",
		zap.String("version", version),
		zap.String("root", a.cfg.Root),
		zap.String("routes", st.RoutesPath()),
	)
	return srv.Run(ctx)
}
