package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/routeview/pkg/middleware"
	"github.com/vango-dev/routeview/pkg/server"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered pages over HTTP",
		Long: `Serve every route of the route table as server-rendered HTML.

Examples:
  routeview serve
  routeview serve --addr=:9000 --routes=app.yaml
  ROUTEVIEW_ROUTES_WATCH=true routeview serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a)
		},
	}

	cmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	cmd.Flags().Bool("keep-alive", false, "keep route components alive between navigations")
	_ = a.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("view.keep_alive", cmd.Flags().Lookup("keep-alive"))

	return cmd
}

func runServe(ctx context.Context, a *app) error {
	shutdown, err := setupTracing(a.cfg.Trace.Stdout, a.stderr)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	r, err := a.buildRouter()
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithLogger(a.logger),
		server.WithKeepAlive(a.cfg.View.KeepAlive, a.cfg.View.KeepAliveMax),
		server.WithTracing(middleware.WithTracerName("routeview")),
	}
	if a.cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := middleware.NewMetrics(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(a.cfg.Metrics.Namespace),
		)
		opts = append(opts, server.WithMetrics(m, reg))
	}
	srv := server.New(r, opts...)

	if a.cfg.Routes.Watch {
		go func() {
			err := srv.WatchRoutes(ctx, a.cfg.Routes.File, a.buildRouter, 0)
			if err != nil {
				a.logger.Error("route watcher stopped", "error", err)
			}
		}()
	}

	a.logger.Info("serving routes",
		"routes", len(r.Routes()),
		"file", a.cfg.Routes.File,
		"keep_alive", a.cfg.View.KeepAlive,
	)
	return srv.ListenAndServe(ctx, a.cfg.Server.Addr, a.cfg.Server.ReadTimeout)
}
