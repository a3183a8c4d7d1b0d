package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routeview/pkg/render"
	"github.com/vango-dev/routeview/pkg/server"
)

func renderCmd(a *app) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render one path to standard output",
		Long: `Resolve a path against the route table and print the rendered page.

Examples:
  routeview render /users/42/profile
  routeview render --pretty "/search?q=go"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shutdown, err := setupTracing(a.cfg.Trace.Stdout, a.stderr)
			if err != nil {
				return err
			}
			defer func() { _ = shutdown(context.Background()) }()

			r, err := a.buildRouter()
			if err != nil {
				return err
			}
			srv := server.New(r,
				server.WithLogger(a.logger),
				server.WithKeepAlive(a.cfg.View.KeepAlive, a.cfg.View.KeepAliveMax),
				server.WithRenderer(render.RendererConfig{Pretty: pretty}),
			)
			_, err = srv.Render(cmd.Context(), cmd.OutOrStdout(), args[0])
			return err
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "indent the output")

	return cmd
}
