// Command routeview serves and renders nested-route applications described
// by a YAML route table.
package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vango-dev/routeview/internal/config"
	"github.com/vango-dev/routeview/internal/errors"
	"github.com/vango-dev/routeview/pkg/router"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		var rve *errors.RouteViewError
		if stderrors.As(err, &rve) {
			fmt.Fprint(os.Stderr, rve.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// app carries state shared by the subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "routeview",
		Short: "Render nested routes with router views",
		Long: `routeview resolves a path against a YAML route table and renders the
matched chain, one router view per nesting depth.

Configuration is read from routeview.yaml in the working directory, or the
file given with --config, and from ROUTEVIEW_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./routeview.yaml)")
	flags.StringP("routes", "r", "", "route table file (overrides routes.file)")
	flags.Bool("trace", false, "export spans to stderr")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	_ = a.v.BindPFlag("routes.file", flags.Lookup("routes"))
	_ = a.v.BindPFlag("trace.stdout", flags.Lookup("trace"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		serveCmd(a),
		renderCmd(a),
		routesCmd(a),
		versionCmd(),
	)
	return root
}

func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile, "")
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.NewLogger(a.stderr)
	if cfg.Path() != "" {
		a.logger.Debug("config loaded", "file", cfg.Path())
	}
	return nil
}

// buildRouter loads the configured route table with the built-in
// components.
func (a *app) buildRouter() (*router.Router, error) {
	r := router.New(
		router.WithLogger(a.logger),
		router.WithResolveCache(a.cfg.Routes.CacheTTL),
	)
	if err := r.LoadTableFile(a.cfg.Routes.File, builtins()); err != nil {
		return nil, err
	}
	return r, nil
}
