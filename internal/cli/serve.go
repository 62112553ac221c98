package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dotlayout/pkg/cache"
	"github.com/matzehuels/dotlayout/pkg/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	listen   string
	graphDir string
	noCache  bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve laid-out graphs over HTTP",
		Long: `Start an HTTP server that lays out graphs from the graph directory on request.

Endpoints:
  GET /graph?filename=<name>   parsed graph JSON
  GET /healthz                 liveness check

Examples:
  dotlayout serve
  dotlayout serve --listen :9000 --graph-dir ./graphs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.listen != "" {
				cfg.Listen = opts.listen
			}
			if opts.graphDir != "" {
				cfg.GraphDir = opts.graphDir
			}

			runner, err := c.newRunner(ctx, cfg, runnerOpts{noCache: opts.noCache})
			if err != nil {
				return err
			}
			defer runner.Close()

			cacheBackend := cfg.Cache.Backend
			if opts.noCache {
				cacheBackend = cache.BackendNone
			}
			printKeyValue("Listen", cfg.Listen)
			printKeyValue("Graphs", cfg.GraphDir)
			printKeyValue("Engine", cfg.Engine)
			printKeyValue("Cache", cacheBackend)

			return server.Serve(ctx, cfg.Listen, server.Handler(runner, c.Logger), c.Logger)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.graphDir, "graph-dir", "", "directory holding .gv files (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	return cmd
}
