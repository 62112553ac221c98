package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// getOpts holds the command-line flags for the get command.
type getOpts struct {
	graphDir string
	refresh  bool
	noCache  bool
}

// getCommand creates the get command, which loads a graph from the graph
// directory through the cache exactly as the server does.
func (c *CLI) getCommand() *cobra.Command {
	var opts getOpts

	cmd := &cobra.Command{
		Use:   "get <filename>",
		Short: "Load a graph from the graph directory (cached)",
		Long: `Load a graph by name from the configured graph directory, lay it out and
print the parsed JSON. Results are cached; use --refresh to recompute.

Examples:
  dotlayout get unix.gv
  dotlayout get --graph-dir ./graphs --refresh crazy.gv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.graphDir != "" {
				cfg.GraphDir = opts.graphDir
			}

			runner, err := c.newRunner(ctx, cfg, runnerOpts{noCache: opts.noCache})
			if err != nil {
				return err
			}
			defer runner.Close()

			if opts.refresh {
				if err := runner.Invalidate(ctx, args[0]); err != nil {
					logger.Warn("invalidate failed", "file", args[0], "error", err)
				}
			}

			prog := newProgress(logger)
			sp := startSpinner(ctx, statusOut, "Loading "+args[0])
			res, err := runner.Load(ctx, args[0])
			sp.stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Loaded %s", args[0]))

			printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.LayoutTime+res.Stats.ParseTime, res.Cached)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(res.JSON))
			return err
		},
	}

	cmd.Flags().StringVar(&opts.graphDir, "graph-dir", "", "directory holding .gv files (overrides config)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "drop any cached result first")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	return cmd
}
