// Package cli implements the dotlayout command-line interface.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dotlayout/pkg/buildinfo"
	"github.com/matzehuels/dotlayout/pkg/cache"
	"github.com/matzehuels/dotlayout/pkg/config"
	"github.com/matzehuels/dotlayout/pkg/layout"
	"github.com/matzehuels/dotlayout/pkg/service"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "dotlayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "dotlayout turns Graphviz layouts into positioned JSON graphs",
		Long: `dotlayout runs DOT graphs through a Graphviz layout engine and parses the
annotated result into nodes, edges and splines with absolute coordinates,
ready to draw.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", config.DefaultFile, "config file")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.getCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads the --config file. A missing file yields defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if config.Exists(c.configPath) {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return cfg, nil
}

// runnerOpts are per-command overrides of the loaded config.
type runnerOpts struct {
	annotated bool // sources are already laid out
	noCache   bool
}

// newRunner creates a service runner from cfg.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, opts runnerOpts) (*service.Runner, error) {
	var store cache.Cache = cache.NewNullCache()
	if !opts.noCache {
		var err error
		if store, err = cache.Open(ctx, cfg.CacheOptions()); err != nil {
			return nil, err
		}
	}

	var annotator layout.Annotator = layout.Passthrough{}
	if !opts.annotated {
		annotator = cfg.NewAnnotator()
	}

	r := service.NewRunner(store, nil, annotator, os.DirFS(cfg.GraphDir), c.Logger)
	r.Engine = cfg.Engine
	r.Strict = cfg.Strict
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}
