package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotlayout/pkg/config"
	"github.com/matzehuels/dotlayout/pkg/service"
)

// layoutFlags are the flags shared by commands that lay out and parse a
// single source.
type layoutFlags struct {
	annotated bool   // input is already laid out
	engine    string // overrides config engine
	annotator string // overrides config annotator
	strict    bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.annotated, "annotated", false, "input is already laid out (skip Graphviz)")
	cmd.Flags().StringVar(&f.engine, "engine", "", "Graphviz layout engine (dot, neato, fdp, ...)")
	cmd.Flags().StringVar(&f.annotator, "annotator", "", "layout backend: graphviz (embedded) or command (dot binary)")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject malformed attribute lists")
}

// apply overrides cfg with any flags that were set and revalidates it.
func (f *layoutFlags) apply(cfg *config.Config) error {
	if f.engine != "" {
		cfg.Engine = f.engine
	}
	if f.annotator != "" {
		cfg.Annotator = f.annotator
	}
	if f.strict {
		cfg.Strict = true
	}
	return cfg.Validate()
}

// parseOpts holds the command-line flags for the parse command.
type parseOpts struct {
	layoutFlags
	output string // output file path (stdout if empty)
}

// parseCommand creates the parse command.
func (c *CLI) parseCommand() *cobra.Command {
	var opts parseOpts

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Lay out a DOT file and print it as positioned JSON",
		Long: `Lay out a DOT file with Graphviz and print the parsed graph as JSON.

Use "-" to read from stdin. Pass --annotated when the input already carries
layout attributes (for example the output of "dot -Tdot").

Examples:
  dotlayout parse unix.gv
  dotlayout parse --engine neato -o world.json world.gv
  dot -Tdot unix.gv | dotlayout parse --annotated -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runParse(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (c *CLI) runParse(ctx context.Context, stdin io.Reader, stdout io.Writer, path string, opts parseOpts) error {
	res, err := c.parseInput(ctx, stdin, path, opts.layoutFlags)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := fmt.Fprintln(stdout, string(res.JSON))
		return err
	}
	if err := os.WriteFile(opts.output, append(res.JSON, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	printSuccess("Parsed %s", displayName(path))
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.LayoutTime+res.Stats.ParseTime, false)
	printFile(opts.output)
	return nil
}

// parseInput reads path (or stdin for "-") and lays out and parses it.
func (c *CLI) parseInput(ctx context.Context, stdin io.Reader, path string, flags layoutFlags) (*service.Result, error) {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cfg); err != nil {
		return nil, err
	}

	src, err := readInput(stdin, path)
	if err != nil {
		return nil, err
	}

	runner, err := c.newRunner(ctx, cfg, runnerOpts{annotated: flags.annotated, noCache: true})
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	msg := "Laying out " + displayName(path) + " with " + cfg.Engine
	if flags.annotated {
		msg = "Parsing " + displayName(path)
	}
	logger.Debug(msg)
	prog := newProgress(logger)
	sp := startSpinner(ctx, statusOut, msg)
	res, err := runner.ParseSource(ctx, src, !flags.annotated)
	sp.stop()
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Parsed %d nodes and %d edges", res.Stats.NodeCount, res.Stats.EdgeCount))
	return res, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}
