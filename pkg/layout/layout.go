// Package layout produces annotated DOT: source graphs run through a
// Graphviz layout engine so that every node, edge and the graph itself
// carry pos, bb, width and height attributes.
//
// Two engines are provided. [Graphviz] runs Graphviz in-process through
// go-graphviz and needs nothing installed. [Command] shells out to an
// external dot binary, matching what a Graphviz installation would print.
// [Passthrough] is used for sources that are already laid out.
package layout

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	errs "github.com/matzehuels/dotlayout/pkg/errors"
)

// DefaultEngine is the layout engine used when none is configured.
const DefaultEngine = "dot"

// Engines lists the Graphviz layout engines accepted by [ValidateEngine].
var Engines = []string{"dot", "neato", "fdp", "sfdp", "circo", "twopi", "osage", "patchwork"}

// Annotator lays out a DOT source and returns the annotated DOT text.
type Annotator interface {
	Annotate(ctx context.Context, src []byte) ([]byte, error)
}

// ValidateEngine reports an INVALID_INPUT error for unknown engine names.
func ValidateEngine(engine string) error {
	if !slices.Contains(Engines, engine) {
		return errs.New(errs.ErrCodeInvalidInput, "unknown layout engine %q (want one of %s)",
			engine, strings.Join(Engines, ", "))
	}
	return nil
}

// =============================================================================
// In-process Graphviz
// =============================================================================

// Graphviz lays out graphs with the embedded Graphviz library.
type Graphviz struct {
	// Engine is the layout engine name. Empty means [DefaultEngine].
	Engine string
}

// Annotate parses src, runs the layout engine and renders the result back
// to DOT with layout attributes.
func (g Graphviz) Annotate(ctx context.Context, src []byte) ([]byte, error) {
	engine := engineOrDefault(g.Engine)
	if err := ValidateEngine(engine); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeLayout, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(engine))

	graph, err := graphviz.ParseBytes(src)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeLayout, err, "parse DOT")
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeLayout, err, "layout with %s", engine)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// External binary
// =============================================================================

// Command lays out graphs by running a Graphviz binary as
// "<Binary> -K<Engine> -Tdot" with the source on stdin.
type Command struct {
	// Binary is the executable to run. Empty means "dot" on PATH.
	Binary string

	// Engine is the layout engine name. Empty means [DefaultEngine].
	Engine string
}

// Annotate runs the external binary on src.
func (c Command) Annotate(ctx context.Context, src []byte) ([]byte, error) {
	engine := engineOrDefault(c.Engine)
	if err := ValidateEngine(engine); err != nil {
		return nil, err
	}
	bin := c.Binary
	if bin == "" {
		bin = "dot"
	}

	cmd := exec.CommandContext(ctx, bin, "-K"+engine, "-Tdot")
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, errs.Wrap(errs.ErrCodeLayout, err, "run %s", bin)
	}
	return stdout.Bytes(), nil
}

// =============================================================================
// Passthrough
// =============================================================================

// Passthrough returns its input unchanged.
type Passthrough struct{}

// Annotate returns src.
func (Passthrough) Annotate(_ context.Context, src []byte) ([]byte, error) {
	return src, nil
}

func engineOrDefault(engine string) string {
	if engine == "" {
		return DefaultEngine
	}
	return engine
}

var (
	_ Annotator = Graphviz{}
	_ Annotator = Command{}
	_ Annotator = Passthrough{}
)
