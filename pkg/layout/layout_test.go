package layout

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/dotlayout/pkg/dot"
	errs "github.com/matzehuels/dotlayout/pkg/errors"
)

const source = "digraph G { a -> b; b -> c; a -> c; }"

func TestPassthrough(t *testing.T) {
	in := []byte("a [pos=\"1,1\"]")
	out, err := Passthrough{}.Annotate(context.Background(), in)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if string(out) != string(in) {
		t.Errorf("Annotate = %q, want %q", out, in)
	}
}

func TestValidateEngine(t *testing.T) {
	for _, e := range Engines {
		if err := ValidateEngine(e); err != nil {
			t.Errorf("ValidateEngine(%q) = %v", e, err)
		}
	}
	err := ValidateEngine("graphite")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("ValidateEngine(graphite) = %v, want INVALID_INPUT", err)
	}
}

func TestGraphvizAnnotate(t *testing.T) {
	out, err := Graphviz{}.Annotate(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	g, err := dot.Parse(string(out))
	if err != nil {
		t.Fatalf("Parse annotated output: %v\n%s", err, out)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("got %d nodes, want 3", len(g.Nodes))
	}
	if len(g.Edges) != 3 {
		t.Errorf("got %d edges, want 3", len(g.Edges))
	}
	if _, ok := g.BoundingBox(); !ok {
		t.Error("annotated graph has no bb")
	}
}

func TestGraphvizAnnotateErrors(t *testing.T) {
	_, err := Graphviz{Engine: "graphite"}.Annotate(context.Background(), []byte(source))
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("unknown engine: err = %v, want INVALID_INPUT", err)
	}
}

// fakeDot writes a shell script standing in for the dot binary.
func fakeDot(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	path := filepath.Join(t.TempDir(), "dot")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommandAnnotate(t *testing.T) {
	// Echo the engine flag, then the input.
	bin := fakeDot(t, `echo "engine $1 $2"; cat`)

	out, err := Command{Binary: bin, Engine: "neato"}.Annotate(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if got, want := string(out), "engine -Kneato -Tdot\nx"; got != want {
		t.Errorf("Annotate = %q, want %q", got, want)
	}
}

func TestCommandAnnotateFailure(t *testing.T) {
	bin := fakeDot(t, `echo "syntax error in line 1" >&2; exit 1`)

	_, err := Command{Binary: bin}.Annotate(context.Background(), []byte("x"))
	if !errs.Is(err, errs.ErrCodeLayout) {
		t.Fatalf("err = %v, want LAYOUT_FAILED", err)
	}
	if !strings.Contains(err.Error(), "syntax error in line 1") {
		t.Errorf("error %q does not include stderr", err)
	}
}

func TestCommandMissingBinary(t *testing.T) {
	_, err := Command{Binary: filepath.Join(t.TempDir(), "missing")}.Annotate(context.Background(), []byte("x"))
	if !errs.Is(err, errs.ErrCodeLayout) {
		t.Errorf("err = %v, want LAYOUT_FAILED", err)
	}
}
