package dot

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	errs "github.com/matzehuels/dotlayout/pkg/errors"
)

// Statement labels with a fixed meaning.
const (
	labelGraph   = "graph"
	labelDigraph = "digraph"
	labelNode    = "node"
	edgeArrow    = "->"
)

// Options configures parsing.
type Options struct {
	// Strict rejects attribute lists containing text outside the key=value
	// grammar with MALFORMED_STATEMENT. By default such text is skipped.
	Strict bool
}

// Parse parses annotated DOT source with default options.
// See [Options.Parse].
func Parse(src string) (*Graph, error) {
	return Options{}.Parse(src)
}

// Parse converts annotated DOT source into a Graph.
//
// Statements are processed in one left-to-right pass:
//   - graph and digraph attribute lists merge into the graph attributes
//   - node attribute lists (minus label) merge into the node defaults
//   - "a -> b" statements append an edge
//   - anything else declares a node, seeded from the node defaults in force
//     at that point; defaults declared later do not apply to it
//
// Any error aborts the parse and no graph is returned. The returned error
// is an *errors.Error carrying one of the parse codes.
func (o Options) Parse(src string) (*Graph, error) {
	a := assembler{
		opts:     o,
		graph:    newGraph(),
		defaults: Attrs{},
	}

	sc := NewScanner(JoinContinuations(src))
	for sc.Scan() {
		if err := a.apply(sc.Statement()); err != nil {
			return nil, err
		}
	}
	return a.graph, nil
}

// assembler holds the state of a single parse.
type assembler struct {
	opts     Options
	graph    *Graph
	defaults Attrs
}

func (a *assembler) apply(st Statement) error {
	h, err := a.attrs(st)
	if err != nil {
		return err
	}

	switch st.Label {
	case labelGraph, labelDigraph:
		a.graph.Attrs.Merge(h)
		return nil
	case labelNode:
		delete(h, AttrLabel)
		a.defaults.Merge(h)
		return nil
	}

	if start, stop, ok := splitEdge(st.Label); ok {
		a.graph.Edges = append(a.graph.Edges, &Edge{Start: start, Stop: stop, Attrs: h})
		return nil
	}

	pts, _ := h.Points(AttrPos)
	if len(pts) != 1 {
		return errs.New(errs.ErrCodeDataInvariant, "node %q: pos must hold exactly one point, got %d", st.Label, len(pts))
	}
	h[AttrPos] = PointValue(pts[0])

	attrs := a.defaults.Clone()
	attrs.Merge(h)
	a.graph.Nodes[st.Label] = &Node{ID: st.Label, Attrs: attrs}
	return nil
}

// attrs tokenizes and coerces the attribute list of st. Later keys
// overwrite earlier ones.
func (a *assembler) attrs(st Statement) (Attrs, error) {
	var pairs []Pair
	if a.opts.Strict {
		var err error
		if pairs, err = StrictPairs(st.Attrs); err != nil {
			return nil, withContext(err, "statement %q", st.Label)
		}
	} else {
		pairs = Pairs(st.Attrs)
	}

	h := make(Attrs, len(pairs))
	for _, p := range pairs {
		coerced, err := Coerce(p.Key, p.Raw)
		if err != nil {
			return nil, withContext(err, "statement %q: attribute %s", st.Label, p.Key)
		}
		for _, c := range coerced {
			h[c.Key] = c.Value
		}
	}
	return h, nil
}

// splitEdge splits "a -> b" at the first arrow, trimming whitespace around
// it.
func splitEdge(label string) (start, stop string, ok bool) {
	i := strings.Index(label, edgeArrow)
	if i < 0 {
		return "", "", false
	}
	start = strings.TrimRightFunc(label[:i], unicode.IsSpace)
	stop = strings.TrimLeftFunc(label[i+len(edgeArrow):], unicode.IsSpace)
	return start, stop, true
}

// withContext prefixes the message of a parse error, keeping its code and
// cause.
func withContext(err error, format string, args ...any) error {
	var e *errs.Error
	if !errors.As(err, &e) {
		return errs.Wrap(errs.ErrCodeInternal, err, format, args...)
	}
	return &errs.Error{
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...) + ": " + e.Message,
		Cause:   e.Cause,
	}
}
