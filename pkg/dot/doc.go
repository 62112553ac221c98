// Package dot parses Graphviz layout output into typed graphs.
//
// # Overview
//
// Running dot with -Tdot re-emits the input graph with layout attributes
// filled in: node positions, the bounding box, label positions and edge
// splines. This package reads that annotated DOT back into a [Graph] whose
// attribute values are typed ([Value]) rather than strings, ready for a
// client to draw.
//
// # Usage
//
//	g, err := dot.Parse(annotated)
//	if err != nil {
//	    return err
//	}
//	for _, id := range g.NodeIDs() {
//	    fmt.Println(id, g.Nodes[id].Pos())
//	}
//
// Use [Options] for strict attribute-list checking:
//
//	g, err := dot.Options{Strict: true}.Parse(annotated)
//
// # Pipeline
//
// Parsing runs in four stages, each usable on its own:
//
//   - [Scanner] finds `<label> [<attrs>]` statements
//   - [Pairs] splits an attribute list into key=value pairs
//   - [Coerce] types each value by attribute name
//   - [Parse] classifies statements and assembles the graph
//
// # Attribute Types
//
//	pos          point sequence; a single point for nodes
//	bb           rect (llx,lly,urx,ury)
//	lp, size     point
//	width,height number
//	label        string with \" and \\ unescaped
//	others       string, verbatim
//
// An edge pos of the form "e,x,y p1 p2 ..." also yields an endArrow point,
// and an "s,x,y" prefix a startArrow point.
//
// # Limitations
//
// Only statements followed by a bracketed attribute list are seen; a bare
// "a -> b;" is ignored. Subgraphs, ports and HTML labels are not
// understood. Node defaults apply only to nodes declared after them.
//
// # Errors
//
// Every failure aborts the parse. Errors are *errors.Error values from
// pkg/errors with codes NUMBER_FORMAT, MALFORMED_SPLINE, DATA_INVARIANT or
// MALFORMED_STATEMENT (strict mode only).
//
// # Concurrency
//
// Parse keeps all state local to the call and is safe for concurrent use.
package dot
