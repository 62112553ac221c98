package dot

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Attribute keys with a fixed meaning in laid-out graphs.
const (
	AttrPos        = "pos"
	AttrLabel      = "label"
	AttrBB         = "bb"
	AttrLP         = "lp"
	AttrSize       = "size"
	AttrWidth      = "width"
	AttrHeight     = "height"
	AttrEndArrow   = "endArrow"
	AttrStartArrow = "startArrow"
)

// Edge endpoint keys used in the JSON encoding of an [Edge].
const (
	keyStart = "start"
	keyStop  = "stop"
	keyNodes = "nodes"
	keyEdges = "edges"
)

// Attrs maps attribute names to typed values.
type Attrs map[string]Value

// Clone returns a shallow copy of a. Point sequences are shared; values are
// never mutated after parsing.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	maps.Copy(out, a)
	return out
}

// Merge copies every entry of src into a, overwriting existing keys.
func (a Attrs) Merge(src Attrs) {
	maps.Copy(a, src)
}

// String returns the string value stored under key.
func (a Attrs) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok || v.Kind != KindString {
		return "", false
	}
	return v.Str, true
}

// Number returns the numeric value stored under key.
func (a Attrs) Number(key string) (float64, bool) {
	v, ok := a[key]
	if !ok || v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// Point returns the point stored under key.
func (a Attrs) Point(key string) (Point, bool) {
	v, ok := a[key]
	if !ok || v.Kind != KindPoint {
		return Point{}, false
	}
	return v.Pt, true
}

// Rect returns the rectangle stored under key.
func (a Attrs) Rect(key string) (Rect, bool) {
	v, ok := a[key]
	if !ok || v.Kind != KindRect {
		return Rect{}, false
	}
	return v.Rect, true
}

// Points returns the point sequence stored under key.
func (a Attrs) Points(key string) ([]Point, bool) {
	v, ok := a[key]
	if !ok || v.Kind != KindPoints {
		return nil, false
	}
	return v.Points, true
}

// Graph is a laid-out graph: graph-level attributes, nodes keyed by ID and
// edges in source order.
type Graph struct {
	Attrs Attrs
	Nodes map[string]*Node
	Edges []*Edge
}

// Node is a positioned node. Its pos attribute always holds a single point.
type Node struct {
	ID    string
	Attrs Attrs
}

// Edge is a directed edge between two node IDs. The endpoints need not be
// declared as nodes.
type Edge struct {
	Start string
	Stop  string
	Attrs Attrs
}

func newGraph() *Graph {
	return &Graph{
		Attrs: Attrs{},
		Nodes: map[string]*Node{},
	}
}

// NodeIDs returns the node IDs in sorted order.
func (g *Graph) NodeIDs() []string {
	return slices.Sorted(maps.Keys(g.Nodes))
}

// BoundingBox returns the graph's bb attribute.
func (g *Graph) BoundingBox() (Rect, bool) {
	return g.Attrs.Rect(AttrBB)
}

// Pos returns the node position.
func (n *Node) Pos() Point {
	p, _ := n.Attrs.Point(AttrPos)
	return p
}

// Label returns the node label, falling back to the node ID.
func (n *Node) Label() string {
	if l, ok := n.Attrs.String(AttrLabel); ok && l != `\N` {
		return l
	}
	return n.ID
}

// Pos returns the spline control points of the edge.
func (e *Edge) Pos() []Point {
	ps, _ := e.Attrs.Points(AttrPos)
	return ps
}

// EndArrow returns the arrowhead target point, if the edge has one.
func (e *Edge) EndArrow() (Point, bool) {
	return e.Attrs.Point(AttrEndArrow)
}

// StartArrow returns the arrowtail target point, if the edge has one.
func (e *Edge) StartArrow() (Point, bool) {
	return e.Attrs.Point(AttrStartArrow)
}

// =============================================================================
// JSON
// =============================================================================

// MarshalJSON encodes the graph with its attributes at the top level next to
// "nodes" (an object keyed by node ID) and "edges" (an array). Keys are
// emitted in sorted order, so equal graphs encode to equal bytes.
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(g.Attrs)+2)
	for k, v := range g.Attrs {
		out[k] = v
	}
	nodes := make(map[string]Attrs, len(g.Nodes))
	for id, n := range g.Nodes {
		nodes[id] = n.Attrs
	}
	edges := g.Edges
	if edges == nil {
		edges = []*Edge{}
	}
	out[keyNodes] = nodes
	out[keyEdges] = edges
	return json.Marshal(out)
}

// UnmarshalJSON restores a graph from the encoding produced by MarshalJSON.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := newGraph()
	if nodes, ok := raw[keyNodes]; ok {
		var m map[string]Attrs
		if err := json.Unmarshal(nodes, &m); err != nil {
			return fmt.Errorf("decode nodes: %w", err)
		}
		for id, attrs := range m {
			if attrs == nil {
				attrs = Attrs{}
			}
			out.Nodes[id] = &Node{ID: id, Attrs: attrs}
		}
		delete(raw, keyNodes)
	}
	if edges, ok := raw[keyEdges]; ok {
		if err := json.Unmarshal(edges, &out.Edges); err != nil {
			return fmt.Errorf("decode edges: %w", err)
		}
		delete(raw, keyEdges)
	}
	for k, msg := range raw {
		var v Value
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("decode attribute %s: %w", k, err)
		}
		out.Attrs[k] = v
	}

	*g = *out
	return nil
}

// MarshalJSON encodes the edge as its attribute map plus "start" and "stop".
func (e *Edge) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Attrs)+2)
	for k, v := range e.Attrs {
		out[k] = v
	}
	out[keyStart] = e.Start
	out[keyStop] = e.Stop
	return json.Marshal(out)
}

// UnmarshalJSON restores an edge from the encoding produced by MarshalJSON.
func (e *Edge) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := Edge{Attrs: Attrs{}}
	for k, msg := range raw {
		switch k {
		case keyStart:
			if err := json.Unmarshal(msg, &out.Start); err != nil {
				return fmt.Errorf("decode start: %w", err)
			}
		case keyStop:
			if err := json.Unmarshal(msg, &out.Stop); err != nil {
				return fmt.Errorf("decode stop: %w", err)
			}
		default:
			var v Value
			if err := json.Unmarshal(msg, &v); err != nil {
				return fmt.Errorf("decode attribute %s: %w", k, err)
			}
			out.Attrs[k] = v
		}
	}

	*e = out
	return nil
}
