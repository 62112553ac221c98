package dot_test

import (
	"fmt"

	"github.com/matzehuels/dotlayout/pkg/dot"
)

func ExampleParse() {
	src := `digraph G {
	graph [bb="0,0,54,108"];
	node [label="\N", shape=box];
	a [height=0.5, pos="27,90", width=0.75];
	b [height=0.5, pos="27,18", width=0.75];
	a -> b [pos="e,27,36.104 27,71.697 27,63.983 27,54.712 27,46.112"];
}
`
	g, err := dot.Parse(src)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	bb, _ := g.BoundingBox()
	fmt.Printf("bb %.0fx%.0f\n", bb.Width(), bb.Height())
	for _, id := range g.NodeIDs() {
		n := g.Nodes[id]
		shape, _ := n.Attrs.String("shape")
		fmt.Printf("node %s at %v (%s)\n", n.Label(), n.Pos(), shape)
	}
	for _, e := range g.Edges {
		arrow, _ := e.EndArrow()
		fmt.Printf("edge %s -> %s: %d points, arrow at %v\n", e.Start, e.Stop, len(e.Pos()), arrow)
	}
	// Output:
	// bb 54x108
	// node a at {27 90} (box)
	// node b at {27 18} (box)
	// edge a -> b: 4 points, arrow at {27 36.104}
}

func ExampleCoerce() {
	attrs, _ := dot.Coerce("pos", "e,10,20 1,2 3,4")
	for _, a := range attrs {
		fmt.Printf("%s=%s (%s)\n", a.Key, a.Value.Raw(), a.Value.Kind)
	}
	// Output:
	// endArrow=10,20 (point)
	// pos=1,2 3,4 (points)
}
