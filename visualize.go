package tform

import (
	"fmt"

	"github.com/emicklei/dot"
)

// renderDOT builds a Graphviz DOT representation of the frame graph: one
// node per interned frame, one labeled edge per parent->child link, in
// deterministic insertion order. Must be called with at least a read
// lock held.
func renderDOT(g *frameGraph) string {
	graph := dot.NewGraph(dot.Directed)

	nodes := make(map[frameID]dot.Node, g.frames.count())
	for id, name := range g.frames.byID {
		nodes[frameID(id)] = graph.Node(name)
	}

	for _, e := range g.edgeList {
		newest := int64(0)
		if latest, ok := e.history.latest(); ok {
			newest = latest.Stamp
		}
		label := fmt.Sprintf("%s, t=%d", e.kind, newest)
		graph.Edge(nodes[e.parent], nodes[e.child], label)
	}

	return graph.String()
}
