package tform

import "log/slog"

// TransformKind distinguishes a time-invariant edge from a time-varying
// one.
type TransformKind uint8

const (
	// Static edges are time-invariant: a single sample, overwritten on update.
	Static TransformKind = iota
	// Dynamic edges are time-varying: a bounded, timestamp-ordered history, interpolated on lookup.
	Dynamic
)

func (k TransformKind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// edge is a directed parent->child link carrying a kind and history. The
// stored direction is the sample's direction; the path engine inverts
// on demand when a path traverses an edge against its stored direction.
type edge struct {
	parent, child frameID
	kind          TransformKind
	history       *TransformHistory
}

type edgeKey struct {
	parent, child frameID
}

// frameGraph owns the node/edge arena and the ancestor cache: nodes and
// edges are addressed by integer id through a companion arena, never by
// pointer, so traversal never needs cyclic borrows.
type frameGraph struct {
	frames *frameTable

	edges    map[edgeKey]*edge
	edgeList []*edge // insertion order, for deterministic iteration/visualize

	parent   []frameID   // parent[id] == noFrame for a root
	children [][]frameID // children[id] == direct children of id, insertion order
	ancestor []map[frameID]bool

	maxHistoryAge        int64
	maxHistoryCount      int
	rejectOnKindMismatch bool

	logger  *slog.Logger
	metrics MetricsRecorder
}

func newFrameGraph(maxHistoryAge int64, maxHistoryCount int, rejectOnKindMismatch bool, logger *slog.Logger, metrics MetricsRecorder) *frameGraph {
	return &frameGraph{
		frames:               newFrameTable(),
		edges:                make(map[edgeKey]*edge),
		maxHistoryAge:        maxHistoryAge,
		maxHistoryCount:      maxHistoryCount,
		rejectOnKindMismatch: rejectOnKindMismatch,
		logger:               logger,
		metrics:              metrics,
	}
}

// intern interns name, growing the per-node slices that track parentage
// and the ancestor cache.
func (g *frameGraph) intern(name string) frameID {
	before := g.frames.count()
	id := g.frames.intern(name)
	if int(id) >= before {
		g.parent = append(g.parent, noFrame)
		g.children = append(g.children, nil)
		g.ancestor = append(g.ancestor, map[frameID]bool{})
	}
	return id
}

func (g *frameGraph) lookupName(name string) (frameID, bool) {
	return g.frames.lookup(name)
}

func (g *frameGraph) name(id frameID) string {
	return g.frames.name(id)
}

func (g *frameGraph) findEdge(from, to frameID) *edge {
	return g.edges[edgeKey{parent: from, child: to}]
}

func (g *frameGraph) parentOf(id frameID) (frameID, bool) {
	p := g.parent[id]
	return p, p != noFrame
}

// isAncestor reports whether candidate is in the ancestor set of id: the
// cache always equals the reachable-by-parent-edges set.
func (g *frameGraph) isAncestor(candidate, id frameID) bool {
	return g.ancestor[id][candidate]
}

// insertOrUpdateEdge inserts a new parent->child edge or appends a
// sample to an existing one, enforcing the tree invariants: a child may
// have at most one parent, and an edge may not close a cycle.
func (g *frameGraph) insertOrUpdateEdge(parentID, childID frameID, kind TransformKind, sample StampedIsometry) (*edge, error) {
	if parentID == childID {
		return nil, ErrSameFrame
	}

	if e := g.findEdge(parentID, childID); e != nil {
		if e.kind != kind && g.rejectOnKindMismatch {
			return nil, ErrKindMismatch
		}
		e.history.insert(sample)
		return e, nil
	}

	// A child with a different existing parent cannot gain a second one;
	// re-parenting is rejected outright rather than replacing the edge.
	if _, has := g.parentOf(childID); has {
		return nil, ErrMultipleParents
	}

	// Cycle guard: parentID must not already be reachable by walking down
	// from childID, i.e. childID must not already be an ancestor of
	// parentID. For example, inserting a->b then b->a is rejected because
	// a is already an ancestor of b.
	if g.isAncestor(childID, parentID) {
		return nil, ErrWouldCycle
	}

	e := &edge{parent: parentID, child: childID, kind: kind}
	e.history = newTransformHistory(kind, g.maxHistoryAge, g.maxHistoryCount, func() { g.onHistoryTrim(kind) })
	e.history.insert(sample)

	g.edges[edgeKey{parent: parentID, child: childID}] = e
	g.edgeList = append(g.edgeList, e)
	g.parent[childID] = parentID
	g.children[parentID] = append(g.children[parentID], childID)

	newAncestors := make(map[frameID]bool, len(g.ancestor[parentID])+1)
	for a := range g.ancestor[parentID] {
		newAncestors[a] = true
	}
	newAncestors[parentID] = true
	g.propagateAncestors(childID, newAncestors)

	return e, nil
}

// propagateAncestors unions add into node's ancestor set and every
// descendant's.
func (g *frameGraph) propagateAncestors(node frameID, add map[frameID]bool) {
	set := g.ancestor[node]
	for a := range add {
		set[a] = true
	}
	for _, child := range g.children[node] {
		g.propagateAncestors(child, add)
	}
}

// onHistoryTrim reports a retention pass that dropped samples to the
// optional logger/[MetricsRecorder].
func (g *frameGraph) onHistoryTrim(kind TransformKind) {
	if g.metrics != nil {
		g.metrics.HistoryTrim(kind)
	}
	if g.logger != nil {
		g.logger.Debug("history trimmed", slog.String("kind", kind.String()))
	}
}

// frameCount returns the number of interned frames.
func (g *frameGraph) frameCount() int {
	return g.frames.count()
}

func (g *frameGraph) edgeCount() int {
	return len(g.edgeList)
}
