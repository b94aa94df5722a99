package tform

// pathStep is one edge on a from->to path, together with the direction it
// must be traversed in relative to its stored parent->child direction.
type pathStep struct {
	e       *edge
	forward bool // true: traversed parent->child (stored direction); false: child->parent (inverted)
}

// findPath computes the unique path from `from` to `to` through their
// lowest common ancestor. Returns ErrNotConnected if the two frames have
// no common ancestor (including themselves).
func findPath(g *frameGraph, from, to frameID) ([]pathStep, error) {
	if from == to {
		return nil, nil
	}

	fromChain := ancestorChain(g, from)
	toChain := ancestorChain(g, to)

	// Index fromChain by node for O(1) lowest-common-ancestor lookup
	// while walking toChain from `to` upward.
	fromIndex := make(map[frameID]int, len(fromChain))
	for i, n := range fromChain {
		fromIndex[n] = i
	}

	var lcaInFrom, lcaInTo int
	found := false
	for j, n := range toChain {
		if i, ok := fromIndex[n]; ok {
			lcaInFrom, lcaInTo = i, j
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotConnected
	}

	var steps []pathStep
	// from -> LCA: each edge between consecutive nodes in fromChain[0:lcaInFrom+1]
	// is traversed child->parent, i.e. inverted.
	for i := 0; i < lcaInFrom; i++ {
		child := fromChain[i]
		parent := fromChain[i+1]
		steps = append(steps, pathStep{e: g.findEdge(parent, child), forward: false})
	}
	// LCA -> to: walk toChain backward from the LCA down to `to`, each
	// edge traversed parent->child, i.e. forward.
	for j := lcaInTo - 1; j >= 0; j-- {
		child := toChain[j]
		parent := toChain[j+1]
		steps = append(steps, pathStep{e: g.findEdge(parent, child), forward: true})
	}

	return steps, nil
}

// ancestorChain returns [id, parent(id), parent(parent(id)), ..., root].
func ancestorChain(g *frameGraph, id frameID) []frameID {
	chain := []frameID{id}
	cur := id
	for {
		p, has := g.parentOf(cur)
		if !has {
			return chain
		}
		chain = append(chain, p)
		cur = p
	}
}

// sampleAt resolves one path step's isometry at time t: Static uses the
// stored sample unconditionally; Dynamic interpolates (or returns an
// extrapolation/no-data error). The returned stamp is this step's own:
// the latest sample's stamp for a Dynamic edge in latest mode, t for a
// Dynamic edge in timed mode, 0 for a Static edge; [composePath] takes
// the maximum over the path's Dynamic edges.
func sampleAt(step pathStep, t int64, forLatest bool) (Isometry, int64, error) {
	h := step.e.history

	var stamped StampedIsometry
	var stamp int64

	if h.kind == Static {
		s, ok := h.latest()
		if !ok {
			return Isometry{}, 0, ErrNoData
		}
		stamped = s
	} else if forLatest {
		s, ok := h.latest()
		if !ok {
			return Isometry{}, 0, ErrNoData
		}
		stamped = s
		stamp = s.Stamp
	} else {
		res := h.at(t)
		switch res.kind {
		case sampleEmpty:
			return Isometry{}, 0, ErrNoData
		case sampleBefore:
			return Isometry{}, 0, ErrExtrapolationPast
		case sampleAfter:
			return Isometry{}, 0, ErrExtrapolationFuture
		case sampleExact:
			stamped = res.s
		case sampleBracket:
			alpha := float64(t-res.a.Stamp) / float64(res.b.Stamp-res.a.Stamp)
			stamped = StampedIsometry{
				Translation: res.a.Translation.lerp(res.b.Translation, alpha),
				Rotation:    slerp(res.a.Rotation, res.b.Rotation, alpha),
				Stamp:       t,
			}
		}
		stamp = t
	}

	iso := stamped.isometry()
	if !step.forward {
		iso = iso.inverse()
	}
	return iso, stamp, nil
}

// composePath folds a path's per-step isometries left to right,
// returning the composed isometry and, for the latest-transform policy,
// the maximum stamp seen over any Dynamic edge used.
func composePath(steps []pathStep, t int64, forLatest bool) (Isometry, int64, error) {
	if len(steps) == 0 {
		if forLatest {
			return IdentityIsometry, 0, nil
		}
		return IdentityIsometry, t, nil
	}

	var maxStamp int64
	haveDynamic := false

	acc, stamp, err := sampleAt(steps[0], t, forLatest)
	if err != nil {
		return Isometry{}, 0, err
	}
	if steps[0].e.history.kind == Dynamic {
		maxStamp, haveDynamic = stamp, true
	}

	for _, step := range steps[1:] {
		next, stamp, err := sampleAt(step, t, forLatest)
		if err != nil {
			return Isometry{}, 0, err
		}
		acc = combine(acc, next)
		if step.e.history.kind == Dynamic && (!haveDynamic || stamp > maxStamp) {
			maxStamp, haveDynamic = stamp, true
		}
	}

	if !forLatest {
		return acc, t, nil
	}
	if !haveDynamic {
		return acc, 0, nil
	}
	return acc, maxStamp, nil
}
