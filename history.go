package tform

import "github.com/google/btree"

const btreeDegree = 32

// sampleKind classifies the result of [TransformHistory.at].
type sampleKind uint8

const (
	sampleEmpty sampleKind = iota
	sampleExact
	sampleBefore
	sampleAfter
	sampleBracket
)

// sampleResult is the outcome of a [TransformHistory.at] query: exactly
// one of empty, exact, before, after, or bracket.
type sampleResult struct {
	kind sampleKind
	s    StampedIsometry // valid for sampleExact
	a, b StampedIsometry // valid for sampleBracket: stamp(a) <= t <= stamp(b)
}

func stampLess(a, b StampedIsometry) bool {
	return a.Stamp < b.Stamp
}

// TransformHistory is the per-edge ordered, bounded sequence of
// [StampedIsometry]. A Static edge stores a single sample rewritten in
// place; a Dynamic edge stores samples ordered by timestamp in a
// [btree.BTreeG], giving O(log n) insert and bracketing lookup.
type TransformHistory struct {
	kind     TransformKind
	maxAge   int64
	maxCount int

	hasStatic bool
	static    StampedIsometry

	tree *btree.BTreeG[StampedIsometry]

	// onTrim, if non-nil, is called once per enforceRetention pass that
	// actually dropped at least one sample, so the owning [frameGraph] can
	// surface it through the optional logger/[MetricsRecorder].
	onTrim func()
}

func newTransformHistory(kind TransformKind, maxAge int64, maxCount int, onTrim func()) *TransformHistory {
	h := &TransformHistory{kind: kind, maxAge: maxAge, maxCount: maxCount, onTrim: onTrim}
	if kind == Dynamic {
		h.tree = btree.NewG(btreeDegree, stampLess)
	}
	return h
}

// insert records s, overwriting any existing sample at the same stamp,
// then enforces retention. For a Static history the single slot is
// unconditionally overwritten.
func (h *TransformHistory) insert(s StampedIsometry) {
	if h.kind == Static {
		h.static = s
		h.hasStatic = true
		return
	}

	h.tree.ReplaceOrInsert(s)
	h.enforceRetention()
}

// enforceRetention drops samples older than newest-maxAge, then (if still
// over cap) drops the oldest until within maxCount. maxAge <= 0 or
// maxCount <= 0 disables the respective bound.
func (h *TransformHistory) enforceRetention() {
	newest, ok := h.tree.Max()
	if !ok {
		return
	}

	trimmed := false

	if h.maxAge > 0 {
		floor := newest.Stamp - h.maxAge
		for {
			oldest, ok := h.tree.Min()
			if !ok || oldest.Stamp >= floor {
				break
			}
			h.tree.DeleteMin()
			trimmed = true
		}
	}

	if h.maxCount > 0 {
		for h.tree.Len() > h.maxCount {
			h.tree.DeleteMin()
			trimmed = true
		}
	}

	if trimmed && h.onTrim != nil {
		h.onTrim()
	}
}

// at resolves the sample or bracketing pair at timestamp t.
func (h *TransformHistory) at(t int64) sampleResult {
	if h.kind == Static {
		if !h.hasStatic {
			return sampleResult{kind: sampleEmpty}
		}
		return sampleResult{kind: sampleExact, s: h.static}
	}

	if h.tree.Len() == 0 {
		return sampleResult{kind: sampleEmpty}
	}

	oldest, _ := h.tree.Min()
	newest, _ := h.tree.Max()

	if t < oldest.Stamp {
		return sampleResult{kind: sampleBefore}
	}
	if t > newest.Stamp {
		return sampleResult{kind: sampleAfter}
	}
	if exact, ok := h.tree.Get(StampedIsometry{Stamp: t}); ok {
		return sampleResult{kind: sampleExact, s: exact}
	}

	var floor, ceil StampedIsometry
	h.tree.DescendLessOrEqual(StampedIsometry{Stamp: t}, func(item StampedIsometry) bool {
		floor = item
		return false
	})
	h.tree.AscendGreaterOrEqual(StampedIsometry{Stamp: t}, func(item StampedIsometry) bool {
		ceil = item
		return false
	})
	return sampleResult{kind: sampleBracket, a: floor, b: ceil}
}

// latest returns the newest sample, or false if the history is empty.
func (h *TransformHistory) latest() (StampedIsometry, bool) {
	if h.kind == Static {
		return h.static, h.hasStatic
	}
	return h.tree.Max()
}

func (h *TransformHistory) empty() bool {
	if h.kind == Static {
		return !h.hasStatic
	}
	return h.tree.Len() == 0
}

func (h *TransformHistory) count() int {
	if h.kind == Static {
		if h.hasStatic {
			return 1
		}
		return 0
	}
	return h.tree.Len()
}

// bounds returns the oldest and newest stamps currently retained, or false
// if the history is empty. Used by [BufferTree.Stats].
func (h *TransformHistory) bounds() (oldest, newest int64, ok bool) {
	if h.kind == Static {
		if !h.hasStatic {
			return 0, 0, false
		}
		return h.static.Stamp, h.static.Stamp, true
	}
	o, ok1 := h.tree.Min()
	n, ok2 := h.tree.Max()
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return o.Stamp, n.Stamp, true
}
