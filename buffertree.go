package tform

import (
	"io"
	"iter"
	"log/slog"
	"math"
	"sync"

	"github.com/go-tform/tform/internal/iterutil"
)

// BufferTree is the public facade: a directed tree of named frames, each
// edge carrying a bounded timestamped history, guarded by a
// single-writer/many-reader discipline. It is the sole exported entry
// point; [frameGraph], [TransformHistory] and the path engine are
// internal collaborators reachable only through it.
type BufferTree struct {
	mu sync.RWMutex

	graph *frameGraph

	quaternionTolerance float64
	logger              *slog.Logger
	metrics             MetricsRecorder
	observerBacklog     int

	// observers is guarded by mu; insertion order is the notification
	// order, and Unregister removes entries.
	observers []*observerHandle
}

// New constructs an empty BufferTree. See [Option] for configuration
// knobs.
func New(opts ...Option) *BufferTree {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &BufferTree{
		graph:               newFrameGraph(cfg.maxHistoryAgeNs, cfg.maxHistoryCount, cfg.rejectOnKindMismatch, logger, cfg.metrics),
		quaternionTolerance: cfg.quaternionTolerance,
		logger:              logger,
		metrics:             cfg.metrics,
		observerBacklog:     cfg.observerBacklog,
	}
}

// Update validates and records one sample on the from->to edge. On
// success, every registered observer is notified with an Update event
// after the lock is released. A failing update leaves the buffer
// entirely unchanged.
func (b *BufferTree) Update(from, to string, stamped StampedIsometry, kind TransformKind) error {
	b.mu.Lock()

	if from == to {
		b.mu.Unlock()
		b.recordUpdate(ErrSameFrame)
		return &EdgeError{From: from, To: to, Sentinel: ErrSameFrame}
	}

	q, err := b.validateRotation(stamped.Rotation)
	if err != nil {
		b.mu.Unlock()
		b.recordUpdate(err)
		return &EdgeError{From: from, To: to, Sentinel: err}
	}
	stamped.Rotation = q

	// A frame not seen before can only fail here as a second parent of an
	// existing child; reject that before interning anything.
	if _, known := b.graph.lookupName(from); !known {
		if toID, ok := b.graph.lookupName(to); ok {
			if _, has := b.graph.parentOf(toID); has {
				b.mu.Unlock()
				b.logger.Debug("update rejected", slog.String("from", from), slog.String("to", to), slog.Any("error", ErrMultipleParents))
				b.recordUpdate(ErrMultipleParents)
				return &EdgeError{From: from, To: to, Sentinel: ErrMultipleParents}
			}
		}
	}

	fromID := b.graph.intern(from)
	toID := b.graph.intern(to)

	e, err := b.graph.insertOrUpdateEdge(fromID, toID, kind, stamped)
	if err != nil {
		b.mu.Unlock()
		b.logger.Debug("update rejected", slog.String("from", from), slog.String("to", to), slog.Any("error", err))
		b.recordUpdate(err)
		return &EdgeError{From: from, To: to, Sentinel: err}
	}

	event := Event{From: from, To: to, Stamped: stamped, Kind: e.kind, Cause: Update}
	handles := append([]*observerHandle(nil), b.observers...)
	b.mu.Unlock()

	for _, h := range handles {
		h.post(event)
	}

	b.recordUpdate(nil)
	return nil
}

// LookupLatestTransform composes the isometry from from to to using each
// path edge's most recent sample. The result stamp is the maximum stamp
// over Dynamic edges used, or 0 if the path is entirely Static.
func (b *BufferTree) LookupLatestTransform(from, to string) (StampedIsometry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result, err := b.lookup(from, to, 0, true)
	b.recordLookup("lookup_latest_transform", err)
	return result, err
}

// LookupTransform composes the isometry from from to to at the
// requested time t, interpolating across Dynamic edges and erroring on
// extrapolation past the stored window.
func (b *BufferTree) LookupTransform(from, to string, t int64) (StampedIsometry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result, err := b.lookup(from, to, t, false)
	b.recordLookup("lookup_transform", err)
	return result, err
}

func (b *BufferTree) lookup(from, to string, t int64, forLatest bool) (StampedIsometry, error) {
	fromID, ok := b.graph.lookupName(from)
	if !ok {
		return StampedIsometry{}, &FrameError{Frame: from}
	}
	toID, ok := b.graph.lookupName(to)
	if !ok {
		return StampedIsometry{}, &FrameError{Frame: to}
	}

	// A frame composed with itself is always the identity, no path needed.
	if fromID == toID {
		stamp := t
		if forLatest {
			stamp = 0
		}
		return stampedFrom(IdentityIsometry, stamp), nil
	}

	steps, err := findPath(b.graph, fromID, toID)
	if err != nil {
		return StampedIsometry{}, &PathError{From: from, To: to, Sentinel: err}
	}

	iso, stamp, err := composePath(steps, t, forLatest)
	if err != nil {
		switch err {
		case ErrNoData, ErrNotConnected:
			return StampedIsometry{}, &PathError{From: from, To: to, Sentinel: err}
		case ErrExtrapolationPast, ErrExtrapolationFuture:
			bound, _ := extrapolationBound(steps, t, err)
			return StampedIsometry{}, &ExtrapolationError{From: from, To: to, Requested: t, Bound: bound, Sentinel: err}
		default:
			return StampedIsometry{}, err
		}
	}

	return stampedFrom(iso, stamp), nil
}

// extrapolationBound finds the violated bound (oldest stamp for
// ExtrapolationPast, newest for ExtrapolationFuture) among the path's
// Dynamic edges, for the diagnostic carried on [ExtrapolationError].
func extrapolationBound(steps []pathStep, t int64, which error) (int64, bool) {
	for _, step := range steps {
		if step.e.history.kind != Dynamic {
			continue
		}
		oldest, newest, ok := step.e.history.bounds()
		if !ok {
			continue
		}
		if which == ErrExtrapolationPast && t < oldest {
			return oldest, true
		}
		if which == ErrExtrapolationFuture && t > newest {
			return newest, true
		}
	}
	return 0, false
}

// validateRotation applies the quaternion ingest policy: a norm within
// [WithQuaternionTolerance] of 1 is renormalized; otherwise the sample
// is rejected with [ErrInvalidRotation].
func (b *BufferTree) validateRotation(q Quaternion) (Quaternion, error) {
	n := q.norm()
	if math.Abs(n-1) > b.quaternionTolerance {
		return Quaternion{}, ErrInvalidRotation
	}
	return q.Normalized(), nil
}

// RegisterObserver adds o to the observer set and immediately replays one
// Snapshot event per existing edge, in edge insertion order. The
// snapshot is dispatched after the lock is released, same as live
// Update events, so a slow observer cannot stall other writers.
func (b *BufferTree) RegisterObserver(o Observer) {
	b.mu.Lock()

	h := newObserverHandle(o, b.observerBacklog, b.logger, b.metrics)
	b.observers = append(b.observers, h)

	snapshot := make([]Event, 0, len(b.graph.edgeList))
	for _, e := range b.graph.edgeList {
		latest, ok := e.history.latest()
		if !ok {
			continue
		}
		snapshot = append(snapshot, Event{
			From:    b.graph.name(e.parent),
			To:      b.graph.name(e.child),
			Stamped: latest,
			Kind:    e.kind,
			Cause:   Snapshot,
		})
	}

	b.mu.Unlock()

	for _, e := range snapshot {
		h.post(e)
	}
}

// Unregister stops o's dispatch goroutine and removes it from the
// observer set. o simply stops receiving further events, which is
// itself the only signal given.
func (b *BufferTree) Unregister(o Observer) {
	b.mu.Lock()
	var kept []*observerHandle
	var stopped *observerHandle
	for _, h := range b.observers {
		if h.obs == o && stopped == nil {
			stopped = h
			continue
		}
		kept = append(kept, h)
	}
	b.observers = kept
	b.mu.Unlock()

	if stopped != nil {
		stopped.stop()
	}
}

// Visualize renders the current frame graph as Graphviz DOT. See
// visualize.go.
func (b *BufferTree) Visualize() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return renderDOT(b.graph)
}

// Stats returns a point-in-time snapshot of buffer-wide counters. See
// stats.go.
func (b *BufferTree) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return snapshotStats(b.graph, b.observers)
}

// Frames enumerates every interned frame name, in interning order.
func (b *BufferTree) Frames() iter.Seq[string] {
	b.mu.RLock()
	names := append([]string(nil), b.graph.frames.byID...)
	b.mu.RUnlock()
	return iterutil.SeqOf(names...)
}

// Edges enumerates every (from, to) edge, in insertion order.
func (b *BufferTree) Edges() iter.Seq2[string, string] {
	b.mu.RLock()
	defer b.mu.RUnlock()

	type pair struct{ from, to string }
	pairs := make([]pair, 0, len(b.graph.edgeList))
	for _, e := range b.graph.edgeList {
		pairs = append(pairs, pair{from: b.graph.name(e.parent), to: b.graph.name(e.child)})
	}

	return func(yield func(string, string) bool) {
		for _, p := range pairs {
			if !yield(p.from, p.to) {
				return
			}
		}
	}
}

func (b *BufferTree) recordUpdate(err error) {
	if b.metrics != nil {
		b.metrics.UpdateResult(err)
	}
}

func (b *BufferTree) recordLookup(method string, err error) {
	if b.metrics != nil {
		b.metrics.LookupResult(method, err)
	}
}
