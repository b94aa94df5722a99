package tform

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// Cause distinguishes a freshly-registered observer's replay from a live update.
type Cause uint8

const (
	// Update is posted for a successful [BufferTree.Update] call.
	Update Cause = iota
	// Snapshot is posted once per existing edge immediately after
	// [BufferTree.RegisterObserver].
	Snapshot
)

func (c Cause) String() string {
	if c == Snapshot {
		return "snapshot"
	}
	return "update"
}

// Event is the payload delivered to an [Observer]: one per edge update, or
// one per existing edge on registration.
type Event struct {
	From, To string
	Stamped  StampedIsometry
	Kind     TransformKind
	Cause    Cause
}

// Observer is the single-method notification capability registered
// callers implement to receive buffer events.
type Observer interface {
	Notify(e Event)
}

// ObserverFunc adapts a plain function to an [Observer].
type ObserverFunc func(e Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) {
	f(e)
}

// observerHandle is the writer-side bookkeeping for one registered
// observer: a bounded ring channel drained by its own goroutine, so a
// slow [Observer.Notify] can never stall a writer. Delivery is
// best-effort FIFO; a full backlog drops the oldest pending event to
// make room for the newest, and the drop is counted for
// [BufferTree.Stats] and the optional metrics recorder.
type observerHandle struct {
	obs     Observer
	ch      chan Event
	done    chan struct{}
	drops   int64
	logger  *slog.Logger
	metrics MetricsRecorder

	// postMu serializes concurrent posters: dispatch happens after a
	// writer releases BufferTree's lock, so two updates' dispatch phases
	// can legitimately overlap for the same observer.
	postMu sync.Mutex
}

func newObserverHandle(obs Observer, backlog int, logger *slog.Logger, metrics MetricsRecorder) *observerHandle {
	if backlog <= 0 {
		backlog = defaultObserverBacklog
	}
	h := &observerHandle{
		obs:     obs,
		ch:      make(chan Event, backlog),
		done:    make(chan struct{}),
		logger:  logger,
		metrics: metrics,
	}
	go h.run()
	return h
}

func (h *observerHandle) run() {
	for e := range h.ch {
		h.obs.Notify(e)
	}
	close(h.done)
}

// post enqueues e, dropping the oldest pending event on overflow. Must be
// called without holding the BufferTree lock.
func (h *observerHandle) post(e Event) {
	h.postMu.Lock()
	defer h.postMu.Unlock()

	select {
	case h.ch <- e:
		return
	default:
	}

	// Backlog full: drop the oldest to make room for e.
	select {
	case <-h.ch:
		atomic.AddInt64(&h.drops, 1)
		if h.metrics != nil {
			h.metrics.ObserverDrop()
		}
		if h.logger != nil {
			h.logger.Warn("observer backlog full, dropping oldest event", slog.String("from", e.From), slog.String("to", e.To))
		}
	default:
	}

	select {
	case h.ch <- e:
	default:
		atomic.AddInt64(&h.drops, 1)
		if h.metrics != nil {
			h.metrics.ObserverDrop()
		}
	}
}

func (h *observerHandle) stop() {
	close(h.ch)
	<-h.done
}

func (h *observerHandle) droppedCount() int64 {
	return atomic.LoadInt64(&h.drops)
}
