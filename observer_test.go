package tform

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestObserverHandleDropsOldestOnOverflow checks the bounded, best-effort,
// drop-oldest-on-overflow delivery policy.
func TestObserverHandleDropsOldestOnOverflow(t *testing.T) {
	release := make(chan struct{})
	var mu sync.Mutex
	var received []Event

	obs := ObserverFunc(func(e Event) {
		<-release // block the drain goroutine until the test is ready
		mu.Lock()
		received = append(received, e)
		mu.Unlock()
	})

	h := newObserverHandle(obs, 2, nil, nil)

	// First post is picked up immediately by run() and blocks on release,
	// so the channel itself only ever needs to hold the next two.
	h.post(Event{From: "a", To: "b", Stamped: sampleAtStamp(0)})
	h.post(Event{From: "a", To: "b", Stamped: sampleAtStamp(1)})
	h.post(Event{From: "a", To: "b", Stamped: sampleAtStamp(2)})
	h.post(Event{From: "a", To: "b", Stamped: sampleAtStamp(3)})

	assert.Greater(t, h.droppedCount(), int64(0))

	close(release)
	h.stop()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, received)
}

func TestObserverHandleStopReturnsAfterDrain(t *testing.T) {
	obs := ObserverFunc(func(Event) {})
	h := newObserverHandle(obs, 4, nil, nil)
	h.post(Event{})

	done := make(chan struct{})
	go func() {
		h.stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not return")
	}
}
