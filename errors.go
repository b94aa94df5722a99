package tform

import (
	"errors"
	"fmt"
)

// Sentinel errors covering the rejection taxonomy. Callers should
// compare against these with [errors.Is]; the structured types below
// ([FrameError], [PathError]) wrap them and carry the offending frame
// names for callers that want more than a sentinel via [errors.As].
var (
	// ErrUnknownFrame is returned when a frame name has never been interned.
	ErrUnknownFrame = errors.New("tform: unknown frame")
	// ErrSameFrame is returned when update's from and to name the same frame.
	ErrSameFrame = errors.New("tform: from and to are the same frame")
	// ErrWouldCycle is returned when the proposed parent is already a descendant of the proposed child.
	ErrWouldCycle = errors.New("tform: update would introduce a cycle")
	// ErrMultipleParents is returned when the proposed child already has a different parent.
	ErrMultipleParents = errors.New("tform: child already has a different parent")
	// ErrKindMismatch is returned when an existing edge's kind differs from the update's kind.
	ErrKindMismatch = errors.New("tform: transform kind mismatch")
	// ErrInvalidRotation is returned when a quaternion's norm is out of tolerance and unrecoverable.
	ErrInvalidRotation = errors.New("tform: invalid rotation")
	// ErrNotConnected is returned when no path exists between two frames.
	ErrNotConnected = errors.New("tform: frames are not connected")
	// ErrNoData is returned when a path exists but a dynamic edge on it has an empty history.
	ErrNoData = errors.New("tform: no data on path")
	// ErrExtrapolationPast is returned when the requested time precedes an edge's oldest sample.
	ErrExtrapolationPast = errors.New("tform: requested time precedes stored history")
	// ErrExtrapolationFuture is returned when the requested time follows an edge's newest sample.
	ErrExtrapolationFuture = errors.New("tform: requested time follows stored history")
)

// FrameError wraps [ErrUnknownFrame] with the offending frame name.
type FrameError struct {
	Frame string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("tform: unknown frame %q", e.Frame)
}

// Unwrap returns the sentinel value [ErrUnknownFrame].
func (e *FrameError) Unwrap() error {
	return ErrUnknownFrame
}

// PathError wraps a connectivity or data error ([ErrNotConnected] or
// [ErrNoData]) with the pair of frames the caller asked to relate.
type PathError struct {
	From, To string
	// Sentinel is either [ErrNotConnected] or [ErrNoData].
	Sentinel error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("tform: %s -> %s: %v", e.From, e.To, e.Sentinel)
}

// Unwrap returns the wrapped sentinel.
func (e *PathError) Unwrap() error {
	return e.Sentinel
}

// EdgeError wraps an update rejection ([ErrSameFrame], [ErrWouldCycle],
// [ErrMultipleParents], [ErrKindMismatch] or [ErrInvalidRotation])
// encountered while processing an update between the named frames.
type EdgeError struct {
	From, To string
	Sentinel error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("tform: update %s -> %s: %v", e.From, e.To, e.Sentinel)
}

// Unwrap returns the wrapped sentinel.
func (e *EdgeError) Unwrap() error {
	return e.Sentinel
}

// ExtrapolationError wraps [ErrExtrapolationPast] or [ErrExtrapolationFuture]
// with the requested time and the edge's bound that was violated.
type ExtrapolationError struct {
	From, To  string
	Requested int64
	Bound     int64
	Sentinel  error
}

func (e *ExtrapolationError) Error() string {
	return fmt.Sprintf("tform: %s -> %s: requested t=%d, bound=%d: %v", e.From, e.To, e.Requested, e.Bound, e.Sentinel)
}

// Unwrap returns the wrapped sentinel.
func (e *ExtrapolationError) Unwrap() error {
	return e.Sentinel
}
