package tform

// MetricsRecorder is an optional ambient observability capability,
// supplied by the caller, nil-safe, defaulting to a no-op. A
// Prometheus-backed implementation lives in the sibling promrecorder
// package.
type MetricsRecorder interface {
	// UpdateResult is called once per [BufferTree.Update] call with the
	// resulting error (nil on success).
	UpdateResult(err error)
	// LookupResult is called once per lookup call (latest or timed) with
	// the method name and the resulting error (nil on success).
	LookupResult(method string, err error)
	// ObserverDrop is called once per event dropped from a full observer backlog.
	ObserverDrop()
	// HistoryTrim is called once per retention pass that actually dropped samples.
	HistoryTrim(kind TransformKind)
}
