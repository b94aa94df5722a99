package tform

import "log/slog"

const (
	defaultMaxHistoryAgeNs      int64 = 120_000_000_000 // 120s
	defaultMaxHistoryCount            = 0               // unbounded by count
	defaultQuaternionTolerance        = 1e-6
	defaultObserverBacklog            = 256
)

// Option configures a [BufferTree] at construction time.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) {
	f(c)
}

type config struct {
	maxHistoryAgeNs      int64
	maxHistoryCount      int
	rejectOnKindMismatch bool
	quaternionTolerance  float64
	observerBacklog      int
	logger               *slog.Logger
	metrics              MetricsRecorder
}

func defaultConfig() *config {
	return &config{
		maxHistoryAgeNs:      defaultMaxHistoryAgeNs,
		maxHistoryCount:      defaultMaxHistoryCount,
		rejectOnKindMismatch: true,
		quaternionTolerance:  defaultQuaternionTolerance,
		observerBacklog:      defaultObserverBacklog,
	}
}

// WithMaxHistoryAge bounds Dynamic history retention to the given
// duration relative to the newest sample on each edge. A non-positive
// value disables the age bound.
func WithMaxHistoryAge(ns int64) Option {
	return optionFunc(func(c *config) {
		c.maxHistoryAgeNs = ns
	})
}

// WithMaxHistoryCount bounds Dynamic history retention to at most n
// samples per edge. Zero or negative disables the count bound (the
// default).
func WithMaxHistoryCount(n int) Option {
	return optionFunc(func(c *config) {
		c.maxHistoryCount = n
	})
}

// WithRejectOnKindMismatch controls whether re-updating an existing edge
// with a different [TransformKind] is rejected with [ErrKindMismatch]
// (default true).
func WithRejectOnKindMismatch(reject bool) Option {
	return optionFunc(func(c *config) {
		c.rejectOnKindMismatch = reject
	})
}

// WithQuaternionTolerance sets how far a quaternion's norm may deviate
// from 1 and still be renormalized by [BufferTree.Update]; a larger
// deviation is rejected with [ErrInvalidRotation].
func WithQuaternionTolerance(tol float64) Option {
	return optionFunc(func(c *config) {
		c.quaternionTolerance = tol
	})
}

// WithObserverBacklog sets the per-observer bounded queue capacity: an
// observer that falls behind has its oldest pending event dropped to
// make room for the newest, rather than stalling the writer.
func WithObserverBacklog(n int) Option {
	return optionFunc(func(c *config) {
		c.observerBacklog = n
	})
}

// WithLogger attaches a [slog.Logger] for structured diagnostics
// (rejected updates, history trims, observer drops). Nil-safe: a nil
// logger leaves logging disabled.
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(c *config) {
		c.logger = logger
	})
}

// WithMetricsRecorder attaches an optional [MetricsRecorder]. The
// promrecorder subpackage provides a Prometheus-backed implementation.
// A nil recorder (the default) disables metrics entirely.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return optionFunc(func(c *config) {
		c.metrics = m
	})
}
