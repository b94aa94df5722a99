// Package promrecorder provides a Prometheus-backed implementation of
// tform.MetricsRecorder as a public sibling package.
package promrecorder

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-tform/tform"
)

// Recorder records BufferTree activity as Prometheus metrics. The zero
// value is not usable; construct with [New].
type Recorder struct {
	updates       *prometheus.CounterVec
	lookups       *prometheus.CounterVec
	observerDrops prometheus.Counter
	historyTrims  *prometheus.CounterVec
}

// New constructs a Recorder and registers its collectors with reg. Passing
// a nil reg registers against [prometheus.DefaultRegisterer].
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tform",
			Name:      "updates_total",
			Help:      "Total number of BufferTree.Update calls, partitioned by outcome.",
		}, []string{"outcome"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tform",
			Name:      "lookups_total",
			Help:      "Total number of lookup calls, partitioned by method and outcome.",
		}, []string{"method", "outcome"}),
		observerDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tform",
			Name:      "observer_drops_total",
			Help:      "Total number of observer events dropped due to a full backlog.",
		}),
		historyTrims: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tform",
			Name:      "history_trims_total",
			Help:      "Total number of retention passes that dropped at least one sample, partitioned by transform kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(r.updates, r.lookups, r.observerDrops, r.historyTrims)
	return r
}

// UpdateResult implements tform.MetricsRecorder.
func (r *Recorder) UpdateResult(err error) {
	r.updates.WithLabelValues(outcome(err)).Inc()
}

// LookupResult implements tform.MetricsRecorder.
func (r *Recorder) LookupResult(method string, err error) {
	r.lookups.WithLabelValues(method, outcome(err)).Inc()
}

// ObserverDrop implements tform.MetricsRecorder.
func (r *Recorder) ObserverDrop() {
	r.observerDrops.Inc()
}

// HistoryTrim implements tform.MetricsRecorder.
func (r *Recorder) HistoryTrim(kind tform.TransformKind) {
	r.historyTrims.WithLabelValues(kind.String()).Inc()
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
