package tform

// EdgeStats is a point-in-time snapshot of one edge's retained history.
type EdgeStats struct {
	From, To    string
	Kind        TransformKind
	SampleCount int
	OldestStamp int64
	NewestStamp int64
	HasSamples  bool
}

// Stats is a point-in-time diagnostic snapshot of a [BufferTree], taken
// under the same read-lock discipline as a lookup.
type Stats struct {
	FrameCount    int
	EdgeCount     int
	TotalSamples  int
	ObserverCount int
	ObserverDrops int64
	Edges         []EdgeStats
}

func snapshotStats(g *frameGraph, observers []*observerHandle) Stats {
	s := Stats{
		FrameCount:    g.frameCount(),
		EdgeCount:     g.edgeCount(),
		ObserverCount: len(observers),
		Edges:         make([]EdgeStats, 0, len(g.edgeList)),
	}

	for _, e := range g.edgeList {
		oldest, newest, ok := e.history.bounds()
		s.TotalSamples += e.history.count()
		s.Edges = append(s.Edges, EdgeStats{
			From:        g.name(e.parent),
			To:          g.name(e.child),
			Kind:        e.kind,
			SampleCount: e.history.count(),
			OldestStamp: oldest,
			NewestStamp: newest,
			HasSamples:  ok,
		})
	}

	for _, h := range observers {
		s.ObserverDrops += h.droppedCount()
	}

	return s
}
