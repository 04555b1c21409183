package main

import (
	"sync/atomic"
	"time"
)

type durationRing struct {
	buf   []time.Duration
	idx   int
	count int
}

func newDurationRing(n int) *durationRing {
	if n < 1 {
		n = 1
	}
	return &durationRing{buf: make([]time.Duration, n)}
}

func (r *durationRing) add(d time.Duration) {
	r.buf[r.idx] = d
	r.idx = (r.idx + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

type durationStats struct {
	last time.Duration
	max  time.Duration
	avg  time.Duration
	n    int
}

func (r *durationRing) snapshot() durationStats {
	if r.count == 0 {
		return durationStats{}
	}
	var sum, longest time.Duration
	for _, d := range r.buf[:r.count] {
		sum += d
		longest = max(longest, d)
	}
	lastIdx := r.idx - 1
	if lastIdx < 0 {
		lastIdx = len(r.buf) - 1
	}
	return durationStats{
		last: r.buf[lastIdx],
		max:  longest,
		avg:  sum / time.Duration(r.count),
		n:    r.count,
	}
}

// widgetMetrics counts the work done by the minimap and rail. Counters are
// always maintained because tests use them; the footer shows them on demand.
type widgetMetrics struct {
	rebins      atomic.Uint64
	syncs       atomic.Uint64
	navigations atomic.Uint64
	frames      atomic.Uint64

	render *durationRing
}

func newWidgetMetrics(window int) *widgetMetrics {
	return &widgetMetrics{render: newDurationRing(window)}
}

func (m *widgetMetrics) observeRebin()    { m.rebins.Add(1) }
func (m *widgetMetrics) observeSync()     { m.syncs.Add(1) }
func (m *widgetMetrics) observeNavigate() { m.navigations.Add(1) }
func (m *widgetMetrics) observeFrame()    { m.frames.Add(1) }

func (m *widgetMetrics) observeRender(d time.Duration) {
	m.render.add(d)
}

type metricsSnapshot struct {
	rebins      uint64
	syncs       uint64
	navigations uint64
	frames      uint64
	render      durationStats
}

func (m *widgetMetrics) snapshot() metricsSnapshot {
	return metricsSnapshot{
		rebins:      m.rebins.Load(),
		syncs:       m.syncs.Load(),
		navigations: m.navigations.Load(),
		frames:      m.frames.Load(),
		render:      m.render.snapshot(),
	}
}
