package profiling

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Tracker accumulates per-tick durations by name. The world owns one; it is
// safe for concurrent Track calls.
type Tracker struct {
	mu     sync.Mutex
	totals map[string]time.Duration
}

func NewTracker() *Tracker {
	return &Tracker{totals: make(map[string]time.Duration)}
}

// Track returns a stop function that records the elapsed time under name.
// Usage: defer tracker.Track("world.GenerateChunks")()
func (t *Tracker) Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		t.mu.Lock()
		t.totals[name] += d
		t.mu.Unlock()
	}
}

// Reset clears the totals. Call at the start of each tick.
func (t *Tracker) Reset() {
	t.mu.Lock()
	clear(t.totals)
	t.mu.Unlock()
}

// Snapshot returns a copy of the current totals.
func (t *Tracker) Snapshot() map[string]time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]time.Duration, len(t.totals))
	for k, v := range t.totals {
		out[k] = v
	}
	return out
}

// TopN formats the n largest totals, for example
// "world.GenerateChunks:4.2ms, world.IntegrateCompleted:0.3ms".
func (t *Tracker) TopN(n int) string {
	ss := t.Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		parts = append(parts, list[i].name+":"+formatMs(list[i].dur))
	}
	return strings.Join(parts, ", ")
}

// one decimal, trailing .0 dropped
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	return strconv.FormatFloat(float64(int64(ms*10+1e-6))/10, 'f', -1, 64) + "ms"
}
