package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackerTopNOrdersByDuration(t *testing.T) {
	tr := NewTracker()
	tr.totals["small"] = 1500 * time.Microsecond
	tr.totals["large"] = 4200 * time.Microsecond
	tr.totals["medium"] = 2 * time.Millisecond

	got := tr.TopN(2)
	want := "large:4.2ms, medium:2ms"
	if got != want {
		t.Fatalf("TopN(2) = %q, want %q", got, want)
	}
	if all := tr.TopN(10); strings.Count(all, ",") != 2 {
		t.Errorf("TopN(10) = %q, want three entries", all)
	}
}

func TestTrackerResetAndTrack(t *testing.T) {
	tr := NewTracker()
	stop := tr.Track("tick")
	stop()
	if _, ok := tr.Snapshot()["tick"]; !ok {
		t.Fatal("Track did not record an entry")
	}
	tr.Reset()
	if n := len(tr.Snapshot()); n != 0 {
		t.Fatalf("after Reset snapshot has %d entries", n)
	}
	if s := tr.TopN(3); s != "" {
		t.Errorf("TopN on empty tracker = %q", s)
	}
}
