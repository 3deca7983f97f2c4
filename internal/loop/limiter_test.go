package loop

import (
	"testing"
	"time"
)

// fakeClock advances only when the limiter sleeps or polls.
type fakeClock struct {
	t     time.Time
	slept time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Microsecond)
	return c.t
}

func (c *fakeClock) sleep(d time.Duration) {
	c.slept += d
	c.t = c.t.Add(d)
}

func newFake(fps int) (*Limiter, *fakeClock) {
	c := &fakeClock{t: time.Unix(1000, 0)}
	l := NewLimiter(fps)
	l.now, l.sleep = c.now, c.sleep
	return l, c
}

func TestLimiterPacesToInterval(t *testing.T) {
	l, c := newFake(50)
	start := c.t
	for i := 0; i < 10; i++ {
		l.Wait()
	}
	elapsed := c.t.Sub(start)
	want := 10 * 20 * time.Millisecond
	if elapsed < want || elapsed > want+5*time.Millisecond {
		t.Fatalf("10 waits at 50fps took %v, want about %v", elapsed, want)
	}
	if c.slept == 0 {
		t.Fatal("limiter never slept")
	}
}

func TestLimiterDisabled(t *testing.T) {
	l, c := newFake(0)
	l.Wait()
	if c.slept != 0 || l.Interval() != 0 {
		t.Fatalf("disabled limiter slept %v", c.slept)
	}
	l.SetLimit(100)
	if l.Interval() != 10*time.Millisecond {
		t.Fatalf("interval %v", l.Interval())
	}
}

func TestLimiterResyncsAfterHitch(t *testing.T) {
	l, c := newFake(100)
	l.Wait()
	c.t = c.t.Add(time.Second) // long stall
	before := c.slept
	l.Wait()
	l.Wait()
	// Without the resync the frame after the stall would not sleep at all.
	if d := c.slept - before; d < 10*time.Millisecond || d > 25*time.Millisecond {
		t.Fatalf("slept %v across two waits after a hitch", d)
	}
}
