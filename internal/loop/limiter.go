// Package loop paces the fixed-rate driver loop.
package loop

import "time"

// Limiter paces a loop to a target rate with sleep then spin.
type Limiter struct {
	limit int
	next  time.Time
	now   func() time.Time
	sleep func(time.Duration)
}

// NewLimiter returns a limiter for fps iterations per second. A limit of
// zero or less disables waiting.
func NewLimiter(fps int) *Limiter {
	return &Limiter{limit: fps, now: time.Now, sleep: time.Sleep}
}

// SetLimit changes the target rate from the next Wait on.
func (f *Limiter) SetLimit(fps int) {
	f.limit = fps
	f.next = time.Time{}
}

// Interval is the target duration of one iteration.
func (f *Limiter) Interval() time.Duration {
	if f.limit <= 0 {
		return 0
	}
	return time.Second / time.Duration(f.limit)
}

// Wait blocks until the next iteration is due.
func (f *Limiter) Wait() {
	target := f.Interval()
	if target == 0 {
		f.next = time.Time{}
		return
	}

	if f.next.IsZero() {
		f.next = f.now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := f.next.Sub(f.now())
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			f.sleep(remaining - 200*time.Microsecond)
		}
		// spin the final few microseconds
		if !f.next.After(f.now()) {
			break
		}
	}

	// resync after a hitch to avoid drift
	if late := f.now().Sub(f.next); late > target {
		f.next = f.now().Add(target)
	}
}
