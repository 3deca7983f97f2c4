// Package jobs runs work items on a fixed pool of goroutines.
package jobs

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Enqueue once Close has been called.
var ErrClosed = errors.New("jobs: queue closed")

// Queue executes fn for every enqueued item on a fixed set of workers.
// Items are claimed newest first; no ordering is guaranteed. fn runs
// without the queue lock held.
type Queue[T any] struct {
	fn      func(item T, worker int)
	workers int

	mu      sync.Mutex
	work    *sync.Cond // signalled when pending grows or on close
	idle    *sync.Cond // broadcast when the queue drains
	pending []T
	active  int
	closed  bool

	wg sync.WaitGroup
}

// New starts workers goroutines. fn receives the worker index in
// [0, workers), which callers use to pick per-worker scratch state.
func New[T any](workers int, fn func(item T, worker int)) *Queue[T] {
	if workers < 1 {
		workers = 1
	}
	q := &Queue[T]{fn: fn, workers: workers}
	q.work = sync.NewCond(&q.mu)
	q.idle = sync.NewCond(&q.mu)
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
	return q
}

// Enqueue appends item and wakes one idle worker. It never blocks on
// running work.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.pending = append(q.pending, item)
	q.work.Signal()
	return nil
}

func (q *Queue[T]) worker(id int) {
	defer q.wg.Done()

	q.mu.Lock()
	for {
		for len(q.pending) == 0 && !q.closed {
			q.work.Wait()
		}
		if q.closed {
			q.mu.Unlock()
			return
		}
		last := len(q.pending) - 1
		item := q.pending[last]
		var zero T
		q.pending[last] = zero
		q.pending = q.pending[:last]
		q.active++
		q.mu.Unlock()

		q.fn(item, id)

		q.mu.Lock()
		q.active--
		if q.active == 0 && len(q.pending) == 0 {
			q.idle.Broadcast()
		}
	}
}

// WaitIdle blocks until no item is pending and no worker is running one.
// It returns immediately after Close.
func (q *Queue[T]) WaitIdle() {
	q.mu.Lock()
	for (q.active > 0 || len(q.pending) > 0) && !q.closed {
		q.idle.Wait()
	}
	q.mu.Unlock()
}

// Close drops pending items, wakes every worker and waits for them to exit.
// Items already running complete first. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.wg.Wait()
		return
	}
	q.closed = true
	clear(q.pending)
	q.pending = nil
	q.work.Broadcast()
	q.idle.Broadcast()
	q.mu.Unlock()
	q.wg.Wait()
}

// Pending returns the number of queued items not yet claimed.
func (q *Queue[T]) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Active returns the number of workers currently running an item.
func (q *Queue[T]) Active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}

func (q *Queue[T]) Workers() int { return q.workers }
