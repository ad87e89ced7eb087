// Package queue provides a bounded multi-producer, single-consumer FIFO
// whose Push blocks for a caller-chosen Timeout when the queue is full.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Errors returned by Push and Pop.
var (
	// ErrFull is returned by an Instant push onto a full queue.
	ErrFull = errors.New("queue full")
	// ErrTimeout is returned when a bounded push expires before room appears.
	ErrTimeout = errors.New("queue push timed out")
	// ErrClosed is returned by Push after Close, and by Pop once a closed
	// queue is empty.
	ErrClosed = errors.New("queue closed")
)

// IsBackpressure reports whether err means the queue was full, as opposed
// to closed.
func IsBackpressure(err error) bool {
	return errors.Is(err, ErrFull) || errors.Is(err, ErrTimeout)
}

// Queue is a fixed-capacity ring of T. Push and Pop are mutually exclusive
// under one mutex; blocked callers wait on a channel that is closed and
// replaced whenever the state they wait for may have changed.
type Queue[T any] struct {
	mu     sync.Mutex
	buf    []T
	head   int
	n      int
	closed bool

	// notFull and notEmpty are only replaced when someone waits on them,
	// so an uncontended Push or Pop does not allocate.
	notFull       chan struct{}
	notEmpty      chan struct{}
	fullWaiters   int
	emptyWaiters  int
	highWaterMark int
}

// New returns a Queue holding at most capacity items.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("queue capacity must be positive, got %d", capacity)
	}
	return &Queue[T]{
		buf:      make([]T, capacity),
		notFull:  make(chan struct{}),
		notEmpty: make(chan struct{}),
	}, nil
}

// Push appends v, waiting as timeout allows while the queue is full. It
// returns the number of queued items immediately after the insert.
func (q *Queue[T]) Push(v T, timeout Timeout) (int, error) {
	var deadline <-chan time.Time
	expired := false

	q.mu.Lock()
	for {
		if q.closed {
			q.mu.Unlock()
			return 0, ErrClosed
		}
		if q.n < len(q.buf) {
			q.buf[(q.head+q.n)%len(q.buf)] = v
			q.n++
			occupancy := q.n
			q.highWaterMark = max(q.highWaterMark, occupancy)
			if q.emptyWaiters > 0 {
				close(q.notEmpty)
				q.notEmpty = make(chan struct{})
			}
			q.mu.Unlock()
			return occupancy, nil
		}

		switch {
		case timeout.mode == modeInstant:
			q.mu.Unlock()
			return 0, ErrFull
		case expired:
			q.mu.Unlock()
			return 0, ErrTimeout
		case timeout.mode == modeBounded && deadline == nil:
			timer := time.NewTimer(timeout.d)
			defer timer.Stop()
			deadline = timer.C
		}

		wait := q.notFull
		q.fullWaiters++
		q.mu.Unlock()

		select {
		case <-wait:
		case <-deadline:
			// One more look: room may have appeared as the timer fired.
			expired = true
		}

		q.mu.Lock()
		q.fullWaiters--
	}
}

// Pop removes the oldest item, blocking until one is available, ctx is
// done, or the queue is closed and empty.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	q.mu.Lock()
	for {
		if q.n > 0 {
			v := q.take()
			q.mu.Unlock()
			return v, nil
		}
		if q.closed {
			q.mu.Unlock()
			var zero T
			return zero, ErrClosed
		}

		wait := q.notEmpty
		q.emptyWaiters++
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			q.mu.Lock()
			q.emptyWaiters--
			q.mu.Unlock()
			var zero T
			return zero, ctx.Err()
		}

		q.mu.Lock()
		q.emptyWaiters--
	}
}

// TryPop removes the oldest item if there is one.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.n == 0 {
		var zero T
		return zero, false
	}
	return q.take(), true
}

// take removes the head item. The caller must hold q.mu and q.n > 0.
func (q *Queue[T]) take() T {
	var zero T
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	if q.fullWaiters > 0 && !q.closed {
		close(q.notFull)
		q.notFull = make(chan struct{})
	}
	return v
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

// Cap returns the queue's capacity.
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

// HighWaterMark returns the largest occupancy the queue has reached.
func (q *Queue[T]) HighWaterMark() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.highWaterMark
}

// Close rejects further pushes and wakes every blocked caller. Items
// already queued can still be popped. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.notFull)
	close(q.notEmpty)
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
