package mailbox

import (
	"fmt"
	"sync/atomic"

	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/queue"
)

// Mailbox delivers messages for one target into the shared queue.
type Mailbox struct {
	target SurfaceID
	queue  *Queue
	bus    *event.Bus
	stats  *Stats
}

// New returns the mailbox for target on q.
func New(target SurfaceID, q *Queue, opts ...Option) Mailbox {
	m := Mailbox{target: target, queue: q}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Target returns the surface this mailbox delivers to.
func (m Mailbox) Target() SurfaceID { return m.target }

// Push enqueues msg for the mailbox's target, waiting as timeout allows
// when the queue is full. It returns the queue occupancy after the insert.
//
// On error msg was not enqueued and still belongs to the caller. Use
// queue.IsBackpressure to tell a full queue from a closed one.
func (m Mailbox) Push(msg message.Message, timeout queue.Timeout) (int, error) {
	occupancy, err := m.queue.Push(Envelope{Target: m.target, Message: msg}, timeout)
	if err != nil {
		if m.stats != nil {
			m.stats.dropped.Add(1)
		}
		if m.bus != nil {
			m.bus.Publish(NewDroppedEvent(m.target, msg.Kind(), DropReason(err)))
		}
		return 0, fmt.Errorf("%s: push %s (%s): %w", m.target, msg.Kind(), timeout, err)
	}
	if m.stats != nil {
		m.stats.pushed.Add(1)
	}
	return occupancy, nil
}

// Stats counts mailbox pushes. The zero value is ready to use.
type Stats struct {
	pushed  atomic.Uint64
	dropped atomic.Uint64
}

// Pushed returns the number of successful pushes.
func (s *Stats) Pushed() uint64 { return s.pushed.Load() }

// Dropped returns the number of failed pushes.
func (s *Stats) Dropped() uint64 { return s.dropped.Load() }
