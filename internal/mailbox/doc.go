// Package mailbox addresses messages to surfaces.
//
// Every surface shares one bounded queue of [Envelope] values owned by the
// coordinator. A [Mailbox] binds a target [SurfaceID] to that queue, so a
// producer holding a surface's mailbox can deliver messages without knowing
// anything about the surface itself.
//
// # Delivery
//
// [Mailbox.Push] tags the message with the mailbox's target and enqueues it
// under the caller's [queue.Timeout]. On success the queue owns the message
// and Push returns the occupancy just after the insert, which producers can
// use to throttle themselves. On failure nothing was enqueued: the caller
// still owns the message and decides whether to drop or retry it. The
// mailbox never retries on its own.
//
// # Basic Usage
//
//	q, _ := mailbox.NewQueue(64)
//	mb := mailbox.New(surfaceID, q, mailbox.WithBus(bus))
//
//	msg, err := message.NewSetTitle("vim")
//	if err != nil {
//	    return err
//	}
//	if _, err := mb.Push(msg, queue.After(10*time.Millisecond)); err != nil {
//	    msg.Discard()
//	}
//
// # Thread Safety
//
// A Mailbox is an immutable value and may be copied and used from any
// goroutine.
package mailbox
