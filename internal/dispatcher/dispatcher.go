// Package dispatcher is the single consumer of the shared surface queue.
//
// A Dispatcher pops envelopes in arrival order and hands each one to the
// Handler its Router returns for the envelope's target. Handling is
// synchronous: a message is fully handled, and anything it still owns is
// released, before the next one is popped.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/logging"
	"github.com/Iron-Ham/surfacemail/internal/mailbox"
	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/queue"
)

// ErrUnknownTarget is returned by Dispatch when no handler is routed for
// the envelope's target.
var ErrUnknownTarget = errors.New("no handler for target")

// Handler handles messages for one target.
//
// msg is valid only for the duration of the call. A handler that wants to
// keep an owned payload, such as a config_change config, must take it out
// of msg; whatever is left is discarded when HandleMessage returns.
type Handler interface {
	HandleMessage(ctx context.Context, msg *message.Message) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg *message.Message) error

// HandleMessage calls f.
func (f HandlerFunc) HandleMessage(ctx context.Context, msg *message.Message) error {
	return f(ctx, msg)
}

// Router finds the handler for a target.
type Router interface {
	Route(target mailbox.SurfaceID) (Handler, bool)
}

// Dispatcher routes queued envelopes to handlers.
type Dispatcher struct {
	queue  *mailbox.Queue
	router Router
	bus    *event.Bus
	logger *logging.Logger

	handled atomic.Uint64
	dropped atomic.Uint64
	failed  atomic.Uint64
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBus publishes MailboxDroppedEvent and DispatchErrorEvent on bus.
func WithBus(bus *event.Bus) Option {
	return func(d *Dispatcher) { d.bus = bus }
}

// WithLogger sets the logger for the dispatcher.
func WithLogger(logger *logging.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Dispatcher consuming q.
func New(q *mailbox.Queue, router Router, opts ...Option) *Dispatcher {
	if q == nil {
		panic("dispatcher: queue must not be nil")
	}
	if router == nil {
		panic("dispatcher: router must not be nil")
	}
	d := &Dispatcher{queue: q, router: router, logger: logging.NopLogger()}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("dispatcher")
	return d
}

// Run dispatches until ctx is done or the queue is closed and drained.
// Handler failures are logged and published; they do not stop the loop.
// Run returns nil when the queue was closed and ctx.Err() otherwise.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		env, err := d.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) {
				return nil
			}
			return err
		}
		_ = d.Dispatch(ctx, env)
	}
}

// Drain dispatches everything currently queued without blocking and
// returns how many envelopes it handled. It is used on shutdown after the
// queue has been closed.
func (d *Dispatcher) Drain(ctx context.Context) int {
	n := 0
	for {
		env, ok := d.queue.TryPop()
		if !ok {
			return n
		}
		_ = d.Dispatch(ctx, env)
		n++
	}
}

// Dispatch handles one envelope. The envelope's message is discarded
// afterwards whatever the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, env mailbox.Envelope) error {
	msg := &env.Message
	defer msg.Discard()

	kind := msg.Kind()
	handler, ok := d.router.Route(env.Target)
	if !ok {
		d.dropped.Add(1)
		d.logger.Warn("dropping message for unknown target",
			"target", env.Target.String(),
			"kind", kind.String(),
		)
		if d.bus != nil {
			d.bus.Publish(mailbox.NewDroppedEvent(env.Target, kind, event.DropReasonUnknownTarget))
		}
		return fmt.Errorf("%s: %w", env.Target, ErrUnknownTarget)
	}

	if err := d.call(ctx, handler, msg); err != nil {
		d.failed.Add(1)
		d.logger.Error("message handler failed",
			"target", env.Target.String(),
			"kind", kind.String(),
			"error", err,
		)
		if d.bus != nil {
			d.bus.Publish(event.NewDispatchErrorEvent(uint64(env.Target), kind.String(), err))
		}
		return err
	}

	d.handled.Add(1)
	d.logger.Debug("message handled",
		"target", env.Target.String(),
		"kind", kind.String(),
	)
	return nil
}

// call invokes handler, turning a panic into an error.
func (d *Dispatcher) call(ctx context.Context, handler Handler, msg *message.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("message handler panicked",
				"kind", msg.Kind().String(),
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.HandleMessage(ctx, msg)
}

// Stats is a snapshot of dispatcher counters.
type Stats struct {
	Handled uint64 // Messages whose handler returned nil
	Dropped uint64 // Messages with no handler for their target
	Failed  uint64 // Messages whose handler returned an error or panicked
}

// Stats returns the dispatcher's counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Handled: d.handled.Load(),
		Dropped: d.dropped.Load(),
		Failed:  d.failed.Load(),
	}
}
