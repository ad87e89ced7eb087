package bridge

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"

	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/logging"
)

// Bridge writes bus events to a frame stream.
type Bridge struct {
	bus    *event.Bus
	logger *logging.Logger
	types  map[string]bool

	mu      sync.Mutex // serializes writes; events arrive from any publisher
	enc     *cbor.Encoder
	subID   string
	started bool

	frames atomic.Uint64
	errors atomic.Uint64
}

// New creates a Bridge writing to w.
//
// bus and w must be non-nil. Passing nil will panic early to surface wiring
// bugs immediately.
func New(bus *event.Bus, w io.Writer, opts ...Option) *Bridge {
	if bus == nil {
		panic("bridge: event.Bus must not be nil")
	}
	if w == nil {
		panic("bridge: writer must not be nil")
	}

	o := &options{logger: logging.NopLogger()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logging.NopLogger()
	}

	return &Bridge{
		bus:    bus,
		logger: o.logger.WithComponent("bridge"),
		types:  o.types,
		enc:    encMode.NewEncoder(w),
	}
}

// Start subscribes the bridge to the bus.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return errors.New("bridge: already started")
	}
	b.subID = b.bus.SubscribeAll(b.forward)
	b.started = true
	return nil
}

// Stop unsubscribes the bridge. It is safe to call multiple times.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return
	}
	id := b.subID
	b.started = false
	b.mu.Unlock()

	b.bus.Unsubscribe(id)
}

// Write encodes e as one frame. Events the bridge does not forward are
// skipped without error.
func (b *Bridge) Write(e event.Event) error {
	if b.types != nil && !b.types[e.EventType()] {
		return nil
	}
	f, ok, err := frameFor(e)
	if err != nil {
		b.errors.Add(1)
		return err
	}
	if !ok {
		return nil
	}

	b.mu.Lock()
	err = b.enc.Encode(f)
	b.mu.Unlock()
	if err != nil {
		b.errors.Add(1)
		return fmt.Errorf("bridge: write %s frame: %w", f.Type, err)
	}
	b.frames.Add(1)
	return nil
}

func (b *Bridge) forward(e event.Event) {
	if err := b.Write(e); err != nil {
		b.logger.Error("forwarding event failed", "type", e.EventType(), "error", err)
	}
}

// Frames returns the number of frames written.
func (b *Bridge) Frames() uint64 { return b.frames.Load() }

// Errors returns the number of events that could not be written.
func (b *Bridge) Errors() uint64 { return b.errors.Load() }
