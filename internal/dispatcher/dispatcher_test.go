package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/mailbox"
	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/queue"
)

type mapRouter map[mailbox.SurfaceID]Handler

func (r mapRouter) Route(id mailbox.SurfaceID) (Handler, bool) {
	h, ok := r[id]
	return h, ok
}

type record struct {
	target mailbox.SurfaceID
	kind   message.Kind
}

type recorder struct {
	mu   sync.Mutex
	seen []record
}

func (r *recorder) handler(id mailbox.SurfaceID) Handler {
	return HandlerFunc(func(_ context.Context, msg *message.Message) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.seen = append(r.seen, record{id, msg.Kind()})
		return nil
	})
}

func (r *recorder) records() []record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]record(nil), r.seen...)
}

func newQueue(t *testing.T, capacity int) *mailbox.Queue {
	t.Helper()
	q, err := mailbox.NewQueue(capacity)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func push(t *testing.T, q *mailbox.Queue, target mailbox.SurfaceID, msg message.Message) {
	t.Helper()
	if _, err := mailbox.New(target, q).Push(msg, queue.Instant()); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
}

func TestRun_RoutesInArrivalOrder(t *testing.T) {
	q := newQueue(t, 16)
	rec := &recorder{}
	d := New(q, mapRouter{1: rec.handler(1), 2: rec.handler(2)})

	push(t, q, 1, message.NewRingBell())
	push(t, q, 2, message.NewPresentSurface())
	push(t, q, 1, message.NewClose())
	push(t, q, 2, message.NewRingBell())
	q.Close()

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil after Close", err)
	}

	want := []record{
		{1, message.KindRingBell},
		{2, message.KindPresentSurface},
		{1, message.KindClose},
		{2, message.KindRingBell},
	}
	got := rec.records()
	if len(got) != len(want) {
		t.Fatalf("handled %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if s := d.Stats(); s.Handled != 4 || s.Dropped != 0 || s.Failed != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	q := newQueue(t, 1)
	d := New(q, mapRouter{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestDispatch_UnknownTarget(t *testing.T) {
	bus := event.NewBus()
	var dropped []event.MailboxDroppedEvent
	bus.Subscribe(event.TypeMailboxDropped, func(e event.Event) {
		dropped = append(dropped, e.(event.MailboxDroppedEvent))
	})

	budget := config.NewBudget(1 << 10)
	base := config.Default()
	defer func() { _ = base.Release() }()
	clone, err := base.ShallowClone(budget)
	if err != nil {
		t.Fatal(err)
	}
	msg, err := message.NewConfigChange(clone)
	if err != nil {
		t.Fatal(err)
	}

	d := New(newQueue(t, 1), mapRouter{}, WithBus(bus))
	err = d.Dispatch(context.Background(), mailbox.Envelope{Target: 9, Message: msg})
	if !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("Dispatch() error = %v, want ErrUnknownTarget", err)
	}

	if budget.InUse() != 0 {
		t.Errorf("dropped config_change was not released, InUse() = %d", budget.InUse())
	}
	if len(dropped) != 1 {
		t.Fatalf("got %d dropped events, want 1", len(dropped))
	}
	if dropped[0].Target != 9 || dropped[0].Kind != "config_change" || dropped[0].Reason != event.DropReasonUnknownTarget {
		t.Errorf("dropped event = %+v", dropped[0])
	}
	if d.Stats().Dropped != 1 {
		t.Errorf("Stats().Dropped = %d, want 1", d.Stats().Dropped)
	}
}

func TestDispatch_ConfigOwnership(t *testing.T) {
	budget := config.NewBudget(1 << 10)
	base := config.Default()
	defer func() { _ = base.Release() }()

	var kept *config.Config
	router := mapRouter{
		1: HandlerFunc(func(_ context.Context, msg *message.Message) error {
			cfg, ok := msg.TakeConfig()
			if !ok {
				return errors.New("no config")
			}
			kept = cfg
			return nil
		}),
		2: HandlerFunc(func(_ context.Context, msg *message.Message) error {
			return nil
		}),
	}
	d := New(newQueue(t, 1), router)

	send := func(target mailbox.SurfaceID) {
		clone, err := base.ShallowClone(budget)
		if err != nil {
			t.Fatal(err)
		}
		msg, _ := message.NewConfigChange(clone)
		if err := d.Dispatch(context.Background(), mailbox.Envelope{Target: target, Message: msg}); err != nil {
			t.Fatalf("Dispatch() error = %v", err)
		}
	}

	// Handler 1 takes the config; it stays alive.
	send(1)
	if kept == nil || kept.Arena().Released() {
		t.Fatal("taken config should survive dispatch")
	}

	// Handler 2 ignores it; the dispatcher releases it.
	before := budget.InUse()
	send(2)
	if budget.InUse() != before {
		t.Errorf("untaken config leaked: InUse() = %d, want %d", budget.InUse(), before)
	}

	_ = kept.Release()
	if budget.InUse() != 0 {
		t.Errorf("InUse() = %d, want 0", budget.InUse())
	}
}

func TestDispatch_HandlerErrorAndPanic(t *testing.T) {
	bus := event.NewBus()
	var failures []event.DispatchErrorEvent
	bus.Subscribe(event.TypeDispatchError, func(e event.Event) {
		failures = append(failures, e.(event.DispatchErrorEvent))
	})

	boom := errors.New("boom")
	rec := &recorder{}
	q := newQueue(t, 8)
	d := New(q, mapRouter{
		1: HandlerFunc(func(context.Context, *message.Message) error { return boom }),
		2: HandlerFunc(func(context.Context, *message.Message) error { panic("kaboom") }),
		3: rec.handler(3),
	}, WithBus(bus))

	push(t, q, 1, message.NewRingBell())
	push(t, q, 2, message.NewRingBell())
	push(t, q, 3, message.NewRingBell())
	q.Close()

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(rec.records()) != 1 {
		t.Error("handler after a failing one should still run")
	}
	if len(failures) != 2 {
		t.Fatalf("got %d dispatch error events, want 2", len(failures))
	}
	if failures[0].Target != 1 || failures[0].Err != "boom" {
		t.Errorf("failures[0] = %+v", failures[0])
	}
	if failures[1].Target != 2 || failures[1].Err != "handler panicked: kaboom" {
		t.Errorf("failures[1] = %+v", failures[1])
	}
	if s := d.Stats(); s.Handled != 1 || s.Failed != 2 {
		t.Errorf("Stats() = %+v, want 1 handled 2 failed", s)
	}
}

func TestDrain(t *testing.T) {
	q := newQueue(t, 8)
	rec := &recorder{}
	d := New(q, mapRouter{1: rec.handler(1)})

	for range 5 {
		push(t, q, 1, message.NewRingBell())
	}
	q.Close()

	if n := d.Drain(context.Background()); n != 5 {
		t.Errorf("Drain() = %d, want 5", n)
	}
	if n := d.Drain(context.Background()); n != 0 {
		t.Errorf("second Drain() = %d, want 0", n)
	}
	if len(rec.records()) != 5 {
		t.Errorf("handled %d messages, want 5", len(rec.records()))
	}
}

func TestRun_ConcurrentProducers(t *testing.T) {
	const (
		producers = 8
		perProd   = 100
	)
	q := newQueue(t, 4)
	rec := &recorder{}
	router := mapRouter{}
	for p := 1; p <= producers; p++ {
		router[mailbox.SurfaceID(p)] = rec.handler(mailbox.SurfaceID(p))
	}
	d := New(q, router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	var wg sync.WaitGroup
	for p := 1; p <= producers; p++ {
		mb := mailbox.New(mailbox.SurfaceID(p), q)
		wg.Go(func() {
			for range perProd {
				if _, err := mb.Push(message.NewRingBell(), queue.Forever()); err != nil {
					t.Errorf("Push() error = %v", err)
				}
			}
		})
	}
	wg.Wait()
	q.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not finish")
	}
	if got := len(rec.records()); got != producers*perProd {
		t.Errorf("handled %d messages, want %d", got, producers*perProd)
	}
}
