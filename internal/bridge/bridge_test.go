package bridge

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/payload"
)

func decodeAll(t *testing.T, r io.Reader) []Frame {
	t.Helper()
	dec := NewDecoder(r)
	var frames []Frame
	for {
		f, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return frames
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		frames = append(frames, f)
	}
}

func TestNew_PanicsOnNil(t *testing.T) {
	tests := []struct {
		name string
		bus  *event.Bus
		w    io.Writer
	}{
		{"nil bus", nil, &bytes.Buffer{}},
		{"nil writer", event.NewBus(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("New() should panic")
				}
			}()
			New(tt.bus, tt.w)
		})
	}
}

func TestBridge_ForwardsBusEvents(t *testing.T) {
	bus := event.NewBus()
	var buf bytes.Buffer
	b := New(bus, &buf)
	if err := b.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer b.Stop()

	bus.Publish(event.NewSurfaceCreatedEvent(2, 1, "tab", "/work", true))
	bus.Publish(event.NewSurfaceTitleEvent(2, "vim"))
	bus.Publish(event.NewSurfaceBellEvent(2))
	bus.Publish(event.NewSurfaceChildExitedEvent(2, 130, 4500))
	bus.Publish(event.NewMailboxDroppedEvent(7, "ring_bell", event.DropReasonBackpressure))
	bus.Publish(event.NewConfigReloadedEvent("abcd", 3, 1))

	frames := decodeAll(t, &buf)
	if len(frames) != 6 {
		t.Fatalf("got %d frames, want 6", len(frames))
	}
	if got := b.Frames(); got != 6 {
		t.Errorf("Frames() = %d, want 6", got)
	}

	wantTypes := []string{
		event.TypeSurfaceCreated,
		event.TypeSurfaceTitle,
		event.TypeSurfaceBell,
		event.TypeSurfaceChildExited,
		event.TypeMailboxDropped,
		event.TypeConfigReloaded,
	}
	for i, want := range wantTypes {
		if frames[i].Type != want {
			t.Errorf("frame %d Type = %q, want %q", i, frames[i].Type, want)
		}
		if frames[i].Timestamp().IsZero() {
			t.Errorf("frame %d has no timestamp", i)
		}
	}

	var created CreatedData
	if err := frames[0].Decode(&created); err != nil {
		t.Fatalf("Decode(created) error = %v", err)
	}
	want := CreatedData{Parent: 1, Context: "tab", WorkingDirectory: "/work", Inherited: true}
	if created != want || frames[0].Surface != 2 {
		t.Errorf("created = %+v on surface %d, want %+v on surface 2", created, frames[0].Surface, want)
	}

	var title TitleData
	if err := frames[1].Decode(&title); err != nil || title.Title != "vim" {
		t.Errorf("title = %+v, err = %v", title, err)
	}

	if err := frames[2].Decode(&struct{}{}); !errors.Is(err, ErrNoData) {
		t.Errorf("bell Decode() error = %v, want ErrNoData", err)
	}

	exited, err := frames[3].ChildExited()
	if err != nil {
		t.Fatalf("ChildExited() error = %v", err)
	}
	if exited != (payload.ChildExited{ExitCode: 130, RuntimeMs: 4500}) {
		t.Errorf("ChildExited() = %+v", exited)
	}

	var dropped MailboxData
	if err := frames[4].Decode(&dropped); err != nil {
		t.Fatal(err)
	}
	if frames[4].Surface != 7 || dropped.Kind != "ring_bell" || dropped.Reason != event.DropReasonBackpressure {
		t.Errorf("dropped = %+v on surface %d", dropped, frames[4].Surface)
	}

	var reloaded ConfigData
	if err := frames[5].Decode(&reloaded); err != nil {
		t.Fatal(err)
	}
	if reloaded != (ConfigData{Digest: "abcd", Surfaces: 3, Failed: 1}) || frames[5].Surface != 0 {
		t.Errorf("reloaded = %+v on surface %d", reloaded, frames[5].Surface)
	}
}

func TestFrame_ChildExitedLayout(t *testing.T) {
	var buf bytes.Buffer
	b := New(event.NewBus(), &buf)
	if err := b.Write(event.NewSurfaceChildExitedEvent(4, 1, 250)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	frames := decodeAll(t, &buf)
	var raw []byte
	if err := frames[0].Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if len(raw) != payload.ChildExitedSize {
		t.Fatalf("data is %d bytes, want %d", len(raw), payload.ChildExitedSize)
	}

	if _, err := (Frame{Type: event.TypeSurfaceBell}).ChildExited(); err == nil {
		t.Error("ChildExited() on a bell frame should fail")
	}
}

func TestBridge_Deterministic(t *testing.T) {
	e := event.NewSurfaceClipboardEvent(1, "standard", event.ClipboardOpWrite, true, "hello")

	encode := func() []byte {
		var buf bytes.Buffer
		if err := New(event.NewBus(), &buf).Write(e); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		return buf.Bytes()
	}
	first, second := encode(), encode()
	if !bytes.Equal(first, second) {
		t.Errorf("encodings differ:\n%x\n%x", first, second)
	}
}

func TestBridge_WithTypes(t *testing.T) {
	bus := event.NewBus()
	var buf bytes.Buffer
	b := New(bus, &buf, WithTypes(event.TypeSurfaceBell))
	if err := b.Start(); err != nil {
		t.Fatal(err)
	}
	defer b.Stop()

	bus.Publish(event.NewSurfaceTitleEvent(1, "ignored"))
	bus.Publish(event.NewSurfaceBellEvent(1))

	frames := decodeAll(t, &buf)
	if len(frames) != 1 || frames[0].Type != event.TypeSurfaceBell {
		t.Errorf("frames = %+v, want one bell", frames)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestBridge_WriteError(t *testing.T) {
	bus := event.NewBus()
	b := New(bus, failingWriter{})
	if err := b.Start(); err != nil {
		t.Fatal(err)
	}
	defer b.Stop()

	bus.Publish(event.NewSurfaceBellEvent(1))
	bus.Publish(event.NewSurfaceBellEvent(2))

	if got := b.Errors(); got != 2 {
		t.Errorf("Errors() = %d, want 2", got)
	}
	if got := b.Frames(); got != 0 {
		t.Errorf("Frames() = %d, want 0", got)
	}
	if got := bus.Panics(); got != 0 {
		t.Errorf("bus recorded %d panics, want 0", got)
	}
}

func TestBridge_StartStop(t *testing.T) {
	bus := event.NewBus()
	b := New(bus, &bytes.Buffer{})

	b.Stop() // before Start
	if err := b.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := b.Start(); err == nil {
		t.Error("second Start() should fail")
	}
	if got := bus.SubscriptionCount(); got != 1 {
		t.Errorf("SubscriptionCount() = %d, want 1", got)
	}

	b.Stop()
	b.Stop()
	if got := bus.SubscriptionCount(); got != 0 {
		t.Errorf("SubscriptionCount() = %d after Stop, want 0", got)
	}
	if err := b.Start(); err != nil {
		t.Errorf("Start() after Stop error = %v", err)
	}
	b.Stop()
}
