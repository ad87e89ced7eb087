package bridge

import (
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/payload"
)

// ErrNoData is returned when decoding the data of a frame that carries none.
var ErrNoData = errors.New("frame has no data")

// Frame is one event on the wire.
type Frame struct {
	Type    string          `cbor:"type"`
	Surface uint64          `cbor:"surface"` // 0 for application-level events
	Time    int64           `cbor:"ts"`      // Unix nanoseconds
	Data    cbor.RawMessage `cbor:"data,omitempty"`
}

// Timestamp returns Time as a time.Time.
func (f Frame) Timestamp() time.Time {
	return time.Unix(0, f.Time)
}

// Decode unmarshals the frame's data into v, which should be the data type
// for f.Type.
func (f Frame) Decode(v any) error {
	if len(f.Data) == 0 {
		return fmt.Errorf("%s: %w", f.Type, ErrNoData)
	}
	return decMode.Unmarshal(f.Data, v)
}

// ChildExited decodes the data of a surface.child_exited frame.
func (f Frame) ChildExited() (payload.ChildExited, error) {
	var exited payload.ChildExited
	if f.Type != event.TypeSurfaceChildExited {
		return exited, fmt.Errorf("frame type %s is not %s", f.Type, event.TypeSurfaceChildExited)
	}
	var raw []byte
	if err := f.Decode(&raw); err != nil {
		return exited, err
	}
	err := exited.UnmarshalBinary(raw)
	return exited, err
}

// Frame data, by event type. surface.closed and surface.bell frames carry
// no data; surface.child_exited carries a 16-byte string.

// CreatedData is the data of a surface.created frame.
type CreatedData struct {
	Parent           uint64 `cbor:"parent"`
	Context          string `cbor:"context"`
	WorkingDirectory string `cbor:"wd"`
	Inherited        bool   `cbor:"inherited"`
}

// FocusedData is the data of a surface.focused frame.
type FocusedData struct {
	Previous uint64 `cbor:"previous"`
}

// TitleData is the data of a surface.title frame.
type TitleData struct {
	Title string `cbor:"title"`
}

// PwdData is the data of a surface.pwd frame.
type PwdData struct {
	Path string `cbor:"path"`
}

// NotificationData is the data of a surface.notification frame.
type NotificationData struct {
	Title string `cbor:"title"`
	Body  string `cbor:"body"`
}

// ClipboardData is the data of a surface.clipboard frame.
type ClipboardData struct {
	Clipboard string `cbor:"clipboard"`
	Op        string `cbor:"op"`
	Allowed   bool   `cbor:"allowed"`
	Data      string `cbor:"data,omitempty"`
}

// ConfigData is the data of surface.config and config.reloaded frames.
// Surfaces and Failed are only set for config.reloaded.
type ConfigData struct {
	Digest   string `cbor:"digest"`
	Surfaces int    `cbor:"surfaces,omitempty"`
	Failed   int    `cbor:"failed,omitempty"`
}

// StateData is the data of a surface.state frame.
type StateData struct {
	Field string `cbor:"field"`
	Value string `cbor:"value"`
}

// MailboxData is the data of mailbox.dropped and dispatch.error frames.
type MailboxData struct {
	Kind   string `cbor:"kind"`
	Reason string `cbor:"reason,omitempty"`
	Error  string `cbor:"error,omitempty"`
}

// frameFor builds the frame for e. ok is false for event types the bridge
// does not forward.
func frameFor(e event.Event) (f Frame, ok bool, err error) {
	f = Frame{Type: e.EventType(), Time: e.Timestamp().UnixNano()}
	if se, isSurface := e.(event.SurfaceEvent); isSurface {
		f.Surface = se.Surface()
	}

	var data any
	switch e := e.(type) {
	case event.SurfaceCreatedEvent:
		data = CreatedData{Parent: e.ParentID, Context: e.Context, WorkingDirectory: e.WorkingDirectory, Inherited: e.Inherited}
	case event.SurfaceClosedEvent, event.SurfaceBellEvent:
	case event.SurfaceFocusedEvent:
		data = FocusedData{Previous: e.PreviousID}
	case event.SurfaceTitleEvent:
		data = TitleData{Title: e.Title}
	case event.SurfacePwdEvent:
		data = PwdData{Path: e.Path}
	case event.SurfaceChildExitedEvent:
		exited := payload.ChildExited{ExitCode: e.ExitCode, RuntimeMs: e.RuntimeMs}
		raw, merr := exited.MarshalBinary()
		if merr != nil {
			return f, false, merr
		}
		data = raw
	case event.SurfaceNotificationEvent:
		data = NotificationData{Title: e.Title, Body: e.Body}
	case event.SurfaceClipboardEvent:
		data = ClipboardData{Clipboard: e.Clipboard, Op: e.Op, Allowed: e.Allowed, Data: e.Data}
	case event.SurfaceConfigEvent:
		data = ConfigData{Digest: e.Digest}
	case event.SurfaceStateEvent:
		data = StateData{Field: e.Field, Value: e.Value}
	case event.MailboxDroppedEvent:
		f.Surface = e.Target
		data = MailboxData{Kind: e.Kind, Reason: e.Reason}
	case event.DispatchErrorEvent:
		f.Surface = e.Target
		data = MailboxData{Kind: e.Kind, Error: e.Err}
	case event.ConfigReloadedEvent:
		data = ConfigData{Digest: e.Digest, Surfaces: e.Surfaces, Failed: e.Failed}
	default:
		return f, false, nil
	}

	if data != nil {
		f.Data, err = encMode.Marshal(data)
		if err != nil {
			return f, false, fmt.Errorf("encode %s data: %w", f.Type, err)
		}
	}
	return f, true, nil
}
