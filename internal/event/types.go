package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "surface.created", "mailbox.dropped")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// SurfaceEvent is an Event about one surface.
type SurfaceEvent interface {
	Event
	Surface() uint64
}

// Event type names.
const (
	TypeSurfaceCreated     = "surface.created"
	TypeSurfaceClosed      = "surface.closed"
	TypeSurfaceFocused     = "surface.focused"
	TypeSurfaceTitle       = "surface.title"
	TypeSurfacePwd         = "surface.pwd"
	TypeSurfaceBell        = "surface.bell"
	TypeSurfaceChildExited = "surface.child_exited"
	TypeSurfaceNotify      = "surface.notification"
	TypeSurfaceClipboard   = "surface.clipboard"
	TypeSurfaceConfig      = "surface.config"
	TypeSurfaceState       = "surface.state"
	TypeMailboxDropped     = "mailbox.dropped"
	TypeDispatchError      = "dispatch.error"
	TypeConfigReloaded     = "config.reloaded"
)

// baseEvent provides common fields for all events.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// surfaceBase is embedded by every SurfaceEvent.
type surfaceBase struct {
	baseEvent
	SurfaceID uint64
}

func (e surfaceBase) Surface() uint64 { return e.SurfaceID }

func newSurfaceBase(eventType string, id uint64) surfaceBase {
	return surfaceBase{baseEvent: newBaseEvent(eventType), SurfaceID: id}
}

// -----------------------------------------------------------------------------
// Surface Lifecycle Events
// -----------------------------------------------------------------------------

// SurfaceCreatedEvent is emitted after a surface is registered.
type SurfaceCreatedEvent struct {
	surfaceBase
	ParentID         uint64 // 0 when created without a parent
	Context          string // "tab", "window" or "split"
	WorkingDirectory string // Derived working directory
	Inherited        bool   // Whether WorkingDirectory came from the parent or focused surface
}

// NewSurfaceCreatedEvent creates a SurfaceCreatedEvent.
func NewSurfaceCreatedEvent(id, parent uint64, context, workingDirectory string, inherited bool) SurfaceCreatedEvent {
	return SurfaceCreatedEvent{
		surfaceBase:      newSurfaceBase(TypeSurfaceCreated, id),
		ParentID:         parent,
		Context:          context,
		WorkingDirectory: workingDirectory,
		Inherited:        inherited,
	}
}

// SurfaceClosedEvent is emitted after a surface is removed.
type SurfaceClosedEvent struct {
	surfaceBase
}

// NewSurfaceClosedEvent creates a SurfaceClosedEvent.
func NewSurfaceClosedEvent(id uint64) SurfaceClosedEvent {
	return SurfaceClosedEvent{surfaceBase: newSurfaceBase(TypeSurfaceClosed, id)}
}

// SurfaceFocusedEvent is emitted when focus moves. SurfaceID is 0 when no
// surface remains focused.
type SurfaceFocusedEvent struct {
	surfaceBase
	PreviousID uint64
}

// NewSurfaceFocusedEvent creates a SurfaceFocusedEvent.
func NewSurfaceFocusedEvent(id, previous uint64) SurfaceFocusedEvent {
	return SurfaceFocusedEvent{
		surfaceBase: newSurfaceBase(TypeSurfaceFocused, id),
		PreviousID:  previous,
	}
}

// -----------------------------------------------------------------------------
// Surface Content Events
// -----------------------------------------------------------------------------

// SurfaceTitleEvent is emitted when a surface's title changes.
type SurfaceTitleEvent struct {
	surfaceBase
	Title string
}

// NewSurfaceTitleEvent creates a SurfaceTitleEvent.
func NewSurfaceTitleEvent(id uint64, title string) SurfaceTitleEvent {
	return SurfaceTitleEvent{surfaceBase: newSurfaceBase(TypeSurfaceTitle, id), Title: title}
}

// SurfacePwdEvent is emitted when a surface reports a new working directory.
type SurfacePwdEvent struct {
	surfaceBase
	Path string
}

// NewSurfacePwdEvent creates a SurfacePwdEvent.
func NewSurfacePwdEvent(id uint64, path string) SurfacePwdEvent {
	return SurfacePwdEvent{surfaceBase: newSurfaceBase(TypeSurfacePwd, id), Path: path}
}

// SurfaceBellEvent is emitted when a surface rings the bell.
type SurfaceBellEvent struct {
	surfaceBase
}

// NewSurfaceBellEvent creates a SurfaceBellEvent.
func NewSurfaceBellEvent(id uint64) SurfaceBellEvent {
	return SurfaceBellEvent{surfaceBase: newSurfaceBase(TypeSurfaceBell, id)}
}

// SurfaceChildExitedEvent is emitted when a surface's child process exits.
type SurfaceChildExitedEvent struct {
	surfaceBase
	ExitCode  uint32
	RuntimeMs uint64
}

// NewSurfaceChildExitedEvent creates a SurfaceChildExitedEvent.
func NewSurfaceChildExitedEvent(id uint64, exitCode uint32, runtimeMs uint64) SurfaceChildExitedEvent {
	return SurfaceChildExitedEvent{
		surfaceBase: newSurfaceBase(TypeSurfaceChildExited, id),
		ExitCode:    exitCode,
		RuntimeMs:   runtimeMs,
	}
}

// SurfaceNotificationEvent asks the presentation layer to show a desktop
// notification.
type SurfaceNotificationEvent struct {
	surfaceBase
	Title string
	Body  string
}

// NewSurfaceNotificationEvent creates a SurfaceNotificationEvent.
func NewSurfaceNotificationEvent(id uint64, title, body string) SurfaceNotificationEvent {
	return SurfaceNotificationEvent{
		surfaceBase: newSurfaceBase(TypeSurfaceNotify, id),
		Title:       title,
		Body:        body,
	}
}

// Clipboard operations reported by SurfaceClipboardEvent.
const (
	ClipboardOpRead  = "read"
	ClipboardOpWrite = "write"
)

// SurfaceClipboardEvent records a clipboard request and whether policy
// allowed it. Data is the text read or written, and empty when denied.
type SurfaceClipboardEvent struct {
	surfaceBase
	Clipboard string // "standard", "selection" or "primary"
	Op        string // ClipboardOpRead or ClipboardOpWrite
	Allowed   bool
	Data      string
}

// NewSurfaceClipboardEvent creates a SurfaceClipboardEvent.
func NewSurfaceClipboardEvent(id uint64, clipboard, op string, allowed bool, data string) SurfaceClipboardEvent {
	return SurfaceClipboardEvent{
		surfaceBase: newSurfaceBase(TypeSurfaceClipboard, id),
		Clipboard:   clipboard,
		Op:          op,
		Allowed:     allowed,
		Data:        data,
	}
}

// SurfaceConfigEvent is emitted when a surface adopts a new config.
type SurfaceConfigEvent struct {
	surfaceBase
	Digest string
}

// NewSurfaceConfigEvent creates a SurfaceConfigEvent.
func NewSurfaceConfigEvent(id uint64, digest string) SurfaceConfigEvent {
	return SurfaceConfigEvent{surfaceBase: newSurfaceBase(TypeSurfaceConfig, id), Digest: digest}
}

// SurfaceStateEvent reports a change to one of a surface's small state
// fields (mouse shape, renderer health, password input, progress, ...).
type SurfaceStateEvent struct {
	surfaceBase
	Field string // Message kind that caused the change, e.g. "set_mouse_shape"
	Value string
}

// NewSurfaceStateEvent creates a SurfaceStateEvent.
func NewSurfaceStateEvent(id uint64, field, value string) SurfaceStateEvent {
	return SurfaceStateEvent{
		surfaceBase: newSurfaceBase(TypeSurfaceState, id),
		Field:       field,
		Value:       value,
	}
}

// -----------------------------------------------------------------------------
// Mailbox Events
// -----------------------------------------------------------------------------

// Reasons a message is dropped.
const (
	DropReasonBackpressure  = "backpressure"
	DropReasonClosed        = "closed"
	DropReasonUnknownTarget = "unknown_target"
)

// MailboxDroppedEvent is emitted when a message never reaches its handler.
type MailboxDroppedEvent struct {
	baseEvent
	Target uint64
	Kind   string // Message kind, e.g. "set_title"
	Reason string // One of the DropReason constants
}

// NewMailboxDroppedEvent creates a MailboxDroppedEvent.
func NewMailboxDroppedEvent(target uint64, kind, reason string) MailboxDroppedEvent {
	return MailboxDroppedEvent{
		baseEvent: newBaseEvent(TypeMailboxDropped),
		Target:    target,
		Kind:      kind,
		Reason:    reason,
	}
}

// DispatchErrorEvent is emitted when a handler returns an error or panics.
type DispatchErrorEvent struct {
	baseEvent
	Target uint64
	Kind   string
	Err    string
}

// NewDispatchErrorEvent creates a DispatchErrorEvent.
func NewDispatchErrorEvent(target uint64, kind string, err error) DispatchErrorEvent {
	return DispatchErrorEvent{
		baseEvent: newBaseEvent(TypeDispatchError),
		Target:    target,
		Kind:      kind,
		Err:       err.Error(),
	}
}

// ConfigReloadedEvent is emitted after a new base config has been applied.
type ConfigReloadedEvent struct {
	baseEvent
	Digest   string
	Surfaces int // Surfaces the new config was pushed to
	Failed   int // Surfaces whose config_change push failed
}

// NewConfigReloadedEvent creates a ConfigReloadedEvent.
func NewConfigReloadedEvent(digest string, surfaces, failed int) ConfigReloadedEvent {
	return ConfigReloadedEvent{
		baseEvent: newBaseEvent(TypeConfigReloaded),
		Digest:    digest,
		Surfaces:  surfaces,
		Failed:    failed,
	}
}
