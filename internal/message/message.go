package message

import (
	"errors"
	"fmt"
	"time"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/payload"
)

// Errors returned by constructors.
var (
	ErrNilConfig     = errors.New("config_change requires a config")
	ErrProgressRange = errors.New("progress must be between 0 and 100")
)

// NoProgress is passed to NewProgressReport when a report carries no value.
const NoProgress = -1

// Message is one event for a surface. The zero Message has KindInvalid.
//
// Only the fields of the active variant are meaningful. Accessors return
// ok=false when called for another variant.
type Message struct {
	kind Kind

	// code holds the variant's enum: title style, mouse shape, clipboard,
	// renderer health, progress state or surface context.
	code uint8
	flag bool

	hasProgress bool
	progress    uint8

	title  payload.Title
	small  payload.Small
	exited payload.ChildExited

	notifyTitle payload.NotificationTitle
	notifyBody  payload.NotificationBody

	config *config.Config
}

// Kind returns the active variant.
func (m *Message) Kind() Kind { return m.kind }

func (m Message) String() string {
	return m.kind.String()
}

// NewSetTitle sets the surface title. Titles longer than
// payload.TitleCap bytes are rejected.
func NewSetTitle(title string) (Message, error) {
	t, err := payload.NewTitle(title)
	if err != nil {
		return Message{}, err
	}
	return Message{kind: KindSetTitle, title: t}, nil
}

// Title returns the set_title payload.
func (m *Message) Title() (*payload.Title, bool) {
	if m.kind != KindSetTitle {
		return nil, false
	}
	return &m.title, true
}

// NewReportTitle asks the surface to report its title to the program.
func NewReportTitle(style ReportTitleStyle) Message {
	return Message{kind: KindReportTitle, code: uint8(style)}
}

// ReportTitleStyle returns the report_title payload.
func (m *Message) ReportTitleStyle() (ReportTitleStyle, bool) {
	return ReportTitleStyle(m.code), m.kind == KindReportTitle
}

// NewSetMouseShape changes the pointer shape over the surface.
func NewSetMouseShape(shape MouseShape) Message {
	return Message{kind: KindSetMouseShape, code: uint8(shape)}
}

// MouseShape returns the set_mouse_shape payload.
func (m *Message) MouseShape() (MouseShape, bool) {
	return MouseShape(m.code), m.kind == KindSetMouseShape
}

// NewClipboardRead requests the contents of clipboard.
func NewClipboardRead(clipboard Clipboard) Message {
	return Message{kind: KindClipboardRead, code: uint8(clipboard)}
}

// ClipboardRead returns the clipboard_read payload.
func (m *Message) ClipboardRead() (Clipboard, bool) {
	return Clipboard(m.code), m.kind == KindClipboardRead
}

// NewClipboardWrite writes data to clipboard. Data longer than
// payload.SmallCap bytes is rejected.
func NewClipboardWrite(clipboard Clipboard, data []byte) (Message, error) {
	s, err := payload.NewSmall(data)
	if err != nil {
		return Message{}, fmt.Errorf("clipboard_write: %w", err)
	}
	return Message{kind: KindClipboardWrite, code: uint8(clipboard), small: s}, nil
}

// ClipboardWrite returns the clipboard_write payload.
func (m *Message) ClipboardWrite() (Clipboard, *payload.Small, bool) {
	if m.kind != KindClipboardWrite {
		return 0, nil, false
	}
	return Clipboard(m.code), &m.small, true
}

// NewConfigChange hands cfg to the receiving surface. The Message owns cfg
// from here on; the caller must not use or release it unless the push
// fails, in which case ownership stays with the caller.
func NewConfigChange(cfg *config.Config) (Message, error) {
	if cfg == nil {
		return Message{}, ErrNilConfig
	}
	return Message{kind: KindConfigChange, config: cfg}, nil
}

// TakeConfig moves the config_change payload out of m. The caller owns the
// returned config and must release it. A second call returns ok=false.
func (m *Message) TakeConfig() (*config.Config, bool) {
	if m.kind != KindConfigChange || m.config == nil {
		return nil, false
	}
	cfg := m.config
	m.config = nil
	return cfg, true
}

// NewClose asks the surface to close.
func NewClose() Message {
	return Message{kind: KindClose}
}

// NewChildExited reports that the surface's child process exited.
func NewChildExited(exitCode uint32, runtime time.Duration) Message {
	return Message{kind: KindChildExited, exited: payload.NewChildExited(exitCode, runtime)}
}

// ChildExited returns the child_exited payload.
func (m *Message) ChildExited() (payload.ChildExited, bool) {
	return m.exited, m.kind == KindChildExited
}

// NewDesktopNotification raises a desktop notification. The title is
// limited to payload.NotificationTitleCap bytes and the body to
// payload.NotificationBodyCap; neither may contain NUL.
func NewDesktopNotification(title, body string) (Message, error) {
	t, err := payload.NewNotificationTitle(title)
	if err != nil {
		return Message{}, fmt.Errorf("desktop_notification: %w", err)
	}
	b, err := payload.NewNotificationBody(body)
	if err != nil {
		return Message{}, fmt.Errorf("desktop_notification: %w", err)
	}
	return Message{kind: KindDesktopNotification, notifyTitle: t, notifyBody: b}, nil
}

// DesktopNotification returns the desktop_notification payload.
func (m *Message) DesktopNotification() (*payload.NotificationTitle, *payload.NotificationBody, bool) {
	if m.kind != KindDesktopNotification {
		return nil, nil, false
	}
	return &m.notifyTitle, &m.notifyBody, true
}

// NewRendererHealth reports a change in the renderer's health.
func NewRendererHealth(health RendererHealth) Message {
	return Message{kind: KindRendererHealth, code: uint8(health)}
}

// RendererHealth returns the renderer_health payload.
func (m *Message) RendererHealth() (RendererHealth, bool) {
	return RendererHealth(m.code), m.kind == KindRendererHealth
}

// NewReportColorScheme asks the surface to report its color scheme. With
// force the report is sent even if the program has not subscribed to it.
func NewReportColorScheme(force bool) Message {
	return Message{kind: KindReportColorScheme, flag: force}
}

// ReportColorScheme returns the report_color_scheme payload.
func (m *Message) ReportColorScheme() (force, ok bool) {
	return m.flag, m.kind == KindReportColorScheme
}

// NewPresentSurface asks for the surface to be brought to the front.
func NewPresentSurface() Message {
	return Message{kind: KindPresentSurface}
}

// NewPasswordInput reports whether the program is reading a password.
func NewPasswordInput(active bool) Message {
	return Message{kind: KindPasswordInput, flag: active}
}

// PasswordInput returns the password_input payload.
func (m *Message) PasswordInput() (active, ok bool) {
	return m.flag, m.kind == KindPasswordInput
}

// NewPwdChange reports the program's new working directory. Paths longer
// than payload.SmallCap bytes are rejected.
func NewPwdChange(path string) (Message, error) {
	s, err := payload.NewSmallString(path)
	if err != nil {
		return Message{}, fmt.Errorf("pwd_change: %w", err)
	}
	return Message{kind: KindPwdChange, small: s}, nil
}

// Pwd returns the pwd_change payload.
func (m *Message) Pwd() (*payload.Small, bool) {
	if m.kind != KindPwdChange {
		return nil, false
	}
	return &m.small, true
}

// NewRingBell rings the surface's bell.
func NewRingBell() Message {
	return Message{kind: KindRingBell}
}

// NewSelectionScroll starts or stops scrolling while a selection is dragged
// past the surface edge.
func NewSelectionScroll(active bool) Message {
	return Message{kind: KindSelectionScroll, flag: active}
}

// SelectionScroll returns the selection_scroll payload.
func (m *Message) SelectionScroll() (active, ok bool) {
	return m.flag, m.kind == KindSelectionScroll
}

// NewProgressReport reports progress. Pass NoProgress when the report has
// no value; otherwise progress must be in [0, 100].
func NewProgressReport(state ProgressState, progress int) (Message, error) {
	m := Message{kind: KindProgressReport, code: uint8(state)}
	if progress == NoProgress {
		return m, nil
	}
	if progress < 0 || progress > 100 {
		return Message{}, fmt.Errorf("progress_report: %w (got %d)", ErrProgressRange, progress)
	}
	m.hasProgress = true
	m.progress = uint8(progress)
	return m, nil
}

// ProgressReport returns the progress_report payload. hasValue is false
// when the report carries no percentage.
func (m *Message) ProgressReport() (state ProgressState, value uint8, hasValue, ok bool) {
	return ProgressState(m.code), m.progress, m.hasProgress, m.kind == KindProgressReport
}

// NewNewSurface asks for a new surface. Sent to a surface, that surface is
// the parent; sent to the application, the focused surface is used.
func NewNewSurface(ctx config.SurfaceContext) Message {
	return Message{kind: KindNewSurface, code: uint8(ctx)}
}

// NewSurfaceContext returns the new_surface payload.
func (m *Message) NewSurfaceContext() (config.SurfaceContext, bool) {
	return config.SurfaceContext(m.code), m.kind == KindNewSurface
}

// Discard releases anything m still owns. It is called for messages that
// are dropped or whose handler did not take their payload, and is safe to
// call more than once.
func (m *Message) Discard() {
	if m.config != nil {
		_ = m.config.Release()
		m.config = nil
	}
}
