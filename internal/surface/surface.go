// Package surface holds the coordinator-side state of one terminal surface
// and the handler that applies mailbox messages to it.
//
// All Surface methods must be called from the coordinator goroutine. Other
// goroutines talk to a surface only through its mailbox.
package surface

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/logging"
	"github.com/Iron-Ham/surfacemail/internal/mailbox"
	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/payload"
)

// ErrClosed is returned when a closed surface is asked to do anything.
var ErrClosed = errors.New("surface closed")

// Host is the application that owns surfaces. A surface calls back into
// its host for requests that affect more than itself.
type Host interface {
	// NewSurface creates a surface of kind ctx with parent as its parent.
	NewSurface(ctx config.SurfaceContext, parent *Surface) (*Surface, error)
	// CloseSurface closes and forgets the surface with the given id.
	CloseSurface(id mailbox.SurfaceID) error
	// Focus moves focus to the surface with the given id.
	Focus(id mailbox.SurfaceID) error
}

// Progress is the last progress report a surface received.
type Progress struct {
	State    message.ProgressState
	Value    uint8
	HasValue bool
}

// Surface is one terminal surface as seen by the coordinator.
type Surface struct {
	id   mailbox.SurfaceID
	cfg  *config.Config
	host Host

	clipboard Clipboard
	bus       *event.Bus
	logger    *logging.Logger

	title           string
	pwd             string
	mouseShape      message.MouseShape
	health          message.RendererHealth
	passwordInput   bool
	selectionScroll bool
	progress        Progress
	exited          *payload.ChildExited
	bells           int
	closed          bool
}

// Option configures a Surface.
type Option func(*Surface)

// WithClipboard sets the clipboard used for clipboard_read and
// clipboard_write. Without one, clipboard requests fail.
func WithClipboard(c Clipboard) Option {
	return func(s *Surface) { s.clipboard = c }
}

// WithBus publishes the surface's state changes on bus.
func WithBus(bus *event.Bus) Option {
	return func(s *Surface) { s.bus = bus }
}

// WithLogger sets the logger for the surface.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Surface) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a surface that takes ownership of cfg. The surface's working
// directory starts as cfg's resolved working directory.
func New(id mailbox.SurfaceID, cfg *config.Config, host Host, opts ...Option) *Surface {
	s := &Surface{
		id:     id,
		cfg:    cfg,
		host:   host,
		logger: logging.NopLogger(),
		pwd:    cfg.ResolveWorkingDirectory(),
		title:  cfg.Title,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithSurface(uint64(id))
	return s
}

// ID returns the surface's id.
func (s *Surface) ID() mailbox.SurfaceID { return s.id }

// Config returns the surface's current config. It stays owned by the
// surface and is only valid until the next config_change or Close.
func (s *Surface) Config() *config.Config { return s.cfg }

// Title returns the current title.
func (s *Surface) Title() string { return s.title }

// Pwd returns the last reported working directory.
func (s *Surface) Pwd() string { return s.pwd }

// MouseShape returns the current pointer shape.
func (s *Surface) MouseShape() message.MouseShape { return s.mouseShape }

// RendererHealth returns the last reported renderer health.
func (s *Surface) RendererHealth() message.RendererHealth { return s.health }

// PasswordInput reports whether the program is reading a password.
func (s *Surface) PasswordInput() bool { return s.passwordInput }

// SelectionScroll reports whether selection scrolling is active.
func (s *Surface) SelectionScroll() bool { return s.selectionScroll }

// Progress returns the last progress report.
func (s *Surface) Progress() Progress { return s.progress }

// ChildExited returns the exit record of the surface's child process.
func (s *Surface) ChildExited() (payload.ChildExited, bool) {
	if s.exited == nil {
		return payload.ChildExited{}, false
	}
	return *s.exited, true
}

// Bells returns how many times the bell has rung.
func (s *Surface) Bells() int { return s.bells }

// Closed reports whether Close has been called.
func (s *Surface) Closed() bool { return s.closed }

// WorkingDirectory copies the surface's working directory into arena.
func (s *Surface) WorkingDirectory(arena *config.Arena) (string, bool, error) {
	if s.closed {
		return "", false, ErrClosed
	}
	if s.pwd == "" {
		return "", false, nil
	}
	dir, err := arena.Strdup(s.pwd)
	if err != nil {
		return "", false, fmt.Errorf("%s: working directory: %w", s.id, err)
	}
	return dir, true, nil
}

// Close releases the surface's config. It must be called exactly once, by
// the host.
func (s *Surface) Close() error {
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return s.cfg.Release()
}

// HandleMessage applies msg to the surface.
func (s *Surface) HandleMessage(ctx context.Context, msg *message.Message) error {
	if s.closed {
		return fmt.Errorf("%s: %s: %w", s.id, msg.Kind(), ErrClosed)
	}

	switch msg.Kind() {
	case message.KindSetTitle:
		title, _ := msg.Title()
		return s.setTitle(title.String())

	case message.KindReportTitle:
		style, _ := msg.ReportTitleStyle()
		s.publishState(msg.Kind(), style.String()+":"+s.title)

	case message.KindSetMouseShape:
		s.mouseShape, _ = msg.MouseShape()
		s.publishState(msg.Kind(), s.mouseShape.String())

	case message.KindClipboardRead:
		c, _ := msg.ClipboardRead()
		return s.clipboardRead(c)

	case message.KindClipboardWrite:
		c, data, _ := msg.ClipboardWrite()
		return s.clipboardWrite(c, data.String())

	case message.KindConfigChange:
		cfg, ok := msg.TakeConfig()
		if !ok {
			return fmt.Errorf("%s: config_change without config", s.id)
		}
		return s.changeConfig(cfg)

	case message.KindClose:
		return s.host.CloseSurface(s.id)

	case message.KindChildExited:
		exited, _ := msg.ChildExited()
		s.exited = &exited
		s.logger.Info("child exited", "exit_code", exited.ExitCode, "runtime_ms", exited.RuntimeMs)
		s.publish(event.NewSurfaceChildExitedEvent(uint64(s.id), exited.ExitCode, exited.RuntimeMs))

	case message.KindDesktopNotification:
		title, body, _ := msg.DesktopNotification()
		if !s.cfg.DesktopNotifications {
			s.logger.Debug("desktop notification suppressed by config")
			return nil
		}
		s.publish(event.NewSurfaceNotificationEvent(uint64(s.id), title.String(), body.String()))

	case message.KindRendererHealth:
		s.health, _ = msg.RendererHealth()
		if s.health == message.RendererUnhealthy {
			s.logger.Warn("renderer unhealthy")
		}
		s.publishState(msg.Kind(), s.health.String())

	case message.KindReportColorScheme:
		force, _ := msg.ReportColorScheme()
		s.publishState(msg.Kind(), strconv.FormatBool(force))

	case message.KindPresentSurface:
		if err := s.host.Focus(s.id); err != nil {
			return err
		}
		s.publishState(msg.Kind(), "")

	case message.KindPasswordInput:
		s.passwordInput, _ = msg.PasswordInput()
		s.publishState(msg.Kind(), strconv.FormatBool(s.passwordInput))

	case message.KindPwdChange:
		pwd, _ := msg.Pwd()
		s.pwd = pwd.String()
		s.publish(event.NewSurfacePwdEvent(uint64(s.id), s.pwd))

	case message.KindRingBell:
		s.bells++
		s.publish(event.NewSurfaceBellEvent(uint64(s.id)))

	case message.KindSelectionScroll:
		s.selectionScroll, _ = msg.SelectionScroll()
		s.publishState(msg.Kind(), strconv.FormatBool(s.selectionScroll))

	case message.KindProgressReport:
		state, value, hasValue, _ := msg.ProgressReport()
		s.progress = Progress{State: state, Value: value, HasValue: hasValue}
		s.publishState(msg.Kind(), s.progress.String())

	case message.KindNewSurface:
		sctx, _ := msg.NewSurfaceContext()
		_, err := s.host.NewSurface(sctx, s)
		return err

	default:
		return fmt.Errorf("%s: unhandled message kind %s", s.id, msg.Kind())
	}
	return nil
}

func (p Progress) String() string {
	if !p.HasValue {
		return p.State.String()
	}
	return p.State.String() + ":" + strconv.Itoa(int(p.Value))
}

func (s *Surface) setTitle(title string) error {
	if s.cfg.Title != "" {
		s.logger.Debug("title change ignored, title is fixed by config")
		return nil
	}
	s.title = title
	s.publish(event.NewSurfaceTitleEvent(uint64(s.id), title))
	return nil
}

func (s *Surface) changeConfig(cfg *config.Config) error {
	old := s.cfg
	s.cfg = cfg
	if err := old.Release(); err != nil {
		s.logger.Warn("releasing previous config", "error", err)
	}
	if cfg.Title != "" {
		s.title = cfg.Title
	}

	digest, err := cfg.Digest()
	if err != nil {
		return fmt.Errorf("%s: config digest: %w", s.id, err)
	}
	s.logger.Debug("config changed", "digest", digest.String())
	s.publish(event.NewSurfaceConfigEvent(uint64(s.id), digest.String()))
	return nil
}

func (s *Surface) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func (s *Surface) publishState(kind message.Kind, value string) {
	s.publish(event.NewSurfaceStateEvent(uint64(s.id), kind.String(), value))
}
