// Package tui is a live monitor for the surfaces of a running coordinator.
//
// The monitor never touches App or Surface state directly. It learns about
// surfaces from bus events delivered as EventMsg, and it requests changes
// by pushing messages to surface mailboxes, like any other producer.
package tui

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/mailbox"
	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/queue"
)

// maxLogLines is how many recent events the monitor shows.
const maxLogLines = 6

// Producer hands out mailboxes. *app.App implements it.
type Producer interface {
	Mailbox(target mailbox.SurfaceID) mailbox.Mailbox
}

// EventMsg delivers a bus event to the model.
type EventMsg struct {
	Event event.Event
}

type row struct {
	id       uint64
	context  string
	title    string
	pwd      string
	progress string
	mouse    string
	health   string
	exit     string
	bells    int
}

// Model is the monitor's bubbletea model.
type Model struct {
	producer Producer
	keys     KeyMap
	help     help.Model

	rows     []*row // creation order
	selected int
	focused  uint64

	log     []string
	dropped int
	failed  int
	status  string

	width  int
	height int
}

// NewModel creates a monitor that sends requests through p.
func NewModel(p Producer) Model {
	return Model{
		producer: p,
		keys:     DefaultKeyMap,
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m.apply(msg.Event)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.rows)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.NewWindow):
		m.send(mailbox.AppTarget, message.NewNewSurface(config.ContextWindow))
	case key.Matches(msg, m.keys.NewTab):
		m.send(m.parent(), message.NewNewSurface(config.ContextTab))
	case key.Matches(msg, m.keys.NewSplit):
		m.send(m.parent(), message.NewNewSurface(config.ContextSplit))

	case key.Matches(msg, m.keys.Close):
		if r := m.current(); r != nil {
			m.send(mailbox.SurfaceID(r.id), message.NewClose())
		}
	case key.Matches(msg, m.keys.Present):
		if r := m.current(); r != nil {
			m.send(mailbox.SurfaceID(r.id), message.NewPresentSurface())
		}
	case key.Matches(msg, m.keys.Bell):
		if r := m.current(); r != nil {
			m.send(mailbox.SurfaceID(r.id), message.NewRingBell())
		}
	}
	return m, nil
}

// send pushes without waiting. Update must not block: the coordinator may
// itself be waiting to deliver an event to the program.
func (m *Model) send(target mailbox.SurfaceID, msg message.Message) {
	kind := msg.Kind()
	if _, err := m.producer.Mailbox(target).Push(msg, queue.Instant()); err != nil {
		msg.Discard()
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("sent %s to %s", kind, target)
}

// parent is the target for tab and split requests: the selected surface,
// or the application when there is none.
func (m *Model) parent() mailbox.SurfaceID {
	if r := m.current(); r != nil {
		return mailbox.SurfaceID(r.id)
	}
	return mailbox.AppTarget
}

func (m *Model) current() *row {
	if m.selected < 0 || m.selected >= len(m.rows) {
		return nil
	}
	return m.rows[m.selected]
}

func (m *Model) find(id uint64) *row {
	for _, r := range m.rows {
		if r.id == id {
			return r
		}
	}
	return nil
}

func (m *Model) apply(e event.Event) {
	switch e := e.(type) {
	case event.SurfaceCreatedEvent:
		m.rows = append(m.rows, &row{id: e.SurfaceID, context: e.Context, pwd: e.WorkingDirectory})
		m.logf("surface-%d created (%s) in %s", e.SurfaceID, e.Context, orDash(e.WorkingDirectory))

	case event.SurfaceClosedEvent:
		m.rows = slices.DeleteFunc(m.rows, func(r *row) bool { return r.id == e.SurfaceID })
		m.selected = min(m.selected, max(len(m.rows)-1, 0))
		m.logf("surface-%d closed", e.SurfaceID)

	case event.SurfaceFocusedEvent:
		m.focused = e.SurfaceID
		if i := slices.IndexFunc(m.rows, func(r *row) bool { return r.id == e.SurfaceID }); i >= 0 {
			m.selected = i
		}

	case event.SurfaceTitleEvent:
		if r := m.find(e.SurfaceID); r != nil {
			r.title = ansi.Strip(e.Title)
		}

	case event.SurfacePwdEvent:
		if r := m.find(e.SurfaceID); r != nil {
			r.pwd = e.Path
		}

	case event.SurfaceBellEvent:
		if r := m.find(e.SurfaceID); r != nil {
			r.bells++
		}

	case event.SurfaceChildExitedEvent:
		if r := m.find(e.SurfaceID); r != nil {
			r.exit = fmt.Sprintf("exit %d after %s", e.ExitCode, time.Duration(e.RuntimeMs)*time.Millisecond)
		}

	case event.SurfaceNotificationEvent:
		m.logf("surface-%d notification: %s: %s", e.SurfaceID, ansi.Strip(e.Title), ansi.Strip(e.Body))

	case event.SurfaceClipboardEvent:
		verdict := "allowed"
		if !e.Allowed {
			verdict = "denied"
		}
		m.logf("surface-%d clipboard %s %s (%s)", e.SurfaceID, e.Op, e.Clipboard, verdict)

	case event.SurfaceConfigEvent:
		m.logf("surface-%d config %s", e.SurfaceID, e.Digest)

	case event.SurfaceStateEvent:
		r := m.find(e.SurfaceID)
		if r == nil {
			return
		}
		switch e.Field {
		case message.KindProgressReport.String():
			r.progress = e.Value
		case message.KindSetMouseShape.String():
			r.mouse = e.Value
		case message.KindRendererHealth.String():
			r.health = e.Value
		default:
			m.logf("surface-%d %s %s", e.SurfaceID, e.Field, e.Value)
		}

	case event.MailboxDroppedEvent:
		m.dropped++
		m.logf("dropped %s for %s: %s", e.Kind, mailbox.SurfaceID(e.Target), e.Reason)

	case event.DispatchErrorEvent:
		m.failed++
		m.logf("%s on %s failed: %s", e.Kind, mailbox.SurfaceID(e.Target), e.Err)

	case event.ConfigReloadedEvent:
		m.logf("config %s reloaded for %d surfaces (%d failed)", e.Digest, e.Surfaces, e.Failed)
	}
}

func (m *Model) logf(format string, args ...any) {
	m.log = append(m.log, fmt.Sprintf(format, args...))
	if over := len(m.log) - maxLogLines; over > 0 {
		m.log = slices.Delete(m.log, 0, over)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
