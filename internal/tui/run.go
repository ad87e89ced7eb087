package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/surfacemail/internal/event"
)

// Monitor runs the monitor program.
type Monitor struct {
	ctx     context.Context
	program *tea.Program
	bus     *event.Bus
	subID   string
}

// NewMonitor creates a monitor and subscribes it to bus straight away, so
// no event published after NewMonitor returns is missed. Publishers block
// in the bus until the program is running; call Run promptly.
func NewMonitor(ctx context.Context, bus *event.Bus, p Producer) *Monitor {
	program := tea.NewProgram(NewModel(p),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	m := &Monitor{ctx: ctx, program: program, bus: bus}
	m.subID = bus.SubscribeAll(func(e event.Event) {
		program.Send(EventMsg{Event: e})
	})
	return m
}

// Run shows the monitor until the user quits or the context is done.
func (m *Monitor) Run() error {
	defer m.bus.Unsubscribe(m.subID)

	_, err := m.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}

// Quit asks a running monitor to exit.
func (m *Monitor) Quit() {
	m.program.Quit()
}
