package surface

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/message"
)

// ErrNoClipboard is returned for clipboard requests on a surface created
// without a Clipboard.
var ErrNoClipboard = errors.New("no clipboard configured")

// Clipboard is the system clipboard as provided by the platform layer.
type Clipboard interface {
	ReadClipboard(c message.Clipboard) (string, error)
	WriteClipboard(c message.Clipboard, data string) error
}

// MemoryClipboard is an in-process Clipboard. It is safe for concurrent use.
type MemoryClipboard struct {
	mu   sync.Mutex
	data map[message.Clipboard]string
}

// NewMemoryClipboard returns an empty MemoryClipboard.
func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{data: make(map[message.Clipboard]string)}
}

// ReadClipboard implements Clipboard.
func (m *MemoryClipboard) ReadClipboard(c message.Clipboard) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[c], nil
}

// WriteClipboard implements Clipboard.
func (m *MemoryClipboard) WriteClipboard(c message.Clipboard, data string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[c] = data
	return nil
}

func (s *Surface) clipboardRead(c message.Clipboard) error {
	if s.cfg.ClipboardRead != config.ClipboardAllow {
		s.logger.Info("clipboard read denied by config", "clipboard", c.String())
		s.publish(event.NewSurfaceClipboardEvent(uint64(s.id), c.String(), event.ClipboardOpRead, false, ""))
		return nil
	}
	if s.clipboard == nil {
		return fmt.Errorf("%s: clipboard read: %w", s.id, ErrNoClipboard)
	}
	data, err := s.clipboard.ReadClipboard(c)
	if err != nil {
		return fmt.Errorf("%s: clipboard read: %w", s.id, err)
	}
	s.publish(event.NewSurfaceClipboardEvent(uint64(s.id), c.String(), event.ClipboardOpRead, true, data))
	return nil
}

func (s *Surface) clipboardWrite(c message.Clipboard, data string) error {
	if s.cfg.ClipboardWrite != config.ClipboardAllow {
		s.logger.Info("clipboard write denied by config", "clipboard", c.String())
		s.publish(event.NewSurfaceClipboardEvent(uint64(s.id), c.String(), event.ClipboardOpWrite, false, ""))
		return nil
	}
	if s.clipboard == nil {
		return fmt.Errorf("%s: clipboard write: %w", s.id, ErrNoClipboard)
	}
	if err := s.clipboard.WriteClipboard(c, data); err != nil {
		return fmt.Errorf("%s: clipboard write: %w", s.id, err)
	}
	s.publish(event.NewSurfaceClipboardEvent(uint64(s.id), c.String(), event.ClipboardOpWrite, true, data))
	return nil
}
