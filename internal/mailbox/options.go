package mailbox

import "github.com/Iron-Ham/surfacemail/internal/event"

// Option configures a Mailbox.
type Option func(*Mailbox)

// WithBus attaches an event bus to the Mailbox. When set, a
// MailboxDroppedEvent is published after every failed Push.
func WithBus(bus *event.Bus) Option {
	return func(m *Mailbox) {
		m.bus = bus
	}
}

// WithStats counts pushes into stats. Several mailboxes may share one Stats.
func WithStats(stats *Stats) Option {
	return func(m *Mailbox) {
		m.stats = stats
	}
}
