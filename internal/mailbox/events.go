package mailbox

import (
	"errors"

	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/queue"
)

// DropReason classifies a push or dispatch failure for MailboxDroppedEvent.
func DropReason(err error) string {
	if errors.Is(err, queue.ErrClosed) {
		return event.DropReasonClosed
	}
	return event.DropReasonBackpressure
}

// NewDroppedEvent creates an event.MailboxDroppedEvent for a message that
// never reached its handler.
func NewDroppedEvent(target SurfaceID, kind message.Kind, reason string) event.MailboxDroppedEvent {
	return event.NewMailboxDroppedEvent(uint64(target), kind.String(), reason)
}
