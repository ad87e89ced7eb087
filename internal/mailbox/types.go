package mailbox

import (
	"strconv"

	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/queue"
)

// SurfaceID identifies a surface. IDs are assigned by the coordinator
// starting at 1.
type SurfaceID uint64

// AppTarget addresses the application itself rather than a surface.
const AppTarget SurfaceID = 0

func (id SurfaceID) String() string {
	if id == AppTarget {
		return "app"
	}
	return "surface-" + strconv.FormatUint(uint64(id), 10)
}

// Envelope is one queued message and the surface it is for.
type Envelope struct {
	Target  SurfaceID
	Message message.Message
}

// Queue is the shared queue every Mailbox feeds.
type Queue = queue.Queue[Envelope]

// NewQueue returns a shared queue holding at most capacity envelopes.
func NewQueue(capacity int) (*Queue, error) {
	return queue.New[Envelope](capacity)
}
