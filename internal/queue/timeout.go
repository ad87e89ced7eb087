package queue

import (
	"fmt"
	"time"
)

type timeoutMode uint8

const (
	modeInstant timeoutMode = iota
	modeBounded
	modeForever
)

// Timeout says how long Push may block on a full queue.
// The zero Timeout is Instant.
type Timeout struct {
	mode timeoutMode
	d    time.Duration
}

// Instant fails immediately when the queue is full.
func Instant() Timeout { return Timeout{} }

// After blocks for at most d. A non-positive d is Instant.
func After(d time.Duration) Timeout {
	if d <= 0 {
		return Instant()
	}
	return Timeout{mode: modeBounded, d: d}
}

// Forever blocks until there is room or the queue is closed.
func Forever() Timeout { return Timeout{mode: modeForever} }

// Duration returns the bound of an After timeout, and 0 otherwise.
func (t Timeout) Duration() time.Duration { return t.d }

func (t Timeout) String() string {
	switch t.mode {
	case modeBounded:
		return fmt.Sprintf("after(%s)", t.d)
	case modeForever:
		return "forever"
	}
	return "instant"
}
