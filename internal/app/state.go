package app

import (
	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/dispatcher"
	"github.com/Iron-Ham/surfacemail/internal/mailbox"
	"github.com/Iron-Ham/surfacemail/internal/surface"
)

// Base returns the base config. It stays owned by the App.
func (a *App) Base() *config.Config { return a.base }

// Surfaces returns surface ids in creation order.
func (a *App) Surfaces() []mailbox.SurfaceID {
	return append([]mailbox.SurfaceID(nil), a.order...)
}

// Surface returns the surface with the given id.
func (a *App) Surface(id mailbox.SurfaceID) (*surface.Surface, bool) {
	s, ok := a.surfaces[id]
	return s, ok
}

// Focused returns the focused surface id, or AppTarget when there is none.
func (a *App) Focused() mailbox.SurfaceID { return a.focused }

// Queue returns the shared surface queue.
func (a *App) Queue() *mailbox.Queue { return a.queue }

// Stats is a snapshot of mailbox and dispatcher counters.
type Stats struct {
	Pushed        uint64
	PushFailed    uint64
	Dispatch      dispatcher.Stats
	Queued        int
	HighWaterMark int
}

// Stats returns the App's counters. It may be called from any goroutine.
func (a *App) Stats() Stats {
	return Stats{
		Pushed:        a.stats.Pushed(),
		PushFailed:    a.stats.Dropped(),
		Dispatch:      a.dispatcher.Stats(),
		Queued:        a.queue.Len(),
		HighWaterMark: a.queue.HighWaterMark(),
	}
}
