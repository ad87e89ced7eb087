// Package app is the coordinator: it owns the base config, the shared
// surface queue, and every surface, and runs the dispatcher that applies
// queued messages to them.
//
// Methods that change state (NewSurface, CloseSurface, Focus, UpdateConfig)
// must be called on the coordinator goroutine, that is from a message
// handler, or before Run starts. Other goroutines interact with the App
// only by pushing messages to a Mailbox, and by calling Quit.
package app

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/dispatcher"
	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/logging"
	"github.com/Iron-Ham/surfacemail/internal/mailbox"
	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/queue"
	"github.com/Iron-Ham/surfacemail/internal/surface"
)

// ErrUnknownSurface is returned for operations on a surface id the App
// does not know.
var ErrUnknownSurface = errors.New("unknown surface")

// App coordinates surfaces.
type App struct {
	base   *config.Config
	alloc  config.Allocator
	queue  *mailbox.Queue
	bus    *event.Bus
	logger *logging.Logger
	stats  *mailbox.Stats

	clipboard surface.Clipboard

	surfaces map[mailbox.SurfaceID]*surface.Surface
	order    []mailbox.SurfaceID // creation order
	focused  mailbox.SurfaceID
	lastID   mailbox.SurfaceID

	dispatcher   *dispatcher.Dispatcher
	shutdownOnce sync.Once
}

// Option configures an App.
type Option func(*App)

// WithBus publishes surface and mailbox events on bus.
func WithBus(bus *event.Bus) Option {
	return func(a *App) { a.bus = bus }
}

// WithLogger sets the logger for the App and everything it creates.
func WithLogger(logger *logging.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithAllocator charges derived surface configs to alloc.
func WithAllocator(alloc config.Allocator) Option {
	return func(a *App) {
		if alloc != nil {
			a.alloc = alloc
		}
	}
}

// WithClipboard gives surfaces a clipboard.
func WithClipboard(c surface.Clipboard) Option {
	return func(a *App) { a.clipboard = c }
}

// New creates an App that takes ownership of base. The shared queue is
// sized by base.Mailbox.Capacity.
func New(base *config.Config, opts ...Option) (*App, error) {
	if base == nil {
		return nil, errors.New("app: base config must not be nil")
	}
	q, err := mailbox.NewQueue(base.Mailbox.Capacity)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	a := &App{
		base:     base,
		alloc:    config.Heap,
		queue:    q,
		logger:   logging.NopLogger(),
		stats:    &mailbox.Stats{},
		surfaces: make(map[mailbox.SurfaceID]*surface.Surface),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.WithComponent("app")
	a.dispatcher = dispatcher.New(q, a,
		dispatcher.WithBus(a.bus),
		dispatcher.WithLogger(a.logger),
	)
	return a, nil
}

// Mailbox returns the mailbox for target. It may be called from any
// goroutine; pushes to a target that no longer exists are dropped by the
// dispatcher.
func (a *App) Mailbox(target mailbox.SurfaceID) mailbox.Mailbox {
	return mailbox.New(target, a.queue, mailbox.WithBus(a.bus), mailbox.WithStats(a.stats))
}

// PushTimeout is the timeout configured for producers by
// mailbox.push-timeout-ms.
func (a *App) PushTimeout() queue.Timeout {
	return queue.After(a.base.Mailbox.PushTimeout())
}

// Route implements dispatcher.Router. AppTarget routes to the App itself.
func (a *App) Route(target mailbox.SurfaceID) (dispatcher.Handler, bool) {
	if target == mailbox.AppTarget {
		return a, true
	}
	s, ok := a.surfaces[target]
	if !ok {
		return nil, false
	}
	return s, true
}

// HandleMessage handles messages addressed to AppTarget.
func (a *App) HandleMessage(_ context.Context, msg *message.Message) error {
	switch msg.Kind() {
	case message.KindNewSurface:
		ctx, _ := msg.NewSurfaceContext()
		_, err := a.NewSurface(ctx, nil)
		return err

	case message.KindConfigChange:
		cfg, ok := msg.TakeConfig()
		if !ok {
			return errors.New("app: config_change without config")
		}
		return a.UpdateConfig(cfg)

	case message.KindClose:
		a.Quit()
		return nil
	}
	return fmt.Errorf("app: %s is not handled at application level", msg.Kind())
}

// FocusedSurface implements surface.App.
func (a *App) FocusedSurface() (surface.WorkingDirectorySource, bool) {
	s, ok := a.surfaces[a.focused]
	if !ok {
		return nil, false
	}
	return s, true
}

// NewSurface creates, registers and focuses a surface. Its config is
// derived from the base config, inheriting the working directory from
// parent or, when parent is nil, from the focused surface.
func (a *App) NewSurface(ctx config.SurfaceContext, parent *surface.Surface) (*surface.Surface, error) {
	// A nil *Surface must not become a non-nil interface.
	var from surface.WorkingDirectorySource
	var parentID mailbox.SurfaceID
	if parent != nil {
		from = parent
		parentID = parent.ID()
	}

	cfg, err := surface.NewConfig(a, a.base, ctx, from,
		surface.WithAllocator(a.alloc),
		surface.WithDeriveLogger(a.logger),
	)
	if err != nil {
		a.logger.Error("deriving surface config failed", "context", ctx.String(), "error", err)
		return nil, err
	}

	a.lastID++
	id := a.lastID
	s := surface.New(id, cfg, a,
		surface.WithBus(a.bus),
		surface.WithClipboard(a.clipboard),
		surface.WithLogger(a.logger),
	)
	a.surfaces[id] = s
	a.order = append(a.order, id)

	inherited := cfg.WorkingDirectory != a.base.WorkingDirectory
	a.logger.Info("surface created",
		"surface_id", uint64(id),
		"parent_id", uint64(parentID),
		"context", ctx.String(),
		"working_directory", cfg.WorkingDirectory,
		"inherited", inherited,
	)
	a.publish(event.NewSurfaceCreatedEvent(uint64(id), uint64(parentID), ctx.String(), cfg.WorkingDirectory, inherited))
	a.setFocus(id)
	return s, nil
}

// CloseSurface closes the surface and releases its config. If it was
// focused, focus moves to the most recently created remaining surface.
func (a *App) CloseSurface(id mailbox.SurfaceID) error {
	s, ok := a.surfaces[id]
	if !ok {
		return fmt.Errorf("close %s: %w", id, ErrUnknownSurface)
	}
	delete(a.surfaces, id)
	a.order = slices.DeleteFunc(a.order, func(other mailbox.SurfaceID) bool { return other == id })

	err := s.Close()
	if err != nil {
		a.logger.Warn("closing surface", "surface_id", uint64(id), "error", err)
	}
	a.logger.Info("surface closed", "surface_id", uint64(id), "remaining", len(a.order))
	a.publish(event.NewSurfaceClosedEvent(uint64(id)))

	if a.focused == id {
		next := mailbox.AppTarget
		if n := len(a.order); n > 0 {
			next = a.order[n-1]
		}
		a.setFocus(next)
	}
	return err
}

// Focus moves focus to id.
func (a *App) Focus(id mailbox.SurfaceID) error {
	if _, ok := a.surfaces[id]; !ok {
		return fmt.Errorf("focus %s: %w", id, ErrUnknownSurface)
	}
	a.setFocus(id)
	return nil
}

func (a *App) setFocus(id mailbox.SurfaceID) {
	if a.focused == id {
		return
	}
	prev := a.focused
	a.focused = id
	a.publish(event.NewSurfaceFocusedEvent(uint64(id), uint64(prev)))
}

// UpdateConfig replaces the base config, taking ownership of cfg, and
// sends every surface its own clone in a config_change message. Surfaces
// whose message cannot be queued keep their current config.
func (a *App) UpdateConfig(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("app: nil config")
	}
	old := a.base
	a.base = cfg
	if err := old.Release(); err != nil {
		a.logger.Warn("releasing previous base config", "error", err)
	}

	failed := 0
	for _, id := range a.order {
		if err := a.sendConfig(id, cfg); err != nil {
			failed++
			a.logger.Warn("config change not delivered", "surface_id", uint64(id), "error", err)
		}
	}

	digest, err := cfg.Digest()
	if err != nil {
		return fmt.Errorf("app: config digest: %w", err)
	}
	a.logger.Info("config reloaded", "digest", digest.String(), "surfaces", len(a.order), "failed", failed)
	a.publish(event.NewConfigReloadedEvent(digest.String(), len(a.order), failed))
	return nil
}

// sendConfig queues a clone of cfg for id. It runs on the coordinator,
// which is the queue's only consumer, so it must never block.
func (a *App) sendConfig(id mailbox.SurfaceID, cfg *config.Config) error {
	clone, err := cfg.ShallowClone(a.alloc)
	if err != nil {
		return err
	}
	msg, err := message.NewConfigChange(clone)
	if err != nil {
		_ = clone.Release()
		return err
	}
	if _, err := a.Mailbox(id).Push(msg, queue.Instant()); err != nil {
		msg.Discard()
		return err
	}
	return nil
}

// Run dispatches queued messages until ctx is done or Quit is called, then
// shuts the App down. It returns nil after Quit and ctx.Err() on
// cancellation.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("coordinator started", "capacity", a.queue.Cap())
	err := a.dispatcher.Run(ctx)
	a.Shutdown()
	return err
}

// Quit stops Run once the messages already queued have been handled. It
// is safe to call from any goroutine.
func (a *App) Quit() {
	a.queue.Close()
}

// Shutdown closes the queue, handles what is left in it, closes every
// surface and releases the base config. Only the first call has any
// effect. It must not run concurrently with Run.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		a.queue.Close()
		drained := a.dispatcher.Drain(context.Background())

		for i := len(a.order) - 1; i >= 0; i-- {
			id := a.order[i]
			if err := a.surfaces[id].Close(); err != nil {
				a.logger.Warn("closing surface", "surface_id", uint64(id), "error", err)
			}
			a.publish(event.NewSurfaceClosedEvent(uint64(id)))
			delete(a.surfaces, id)
		}
		a.order = nil
		a.focused = mailbox.AppTarget

		if err := a.base.Release(); err != nil {
			a.logger.Warn("releasing base config", "error", err)
		}

		stats := a.dispatcher.Stats()
		a.logger.Info("coordinator stopped",
			"drained", drained,
			"handled", stats.Handled,
			"dropped", stats.Dropped+a.stats.Dropped(),
			"failed", stats.Failed,
			"high_water_mark", a.queue.HighWaterMark(),
		)
	})
}

func (a *App) publish(e event.Event) {
	if a.bus != nil {
		a.bus.Publish(e)
	}
}
