// Package event provides the pub-sub bus that carries surface state changes
// from the coordinator to observers such as the live monitor, the log, and
// the presentation bridge.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [SurfaceEvent]: An Event about a single surface, providing Surface()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Surface lifecycle:
//   - [SurfaceCreatedEvent], [SurfaceClosedEvent], [SurfaceFocusedEvent]
//
// Surface content, one per handled message kind:
//   - [SurfaceTitleEvent], [SurfacePwdEvent], [SurfaceBellEvent]
//   - [SurfaceChildExitedEvent], [SurfaceNotificationEvent], [SurfaceClipboardEvent]
//   - [SurfaceConfigEvent], [SurfaceStateEvent]
//
// Mailbox and configuration:
//   - [MailboxDroppedEvent]: a message was dropped before reaching its handler
//   - [DispatchErrorEvent]: a handler failed
//   - [ConfigReloadedEvent]: a new base config was applied
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine and are protected against
// panics: a panicking handler will not prevent other handlers from being
// called.
//
// # Basic Usage
//
//	bus := event.NewBus(event.WithLogger(logger))
//
//	bus.Subscribe(event.TypeSurfaceTitle, func(e event.Event) {
//	    title := e.(event.SurfaceTitleEvent)
//	    fmt.Printf("surface %d: %s\n", title.SurfaceID, title.Title)
//	})
//
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("Event: %s at %v", e.EventType(), e.Timestamp())
//	})
package event
