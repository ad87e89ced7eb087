// Package bridge forwards surface events to an out-of-process presentation
// layer as a stream of CBOR frames.
//
// A Bridge subscribes to an [event.Bus] and writes one [Frame] per event to
// an io.Writer, typically a pipe or socket owned by the renderer. Frames use
// Core Deterministic Encoding, so the same event always produces the same
// bytes. The data of a child_exited frame is the fixed 16-byte layout of
// [payload.ChildExited], readable without any CBOR schema knowledge.
//
// Lifecycle:
//
//	b := bridge.New(bus, w, bridge.WithLogger(logger))
//	b.Start()   // subscribes to the bus
//	// ... events flow ...
//	b.Stop()    // unsubscribes; safe to call more than once
//
// A [Decoder] reads the stream back.
package bridge
