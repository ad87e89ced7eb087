// Package message defines the closed set of events a producer can send to a
// surface through its mailbox.
//
// A [Message] is a value type. Every variant's payload is stored inline in
// fixed-capacity buffers from package payload, so building, copying and
// queueing a Message never allocates. Constructors reject payloads that do
// not fit rather than truncating them.
//
// The one variant that carries heap state is config_change. Its
// *config.Config is owned by the Message: the sender hands it over at
// construction, the handler takes it back out with [Message.TakeConfig], and
// anything left unclaimed is released by [Message.Discard].
package message
