// Package payload provides the fixed-capacity inline buffers carried by
// surface messages.
//
// Every type is a plain array plus an explicit length, so copying a message
// that holds one never touches the heap. Capacities are part of the wire
// contract with producers:
//
//   - [Small]: bounded writes (clipboard writes, working-directory reports), 255 bytes
//   - [Title]: window titles, 256 bytes, not NUL-terminated
//   - [NotificationTitle]: 63 bytes plus a terminating NUL
//   - [NotificationBody]: 255 bytes plus a terminating NUL
//   - [ChildExited]: fixed 16-byte binary record
//
// # Overflow Policy
//
// Constructors never truncate. Input longer than the capacity is rejected
// with an error wrapping [ErrTooLarge]; NUL-terminated buffers also reject
// input containing a NUL byte with [ErrEmbeddedNUL]. A producer that wants
// truncation must do it before constructing the payload.
package payload
