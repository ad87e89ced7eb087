package payload

import (
	"encoding/binary"
	"fmt"
	"time"
)

// ChildExitedSize is the encoded size of a ChildExited record.
const ChildExitedSize = 16

// ChildExited reports that a surface's child process has exited.
//
// The in-memory layout matches the C struct {uint32_t; uint64_t} on 64-bit
// targets: ExitCode at offset 0, four bytes of padding, RuntimeMs at offset 8.
// The encoded form written by MarshalBinary uses the same offsets in
// little-endian byte order with the padding zeroed.
type ChildExited struct {
	ExitCode  uint32
	RuntimeMs uint64
}

// NewChildExited builds a record from an exit code and the child's runtime.
// Negative runtimes are clamped to zero.
func NewChildExited(exitCode uint32, runtime time.Duration) ChildExited {
	ms := runtime.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return ChildExited{ExitCode: exitCode, RuntimeMs: uint64(ms)}
}

// Runtime returns RuntimeMs as a time.Duration.
func (c ChildExited) Runtime() time.Duration {
	return time.Duration(c.RuntimeMs) * time.Millisecond
}

// AppendBinary appends the 16-byte encoding of c to b.
func (c ChildExited) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint32(b, c.ExitCode)
	b = append(b, 0, 0, 0, 0)
	b = binary.LittleEndian.AppendUint64(b, c.RuntimeMs)
	return b, nil
}

// MarshalBinary returns the 16-byte encoding of c.
func (c ChildExited) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(make([]byte, 0, ChildExitedSize))
}

// UnmarshalBinary decodes a record produced by MarshalBinary.
func (c *ChildExited) UnmarshalBinary(b []byte) error {
	if len(b) != ChildExitedSize {
		return fmt.Errorf("child exited record: got %d bytes, want %d", len(b), ChildExitedSize)
	}
	c.ExitCode = binary.LittleEndian.Uint32(b[0:4])
	c.RuntimeMs = binary.LittleEndian.Uint64(b[8:16])
	return nil
}
