package payload

import (
	"errors"
	"fmt"
	"strings"
)

// Capacities, in bytes, of the fixed payload types.
const (
	SmallCap             = 255
	TitleCap             = 256
	NotificationTitleCap = 63
	NotificationBodyCap  = 255
)

// Sentinel errors returned by payload constructors.
var (
	ErrTooLarge    = errors.New("payload exceeds fixed capacity")
	ErrEmbeddedNUL = errors.New("payload contains a NUL byte")
)

func tooLarge(name string, n, capacity int) error {
	return fmt.Errorf("%s: %d bytes exceeds capacity %d: %w", name, n, capacity, ErrTooLarge)
}

func checkCString(name string, s string, capacity int) error {
	if len(s) > capacity {
		return tooLarge(name, len(s), capacity)
	}
	if strings.IndexByte(s, 0) >= 0 {
		return fmt.Errorf("%s: %w", name, ErrEmbeddedNUL)
	}
	return nil
}

// Small is a bounded-write payload of at most SmallCap bytes.
type Small struct {
	data [SmallCap]byte
	len  uint8
}

// NewSmall copies b into a Small. It fails with ErrTooLarge if b is longer
// than SmallCap.
func NewSmall(b []byte) (Small, error) {
	var s Small
	if len(b) > SmallCap {
		return s, tooLarge("small payload", len(b), SmallCap)
	}
	s.len = uint8(copy(s.data[:], b))
	return s, nil
}

// NewSmallString is NewSmall for string input.
func NewSmallString(v string) (Small, error) {
	var s Small
	if len(v) > SmallCap {
		return s, tooLarge("small payload", len(v), SmallCap)
	}
	s.len = uint8(copy(s.data[:], v))
	return s, nil
}

// Len returns the number of payload bytes.
func (s *Small) Len() int { return int(s.len) }

// Bytes returns the payload bytes. The slice aliases s.
func (s *Small) Bytes() []byte { return s.data[:s.len] }

// String returns a copy of the payload as a string.
func (s Small) String() string { return string(s.data[:s.len]) }

// Title is a window title buffer of at most TitleCap bytes. Unlike the
// notification buffers it is not NUL-terminated; the length is explicit.
type Title struct {
	data [TitleCap]byte
	len  uint16
}

// NewTitle copies v into a Title, failing with ErrTooLarge if it does not fit.
func NewTitle(v string) (Title, error) {
	var t Title
	if len(v) > TitleCap {
		return t, tooLarge("title", len(v), TitleCap)
	}
	t.len = uint16(copy(t.data[:], v))
	return t, nil
}

// Len returns the title length in bytes.
func (t *Title) Len() int { return int(t.len) }

// Bytes returns the title bytes. The slice aliases t.
func (t *Title) Bytes() []byte { return t.data[:t.len] }

// String returns a copy of the title.
func (t Title) String() string { return string(t.data[:t.len]) }

// NotificationTitle is a NUL-terminated buffer holding up to
// NotificationTitleCap bytes of text.
type NotificationTitle struct {
	data [NotificationTitleCap + 1]byte
	len  uint8
}

// NewNotificationTitle copies v into a NotificationTitle.
func NewNotificationTitle(v string) (NotificationTitle, error) {
	var t NotificationTitle
	if err := checkCString("notification title", v, NotificationTitleCap); err != nil {
		return t, err
	}
	t.len = uint8(copy(t.data[:NotificationTitleCap], v))
	return t, nil
}

// Len returns the text length, excluding the terminator.
func (t *NotificationTitle) Len() int { return int(t.len) }

// CBytes returns the text including its NUL terminator. The slice aliases t.
func (t *NotificationTitle) CBytes() []byte { return t.data[:t.len+1] }

// String returns a copy of the text.
func (t NotificationTitle) String() string { return string(t.data[:t.len]) }

// NotificationBody is a NUL-terminated buffer holding up to
// NotificationBodyCap bytes of text.
type NotificationBody struct {
	data [NotificationBodyCap + 1]byte
	len  uint8
}

// NewNotificationBody copies v into a NotificationBody.
func NewNotificationBody(v string) (NotificationBody, error) {
	var b NotificationBody
	if err := checkCString("notification body", v, NotificationBodyCap); err != nil {
		return b, err
	}
	b.len = uint8(copy(b.data[:NotificationBodyCap], v))
	return b, nil
}

// Len returns the text length, excluding the terminator.
func (b *NotificationBody) Len() int { return int(b.len) }

// CBytes returns the text including its NUL terminator. The slice aliases b.
func (b *NotificationBody) CBytes() []byte { return b.data[:int(b.len)+1] }

// String returns a copy of the text.
func (b NotificationBody) String() string { return string(b.data[:b.len]) }
