package payload

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestNewSmall_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"short", []byte("hello")},
		{"binary", []byte{0, 1, 2, 0xff, 0}},
		{"exactly capacity", bytes.Repeat([]byte{'x'}, SmallCap)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSmall(tt.in)
			if err != nil {
				t.Fatalf("NewSmall() error = %v", err)
			}
			if s.Len() != len(tt.in) {
				t.Errorf("Len() = %d, want %d", s.Len(), len(tt.in))
			}
			if !bytes.Equal(s.Bytes(), tt.in) {
				t.Errorf("Bytes() = %q, want %q", s.Bytes(), tt.in)
			}
		})
	}
}

func TestNewSmall_RejectsOversize(t *testing.T) {
	in := bytes.Repeat([]byte{'x'}, SmallCap+1)

	s, err := NewSmall(in)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("NewSmall() error = %v, want ErrTooLarge", err)
	}
	if s.Len() != 0 {
		t.Errorf("rejected payload Len() = %d, want 0", s.Len())
	}

	_, err = NewSmallString(string(in))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("NewSmallString() error = %v, want ErrTooLarge", err)
	}
}

func TestNewSmallString_NoAllocation(t *testing.T) {
	in := strings.Repeat("p", 200)
	allocs := testing.AllocsPerRun(100, func() {
		s, err := NewSmallString(in)
		if err != nil || s.Len() != 200 {
			t.Fatal("unexpected result")
		}
	})
	if allocs != 0 {
		t.Errorf("NewSmallString allocated %v times per run, want 0", allocs)
	}
}

func TestSmall_CopyIsIndependent(t *testing.T) {
	src := []byte("abc")
	s, err := NewSmall(src)
	if err != nil {
		t.Fatalf("NewSmall() error = %v", err)
	}
	src[0] = 'z'

	c := s
	c.Bytes()[1] = 'y'

	if got := s.String(); got != "abc" {
		t.Errorf("original = %q, want %q", got, "abc")
	}
	if got := c.String(); got != "ayc" {
		t.Errorf("copy = %q, want %q", got, "ayc")
	}
}

func TestNewTitle(t *testing.T) {
	full := strings.Repeat("t", TitleCap)
	title, err := NewTitle(full)
	if err != nil {
		t.Fatalf("NewTitle(256 bytes) error = %v", err)
	}
	if title.String() != full {
		t.Error("256-byte title did not round-trip")
	}

	_, err = NewTitle(full + "!")
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("NewTitle(257 bytes) error = %v, want ErrTooLarge", err)
	}

	// Titles are not C strings; interior NULs are kept verbatim.
	title, err = NewTitle("a\x00b")
	if err != nil {
		t.Fatalf("NewTitle() error = %v", err)
	}
	if title.Len() != 3 {
		t.Errorf("Len() = %d, want 3", title.Len())
	}
}

func TestNotificationBuffers(t *testing.T) {
	tests := []struct {
		name    string
		build   func(string) error
		wantErr error
		input   string
	}{
		{"title at capacity", titleErr, nil, strings.Repeat("a", NotificationTitleCap)},
		{"title over capacity", titleErr, ErrTooLarge, strings.Repeat("a", NotificationTitleCap+1)},
		{"title with NUL", titleErr, ErrEmbeddedNUL, "a\x00b"},
		{"body at capacity", bodyErr, nil, strings.Repeat("b", NotificationBodyCap)},
		{"body over capacity", bodyErr, ErrTooLarge, strings.Repeat("b", NotificationBodyCap+1)},
		{"body with NUL", bodyErr, ErrEmbeddedNUL, "\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build(tt.input)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("error = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func titleErr(s string) error {
	_, err := NewNotificationTitle(s)
	return err
}

func bodyErr(s string) error {
	_, err := NewNotificationBody(s)
	return err
}

func TestNotificationBuffers_NULTerminated(t *testing.T) {
	title, err := NewNotificationTitle("Build done")
	if err != nil {
		t.Fatalf("NewNotificationTitle() error = %v", err)
	}
	cb := title.CBytes()
	if len(cb) != len("Build done")+1 || cb[len(cb)-1] != 0 {
		t.Errorf("CBytes() = %q, want NUL-terminated text", cb)
	}

	body, err := NewNotificationBody(strings.Repeat("z", NotificationBodyCap))
	if err != nil {
		t.Fatalf("NewNotificationBody() error = %v", err)
	}
	cb = body.CBytes()
	if len(cb) != NotificationBodyCap+1 || cb[NotificationBodyCap] != 0 {
		t.Errorf("full body CBytes() length = %d, want %d with trailing NUL", len(cb), NotificationBodyCap+1)
	}
}
