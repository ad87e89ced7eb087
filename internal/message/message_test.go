package message

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/payload"
)

func mustMessage(t *testing.T) func(Message, error) Message {
	return func(m Message, err error) Message {
		t.Helper()
		if err != nil {
			t.Fatalf("constructor error = %v", err)
		}
		return m
	}
}

func TestKind_String(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 18 {
		t.Fatalf("Kinds() has %d entries, want 18", len(kinds))
	}

	seen := make(map[string]bool)
	for _, k := range kinds {
		name := k.String()
		if name == "" || strings.ContainsAny(name, " -") || strings.ToLower(name) != name {
			t.Errorf("Kind(%d).String() = %q, want snake_case", k, name)
		}
		if seen[name] {
			t.Errorf("duplicate kind name %q", name)
		}
		seen[name] = true

		parsed, err := ParseKind(name)
		if err != nil || parsed != k {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", name, parsed, err, k)
		}
	}

	if _, err := ParseKind("invalid"); err == nil {
		t.Error("ParseKind(invalid) should fail")
	}
	if got := Kind(200).String(); got != "Kind(200)" {
		t.Errorf("Kind(200).String() = %q", got)
	}
}

func TestVariants(t *testing.T) {
	must := mustMessage(t)

	tests := []struct {
		name  string
		msg   Message
		kind  Kind
		check func(t *testing.T, m *Message)
	}{
		{"set_title", must(NewSetTitle("vim main.go")), KindSetTitle, func(t *testing.T, m *Message) {
			title, ok := m.Title()
			if !ok || title.String() != "vim main.go" {
				t.Errorf("Title() = %v, %v", title, ok)
			}
		}},
		{"report_title", NewReportTitle(ReportTitleCSI21T), KindReportTitle, func(t *testing.T, m *Message) {
			if style, ok := m.ReportTitleStyle(); !ok || style != ReportTitleCSI21T {
				t.Errorf("ReportTitleStyle() = %v, %v", style, ok)
			}
		}},
		{"set_mouse_shape", NewSetMouseShape(MouseEWResize), KindSetMouseShape, func(t *testing.T, m *Message) {
			if shape, ok := m.MouseShape(); !ok || shape != MouseEWResize {
				t.Errorf("MouseShape() = %v, %v", shape, ok)
			}
		}},
		{"clipboard_read", NewClipboardRead(ClipboardPrimary), KindClipboardRead, func(t *testing.T, m *Message) {
			if c, ok := m.ClipboardRead(); !ok || c != ClipboardPrimary {
				t.Errorf("ClipboardRead() = %v, %v", c, ok)
			}
		}},
		{"clipboard_write", must(NewClipboardWrite(ClipboardSelection, []byte("copied"))), KindClipboardWrite, func(t *testing.T, m *Message) {
			c, data, ok := m.ClipboardWrite()
			if !ok || c != ClipboardSelection || string(data.Bytes()) != "copied" {
				t.Errorf("ClipboardWrite() = %v, %v, %v", c, data, ok)
			}
		}},
		{"close", NewClose(), KindClose, nil},
		{"child_exited", NewChildExited(137, 1500*time.Millisecond), KindChildExited, func(t *testing.T, m *Message) {
			exited, ok := m.ChildExited()
			if !ok || exited.ExitCode != 137 || exited.RuntimeMs != 1500 {
				t.Errorf("ChildExited() = %+v, %v", exited, ok)
			}
		}},
		{"desktop_notification", must(NewDesktopNotification("Build", "finished in 3s")), KindDesktopNotification, func(t *testing.T, m *Message) {
			title, body, ok := m.DesktopNotification()
			if !ok || title.String() != "Build" || body.String() != "finished in 3s" {
				t.Errorf("DesktopNotification() = %v, %v, %v", title, body, ok)
			}
		}},
		{"renderer_health", NewRendererHealth(RendererUnhealthy), KindRendererHealth, func(t *testing.T, m *Message) {
			if h, ok := m.RendererHealth(); !ok || h != RendererUnhealthy {
				t.Errorf("RendererHealth() = %v, %v", h, ok)
			}
		}},
		{"report_color_scheme", NewReportColorScheme(true), KindReportColorScheme, func(t *testing.T, m *Message) {
			if force, ok := m.ReportColorScheme(); !ok || !force {
				t.Errorf("ReportColorScheme() = %v, %v", force, ok)
			}
		}},
		{"present_surface", NewPresentSurface(), KindPresentSurface, nil},
		{"password_input", NewPasswordInput(true), KindPasswordInput, func(t *testing.T, m *Message) {
			if active, ok := m.PasswordInput(); !ok || !active {
				t.Errorf("PasswordInput() = %v, %v", active, ok)
			}
		}},
		{"pwd_change", must(NewPwdChange("/home/user/src")), KindPwdChange, func(t *testing.T, m *Message) {
			pwd, ok := m.Pwd()
			if !ok || pwd.String() != "/home/user/src" {
				t.Errorf("Pwd() = %v, %v", pwd, ok)
			}
		}},
		{"ring_bell", NewRingBell(), KindRingBell, nil},
		{"selection_scroll", NewSelectionScroll(true), KindSelectionScroll, func(t *testing.T, m *Message) {
			if active, ok := m.SelectionScroll(); !ok || !active {
				t.Errorf("SelectionScroll() = %v, %v", active, ok)
			}
		}},
		{"progress_report", must(NewProgressReport(ProgressSet, 42)), KindProgressReport, func(t *testing.T, m *Message) {
			state, value, hasValue, ok := m.ProgressReport()
			if !ok || state != ProgressSet || !hasValue || value != 42 {
				t.Errorf("ProgressReport() = %v, %d, %v, %v", state, value, hasValue, ok)
			}
		}},
		{"new_surface", NewNewSurface(config.ContextSplit), KindNewSurface, func(t *testing.T, m *Message) {
			if ctx, ok := m.NewSurfaceContext(); !ok || ctx != config.ContextSplit {
				t.Errorf("NewSurfaceContext() = %v, %v", ctx, ok)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.msg.Kind() != tt.kind {
				t.Fatalf("Kind() = %v, want %v", tt.msg.Kind(), tt.kind)
			}
			if tt.msg.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.msg.String(), tt.name)
			}

			// Copies are independent values.
			cp := tt.msg
			if tt.check != nil {
				tt.check(t, &cp)
			}
		})
	}
}

func TestAccessors_WrongVariant(t *testing.T) {
	m := NewRingBell()

	if _, ok := m.Title(); ok {
		t.Error("Title() ok on ring_bell")
	}
	if _, _, ok := m.ClipboardWrite(); ok {
		t.Error("ClipboardWrite() ok on ring_bell")
	}
	if _, ok := m.Pwd(); ok {
		t.Error("Pwd() ok on ring_bell")
	}
	if _, _, ok := m.DesktopNotification(); ok {
		t.Error("DesktopNotification() ok on ring_bell")
	}
	if _, ok := m.ChildExited(); ok {
		t.Error("ChildExited() ok on ring_bell")
	}
	if _, ok := m.TakeConfig(); ok {
		t.Error("TakeConfig() ok on ring_bell")
	}
	if _, _, _, ok := m.ProgressReport(); ok {
		t.Error("ProgressReport() ok on ring_bell")
	}
	if _, ok := m.NewSurfaceContext(); ok {
		t.Error("NewSurfaceContext() ok on ring_bell")
	}

	var zero Message
	if zero.Kind() != KindInvalid {
		t.Errorf("zero Message Kind() = %v, want invalid", zero.Kind())
	}
}

func TestBoundedWrites(t *testing.T) {
	exact := bytes.Repeat([]byte{0xAB}, payload.SmallCap)
	over := bytes.Repeat([]byte{0xAB}, payload.SmallCap+1)

	t.Run("clipboard_write round trips at capacity", func(t *testing.T) {
		m, err := NewClipboardWrite(ClipboardStandard, exact)
		if err != nil {
			t.Fatalf("NewClipboardWrite() error = %v", err)
		}
		_, data, _ := m.ClipboardWrite()
		if !bytes.Equal(data.Bytes(), exact) {
			t.Error("clipboard data did not round trip")
		}
	})

	t.Run("clipboard_write rejects oversize", func(t *testing.T) {
		_, err := NewClipboardWrite(ClipboardStandard, over)
		if !errors.Is(err, payload.ErrTooLarge) {
			t.Errorf("NewClipboardWrite(256 bytes) error = %v, want ErrTooLarge", err)
		}
	})

	t.Run("pwd_change rejects oversize", func(t *testing.T) {
		_, err := NewPwdChange("/" + strings.Repeat("d", payload.SmallCap))
		if !errors.Is(err, payload.ErrTooLarge) {
			t.Errorf("NewPwdChange(256 bytes) error = %v, want ErrTooLarge", err)
		}
	})

	t.Run("set_title rejects oversize", func(t *testing.T) {
		if _, err := NewSetTitle(strings.Repeat("t", payload.TitleCap)); err != nil {
			t.Errorf("NewSetTitle(256 bytes) error = %v", err)
		}
		_, err := NewSetTitle(strings.Repeat("t", payload.TitleCap+1))
		if !errors.Is(err, payload.ErrTooLarge) {
			t.Errorf("NewSetTitle(257 bytes) error = %v, want ErrTooLarge", err)
		}
	})

	t.Run("notification rejects oversize and NUL", func(t *testing.T) {
		if _, err := NewDesktopNotification(strings.Repeat("t", 64), "b"); !errors.Is(err, payload.ErrTooLarge) {
			t.Errorf("64-byte title error = %v, want ErrTooLarge", err)
		}
		if _, err := NewDesktopNotification("t", strings.Repeat("b", 256)); !errors.Is(err, payload.ErrTooLarge) {
			t.Errorf("256-byte body error = %v, want ErrTooLarge", err)
		}
		if _, err := NewDesktopNotification("t\x00", "b"); !errors.Is(err, payload.ErrEmbeddedNUL) {
			t.Errorf("NUL in title error = %v, want ErrEmbeddedNUL", err)
		}
	})
}

func TestNewProgressReport(t *testing.T) {
	tests := []struct {
		progress  int
		wantValue bool
		wantErr   bool
	}{
		{NoProgress, false, false},
		{0, true, false},
		{100, true, false},
		{101, false, true},
		{-2, false, true},
	}
	for _, tt := range tests {
		m, err := NewProgressReport(ProgressIndeterminate, tt.progress)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewProgressReport(%d) error = %v, wantErr %v", tt.progress, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			if !errors.Is(err, ErrProgressRange) {
				t.Errorf("NewProgressReport(%d) error = %v, want ErrProgressRange", tt.progress, err)
			}
			continue
		}
		if _, _, hasValue, _ := m.ProgressReport(); hasValue != tt.wantValue {
			t.Errorf("NewProgressReport(%d) hasValue = %v, want %v", tt.progress, hasValue, tt.wantValue)
		}
	}
}

func TestConfigChange_Ownership(t *testing.T) {
	budget := config.NewBudget(1 << 10)
	base := config.Default()
	defer func() { _ = base.Release() }()

	t.Run("taken config is owned by the receiver", func(t *testing.T) {
		clone, err := base.ShallowClone(budget)
		if err != nil {
			t.Fatal(err)
		}
		m, err := NewConfigChange(clone)
		if err != nil {
			t.Fatalf("NewConfigChange() error = %v", err)
		}

		got, ok := m.TakeConfig()
		if !ok || got != clone {
			t.Fatalf("TakeConfig() = %p, %v; want %p", got, ok, clone)
		}
		if _, ok := m.TakeConfig(); ok {
			t.Error("second TakeConfig() should return ok=false")
		}

		m.Discard()
		if got.Arena().Released() {
			t.Error("Discard released a config the receiver had taken")
		}
		if err := got.Release(); err != nil {
			t.Errorf("Release() error = %v", err)
		}
	})

	t.Run("discard releases an untaken config once", func(t *testing.T) {
		clone, err := base.ShallowClone(budget)
		if err != nil {
			t.Fatal(err)
		}
		m, _ := NewConfigChange(clone)

		m.Discard()
		m.Discard()
		if !clone.Arena().Released() {
			t.Error("Discard did not release the config")
		}
	})

	if budget.InUse() != 0 {
		t.Errorf("budget InUse() = %d, want 0", budget.InUse())
	}

	if _, err := NewConfigChange(nil); !errors.Is(err, ErrNilConfig) {
		t.Errorf("NewConfigChange(nil) error = %v, want ErrNilConfig", err)
	}
}

func TestMessage_NoAllocations(t *testing.T) {
	var sink [4]Message
	title := "~/src/surfacemail"
	data := []byte("clipboard contents")

	allocs := testing.AllocsPerRun(100, func() {
		m, _ := NewSetTitle(title)
		sink[0] = m
		m, _ = NewClipboardWrite(ClipboardStandard, data)
		sink[1] = m
		m, _ = NewDesktopNotification("done", "build finished")
		sink[2] = m
		sink[3] = sink[0]
	})
	if allocs != 0 {
		t.Errorf("building and copying messages allocated %.0f times, want 0", allocs)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{ReportTitleCSI21T.String(), "csi_21_t"},
		{ClipboardStandard.String(), "standard"},
		{ClipboardSelection.String(), "selection"},
		{ClipboardPrimary.String(), "primary"},
		{Clipboard(9).String(), "Clipboard(9)"},
		{RendererHealthy.String(), "healthy"},
		{RendererUnhealthy.String(), "unhealthy"},
		{ProgressPause.String(), "pause"},
		{MouseNWSEResize.String(), "nwse-resize"},
		{MouseShape(250).String(), "MouseShape(250)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}

	for shape := MouseDefault; shape <= MouseZoomOut; shape++ {
		parsed, err := ParseMouseShape(shape.String())
		if err != nil || parsed != shape {
			t.Errorf("ParseMouseShape(%q) = %v, %v", shape.String(), parsed, err)
		}
	}
	if _, err := ParseMouseShape("hand"); err == nil {
		t.Error("ParseMouseShape(hand) should fail")
	}
}
