package message

import "fmt"

// Kind identifies the active variant of a Message.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindSetTitle
	KindReportTitle
	KindSetMouseShape
	KindClipboardRead
	KindClipboardWrite
	KindConfigChange
	KindClose
	KindChildExited
	KindDesktopNotification
	KindRendererHealth
	KindReportColorScheme
	KindPresentSurface
	KindPasswordInput
	KindPwdChange
	KindRingBell
	KindSelectionScroll
	KindProgressReport
	KindNewSurface

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:             "invalid",
	KindSetTitle:            "set_title",
	KindReportTitle:         "report_title",
	KindSetMouseShape:       "set_mouse_shape",
	KindClipboardRead:       "clipboard_read",
	KindClipboardWrite:      "clipboard_write",
	KindConfigChange:        "config_change",
	KindClose:               "close",
	KindChildExited:         "child_exited",
	KindDesktopNotification: "desktop_notification",
	KindRendererHealth:      "renderer_health",
	KindReportColorScheme:   "report_color_scheme",
	KindPresentSurface:      "present_surface",
	KindPasswordInput:       "password_input",
	KindPwdChange:           "pwd_change",
	KindRingBell:            "ring_bell",
	KindSelectionScroll:     "selection_scroll",
	KindProgressReport:      "progress_report",
	KindNewSurface:          "new_surface",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns every valid Kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount-1)
	for k := KindSetTitle; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := KindSetTitle; k < kindCount; k++ {
		if kindNames[k] == s {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown message kind %q", s)
}
