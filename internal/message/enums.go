package message

import "fmt"

// ReportTitleStyle selects how a title report is answered.
type ReportTitleStyle uint8

const (
	// ReportTitleCSI21T answers with OSC l <title> ST, as requested by CSI 21 t.
	ReportTitleCSI21T ReportTitleStyle = iota
)

func (s ReportTitleStyle) String() string {
	if s == ReportTitleCSI21T {
		return "csi_21_t"
	}
	return fmt.Sprintf("ReportTitleStyle(%d)", uint8(s))
}

// Clipboard names a system clipboard.
type Clipboard uint8

const (
	ClipboardStandard Clipboard = iota
	ClipboardSelection
	ClipboardPrimary
)

var clipboardNames = [...]string{
	ClipboardStandard:  "standard",
	ClipboardSelection: "selection",
	ClipboardPrimary:   "primary",
}

func (c Clipboard) String() string {
	if int(c) < len(clipboardNames) {
		return clipboardNames[c]
	}
	return fmt.Sprintf("Clipboard(%d)", uint8(c))
}

// RendererHealth is reported by a surface's renderer.
type RendererHealth uint8

const (
	RendererHealthy RendererHealth = iota
	RendererUnhealthy
)

func (h RendererHealth) String() string {
	switch h {
	case RendererHealthy:
		return "healthy"
	case RendererUnhealthy:
		return "unhealthy"
	}
	return fmt.Sprintf("RendererHealth(%d)", uint8(h))
}

// ProgressState is the state of a ConEmu-style OSC 9;4 progress report.
type ProgressState uint8

const (
	ProgressRemove ProgressState = iota
	ProgressSet
	ProgressError
	ProgressIndeterminate
	ProgressPause
)

var progressNames = [...]string{
	ProgressRemove:        "remove",
	ProgressSet:           "set",
	ProgressError:         "error",
	ProgressIndeterminate: "indeterminate",
	ProgressPause:         "pause",
}

func (p ProgressState) String() string {
	if int(p) < len(progressNames) {
		return progressNames[p]
	}
	return fmt.Sprintf("ProgressState(%d)", uint8(p))
}

// MouseShape is a pointer shape, named after the CSS cursor values.
type MouseShape uint8

const (
	MouseDefault MouseShape = iota
	MouseContextMenu
	MouseHelp
	MousePointer
	MouseProgress
	MouseWait
	MouseCell
	MouseCrosshair
	MouseText
	MouseVerticalText
	MouseAlias
	MouseCopy
	MouseMove
	MouseNoDrop
	MouseNotAllowed
	MouseGrab
	MouseGrabbing
	MouseAllScroll
	MouseColResize
	MouseRowResize
	MouseNResize
	MouseEResize
	MouseSResize
	MouseWResize
	MouseNEResize
	MouseNWResize
	MouseSEResize
	MouseSWResize
	MouseEWResize
	MouseNSResize
	MouseNESWResize
	MouseNWSEResize
	MouseZoomIn
	MouseZoomOut
)

var mouseShapeNames = [...]string{
	MouseDefault:      "default",
	MouseContextMenu:  "context-menu",
	MouseHelp:         "help",
	MousePointer:      "pointer",
	MouseProgress:     "progress",
	MouseWait:         "wait",
	MouseCell:         "cell",
	MouseCrosshair:    "crosshair",
	MouseText:         "text",
	MouseVerticalText: "vertical-text",
	MouseAlias:        "alias",
	MouseCopy:         "copy",
	MouseMove:         "move",
	MouseNoDrop:       "no-drop",
	MouseNotAllowed:   "not-allowed",
	MouseGrab:         "grab",
	MouseGrabbing:     "grabbing",
	MouseAllScroll:    "all-scroll",
	MouseColResize:    "col-resize",
	MouseRowResize:    "row-resize",
	MouseNResize:      "n-resize",
	MouseEResize:      "e-resize",
	MouseSResize:      "s-resize",
	MouseWResize:      "w-resize",
	MouseNEResize:     "ne-resize",
	MouseNWResize:     "nw-resize",
	MouseSEResize:     "se-resize",
	MouseSWResize:     "sw-resize",
	MouseEWResize:     "ew-resize",
	MouseNSResize:     "ns-resize",
	MouseNESWResize:   "nesw-resize",
	MouseNWSEResize:   "nwse-resize",
	MouseZoomIn:       "zoom-in",
	MouseZoomOut:      "zoom-out",
}

func (m MouseShape) String() string {
	if int(m) < len(mouseShapeNames) {
		return mouseShapeNames[m]
	}
	return fmt.Sprintf("MouseShape(%d)", uint8(m))
}

// ParseMouseShape parses a CSS cursor name such as "text" or "ew-resize".
func ParseMouseShape(s string) (MouseShape, error) {
	for i, name := range mouseShapeNames {
		if name == s {
			return MouseShape(i), nil
		}
	}
	return MouseDefault, fmt.Errorf("unknown mouse shape %q", s)
}
