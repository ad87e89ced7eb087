// Package util holds small text helpers shared by the terminal surfaces.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Ellipsis marks text that was cut to fit a column.
const Ellipsis = "…"

// TruncateANSI cuts s to maxWidth visual columns, keeping the start and
// ending with Ellipsis. Escape sequences are preserved.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	return ansi.Truncate(s, maxWidth, Ellipsis)
}

// TruncateLeftANSI cuts s to maxWidth visual columns, keeping the end.
// Paths read better this way.
func TruncateLeftANSI(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return Ellipsis
	}
	return Ellipsis + ansi.TruncateLeft(s, w-maxWidth+1, "")
}

// PadRight pads s with spaces up to width visual columns.
func PadRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
