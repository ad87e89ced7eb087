package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/surfacemail/internal/tui/styles"
)

// printer writes command output, styled only when it goes to a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(cmd *cobra.Command) printer {
	w := cmd.OutOrStdout()
	return printer{w: w, color: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p printer) println(args ...any) {
	fmt.Fprintln(p.w, args...)
}

func (p printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p printer) title(text string) {
	p.println(p.style(styles.Primary.Bold(true), text))
}

// kv prints an indented key: value line.
func (p printer) kv(key string, value any) {
	p.printf("  %s: %v\n", p.style(styles.Key, key), value)
}

func (p printer) success(text string) {
	p.println(p.style(styles.SuccessMsg, text))
}

func (p printer) warn(text string) {
	p.println(p.style(styles.WarningMsg, text))
}
