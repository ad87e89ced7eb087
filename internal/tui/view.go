package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Iron-Ham/surfacemail/internal/tui/styles"
	"github.com/Iron-Ham/surfacemail/internal/util"
)

// Column widths of the surface list.
const (
	idWidth      = 4
	contextWidth = 7
	titleWidth   = 24
	pwdWidth     = 28
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	focused := "none"
	if m.focused != 0 {
		focused = "surface-" + strconv.FormatUint(m.focused, 10)
	}
	b.WriteString(styles.Header.Render(fmt.Sprintf("surfacemail  %d surfaces  focused %s", len(m.rows), focused)))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(styles.Muted.Render("  no surfaces, press w to open a window"))
		b.WriteString("\n")
	}
	for i, r := range m.rows {
		line := m.renderRow(r)
		if i == m.selected {
			b.WriteString(styles.RowSelected.Render(line))
		} else {
			b.WriteString(styles.Row.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.log) > 0 {
		b.WriteString(styles.LogBox.Render(strings.Join(m.log, "\n")))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("dropped %d  failed %d", m.dropped, m.failed)
	if m.status != "" {
		status = m.status + "  " + status
	}
	b.WriteString(styles.StatusBar.Render(status))
	b.WriteString("\n")
	b.WriteString(styles.HelpBar.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderRow(r *row) string {
	marker := " "
	if r.id == m.focused {
		marker = styles.FocusMarker.Render("●")
	}
	title := r.title
	if title == "" {
		title = "-"
	}

	cols := []string{
		marker,
		util.PadRight(strconv.FormatUint(r.id, 10), idWidth),
		util.PadRight(r.context, contextWidth),
		util.PadRight(util.TruncateANSI(title, titleWidth), titleWidth),
		util.PadRight(util.TruncateLeftANSI(orDash(r.pwd), pwdWidth), pwdWidth),
	}
	var extra []string
	if r.progress != "" {
		extra = append(extra, "progress "+r.progress)
	}
	if r.bells > 0 {
		extra = append(extra, fmt.Sprintf("bells %d", r.bells))
	}
	if r.mouse != "" {
		extra = append(extra, "mouse "+r.mouse)
	}
	if r.health == "unhealthy" {
		extra = append(extra, styles.Error.Render("renderer unhealthy"))
	}
	if r.exit != "" {
		extra = append(extra, styles.Warning.Render(r.exit))
	}
	return strings.Join(append(cols, extra...), " ")
}
