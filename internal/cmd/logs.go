package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/logging"
	"github.com/Iron-Ham/surfacemail/internal/tui/styles"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View coordinator logs",
	Long: `View and filter the coordinator's log file.

Examples:
  # Show the last 50 lines
  surfacemail logs

  # Follow logs in real-time
  surfacemail logs -f

  # Only warnings and errors about surface 3
  surfacemail logs --level warn --surface 3

  # Show logs from the last hour matching a pattern
  surfacemail logs --since 1h --grep "dropped|failed"`,
	RunE: runLogs,
}

var (
	logsTail    int
	logsFollow  bool
	logsLevel   string
	logsSince   string
	logsGrep    string
	logsSurface uint64
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
	logsCmd.Flags().Uint64Var(&logsSurface, "surface", 0, "Only entries about this surface id")
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	SurfaceID uint64         `json:"surface_id,omitempty"`
	Extra     map[string]any `json:"-"` // Captures additional fields
}

// UnmarshalJSON implements custom unmarshaling to capture extra fields
func (e *logEntry) UnmarshalJSON(data []byte) error {
	// First, unmarshal known fields using a type alias to avoid recursion
	type Alias logEntry
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	// Then unmarshal all fields to capture extras
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	// Remove known fields, keep the rest as extra
	for _, known := range []string{"time", "level", "msg", "component", "surface_id"} {
		delete(all, known)
	}
	if len(all) > 0 {
		e.Extra = all
	}
	return nil
}

// logFilter selects log entries.
type logFilter struct {
	minLevel int // -1 for no level filter
	since    time.Time
	grep     *regexp.Regexp
	surface  uint64 // 0 for all surfaces
}

// levelStyle returns the style for a log level
func levelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return styles.Muted
	case logging.LevelInfo:
		return styles.Primary
	case logging.LevelWarn:
		return styles.Warning
	case logging.LevelError:
		return styles.Error
	default:
		return styles.Text
	}
}

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	return slices.Index(logging.ValidLevels(), strings.ToUpper(level))
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(p printer, entry *logEntry) string {
	var sb strings.Builder

	sb.WriteString(p.style(styles.Muted, "["+entry.Time.Format("15:04:05.000")+"]"))
	sb.WriteString(" ")
	sb.WriteString(p.style(levelStyle(entry.Level), "["+strings.ToUpper(entry.Level)+"]"))
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	if entry.Component != "" {
		sb.WriteString(" ")
		sb.WriteString(p.style(styles.Secondary, "component="))
		sb.WriteString(entry.Component)
	}
	if entry.SurfaceID != 0 {
		sb.WriteString(" ")
		sb.WriteString(p.style(styles.Secondary, "surface_id="))
		sb.WriteString(strconv.FormatUint(entry.SurfaceID, 10))
	}

	// Extra fields, in a stable order
	keys := make([]string, 0, len(entry.Extra))
	for key := range entry.Extra {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		sb.WriteString(" ")
		sb.WriteString(p.style(styles.Secondary, key+"="))
		sb.WriteString(fmt.Sprintf("%v", entry.Extra[key]))
	}

	return sb.String()
}

func runLogs(cmd *cobra.Command, args []string) error {
	logPath := filepath.Join(config.StateDir(), logging.LogFileName)
	p := newPrinter(cmd)

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		p.println("No logs found.")
		p.println("Logs are stored at:", logPath)
		return nil
	}

	filter := logFilter{minLevel: -1, surface: logsSurface}
	if logsLevel != "" {
		filter.minLevel = levelPriority(logsLevel)
		if filter.minLevel < 0 {
			return fmt.Errorf("invalid level %q: want debug, info, warn or error", logsLevel)
		}
	}

	if logsSince != "" {
		duration, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid duration format: %w", err)
		}
		filter.since = time.Now().Add(-duration)
	}

	if logsGrep != "" {
		var err error
		filter.grep, err = regexp.Compile(logsGrep)
		if err != nil {
			return fmt.Errorf("invalid grep pattern: %w", err)
		}
	}

	if logsFollow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return followLogs(ctx, p, logPath, filter)
	}

	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()
	return displayLogs(p, file, logsTail, filter)
}

// displayLogs reads log lines from r and displays filtered entries
func displayLogs(p printer, r io.Reader, tail int, filter logFilter) error {
	var entries []string
	scanner := bufio.NewScanner(r)

	// Increase buffer size for potentially long log lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		if line, ok := renderLine(p, scanner.Text(), filter); ok {
			entries = append(entries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	// Apply tail limit
	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}

	for _, entry := range entries {
		p.println(entry)
	}
	if len(entries) == 0 {
		p.println("No matching log entries found.")
	}
	return nil
}

// renderLine parses and filters one log line. Lines that are not JSON are
// shown as they are.
func renderLine(p printer, line string, filter logFilter) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, true
	}
	if !passesFilters(&entry, filter) {
		return "", false
	}
	return formatLogEntry(p, &entry), true
}

// followLogs prints lines appended to the log file until ctx is done. The
// directory is watched so that rotation is noticed.
func followLogs(ctx context.Context, p printer, logPath string, filter logFilter) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(logPath)); err != nil {
		return fmt.Errorf("failed to watch log directory: %w", err)
	}

	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}
	reader := bufio.NewReader(file)
	var partial string

	p.printf("Following logs... (Ctrl+C to stop)\n\n")

	for {
		// Print every complete line; a partial last line waits for the rest.
		for {
			line, err := reader.ReadString('\n')
			if err == io.EOF {
				partial += line
				break
			}
			if err != nil {
				return fmt.Errorf("error reading log file: %w", err)
			}
			line, partial = partial+line, ""
			if out, ok := renderLine(p, line, filter); ok {
				p.println(out)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watching log file: %w", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(logPath) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				// Rotated: start over on the new file.
				_ = file.Close()
				if file, err = os.Open(logPath); err != nil {
					return fmt.Errorf("failed to reopen log file: %w", err)
				}
				reader = bufio.NewReader(file)
				partial = ""
			}
		}
	}
}

// passesFilters checks if a log entry passes all filter criteria
func passesFilters(entry *logEntry, filter logFilter) bool {
	if filter.minLevel >= 0 && levelPriority(entry.Level) < filter.minLevel {
		return false
	}
	if !filter.since.IsZero() && entry.Time.Before(filter.since) {
		return false
	}
	if filter.surface != 0 && entry.SurfaceID != filter.surface {
		return false
	}

	// Grep filter - search in message and extra fields
	if filter.grep != nil {
		searchText := entry.Msg
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !filter.grep.MatchString(searchText) {
			return false
		}
	}
	return true
}
