package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/surface"
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Show the config a new surface would get",
	Long: `Derive the config for a new surface from the current configuration and
print the result.

--parent-dir stands in for the parent surface's working directory and
--focused-dir for the focused surface's. Whether either is used depends on
the tab-, window- and split-inherit-working-directory options.

Examples:
  surfacemail derive --context tab --parent-dir ~/src/project
  SURFACEMAIL_SPLIT_INHERIT_WORKING_DIRECTORY=true surfacemail derive --context split --focused-dir /tmp`,
	Args: cobra.NoArgs,
	RunE: runDerive,
}

var (
	deriveContext     string
	deriveParentDir   string
	deriveFocusedDir  string
	deriveMemoryLimit int
)

func init() {
	rootCmd.AddCommand(deriveCmd)

	deriveCmd.Flags().StringVar(&deriveContext, "context", "window", "Surface context: window, tab or split")
	deriveCmd.Flags().StringVar(&deriveParentDir, "parent-dir", "", "Working directory of the parent surface")
	deriveCmd.Flags().StringVar(&deriveFocusedDir, "focused-dir", "", "Working directory of the focused surface")
	deriveCmd.Flags().IntVar(&deriveMemoryLimit, "memory-limit", 0, "Cap config memory in bytes (0 for no cap)")
}

// staticSource reports a fixed working directory, or none when empty.
type staticSource string

func (s staticSource) WorkingDirectory(arena *config.Arena) (string, bool, error) {
	if s == "" {
		return "", false, nil
	}
	dir, err := arena.Strdup(string(s))
	if err != nil {
		return "", false, err
	}
	return dir, true, nil
}

type staticApp struct {
	focused surface.WorkingDirectorySource
}

func (a staticApp) FocusedSurface() (surface.WorkingDirectorySource, bool) {
	return a.focused, a.focused != nil
}

func runDerive(cmd *cobra.Command, args []string) error {
	ctx, err := config.ParseSurfaceContext(deriveContext)
	if err != nil {
		return err
	}

	alloc := allocator(deriveMemoryLimit)
	base, err := config.Load(alloc)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer func() { _ = base.Release() }()

	// Interfaces stay nil unless a directory was given.
	var parent surface.WorkingDirectorySource
	source := "none"
	if deriveParentDir != "" {
		parent = staticSource(deriveParentDir)
		source = "parent"
	}
	var focusedApp surface.App
	if deriveFocusedDir != "" {
		focusedApp = staticApp{focused: staticSource(deriveFocusedDir)}
		if parent == nil {
			source = "focused"
		}
	}
	if !base.InheritWorkingDirectory(ctx) {
		source = "none"
	}

	derived, err := surface.NewConfig(focusedApp, base, ctx, parent, surface.WithAllocator(alloc))
	if err != nil {
		return err
	}
	defer func() { _ = derived.Release() }()

	p := newPrinter(cmd)
	p.title("Derived " + ctx.String() + " config:")
	p.kv("inherit flag", base.InheritWorkingDirectory(ctx))
	p.kv("source", source)
	p.kv("base working-directory", orNone(base.WorkingDirectory))
	p.kv("working-directory", orNone(derived.WorkingDirectory))
	p.kv("inherited", derived.WorkingDirectory != base.WorkingDirectory)
	p.kv("arena bytes", derived.Arena().Size())
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
