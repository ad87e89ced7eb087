package config

import (
	"fmt"
	"strings"
)

// SurfaceContext says what kind of surface is being created.
type SurfaceContext int

const (
	ContextWindow SurfaceContext = iota
	ContextTab
	ContextSplit
)

// SurfaceContexts returns every surface context.
func SurfaceContexts() []SurfaceContext {
	return []SurfaceContext{ContextWindow, ContextTab, ContextSplit}
}

func (c SurfaceContext) String() string {
	switch c {
	case ContextWindow:
		return "window"
	case ContextTab:
		return "tab"
	case ContextSplit:
		return "split"
	default:
		return fmt.Sprintf("SurfaceContext(%d)", int(c))
	}
}

// ParseSurfaceContext parses "window", "tab" or "split".
func ParseSurfaceContext(s string) (SurfaceContext, error) {
	switch strings.ToLower(s) {
	case "window":
		return ContextWindow, nil
	case "tab":
		return ContextTab, nil
	case "split":
		return ContextSplit, nil
	}
	return 0, fmt.Errorf("unknown surface context %q (want window, tab or split)", s)
}

// InheritWorkingDirectory returns the inheritance flag that governs ctx.
func (c *Config) InheritWorkingDirectory(ctx SurfaceContext) bool {
	switch ctx {
	case ContextTab:
		return c.TabInheritWorkingDirectory
	case ContextWindow:
		return c.WindowInheritWorkingDirectory
	case ContextSplit:
		return c.SplitInheritWorkingDirectory
	}
	return false
}

// Arena returns the arena that owns c's string fields.
func (c *Config) Arena() *Arena { return c.arena }

// ShallowClone copies c into a new Config with a fresh arena drawn from
// alloc. String fields are shared with c rather than copied; strings written
// to the clone afterwards belong to the clone's arena.
func (c *Config) ShallowClone(alloc Allocator) (*Config, error) {
	if c.arena != nil && c.arena.Released() {
		return nil, fmt.Errorf("clone config: %w", ErrArenaReleased)
	}
	arena, err := NewArena(alloc)
	if err != nil {
		return nil, fmt.Errorf("clone config: %w", err)
	}
	clone := *c
	clone.arena = arena
	return &clone, nil
}

// SetWorkingDirectory stores dir, allocated in c's arena.
func (c *Config) SetWorkingDirectory(dir string) error {
	owned, err := c.arena.Strdup(dir)
	if err != nil {
		return err
	}
	c.WorkingDirectory = owned
	return nil
}

// Release frees c's arena. It must be called exactly once per Config.
func (c *Config) Release() error {
	if c.arena == nil {
		return ErrArenaReleased
	}
	return c.arena.Release()
}
