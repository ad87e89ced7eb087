package surface

import (
	"errors"
	"fmt"

	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/logging"
)

// WorkingDirectorySource is anything that can report a current working
// directory, typically a Surface.
type WorkingDirectorySource interface {
	// WorkingDirectory copies the current directory into arena. ok is
	// false when there is no meaningful directory. An error wrapping
	// config.ErrOutOfMemory means the copy could not be allocated.
	WorkingDirectory(arena *config.Arena) (dir string, ok bool, err error)
}

// App exposes the application state NewConfig consults.
type App interface {
	// FocusedSurface returns the focused surface, if any.
	FocusedSurface() (WorkingDirectorySource, bool)
}

type deriveOptions struct {
	alloc  config.Allocator
	logger *logging.Logger
}

// DeriveOption configures NewConfig.
type DeriveOption func(*deriveOptions)

// WithAllocator draws the derived config's arena from alloc instead of
// config.Heap.
func WithAllocator(alloc config.Allocator) DeriveOption {
	return func(o *deriveOptions) { o.alloc = alloc }
}

// WithDeriveLogger logs soft failures of the directory query to logger.
func WithDeriveLogger(logger *logging.Logger) DeriveOption {
	return func(o *deriveOptions) { o.logger = logger }
}

// NewConfig derives the config for a new surface of kind ctx from base.
//
// The result is a clone of base with its own arena. If base's inherit flag
// for ctx is set, the working directory is taken from parent, or from the
// focused surface when parent is nil. When there is no such surface, the
// query reports no directory, or it fails with anything but an allocation
// failure, the base working directory is kept.
//
// An allocation failure while cloning or copying the directory aborts the
// derivation: the partial clone is released and the error wraps
// config.ErrOutOfMemory. On success the caller owns the returned config
// and must release it.
func NewConfig(app App, base *config.Config, ctx config.SurfaceContext, parent WorkingDirectorySource, opts ...DeriveOption) (*config.Config, error) {
	o := deriveOptions{alloc: config.Heap, logger: logging.NopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	derived, err := base.ShallowClone(o.alloc)
	if err != nil {
		return nil, fmt.Errorf("derive %s config: %w", ctx, err)
	}

	from := parent
	if from == nil && app != nil {
		if focused, ok := app.FocusedSurface(); ok {
			from = focused
		}
	}
	if from == nil || !base.InheritWorkingDirectory(ctx) {
		return derived, nil
	}

	dir, ok, err := from.WorkingDirectory(derived.Arena())
	switch {
	case errors.Is(err, config.ErrOutOfMemory):
		_ = derived.Release()
		return nil, fmt.Errorf("derive %s config: working directory: %w", ctx, err)
	case err != nil:
		o.logger.Warn("working directory unavailable, keeping default",
			"context", ctx.String(),
			"error", err,
		)
	case ok:
		derived.WorkingDirectory = dir
	}
	return derived, nil
}
