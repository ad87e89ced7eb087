package bridge

import (
	"github.com/Iron-Ham/surfacemail/internal/logging"
)

// Option configures a Bridge.
type Option func(*options)

type options struct {
	logger *logging.Logger
	types  map[string]bool
}

// WithLogger sets the logger for the bridge.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTypes restricts the bridge to the given event types. Without it every
// event on the bus is forwarded.
func WithTypes(types ...string) Option {
	return func(o *options) {
		if len(types) == 0 {
			return
		}
		if o.types == nil {
			o.types = make(map[string]bool, len(types))
		}
		for _, t := range types {
			o.types[t] = true
		}
	}
}
