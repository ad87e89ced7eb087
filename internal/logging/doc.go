// Package logging provides structured logging for surfacemail.
//
// It wraps log/slog with a JSON handler. Entries carry persistent attributes
// identifying the surface and component that produced them, so a single log
// file can be filtered per surface after the fact.
//
// # Features
//
//   - JSON lines via slog
//   - Levels DEBUG, INFO, WARN, ERROR
//   - Persistent attributes (surface_id, component, arbitrary pairs)
//   - Size-based rotation with numbered backups
//
// # Thread Safety
//
// [Logger] and [RotatingWriter] are safe for concurrent use. Child loggers
// created via the With* methods share the parent's writer.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(logging.Options{
//	    Dir:      config.StateDir(),
//	    Level:    cfg.Logging.Level,
//	    Rotation: logging.RotationConfig{MaxSizeMB: 10, MaxBackups: 3},
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	surfaceLog := logger.WithSurface(3)
//	surfaceLog.Info("title changed", "title", title)
//
// For tests, use [NopLogger] or [NewWithWriter] with a bytes.Buffer.
package logging
