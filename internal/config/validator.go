package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Iron-Ham/surfacemail/internal/payload"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config key (e.g., "mailbox.capacity")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Mailbox capacity bounds.
const (
	MinMailboxCapacity = 1
	MaxMailboxCapacity = 4096
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSurface()...)
	errors = append(errors, c.validateClipboard()...)
	errors = append(errors, c.validateMailbox()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateSurface validates options applied to every new surface
func (c *Config) validateSurface() []ValidationError {
	var errors []ValidationError

	if wd := c.ResolveWorkingDirectory(); wd != "" && !filepath.IsAbs(wd) {
		errors = append(errors, ValidationError{
			Field:   "working-directory",
			Value:   c.WorkingDirectory,
			Message: `must be an absolute path, "home", or start with "~"`,
		})
	}

	// Forced titles travel in the same fixed buffer as set_title messages.
	if len(c.Title) > payload.TitleCap {
		errors = append(errors, ValidationError{
			Field:   "title",
			Value:   len(c.Title),
			Message: fmt.Sprintf("exceeds maximum of %d bytes", payload.TitleCap),
		})
	}

	return errors
}

// validateClipboard validates clipboard access policies
func (c *Config) validateClipboard() []ValidationError {
	var errors []ValidationError

	valid := ValidClipboardPolicies()
	if !slices.Contains(valid, c.ClipboardRead) {
		errors = append(errors, ValidationError{
			Field:   "clipboard-read",
			Value:   c.ClipboardRead,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(valid, ", ")),
		})
	}
	if !slices.Contains(valid, c.ClipboardWrite) {
		errors = append(errors, ValidationError{
			Field:   "clipboard-write",
			Value:   c.ClipboardWrite,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(valid, ", ")),
		})
	}

	return errors
}

// validateMailbox validates the MailboxConfig
func (c *Config) validateMailbox() []ValidationError {
	var errors []ValidationError

	if c.Mailbox.Capacity < MinMailboxCapacity {
		errors = append(errors, ValidationError{
			Field:   "mailbox.capacity",
			Value:   c.Mailbox.Capacity,
			Message: fmt.Sprintf("must be at least %d", MinMailboxCapacity),
		})
	}
	if c.Mailbox.Capacity > MaxMailboxCapacity {
		errors = append(errors, ValidationError{
			Field:   "mailbox.capacity",
			Value:   c.Mailbox.Capacity,
			Message: fmt.Sprintf("exceeds maximum of %d", MaxMailboxCapacity),
		})
	}

	// 0 means never block, which is valid; negative is invalid
	if c.Mailbox.PushTimeoutMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "mailbox.push-timeout-ms",
			Value:   c.Mailbox.PushTimeoutMs,
			Message: "must be non-negative (0 disables blocking)",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max-size-mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative (0 disables rotation)",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max-backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
