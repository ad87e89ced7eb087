package config

import (
	"strings"
	"testing"
)

func hasFieldError(errs []ValidationError, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "a", Value: 1, Message: "bad"},
			{Field: "b", Value: 2, Message: "worse"},
		}
		got := errs.Error()
		if !strings.HasPrefix(got, "2 validation errors:") {
			t.Errorf("Error() = %q, want count prefix", got)
		}
		if !strings.Contains(got, "1. a: bad") || !strings.Contains(got, "2. b: worse") {
			t.Errorf("Error() = %q, want numbered entries", got)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	defer func() { _ = cfg.Release() }()

	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("default config should be valid, got: %v", errs)
	}
}

func TestConfig_Validate_Surface(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		field   string
		wantErr bool
	}{
		{"absolute working directory", func(c *Config) { c.WorkingDirectory = "/srv" }, "working-directory", false},
		{"home working directory", func(c *Config) { c.WorkingDirectory = "home" }, "working-directory", false},
		{"tilde working directory", func(c *Config) { c.WorkingDirectory = "~/src" }, "working-directory", false},
		{"relative working directory", func(c *Config) { c.WorkingDirectory = "src" }, "working-directory", true},
		{"title at capacity", func(c *Config) { c.Title = strings.Repeat("t", 256) }, "title", false},
		{"title over capacity", func(c *Config) { c.Title = strings.Repeat("t", 257) }, "title", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			defer func() { _ = cfg.Release() }()
			tt.modify(cfg)
			if got := hasFieldError(cfg.Validate(), tt.field); got != tt.wantErr {
				t.Errorf("error for %s = %v, want %v", tt.field, got, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Clipboard(t *testing.T) {
	for _, policy := range ValidClipboardPolicies() {
		cfg := Default()
		cfg.ClipboardRead = policy
		cfg.ClipboardWrite = policy
		if errs := cfg.Validate(); len(errs) > 0 {
			t.Errorf("policy %q should be valid, got: %v", policy, errs)
		}
		_ = cfg.Release()
	}

	cfg := Default()
	defer func() { _ = cfg.Release() }()
	cfg.ClipboardRead = "ask"
	cfg.ClipboardWrite = ""
	errs := cfg.Validate()
	if !hasFieldError(errs, "clipboard-read") {
		t.Error("expected error for clipboard-read")
	}
	if !hasFieldError(errs, "clipboard-write") {
		t.Error("expected error for clipboard-write")
	}
}

func TestConfig_Validate_Mailbox(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		timeout  int
		field    string
		wantErr  bool
	}{
		{"minimum capacity", MinMailboxCapacity, 0, "mailbox.capacity", false},
		{"maximum capacity", MaxMailboxCapacity, 0, "mailbox.capacity", false},
		{"zero capacity", 0, 0, "mailbox.capacity", true},
		{"capacity too large", MaxMailboxCapacity + 1, 0, "mailbox.capacity", true},
		{"positive timeout", 64, 500, "mailbox.push-timeout-ms", false},
		{"negative timeout", 64, -1, "mailbox.push-timeout-ms", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			defer func() { _ = cfg.Release() }()
			cfg.Mailbox.Capacity = tt.capacity
			cfg.Mailbox.PushTimeoutMs = tt.timeout

			if got := hasFieldError(cfg.Validate(), tt.field); got != tt.wantErr {
				t.Errorf("error for %s = %v, want %v", tt.field, got, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Logging(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN", ""} {
			cfg := Default()
			cfg.Logging.Level = level
			if hasFieldError(cfg.Validate(), "logging.level") {
				t.Errorf("level %q should be valid", level)
			}
			_ = cfg.Release()
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		cfg := Default()
		defer func() { _ = cfg.Release() }()
		cfg.Logging.Level = "verbose"
		cfg.Logging.MaxSizeMB = -1
		cfg.Logging.MaxBackups = -1

		errs := cfg.Validate()
		for _, field := range []string{"logging.level", "logging.max-size-mb", "logging.max-backups"} {
			if !hasFieldError(errs, field) {
				t.Errorf("expected error for %s", field)
			}
		}
	})
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	if len(levels) != 4 {
		t.Errorf("ValidLogLevels() = %v, want 4 levels", levels)
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	defer func() { _ = cfg.Release() }()
	cfg.WorkingDirectory = "relative"
	cfg.ClipboardRead = "maybe"
	cfg.Mailbox.Capacity = -3
	cfg.Logging.Level = "invalid"

	errs := cfg.Validate()
	if len(errs) != 4 {
		t.Errorf("expected 4 errors, got %d: %v", len(errs), errs)
	}
}
