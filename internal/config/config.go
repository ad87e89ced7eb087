// Package config holds the surfacemail configuration record, its viper
// bindings, and the arena that owns a record's string fields.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is one configuration snapshot. String fields are owned by the
// snapshot's arena; a Config obtained from Default, Load, ReadFile or
// ShallowClone must be released exactly once with Release.
//
// A Config is not safe for concurrent use. It is owned by one goroutine at a
// time, usually the coordinator.
type Config struct {
	// WorkingDirectory is the directory new surfaces start in when nothing
	// is inherited. Empty means the launching process's directory; "home"
	// and a leading "~" expand to the user's home directory.
	WorkingDirectory string `mapstructure:"working-directory" yaml:"working-directory"`

	// TabInheritWorkingDirectory makes new tabs start in the directory of the
	// parent (or focused) surface.
	TabInheritWorkingDirectory bool `mapstructure:"tab-inherit-working-directory" yaml:"tab-inherit-working-directory"`
	// WindowInheritWorkingDirectory does the same for new windows.
	WindowInheritWorkingDirectory bool `mapstructure:"window-inherit-working-directory" yaml:"window-inherit-working-directory"`
	// SplitInheritWorkingDirectory does the same for new splits.
	SplitInheritWorkingDirectory bool `mapstructure:"split-inherit-working-directory" yaml:"split-inherit-working-directory"`

	// Title forces a fixed title on every surface, ignoring set_title
	// messages. Empty lets programs set the title.
	Title string `mapstructure:"title" yaml:"title"`

	// DesktopNotifications allows programs to raise desktop notifications.
	DesktopNotifications bool `mapstructure:"desktop-notifications" yaml:"desktop-notifications"`
	// ClipboardRead controls clipboard read requests: "allow" or "deny".
	ClipboardRead string `mapstructure:"clipboard-read" yaml:"clipboard-read"`
	// ClipboardWrite controls clipboard writes: "allow" or "deny".
	ClipboardWrite string `mapstructure:"clipboard-write" yaml:"clipboard-write"`

	Mailbox MailboxConfig `mapstructure:"mailbox" yaml:"mailbox"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	arena *Arena
}

// MailboxConfig sizes the shared surface mailbox.
type MailboxConfig struct {
	// Capacity is the number of messages the shared queue holds (default: 64)
	Capacity int `mapstructure:"capacity" yaml:"capacity"`
	// PushTimeoutMs bounds how long producers block on a full queue.
	// 0 means producers never block.
	PushTimeoutMs int `mapstructure:"push-timeout-ms" yaml:"push-timeout-ms"`
}

// PushTimeout returns PushTimeoutMs as a time.Duration.
func (m MailboxConfig) PushTimeout() time.Duration {
	return time.Duration(m.PushTimeoutMs) * time.Millisecond
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether debug logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max-size-mb" yaml:"max-size-mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max-backups" yaml:"max-backups"`
}

// Clipboard access policies.
const (
	ClipboardAllow = "allow"
	ClipboardDeny  = "deny"
)

// ValidClipboardPolicies returns the accepted clipboard-read/clipboard-write values.
func ValidClipboardPolicies() []string {
	return []string{ClipboardAllow, ClipboardDeny}
}

// Default returns a Config with default values, backed by a heap arena.
func Default() *Config {
	return &Config{
		WorkingDirectory:              "",
		TabInheritWorkingDirectory:    false,
		WindowInheritWorkingDirectory: false,
		SplitInheritWorkingDirectory:  false,
		Title:                         "",
		DesktopNotifications:          true,
		ClipboardRead:                 ClipboardDeny,
		ClipboardWrite:                ClipboardAllow,
		Mailbox: MailboxConfig{
			Capacity:      64,
			PushTimeoutMs: 0,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		arena: newArena(Heap),
	}
}

// SetDefaults registers default values with the global viper instance.
func SetDefaults() {
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	defer func() { _ = defaults.Release() }()

	v.SetDefault("working-directory", defaults.WorkingDirectory)
	v.SetDefault("tab-inherit-working-directory", defaults.TabInheritWorkingDirectory)
	v.SetDefault("window-inherit-working-directory", defaults.WindowInheritWorkingDirectory)
	v.SetDefault("split-inherit-working-directory", defaults.SplitInheritWorkingDirectory)
	v.SetDefault("title", defaults.Title)
	v.SetDefault("desktop-notifications", defaults.DesktopNotifications)
	v.SetDefault("clipboard-read", defaults.ClipboardRead)
	v.SetDefault("clipboard-write", defaults.ClipboardWrite)

	// Mailbox defaults
	v.SetDefault("mailbox.capacity", defaults.Mailbox.Capacity)
	v.SetDefault("mailbox.push-timeout-ms", defaults.Mailbox.PushTimeoutMs)

	// Logging defaults
	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.max-size-mb", defaults.Logging.MaxSizeMB)
	v.SetDefault("logging.max-backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from the global viper instance into a Config
// whose arena is drawn from alloc, and validates it.
func Load(alloc Allocator) (*Config, error) {
	return LoadFrom(viper.GetViper(), alloc)
}

// LoadFrom is Load for an explicit viper instance.
func LoadFrom(v *viper.Viper, alloc Allocator) (*Config, error) {
	var raw Config
	if err := v.Unmarshal(&raw); err != nil {
		return nil, err
	}

	if errs := raw.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	arena, err := NewArena(alloc)
	if err != nil {
		return nil, err
	}
	cfg := raw
	cfg.arena = arena
	if err := cfg.adoptStrings(); err != nil {
		_ = arena.Release()
		return nil, err
	}
	return &cfg, nil
}

// ReadFile loads a config file in isolation from the global viper state.
// Keys missing from the file take their default values.
func ReadFile(path string, alloc Allocator) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return LoadFrom(v, alloc)
}

// Get returns the current configuration (convenience function).
// It falls back to defaults if the global configuration does not load.
func Get() *Config {
	cfg, err := Load(Heap)
	if err != nil {
		return Default()
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer())
	v.AutomaticEnv()
	return v
}

// EnvPrefix is the prefix for configuration environment variables.
const EnvPrefix = "SURFACEMAIL"

// EnvKeyReplacer maps config keys to environment variable names, e.g.
// SURFACEMAIL_MAILBOX_PUSH_TIMEOUT_MS for mailbox.push-timeout-ms.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}

// adoptStrings moves every string field into c's arena.
func (c *Config) adoptStrings() error {
	for _, field := range []*string{
		&c.WorkingDirectory,
		&c.Title,
		&c.ClipboardRead,
		&c.ClipboardWrite,
		&c.Logging.Level,
	} {
		if *field == "" {
			continue
		}
		owned, err := c.arena.Strdup(*field)
		if err != nil {
			return err
		}
		*field = owned
	}
	return nil
}

// ResolveWorkingDirectory returns WorkingDirectory with "home" and a leading
// "~" expanded. An empty value resolves to the empty string.
func (c *Config) ResolveWorkingDirectory() string {
	path := c.WorkingDirectory

	switch {
	case path == "":
		return ""
	case path == "home" || path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "surfacemail")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".surfacemail"
	}
	return filepath.Join(home, ".config", "surfacemail")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// StateDir returns the directory for logs and other runtime state.
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "surfacemail")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".surfacemail"
	}
	return filepath.Join(home, ".local", "state", "surfacemail")
}
