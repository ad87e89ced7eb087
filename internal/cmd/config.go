package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/surfacemail/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify surfacemail configuration",
	Long: `View or modify surfacemail configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Valid keys:
  working-directory                 - Directory new surfaces start in
  tab-inherit-working-directory     - New tabs inherit the directory (true/false)
  window-inherit-working-directory  - New windows inherit the directory (true/false)
  split-inherit-working-directory   - New splits inherit the directory (true/false)
  title                             - Fixed title for every surface
  desktop-notifications             - Allow desktop notifications (true/false)
  clipboard-read                    - allow or deny
  clipboard-write                   - allow or deny
  mailbox.capacity                  - Queue capacity
  mailbox.push-timeout-ms           - Producer push timeout in milliseconds
  logging.enabled                   - Write a log file (true/false)
  logging.level                     - debug, info, warn or error
  logging.max-size-mb               - Log size before rotation
  logging.max-backups               - Rotated log files kept`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at $XDG_CONFIG_HOME/surfacemail/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

// settableKeys maps each key accepted by config set to its value type.
var settableKeys = map[string]string{
	"working-directory":                "string",
	"tab-inherit-working-directory":    "bool",
	"window-inherit-working-directory": "bool",
	"split-inherit-working-directory":  "bool",
	"title":                            "string",
	"desktop-notifications":            "bool",
	"clipboard-read":                   "policy",
	"clipboard-write":                  "policy",
	"mailbox.capacity":                 "int",
	"mailbox.push-timeout-ms":          "int",
	"logging.enabled":                  "bool",
	"logging.level":                    "level",
	"logging.max-size-mb":              "int",
	"logging.max-backups":              "int",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.Heap)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	defer func() { _ = cfg.Release() }()

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	digest, err := cfg.Digest()
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	p.title("Current configuration:")
	if viper.ConfigFileUsed() != "" {
		p.kv("file", viper.ConfigFileUsed())
	} else {
		p.kv("file", "(none - using defaults)")
	}
	p.kv("digest", digest)
	p.println()
	p.printf("%s", out)
	return nil
}

// parseSetting validates value for key and converts it to the key's type.
func parseSetting(key, value string) (any, error) {
	keyType, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'surfacemail config set --help' to see valid keys", key)
	}

	switch keyType {
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return n, nil
	case "policy":
		if !slices.Contains(config.ValidClipboardPolicies(), value) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidClipboardPolicies(), ", "))
		}
	case "level":
		if !slices.Contains(config.ValidLogLevels(), strings.ToLower(value)) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(config.ValidLogLevels(), ", "))
		}
		return strings.ToLower(value), nil
	}
	return value, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typedValue, err := parseSetting(key, args[1])
	if err != nil {
		return err
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set(key, typedValue)

	// The result must still be a valid config.
	cfg, err := config.Load(config.Heap)
	if err != nil {
		return err
	}
	_ = cfg.Release()

	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	p := newPrinter(cmd)
	p.success(fmt.Sprintf("Set %s = %v", key, typedValue))
	p.printf("Config saved to %s\n", configFile)
	return nil
}

const configHeader = `# surfacemail configuration
#
# working-directory: directory new surfaces start in ("" is the launching
#   directory, "home" or "~" the home directory)
# *-inherit-working-directory: new tabs, windows or splits start in the
#   directory of their parent surface, or of the focused surface
# clipboard-read / clipboard-write: allow or deny
# mailbox.capacity: messages the shared surface queue holds
# mailbox.push-timeout-ms: how long producers wait on a full queue (0: never)

`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'surfacemail config set' to modify values", configFile)
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	defaults := config.Default()
	defer func() { _ = defaults.Release() }()
	body, err := yaml.Marshal(defaults)
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.WriteFile(configFile, append([]byte(configHeader), body...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	p := newPrinter(cmd)
	p.success("Created config file at " + configFile)
	p.println("Edit this file to customize surfacemail's behavior.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()
	p := newPrinter(cmd)

	if viper.ConfigFileUsed() != "" {
		p.printf("Active config: %s\n", viper.ConfigFileUsed())
	} else {
		p.printf("Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	p.println("\nSearch paths:")
	p.printf("  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	p.printf("  2. ./config.yaml (current directory)\n")
	p.printf("\nEnvironment variables: %s_* (e.g., %s_MAILBOX_CAPACITY)\n", config.EnvPrefix, config.EnvPrefix)
	return nil
}
