// Package config provides configuration management for composer.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	// DefaultHistoryLimit is the number of recall entries kept per conversation.
	DefaultHistoryLimit = 200

	// DefaultTerminalWidth is the default terminal width when auto-detection fails.
	DefaultTerminalWidth = 80

	// EscDoublePressTimeout is the timeout for double-press ESC actions.
	EscDoublePressTimeout = 2 * time.Second

	// PreviewTruncateLength is the max length for conversation preview text.
	PreviewTruncateLength = 50

	// EnvPrefix prefixes environment overrides, e.g. COMPOSER_HISTORY_LIMIT.
	EnvPrefix = "COMPOSER"
)

// HistoryConfig controls input recall.
type HistoryConfig struct {
	Limit    int  `mapstructure:"limit" json:"limit"`
	Disabled bool `mapstructure:"disabled" json:"disabled"`
}

// KeysConfig names the keys that walk the recall history.
type KeysConfig struct {
	Older []string `mapstructure:"older" json:"older"`
	Newer []string `mapstructure:"newer" json:"newer"`
}

// Config holds the application configuration that is persisted to disk.
type Config struct {
	History  HistoryConfig `mapstructure:"history" json:"history"`
	Keys     KeysConfig    `mapstructure:"keys" json:"keys"`
	Markdown bool          `mapstructure:"markdown" json:"markdown"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		History: HistoryConfig{Limit: DefaultHistoryLimit},
		Keys: KeysConfig{
			Older: []string{"up"},
			Newer: []string{"down"},
		},
		Markdown: true,
	}
}

// GetConfigDir returns the platform-specific config directory for composer.
// This is a variable to allow mocking in tests.
var GetConfigDir = func() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "composer"), nil
}

// GetConfigPath returns the full path to the config file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// newViper returns a viper instance seeded with defaults and env overrides.
func newViper() *viper.Viper {
	d := Default()
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("history.disabled", d.History.Disabled)
	v.SetDefault("keys.older", d.Keys.Older)
	v.SetDefault("keys.newer", d.Keys.Newer)
	v.SetDefault("markdown", d.Markdown)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file and returns the Config struct.
// Missing files and missing fields take default values; COMPOSER_* environment
// variables override both.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	v := newViper()
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.History.Limit <= 0 {
		cfg.History.Limit = DefaultHistoryLimit
	}

	return &cfg, nil
}

// Save writes the config to disk with secure permissions.
func Save(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}

	// Create config directory with user-only permissions
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LogPath returns the debug log location inside the config directory.
func LogPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "composer.log"), nil
}
