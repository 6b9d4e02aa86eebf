// Package config loads kushl configuration from a YAML file with
// environment variable overrides. The file lives at ~/.kushl/config.yaml
// unless a path is given on the command line.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all kushl configuration.
type Config struct {
	Name string `yaml:"name"`

	Server  ServerConfig  `yaml:"server"`
	UI      UIConfig      `yaml:"ui"`
	Voice   VoiceConfig   `yaml:"voice"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig points at the chat server.
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"` // Go duration string, e.g. "30s"
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string `yaml:"theme"` // "light" or "dark"
}

// VoiceConfig wires the dictation capability. Command is an external
// program whose stdout is treated as the recognized transcript; empty
// means dictation is unavailable and the mic affordance is hidden.
type VoiceConfig struct {
	Command string `yaml:"command"`
}

// LoggingConfig controls the categorized file logger.
type LoggingConfig struct {
	Debug     bool   `yaml:"debug"`
	Level     string `yaml:"level"`
	Dir       string `yaml:"dir"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Name: "kushl",
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
			Timeout: "30s",
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// StateDir returns the directory for config, logs and the local store.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kushl"
	}
	return filepath.Join(home, ".kushl")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(StateDir(), "config.yaml")
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults; environment variables override either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating the directory
// if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("KUSHL_SERVER_URL"); url != "" {
		c.Server.BaseURL = url
	}
	if theme := os.Getenv("KUSHL_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if cmd := os.Getenv("KUSHL_VOICE_COMMAND"); cmd != "" {
		c.Voice.Command = cmd
	}
	if os.Getenv("KUSHL_DEBUG") == "1" {
		c.Logging.Debug = true
	}
}

// RequestTimeout parses the server timeout, falling back to 30s.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// LogDir resolves the logging directory, defaulting under the state dir.
func (c *Config) LogDir() string {
	if c.Logging.Dir != "" {
		return c.Logging.Dir
	}
	return filepath.Join(StateDir(), "logs")
}
