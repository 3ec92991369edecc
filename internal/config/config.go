package config

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/samijaber1/aegis-reliability/internal/recalc"
	"github.com/samijaber1/aegis-reliability/internal/storage"
)

// Config holds server configuration
type Config struct {
	// Server settings
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// Storage settings. An empty DBPath keeps everything in memory.
	DBPath      string `yaml:"dbPath"`
	SnapshotKey string `yaml:"snapshotKey"`
	Audit       bool   `yaml:"audit"`

	// Calculator settings
	Locale         string        `yaml:"locale"`
	DebounceWindow time.Duration `yaml:"debounceWindow"`

	// Operational settings
	GracefulShutdownTimeout time.Duration `yaml:"gracefulShutdownTimeout"`
	Debug                   bool          `yaml:"debug"`
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.SnapshotKey == "" {
		return fmt.Errorf("snapshot key is required")
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}

	if c.DebounceWindow <= 0 {
		return fmt.Errorf("debounce window must be positive, got %s", c.DebounceWindow)
	}

	if c.GracefulShutdownTimeout < 0 {
		return fmt.Errorf("graceful shutdown timeout must not be negative")
	}

	return nil
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Port:                    8080,
		Host:                    "0.0.0.0",
		SnapshotKey:             storage.DefaultSnapshotKey,
		Audit:                   true,
		Locale:                  "pt-BR",
		DebounceWindow:          recalc.DefaultWindow,
		GracefulShutdownTimeout: 30 * time.Second,
	}
}

// Load reads a YAML config file on top of the defaults. Keys missing from
// the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
