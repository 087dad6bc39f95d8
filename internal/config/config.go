// Package config handles loading and parsing application configuration.
// It supports two sources for the file path (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// The parsed values are returned as a *Config pointer so the struct is
// shared by reference rather than copied everywhere.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage backends accepted in storage.backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing. Crashing at boot beats silently running on a wrong default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// Locale selects the language of human-readable labels
	// ("Today!", "3 days", calendar event titles).
	Locale string `yaml:"locale" env:"LOCALE" env-default:"en"`

	Storage    `yaml:"storage"`
	HTTPServer `yaml:"http_server"`
}

// Storage selects and configures the record store.
type Storage struct {
	// Backend is "memory" (default, nothing persists) or "sqlite".
	Backend string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`

	// Path is the SQLite .db file. Ignored by the memory backend.
	Path string `yaml:"path" env:"STORAGE_PATH"`

	// Seed loads the sample birthdays into an empty store at startup.
	// No env-default here: cleanenv re-applies defaults to zero values,
	// which would make an explicit "seed: false" impossible.
	Seed bool `yaml:"seed" env:"STORAGE_SEED"`
}

// HTTPServer holds settings specific to the HTTP server.
// Nested under http_server: in the YAML file.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	// RateLimit is the sustained number of requests per second allowed
	// across all clients; 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit" env:"HTTP_RATE_LIMIT"`

	// Burst is the number of requests allowed above RateLimit at once.
	Burst int `yaml:"burst" env:"HTTP_RATE_BURST"`

	// ShutdownTimeout bounds how long in-flight requests get to finish.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// ResolvePath returns the config file path: CONFIG_PATH wins over the
// value of the --config flag.
func ResolvePath(flagValue string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return flagValue
}

// Load reads, validates, and returns the config stored at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	// Verify the file exists before trying to read it, so the message is
	// clearer than a cryptic "open: no such file" later.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// cleanenv.ReadConfig reads the YAML file and populates the struct.
	// It also reads any env:"..." tagged fields from the environment,
	// applies env-default values and validates env-required constraints.
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field rules cleanenv cannot express.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.Path == "" {
			return errors.New("config: storage.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.HTTPServer.RateLimit < 0 || c.HTTPServer.Burst < 0 {
		return errors.New("config: rate_limit and burst must not be negative")
	}
	return nil
}
