// Package config loads the application configuration from YAML and
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "REMINDR_"

// Window is the daily reminder window in local wall-clock time.
type Window struct {
	Start string `koanf:"start"` // HH:MM
	End   string `koanf:"end"`   // HH:MM
}

type Config struct {
	UserID         string  `koanf:"user_id"`
	Timezone       string  `koanf:"timezone"`
	Latitude       float64 `koanf:"latitude"`
	Longitude      float64 `koanf:"longitude"`
	DatabasePath   string  `koanf:"database_path"`
	LogPath        string  `koanf:"log_path"`
	WeatherBaseURL string  `koanf:"weather_base_url"`
	Window         Window  `koanf:"window"`
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "remindr", "config.yaml"), nil
}

// Load reads configuration with the usual precedence: hardcoded defaults,
// then the YAML file at path (skipped if absent), then REMINDR_* environment
// variables. An empty path means the default location.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if content, err := os.ReadFile(path); err == nil {
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	// REMINDR_LOG_PATH -> log_path, REMINDR_WINDOW_START -> window.start
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if rest, ok := strings.CutPrefix(key, "window_"); ok {
			return "window." + rest
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.UserID == "" {
		cfg.UserID = "local"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Istanbul"
	}
	if cfg.Latitude == 0 && cfg.Longitude == 0 {
		// Istanbul
		cfg.Latitude = 41.0082
		cfg.Longitude = 28.9784
	}
	if cfg.WeatherBaseURL == "" {
		cfg.WeatherBaseURL = "https://api.open-meteo.com"
	}
	if cfg.Window.Start == "" {
		cfg.Window.Start = "08:00"
	}
	if cfg.Window.End == "" {
		cfg.Window.End = "22:00"
	}
}

// Location resolves the configured timezone, falling back to local time
// when the name is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
