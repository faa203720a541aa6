package config

import (
	"os"
	"path/filepath"
	"testing"
)

// ============================================================
// Defaults and precedence
// ============================================================

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.UserID != "local" {
		t.Fatalf("user id = %q", cfg.UserID)
	}
	if cfg.Timezone != "Europe/Istanbul" {
		t.Fatalf("timezone = %q", cfg.Timezone)
	}
	if cfg.Latitude == 0 || cfg.Longitude == 0 {
		t.Fatal("no default coordinates")
	}
	if cfg.WeatherBaseURL == "" {
		t.Fatal("no default weather url")
	}
	if cfg.Window.Start != "08:00" || cfg.Window.End != "22:00" {
		t.Fatalf("window = %+v", cfg.Window)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
timezone: UTC
latitude: 52.52
longitude: 13.405
window:
  start: "07:00"
  end: "23:00"
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timezone != "UTC" {
		t.Fatalf("timezone = %q", cfg.Timezone)
	}
	if cfg.Latitude != 52.52 {
		t.Fatalf("latitude = %v", cfg.Latitude)
	}
	if cfg.Window.Start != "07:00" || cfg.Window.End != "23:00" {
		t.Fatalf("window = %+v", cfg.Window)
	}
	// Untouched fields keep their defaults
	if cfg.UserID != "local" {
		t.Fatalf("user id = %q", cfg.UserID)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timezone: UTC\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("REMINDR_TIMEZONE", "America/New_York")
	t.Setenv("REMINDR_WINDOW_START", "06:30")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timezone != "America/New_York" {
		t.Fatalf("timezone = %q", cfg.Timezone)
	}
	if cfg.Window.Start != "06:30" {
		t.Fatalf("window start = %q", cfg.Window.Start)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("timezone: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

// ============================================================
// Location
// ============================================================

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "UTC"}
	if cfg.Location().String() != "UTC" {
		t.Fatalf("location = %v", cfg.Location())
	}

	// Unknown zones fall back to local time rather than failing
	cfg = &Config{Timezone: "Not/AZone"}
	if cfg.Location() == nil {
		t.Fatal("nil location")
	}
}
