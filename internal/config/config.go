// Package config loads fmodcli configuration from $FMODCLI_HOME/config.toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Backend kinds.
const (
	BackendLocal = "local"
	BackendStub  = "stub"
)

// Config holds all fmodcli configuration.
type Config struct {
	Backend   BackendConfig   `toml:"backend"`
	Logging   LoggingConfig   `toml:"logging"`
	History   HistoryConfig   `toml:"history"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// BackendConfig selects and tunes the generation backend.
type BackendConfig struct {
	Kind     string   `toml:"kind"`
	Endpoint string   `toml:"endpoint"`
	Model    string   `toml:"model"`
	Enabled  bool     `toml:"enabled"`
	Timeout  Duration `toml:"timeout"`
}

// LoggingConfig controls diagnostic logging on stderr.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// HistoryConfig controls the run journal.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// TelemetryConfig controls metric export.
type TelemetryConfig struct {
	Textfile string `toml:"textfile"`
}

// Duration is a time.Duration that decodes from TOML strings like "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultTimeout bounds a single generate call.
const DefaultTimeout = 2 * time.Minute

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			Kind:     BackendLocal,
			Endpoint: "http://127.0.0.1:11434",
			Enabled:  true,
			Timeout:  Duration{DefaultTimeout},
		},
		Logging: LoggingConfig{
			Level: "error",
		},
		History: HistoryConfig{
			Dir: Home(),
		},
	}
}

// Load reads config from $FMODCLI_HOME/config.toml, falling back to defaults,
// then applies environment overrides.
func Load() (Config, error) {
	return LoadFile(filepath.Join(Home(), "config.toml"))
}

// LoadFile reads config from path. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("stat config: %w", err)
	}

	applyEnv(&cfg)
	if cfg.History.Dir == "" {
		cfg.History.Dir = Home()
	}
	return cfg, cfg.Validate()
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	switch c.Backend.Kind {
	case BackendLocal, BackendStub:
	default:
		return fmt.Errorf("backend.kind: unknown backend %q (use %s or %s)", c.Backend.Kind, BackendLocal, BackendStub)
	}
	if c.Backend.Timeout.Duration < 0 {
		return fmt.Errorf("backend.timeout: must not be negative, got %s", c.Backend.Timeout)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("FMODCLI_BACKEND"); v != "" {
		cfg.Backend.Kind = v
	}
	if v := os.Getenv("FMODCLI_ENDPOINT"); v != "" {
		cfg.Backend.Endpoint = v
	}
	if v := os.Getenv("FMODCLI_MODEL"); v != "" {
		cfg.Backend.Model = v
	}
	if v := os.Getenv("FMODCLI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Home returns the fmodcli data directory.
func Home() string {
	if env := os.Getenv("FMODCLI_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".fmodcli")
}
