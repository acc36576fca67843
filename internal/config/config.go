// Package config provides configuration management for timegraph.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wethinkt/go-timegraph/internal/timegraph"
)

// EnvPath overrides the config file location when set.
const EnvPath = "TIMEGRAPH_CONFIG"

// DefaultSyncPort is the port the sync relay listens on by default.
const DefaultSyncPort = 7433

// Config holds the timegraph configuration.
type Config struct {
	Language string         `toml:"language,omitempty"`  // BCP 47 display language
	LogLevel string         `toml:"log_level,omitempty"` // debug, info, warn or error
	Theme    string         `toml:"theme,omitempty"`     // TUI theme name
	Viewport ViewportConfig `toml:"viewport"`
	Sync     SyncConfig     `toml:"sync"`
}

// ViewportConfig holds the time axis settings of every view.
type ViewportConfig struct {
	MinInterval    int64   `toml:"min_interval"`    // Shortest window in ns
	SettleDelay    string  `toml:"settle_delay"`    // Quiet period before listeners run (e.g. "400ms")
	PollInterval   string  `toml:"poll_interval"`   // Shortest timer re-arm
	ScrollRange    int     `toml:"scroll_range"`    // Scrollbar coordinate space
	ZoomFactor     float64 `toml:"zoom_factor"`     // Scale of one zoom step
	TimeFormat     string  `toml:"time_format"`     // relative, absolute, calendar or cycles
	ClockFrequency int64   `toml:"clock_frequency"` // Hz, used by the cycles format
}

// SyncConfig holds the cross-view relay settings.
type SyncConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port of the relay.
func (s SyncConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SettleDuration returns the parsed settle delay (default: 400ms).
func (v ViewportConfig) SettleDuration() (time.Duration, error) {
	return parseDuration(v.SettleDelay, timegraph.DefaultSettleDelay)
}

// PollDuration returns the parsed poll interval (default: 10ms).
func (v ViewportConfig) PollDuration() (time.Duration, error) {
	return parseDuration(v.PollInterval, timegraph.DefaultPollInterval)
}

func parseDuration(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}

// Options converts the viewport section into controller options.
func (v ViewportConfig) Options() (timegraph.Options, error) {
	settle, err := v.SettleDuration()
	if err != nil {
		return timegraph.Options{}, fmt.Errorf("viewport.settle_delay: %w", err)
	}
	poll, err := v.PollDuration()
	if err != nil {
		return timegraph.Options{}, fmt.Errorf("viewport.poll_interval: %w", err)
	}
	format, err := timegraph.ParseTimeFormat(v.TimeFormat)
	if err != nil {
		return timegraph.Options{}, fmt.Errorf("viewport.time_format: %w", err)
	}
	if v.MinInterval < 0 {
		return timegraph.Options{}, fmt.Errorf("viewport.min_interval: %d is negative", v.MinInterval)
	}
	return timegraph.Options{
		MinInterval:    v.MinInterval,
		SettleDelay:    settle,
		PollInterval:   poll,
		ScrollRange:    v.ScrollRange,
		ZoomFactor:     v.ZoomFactor,
		TimeFormat:     format,
		ClockFrequency: v.ClockFrequency,
	}, nil
}

// Dir returns the path to the .timegraph directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".timegraph"), nil
}

// Path returns the path to the main config file.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	configDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration. A missing file yields the defaults, which
// are written out so the user has something to edit.
func Load() (Config, error) {
	configPath, err := Path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		_ = Save(cfg)
		return cfg, nil
	} else if err != nil {
		return Config{}, err
	}

	// Start from defaults so sections missing from the file keep
	// working values.
	cfg := Default()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
	}
	if cfg.Sync.Host == "" {
		cfg.Sync.Host = "localhost"
	}
	if cfg.Sync.Port <= 0 {
		cfg.Sync.Port = DefaultSyncPort
	}
	return cfg, nil
}

// Default returns a configuration with all defaults set.
func Default() Config {
	return Config{
		LogLevel: "info",
		Theme:    "dark",
		Viewport: ViewportConfig{
			MinInterval:    timegraph.DefaultMinInterval,
			SettleDelay:    timegraph.DefaultSettleDelay.String(),
			PollInterval:   timegraph.DefaultPollInterval.String(),
			ScrollRange:    timegraph.DefaultScrollRange,
			ZoomFactor:     timegraph.DefaultZoomFactor,
			TimeFormat:     timegraph.FormatRelative.String(),
			ClockFrequency: timegraph.DefaultClockFrequency,
		},
		Sync: SyncConfig{
			Host: "localhost",
			Port: DefaultSyncPort,
		},
	}
}

// Save writes the configuration to Path.
func Save(cfg Config) error {
	configPath, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(configPath, buf.Bytes(), 0600)
}
