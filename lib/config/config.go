// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemmeta"
	"github.com/bureau-foundation/warden/lib/sweep"
	"github.com/bureau-foundation/warden/lib/tick"
)

// EnvVar names the environment variable read by Load.
const EnvVar = "WARDEN_CONFIG"

// Config is the complete warden configuration.
type Config struct {
	// Namespace prefixes the expiry and attribution tag keys.
	// Changing it orphans tags written under the old namespace.
	Namespace string `yaml:"namespace"`

	// Snapshot is the world file the CLI operates on when no --file
	// flag is given. Empty means --file is required.
	Snapshot string `yaml:"snapshot"`

	Tick       TickConfig       `yaml:"tick"`
	Sweep      SweepConfig      `yaml:"sweep"`
	Annotation AnnotationConfig `yaml:"annotation"`

	// Containers lists the inventory types swept on open and guarded
	// against extraction of foreign-bound items.
	Containers []string `yaml:"containers"`

	// Materials extends or overrides the built-in material catalog.
	Materials []item.Material `yaml:"materials"`

	Log LogConfig `yaml:"log"`
}

// TickConfig configures the processing cycle.
type TickConfig struct {
	// Rate is the number of ticks per second.
	// Default: 20
	Rate int `yaml:"rate"`
}

// SweepConfig configures sweep timing, in ticks.
type SweepConfig struct {
	// IntervalTicks is the periodic sweep period.
	// Default: 1200 (one minute at 20 ticks per second)
	IntervalTicks uint64 `yaml:"interval_ticks"`

	// JoinDelayTicks is the delay between an actor joining and its
	// holdings sweep.
	// Default: 20
	JoinDelayTicks uint64 `yaml:"join_delay_ticks"`

	// OpenDelayTicks is the delay between an inventory opening and
	// its sweep.
	// Default: 1
	OpenDelayTicks uint64 `yaml:"open_delay_ticks"`
}

// AnnotationConfig configures the text of annotation lines.
type AnnotationConfig struct {
	ExpiryLabel      string `yaml:"expiry_label"`
	AttributionLabel string `yaml:"attribution_label"`

	// TimeLayout is a Go time layout.
	// Default: 2006-01-02 15:04:05
	TimeLayout string `yaml:"time_layout"`

	// TimeZone is an IANA zone name, "Local", or "UTC".
	// Default: Local
	TimeZone string `yaml:"time_zone"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	format := itemmeta.DefaultAnnotationFormat()
	var containers []string
	for _, kind := range []inventory.Type{
		inventory.Chest, inventory.Dispenser, inventory.Dropper,
		inventory.Furnace, inventory.Brewing, inventory.Hopper,
		inventory.ShulkerBox, inventory.Barrel, inventory.BlastFurnace,
		inventory.Smoker,
	} {
		containers = append(containers, string(kind))
	}

	return &Config{
		Namespace: itemmeta.DefaultNamespace,
		Tick: TickConfig{
			Rate: tick.DefaultRate,
		},
		Sweep: SweepConfig{
			IntervalTicks:  sweep.DefaultInterval,
			JoinDelayTicks: 20,
			OpenDelayTicks: 1,
		},
		Annotation: AnnotationConfig{
			ExpiryLabel:      format.ExpiryLabel,
			AttributionLabel: format.AttributionLabel,
			TimeLayout:       format.TimeLayout,
			TimeZone:         "Local",
		},
		Containers: containers,
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by WARDEN_CONFIG.
//
// There are no fallbacks: if WARDEN_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvVar)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your warden.yaml config file, or use --config flag", EnvVar)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from path over the defaults and
// validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile merges a YAML file into the current config. Unknown keys
// are rejected so that typos do not silently fall back to defaults.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		// A file with no documents leaves the defaults in place.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// snapshot path.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Snapshot = expandVars(c.Snapshot, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Provided vars first, then the environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var namespacePattern = regexp.MustCompile(`^[a-z0-9._-]+$`)

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.Namespace == "" {
		errs = append(errs, fmt.Errorf("namespace is required"))
	} else if !namespacePattern.MatchString(c.Namespace) {
		errs = append(errs, fmt.Errorf("namespace %q must match [a-z0-9._-]+", c.Namespace))
	}

	if c.Tick.Rate <= 0 {
		errs = append(errs, fmt.Errorf("tick.rate must be positive, got %d", c.Tick.Rate))
	}
	if c.Sweep.IntervalTicks == 0 {
		errs = append(errs, fmt.Errorf("sweep.interval_ticks must be positive"))
	}
	if c.Sweep.JoinDelayTicks == 0 {
		errs = append(errs, fmt.Errorf("sweep.join_delay_ticks must be positive"))
	}
	if c.Sweep.OpenDelayTicks == 0 {
		errs = append(errs, fmt.Errorf("sweep.open_delay_ticks must be positive"))
	}

	if c.Annotation.TimeLayout == "" {
		errs = append(errs, fmt.Errorf("annotation.time_layout is required"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	for _, name := range c.Containers {
		if _, err := inventory.ParseType(name); err != nil {
			errs = append(errs, fmt.Errorf("containers: %w", err))
		}
	}

	for index, material := range c.Materials {
		if err := material.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("materials[%d]: %w", index, err))
		}
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// TickInterval returns the wall-clock time between ticks.
func (c *Config) TickInterval() time.Duration {
	if c.Tick.Rate <= 0 {
		return time.Second / tick.DefaultRate
	}
	return time.Second / time.Duration(c.Tick.Rate)
}

// Location resolves annotation.time_zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Annotation.TimeZone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	location, err := time.LoadLocation(c.Annotation.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("annotation.time_zone: %w", err)
	}
	return location, nil
}

// Catalog returns the default material catalog extended with the
// configured materials.
func (c *Config) Catalog() item.Catalog {
	return item.DefaultCatalog().With(c.Materials...)
}

// ContainerTypes returns the configured container set. Invalid names
// are skipped; Validate reports them.
func (c *Config) ContainerTypes() inventory.TypeSet {
	set := inventory.NewTypeSet()
	for _, name := range c.Containers {
		if kind, err := inventory.ParseType(name); err == nil {
			set[kind] = struct{}{}
		}
	}
	return set
}

// AnnotationFormat returns the annotation section as an
// itemmeta.AnnotationFormat. An unknown time zone falls back to
// time.Local; Validate reports it.
func (c *Config) AnnotationFormat() itemmeta.AnnotationFormat {
	location, err := c.Location()
	if err != nil {
		location = time.Local
	}
	return itemmeta.AnnotationFormat{
		ExpiryLabel:      c.Annotation.ExpiryLabel,
		AttributionLabel: c.Annotation.AttributionLabel,
		TimeLayout:       c.Annotation.TimeLayout,
		Location:         location,
	}
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
}
