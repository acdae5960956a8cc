package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/plus3/weakref/weakarray"
	"github.com/tailscale/hujson"
)

var (
	errConfigFileRead = errors.New("cannot read config file")
	errConfigInvalid  = errors.New("invalid config")
	errUnknownFormat  = errors.New("unknown report format")
	errUnknownLevel   = errors.New("unknown log level")
)

// Config holds the stress test settings.
type Config struct {
	Duration     time.Duration
	Workers      int
	Objects      int
	Retain       float64
	CompactCycle int
	Kind         weakarray.ReferenceKind
	Format       string
	Out          string
	LogLevel     string
}

// DefaultConfig returns the settings used when neither a config file nor a
// flag overrides them.
func DefaultConfig() Config {
	return Config{
		Duration:     5 * time.Second,
		Workers:      4,
		Objects:      1000,
		Retain:       0.25,
		CompactCycle: 64,
		Kind:         weakarray.Weak,
		Format:       "text",
		LogLevel:     "info",
	}
}

// fileConfig is the JSONC config file layout. Absent fields keep the value
// they already have.
type fileConfig struct {
	Duration     *string                  `json:"duration"`
	Workers      *int                     `json:"workers"`
	Objects      *int                     `json:"objects"`
	Retain       *float64                 `json:"retain"`
	CompactCycle *int                     `json:"compact_cycle"` //nolint:tagliatelle // snake_case for config file
	Kind         *weakarray.ReferenceKind `json:"kind"`
	Format       *string                  `json:"format"`
	Out          *string                  `json:"out"`
	LogLevel     *string                  `json:"log_level"` //nolint:tagliatelle // snake_case for config file
}

// LoadConfigFile reads the JSONC file at path and applies it on top of base.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigFileRead, path, err)
	}

	cfg, err := parseConfig(data, base)
	if err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, nil
}

func parseConfig(data []byte, base Config) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var fc fileConfig

	unmarshalErr := json.Unmarshal(standardized, &fc)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return mergeConfig(base, fc)
}

func mergeConfig(base Config, overlay fileConfig) (Config, error) {
	if overlay.Duration != nil {
		d, err := time.ParseDuration(*overlay.Duration)
		if err != nil {
			return Config{}, fmt.Errorf("duration: %w", err)
		}

		base.Duration = d
	}

	if overlay.Workers != nil {
		base.Workers = *overlay.Workers
	}

	if overlay.Objects != nil {
		base.Objects = *overlay.Objects
	}

	if overlay.Retain != nil {
		base.Retain = *overlay.Retain
	}

	if overlay.CompactCycle != nil {
		base.CompactCycle = *overlay.CompactCycle
	}

	if overlay.Kind != nil {
		base.Kind = *overlay.Kind
	}

	if overlay.Format != nil {
		base.Format = *overlay.Format
	}

	if overlay.Out != nil {
		base.Out = *overlay.Out
	}

	if overlay.LogLevel != nil {
		base.LogLevel = *overlay.LogLevel
	}

	return base, nil
}

func validateConfig(cfg Config) error {
	switch {
	case cfg.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", errConfigInvalid)
	case cfg.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", errConfigInvalid)
	case cfg.Objects < 1:
		return fmt.Errorf("%w: objects must be at least 1", errConfigInvalid)
	case cfg.Retain < 0 || cfg.Retain > 1:
		return fmt.Errorf("%w: retain must be between 0 and 1", errConfigInvalid)
	}

	if cfg.Format != "text" && cfg.Format != "yaml" {
		return fmt.Errorf("%w: %q", errUnknownFormat, cfg.Format)
	}

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return err
	}

	return nil
}
