// Package config defines the fixed recorder/player configuration
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// ErrInvalidConfiguration is returned for non-positive interval, window or speed
var ErrInvalidConfiguration = errors.New("invalid configuration")

const (
	DefaultSampleInterval     = 60 * time.Millisecond
	DefaultRecordingWindow    = 30 * time.Second
	DefaultInterpolationSpeed = 4.0
)

// Environment overrides
const (
	EnvSampleInterval     = "VI_REWIND_SAMPLE_INTERVAL" // seconds, float
	EnvRecordingWindow    = "VI_REWIND_WINDOW"          // seconds, float
	EnvInterpolationSpeed = "VI_REWIND_INTERP_SPEED"
	EnvAutoAdvance        = "VI_REWIND_AUTO_ADVANCE"
)

// Config is fixed at engine construction; the engine keeps its own copy
type Config struct {
	// SampleInterval is the period of the recording tick
	SampleInterval time.Duration
	// RecordingWindow is how much history each timeline retains
	RecordingWindow time.Duration
	// InterpolationSpeed scales frame delta into blend progress (alpha per second)
	InterpolationSpeed float64
	// AutoAdvance moves the read cursor forward once a blend completes
	AutoAdvance bool
}

// Default returns the stock configuration: 60ms samples over a 30s window
func Default() *Config {
	return &Config{
		SampleInterval:     DefaultSampleInterval,
		RecordingWindow:    DefaultRecordingWindow,
		InterpolationSpeed: DefaultInterpolationSpeed,
	}
}

// FromSeconds builds a config from float seconds
func FromSeconds(interval, window, speed float64) *Config {
	return &Config{
		SampleInterval:     secondsToDuration(interval),
		RecordingWindow:    secondsToDuration(window),
		InterpolationSpeed: speed,
	}
}

// Validate checks every field is positive and the speed is finite
func (c *Config) Validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfiguration)
	case c.SampleInterval <= 0:
		return fmt.Errorf("%w: sample interval %v must be positive", ErrInvalidConfiguration, c.SampleInterval)
	case c.RecordingWindow <= 0:
		return fmt.Errorf("%w: recording window %v must be positive", ErrInvalidConfiguration, c.RecordingWindow)
	case !(c.InterpolationSpeed > 0) || math.IsInf(c.InterpolationSpeed, 1):
		return fmt.Errorf("%w: interpolation speed %v must be positive and finite", ErrInvalidConfiguration, c.InterpolationSpeed)
	}
	return nil
}

// Capacity returns the number of samples per timeline: window / interval, rounded down, at least 1
func (c *Config) Capacity() int {
	if c.SampleInterval <= 0 {
		return 1
	}
	n := int(c.RecordingWindow / c.SampleInterval)
	if n < 1 {
		return 1
	}
	return n
}

// fileConfig is the on-disk JSON shape, all durations in seconds
type fileConfig struct {
	SampleInterval     *float64 `json:"sample_interval_seconds"`
	RecordingWindow    *float64 `json:"recording_window_seconds"`
	InterpolationSpeed *float64 `json:"interpolation_speed"`
	AutoAdvance        *bool    `json:"auto_advance"`
}

// Load reads a JSON config file over the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes JSON over the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := sonic.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	cfg := Default()
	if fc.SampleInterval != nil {
		cfg.SampleInterval = secondsToDuration(*fc.SampleInterval)
	}
	if fc.RecordingWindow != nil {
		cfg.RecordingWindow = secondsToDuration(*fc.RecordingWindow)
	}
	if fc.InterpolationSpeed != nil {
		cfg.InterpolationSpeed = *fc.InterpolationSpeed
	}
	if fc.AutoAdvance != nil {
		cfg.AutoAdvance = *fc.AutoAdvance
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables
// Unparseable values are ignored and leave the field unchanged
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSampleInterval); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.SampleInterval = secondsToDuration(f)
		}
	}
	if v := os.Getenv(EnvRecordingWindow); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RecordingWindow = secondsToDuration(f)
		}
	}
	if v := os.Getenv(EnvInterpolationSpeed); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.InterpolationSpeed = f
		}
	}
	if v := os.Getenv(EnvAutoAdvance); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoAdvance = b
		}
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
