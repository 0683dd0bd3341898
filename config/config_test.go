package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCapacity(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500, cfg.Capacity())
}

func TestCapacityRoundsDownWithMinimumOne(t *testing.T) {
	cases := []struct {
		name             string
		interval, window time.Duration
		want             int
	}{
		{"exact", 100 * time.Millisecond, time.Second, 10},
		{"rounds down", 300 * time.Millisecond, time.Second, 3},
		{"window shorter than interval", time.Second, 100 * time.Millisecond, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{SampleInterval: tc.interval, RecordingWindow: tc.window, InterpolationSpeed: 1}
			assert.Equal(t, tc.want, cfg.Capacity())
		})
	}
}

func TestValidateRejectsNonPositive(t *testing.T) {
	cases := map[string]*Config{
		"zero interval":   {SampleInterval: 0, RecordingWindow: time.Second, InterpolationSpeed: 1},
		"negative window": {SampleInterval: time.Millisecond, RecordingWindow: -time.Second, InterpolationSpeed: 1},
		"zero speed":      {SampleInterval: time.Millisecond, RecordingWindow: time.Second, InterpolationSpeed: 0},
		"nil":             nil,
		"NaN speed":       {SampleInterval: time.Millisecond, RecordingWindow: time.Second, InterpolationSpeed: math.NaN()},
		"infinite speed":  {SampleInterval: time.Millisecond, RecordingWindow: time.Second, InterpolationSpeed: math.Inf(1)},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
		})
	}
}

func TestFromSeconds(t *testing.T) {
	cfg := FromSeconds(0.06, 30, 4)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, 30*time.Second, cfg.RecordingWindow)
	assert.Equal(t, 500, cfg.Capacity())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{"recording_window_seconds": 5, "auto_advance": true}`))
	require.NoError(t, err)

	assert.Equal(t, DefaultSampleInterval, cfg.SampleInterval)
	assert.Equal(t, 5*time.Second, cfg.RecordingWindow)
	assert.Equal(t, DefaultInterpolationSpeed, cfg.InterpolationSpeed)
	assert.True(t, cfg.AutoAdvance)
}

func TestParseRejectsInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"sample_interval_seconds": -1}`))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Parse([]byte(`{not json`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewind.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sample_interval_seconds": 0.1, "interpolation_speed": 2}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, 2.0, cfg.InterpolationSpeed)
	assert.Equal(t, 300, cfg.Capacity())

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSampleInterval, "0.5")
	t.Setenv(EnvRecordingWindow, "10")
	t.Setenv(EnvInterpolationSpeed, "bogus")
	t.Setenv(EnvAutoAdvance, "true")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, 500*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, 10*time.Second, cfg.RecordingWindow)
	assert.Equal(t, DefaultInterpolationSpeed, cfg.InterpolationSpeed, "bad value leaves default")
	assert.True(t, cfg.AutoAdvance)
	assert.Equal(t, 20, cfg.Capacity())
}

func TestApplyEnvNaNSpeedFailsValidation(t *testing.T) {
	t.Setenv(EnvInterpolationSpeed, "NaN")

	cfg := Default()
	cfg.ApplyEnv()
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfiguration)
}
