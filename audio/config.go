package audio

import (
	"os"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/lixenwraith/vi-rewind/core"
)

// Config holds cue playback settings
type Config struct {
	Enabled      bool
	MasterVolume float64 // 0.0-1.0
	SampleRate   int
	CueVolumes   [core.CueTypeCount]float64
	// HearingRange is the listener distance at which a cue fades to silence
	HearingRange float64
}

// DefaultConfig returns the built-in audio settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		MasterVolume: 0.5,
		SampleRate:   44100,
		CueVolumes: [core.CueTypeCount]float64{
			core.CueFire:  0.8,
			core.CueReset: 0.6,
		},
		HearingRange: 40,
	}
}

// LoadConfig loads audio configuration from environment variables over the defaults
func LoadConfig() *Config {
	cfg := DefaultConfig()

	if enabled := os.Getenv("VI_REWIND_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume is given as 0-100
	if volume := os.Getenv("VI_REWIND_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = min(max(float64(val)/100.0, 0), 1)
		}
	}

	if cueVols := os.Getenv("VI_REWIND_CUE_VOLUMES"); cueVols != "" {
		var volumes map[string]float64
		if err := sonic.UnmarshalString(cueVols, &volumes); err == nil {
			if v, ok := volumes["fire"]; ok {
				cfg.CueVolumes[core.CueFire] = v
			}
			if v, ok := volumes["reset"]; ok {
				cfg.CueVolumes[core.CueReset] = v
			}
		}
	}

	if sampleRate := os.Getenv("VI_REWIND_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}
