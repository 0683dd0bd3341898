package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/lixenwraith/vi-rewind/core"
)

// drain pulls s to completion and returns the number of samples produced
func drain(s beep.Streamer, limit int) int {
	buf := make([][2]float64, 512)
	total := 0
	for total < limit {
		n, ok := s.Stream(buf)
		total += n
		if !ok {
			break
		}
	}
	return total
}

// constant is an endless stream of 1.0
func constant() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
}

// TestChirpRange verifies the chirp stays in range and is mono
func TestChirpRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	s := newChirp(440, -1000, rate)

	samples := make([][2]float64, 1000)
	n, ok := s.Stream(samples)
	if !ok || n != 1000 {
		t.Fatalf("Expected 1000 samples ok, got %d %v", n, ok)
	}
	for i := 0; i < n; i++ {
		if math.Abs(samples[i][0]) > 1 {
			t.Errorf("Sample %d out of range: %f", i, samples[i][0])
		}
		if samples[i][0] != samples[i][1] {
			t.Errorf("Sample %d not mono", i)
		}
	}
}

// TestNoiseRange verifies noise stays in [-1, 1)
func TestNoiseRange(t *testing.T) {
	samples := make([][2]float64, 500)
	n, _ := noise().Stream(samples)
	for i := 0; i < n; i++ {
		if v := samples[i][0]; v < -1 || v >= 1 {
			t.Fatalf("Noise sample %d out of range: %f", i, v)
		}
	}
}

// TestShapeEnds verifies a shaped stream stops after its duration
func TestShapeEnds(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := shape(constant(), 100*time.Millisecond, 0, 0, rate)

	if got := drain(s, 10000); got != 100 {
		t.Errorf("Expected 100 samples, got %d", got)
	}
	n, ok := s.Stream(make([][2]float64, 10))
	if n != 0 || ok {
		t.Errorf("Expected exhausted stream, got %d %v", n, ok)
	}
}

// TestShapeRamps verifies attack ramps from silence and release fades out
func TestShapeRamps(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := shape(constant(), 100*time.Millisecond, 10*time.Millisecond, 20*time.Millisecond, rate)

	samples := make([][2]float64, 100)
	n, _ := s.Stream(samples)
	if n != 100 {
		t.Fatalf("Expected 100 samples, got %d", n)
	}
	if samples[0][0] != 0 {
		t.Errorf("Expected silent start, got %f", samples[0][0])
	}
	if samples[50][0] != 1 {
		t.Errorf("Expected full sustain, got %f", samples[50][0])
	}
	if samples[99][0] >= samples[85][0] {
		t.Errorf("Expected release to fade: %f >= %f", samples[99][0], samples[85][0])
	}
}

// TestToneAboveNyquist verifies an unplayable pitch degrades to silence
func TestToneAboveNyquist(t *testing.T) {
	rate := beep.SampleRate(1000)
	samples := make([][2]float64, 10)
	n, ok := tone(5000, rate).Stream(samples)
	if n != 10 || !ok {
		t.Fatalf("Expected 10 samples ok, got %d %v", n, ok)
	}
	for i := range samples {
		if samples[i][0] != 0 {
			t.Fatalf("Expected silence at %d, got %f", i, samples[i][0])
		}
	}
}

// TestNewVolumeSilent verifies zero volume mutes the stream
func TestNewVolumeSilent(t *testing.T) {
	rate := beep.SampleRate(1000)
	s := newVolume(shape(constant(), 10*time.Millisecond, 0, 0, rate), 0)

	samples := make([][2]float64, 10)
	n, _ := s.Stream(samples)
	for i := 0; i < n; i++ {
		if samples[i][0] != 0 {
			t.Fatalf("Expected silence at %d, got %f", i, samples[i][0])
		}
	}
}

// TestGetCue verifies every cue type has a finite sound
func TestGetCue(t *testing.T) {
	rate := beep.SampleRate(8000)
	for ct := core.CueType(0); ct < core.CueTypeCount; ct++ {
		s := GetCue(ct, rate)
		if s == nil {
			t.Fatalf("Expected streamer for cue %d", ct)
		}
		n := drain(s, rate.N(2*time.Second))
		if n == 0 || n >= rate.N(2*time.Second) {
			t.Errorf("Cue %d produced %d samples", ct, n)
		}
	}

	if GetCue(core.CueTypeCount, rate) != nil {
		t.Error("Expected nil for unknown cue")
	}
}
