package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/lixenwraith/vi-rewind/core"
)

const (
	fireThumpDuration = 140 * time.Millisecond
	fireThumpAttack   = 3 * time.Millisecond
	fireThumpRelease  = 110 * time.Millisecond
	fireClickDuration = 40 * time.Millisecond

	resetNoteDuration = 90 * time.Millisecond
	resetNoteAttack   = 5 * time.Millisecond
	resetNoteRelease  = 60 * time.Millisecond
)

// chirp is an endless sine whose pitch glides by slope Hz per second
type chirp struct {
	freq  float64
	slope float64
	phase float64
	dt    float64
}

func newChirp(freq, slope float64, rate beep.SampleRate) beep.Streamer {
	return &chirp{freq: freq, slope: slope, dt: 1 / float64(rate)}
}

func (c *chirp) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := math.Sin(2 * math.Pi * c.phase)
		samples[i][0], samples[i][1] = v, v

		c.phase += max(c.freq, 0) * c.dt
		c.phase -= math.Floor(c.phase)
		c.freq += c.slope * c.dt
	}
	return len(samples), true
}

func (c *chirp) Err() error { return nil }

// noise is endless white noise in [-1, 1)
func noise() beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			v := rand.Float64()*2 - 1
			samples[i][0], samples[i][1] = v, v
		}
		return len(samples), true
	})
}

// tone is a fixed-pitch square wave; silence if the pitch is above Nyquist
func tone(freq float64, rate beep.SampleRate) beep.Streamer {
	s, err := generators.SquareTone(rate, freq)
	if err != nil {
		return beep.Silence(-1)
	}
	return s
}

// shape cuts s to d and ramps the gain linearly up over attack and down over release
func shape(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total, att, rel := rate.N(d), rate.N(attack), rate.N(release)
	src := beep.Take(total, s)
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := src.Stream(samples)
		for i := 0; i < n; i++ {
			g := 1.0
			if att > 0 && pos < att {
				g = float64(pos) / float64(att)
			}
			if rel > 0 && total-pos < rel {
				g = min(g, float64(total-pos)/float64(rel))
			}
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, ok
	})
}

// newVolume wraps s with linear gain vol
// math.Log2(0) is -Inf, so 0 volume is made silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// FireSound is a noise click followed by a falling thump
func FireSound(rate beep.SampleRate) beep.Streamer {
	click := shape(noise(), fireClickDuration, 0, fireClickDuration, rate)
	thump := shape(newChirp(180, -700, rate), fireThumpDuration, fireThumpAttack, fireThumpRelease, rate)
	return beep.Seq(newVolume(click, 0.25), newVolume(thump, 0.8))
}

// ResetSound is a descending two-note chime
func ResetSound(rate beep.SampleRate) beep.Streamer {
	hi := shape(tone(1318.51, rate), resetNoteDuration, resetNoteAttack, resetNoteRelease, rate)
	lo := shape(tone(987.77, rate), resetNoteDuration, resetNoteAttack, resetNoteRelease, rate)
	return newVolume(beep.Seq(hi, lo), 0.5)
}

// GetCue returns a fresh unity-gain streamer for ct, nil for unknown types
func GetCue(ct core.CueType, rate beep.SampleRate) beep.Streamer {
	switch ct {
	case core.CueFire:
		return FireSound(rate)
	case core.CueReset:
		return ResetSound(rate)
	default:
		return nil
	}
}
