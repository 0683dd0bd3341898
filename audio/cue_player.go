package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/vmath"
	"gonum.org/v1/gonum/spatial/r3"
)

// CuePlayer plays positional one-shot cues through the speaker
// A single cue voice is active at a time; PlayCue refuses while one is sounding
type CuePlayer struct {
	mu          sync.Mutex
	cfg         *Config
	rate        beep.SampleRate
	mixer       *beep.Mixer
	initialized bool
	device      bool

	// speaker.Lock/Unlock once initialized; no-ops when detached
	lock   func()
	unlock func()

	listener r3.Vec
	right    r3.Vec

	// PlaybackCue is the cue type PlayCue emits
	PlaybackCue core.CueType

	active atomic.Int32
	played atomic.Uint64
	muted  atomic.Bool
}

// NewCuePlayer creates an uninitialized player; PlayCue returns false until Initialize succeeds
func NewCuePlayer(cfg *Config) *CuePlayer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &CuePlayer{
		cfg:         cfg,
		rate:        beep.SampleRate(cfg.SampleRate),
		mixer:       &beep.Mixer{},
		right:       r3.Vec{X: 1},
		PlaybackCue: core.CueFire,
		lock:        func() {},
		unlock:      func() {},
	}
}

// Initialize opens the speaker and starts the mixer
func (p *CuePlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.cfg.Enabled {
		return nil
	}

	if err := speaker.Init(p.rate, p.rate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)

	p.lock, p.unlock = speaker.Lock, speaker.Unlock
	p.device = true
	p.initialized = true
	return nil
}

// attachDetached marks the player ready without a device; the mixer is pulled by the caller
func (p *CuePlayer) attachDetached() {
	p.mu.Lock()
	p.initialized = true
	p.mu.Unlock()
}

// Cleanup stops all cues and detaches from the speaker
func (p *CuePlayer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	p.lock()
	p.mixer.Clear()
	p.unlock()

	if p.device {
		speaker.Clear()
		p.lock, p.unlock = func() {}, func() {}
		p.device = false
	}
	p.active.Store(0)
	p.initialized = false
}

// SetListener places the listener; right is the listener's right-hand direction for panning
func (p *CuePlayer) SetListener(at, right r3.Vec) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.listener = at
	if r3.Norm(right) > vmath.Epsilon {
		p.right = r3.Unit(right)
	}
}

// SetMuted silences new cues without closing the device
func (p *CuePlayer) SetMuted(muted bool) {
	p.muted.Store(muted)
}

// ToggleMute flips mute and returns the new state
func (p *CuePlayer) ToggleMute() bool {
	for {
		old := p.muted.Load()
		if p.muted.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// IsMuted reports the mute flag
func (p *CuePlayer) IsMuted() bool {
	return p.muted.Load()
}

// IsCuePlaying reports whether a cue is still sounding
func (p *CuePlayer) IsCuePlaying() bool {
	return p.active.Load() > 0
}

// Played returns the number of cues started
func (p *CuePlayer) Played() uint64 {
	return p.played.Load()
}

// PlayCue starts the playback cue at world position at
func (p *CuePlayer) PlayCue(at r3.Vec) bool {
	return p.Play(p.PlaybackCue, at)
}

// Play starts cue ct at world position at, returns false if nothing was started
func (p *CuePlayer) Play(ct core.CueType, at r3.Vec) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted.Load() {
		return false
	}
	if ct < 0 || ct >= core.CueTypeCount {
		return false
	}
	if !p.active.CompareAndSwap(0, 1) {
		return false
	}

	s := GetCue(ct, p.rate)
	gain, pan := p.spatialize(at)
	gain *= p.cfg.CueVolumes[ct] * p.cfg.MasterVolume

	voice := beep.Seq(
		&effects.Pan{Streamer: newVolume(s, gain), Pan: pan},
		beep.Callback(func() { p.active.Store(0) }),
	)

	p.lock()
	p.mixer.Add(voice)
	p.unlock()

	p.played.Add(1)
	return true
}

// spatialize returns linear distance attenuation and stereo pan for a source at
func (p *CuePlayer) spatialize(at r3.Vec) (gain, pan float64) {
	rel := r3.Sub(at, p.listener)
	hearing := p.cfg.HearingRange
	if hearing <= 0 {
		return 1, 0
	}

	gain = 1 - vmath.Clamp01(r3.Norm(rel)/hearing)
	pan = min(max(r3.Dot(rel, p.right)/hearing*2, -1), 1)
	return gain, pan
}
