package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/engine"
	"github.com/lixenwraith/vi-rewind/physics"
	"github.com/lixenwraith/vi-rewind/vmath"
	"gonum.org/v1/gonum/spatial/r3"
)

// sceneBounds is the world box drawn by the view; Z is kept thin for the side projection
var sceneBounds = r3.Box{
	Min: r3.Vec{X: -20, Y: 0, Z: -1},
	Max: r3.Vec{X: 20, Y: 24, Z: 1},
}

// seekStep is how far [ and ] move the playback cursor
const seekStep = 1.0

// cueControl is the cue player surface the host drives directly
type cueControl interface {
	liveCues
	ToggleMute() bool
}

// host owns the demo scene and maps keys to engine commands
// Commands run on the scheduler goroutine; the host itself is only touched from there
type host struct {
	world    *physics.World
	rw       *engine.Rewinder
	launcher *Launcher
	clock    *engine.PausableClock
	cues     cueControl

	bodies   []core.Entity
	spawns   []core.Pose
	blocked  bool
	fireTurn int
}

// newHost spawns count scene bodies plus a projectile pool and registers everything for recording
func newHost(world *physics.World, rw *engine.Rewinder, clock *engine.PausableClock, cues cueControl, count, pool int, rng *rand.Rand) (*host, error) {
	h := &host{world: world, rw: rw, clock: clock, cues: cues}

	for i := 0; i < count; i++ {
		pose := core.At(r3.Vec{
			X: sceneBounds.Min.X + 2 + rng.Float64()*(sceneBounds.Max.X-sceneBounds.Min.X-4),
			Y: sceneBounds.Max.Y*0.4 + rng.Float64()*sceneBounds.Max.Y*0.5,
		})
		pose.LinearVelocity = r3.Vec{X: rng.Float64()*8 - 4}
		pose.AngularVelocity = r3.Vec{Z: rng.Float64()*4 - 2}

		e := world.Spawn(pose, 0.5+rng.Float64()*0.5)
		if err := rw.Register(e); err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
		h.bodies = append(h.bodies, e)
		h.spawns = append(h.spawns, pose)
	}

	var lc liveCues
	if cues != nil {
		lc = cues
	}
	launcher, err := NewLauncher(world, rw, lc, pool, r3.Vec{X: sceneBounds.Min.X + 1, Y: 1})
	if err != nil {
		return nil, err
	}
	h.launcher = launcher
	return h, nil
}

// SetMovementBlocked gates gameplay input while the rewinder drives the scene
func (h *host) SetMovementBlocked(blocked bool) {
	h.blocked = blocked
}

// command maps a key to work for the scheduler goroutine; quit reports an exit request
func (h *host) command(ev *tcell.EventKey) (fn func(*engine.Rewinder), quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, true
	case tcell.KeyLeft:
		return playbackOnly(func(rw *engine.Rewinder) { rw.Step(-1) }), false
	case tcell.KeyRight:
		return playbackOnly(func(rw *engine.Rewinder) { rw.Step(1) }), false
	case tcell.KeyHome:
		return playbackOnly(func(rw *engine.Rewinder) { rw.SeekIndex(0) }), false
	case tcell.KeyEnd:
		return playbackOnly(func(rw *engine.Rewinder) { rw.SeekIndex(rw.WriteIndex() - 1) }), false
	case tcell.KeyRune:
	default:
		return nil, false
	}

	switch ev.Rune() {
	case 'q':
		return nil, true
	case ' ':
		return h.togglePlayback, false
	case 'p':
		return func(rw *engine.Rewinder) { rw.SetPaused(!rw.IsPlaybackPaused()) }, false
	case 'P':
		return func(*engine.Rewinder) { h.clock.Toggle() }, false
	case '[':
		return playbackOnly(func(rw *engine.Rewinder) { rw.Seek(rw.ReadPosition().Seconds() - seekStep) }), false
	case ']':
		return playbackOnly(func(rw *engine.Rewinder) { rw.Seek(rw.ReadPosition().Seconds() + seekStep) }), false
	case 'f':
		return func(*engine.Rewinder) { h.fire() }, false
	case 'r':
		return func(*engine.Rewinder) { h.resetScene() }, false
	case 'm':
		return func(*engine.Rewinder) {
			if h.cues != nil {
				h.cues.ToggleMute()
			}
		}, false
	}
	return nil, false
}

func playbackOnly(fn func(*engine.Rewinder)) func(*engine.Rewinder) {
	return func(rw *engine.Rewinder) {
		if rw.IsInPlayback() {
			fn(rw)
		}
	}
}

func (h *host) togglePlayback(rw *engine.Rewinder) {
	if !rw.TogglePlayback() {
		if n := h.launcher.Repark(); n > 0 {
			log.Printf("reparked %d idle projectiles", n)
		}
	}
}

// fire launches a projectile at an angle that sweeps between 25 and 65 degrees
func (h *host) fire() {
	if h.blocked {
		return
	}
	angle := (25 + float64(h.fireTurn%5)*10) * math.Pi / 180
	h.fireTurn++

	if _, err := h.launcher.Fire(r3.Vec{X: math.Cos(angle), Y: math.Sin(angle)}); err != nil && !errors.Is(err, ErrPlaybackActive) {
		log.Printf("fire failed: %v", err)
	}
}

// resetScene teleports every scene body back to its spawn pose and marks the jump in history
func (h *host) resetScene() {
	if h.blocked || h.rw.IsInPlayback() {
		return
	}
	for i, e := range h.bodies {
		if !h.world.Exists(e) {
			continue
		}
		h.world.SetPose(e, h.spawns[i], true)
		if err := h.rw.InjectDiscontinuity(e); err != nil {
			log.Printf("reset %v: %v", e, err)
		}
	}
	if h.cues != nil && len(h.spawns) > 0 {
		h.cues.Play(core.CueReset, h.spawns[0].Position)
	}
}

// centroid is the listener position: the middle of the scene at floor height
func centroid() r3.Vec {
	return vmath.V3Lerp(sceneBounds.Min, r3.Vec{X: sceneBounds.Max.X, Y: sceneBounds.Min.Y, Z: sceneBounds.Max.Z}, 0.5)
}
