package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/engine"
	"github.com/lixenwraith/vi-rewind/physics"
	"github.com/lixenwraith/vi-rewind/vmath"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	projectileRadius = 0.4
	projectileSpeed  = 18.0
	projectileSpin   = 12.0
)

// ErrPlaybackActive is returned when firing while the rewinder drives the scene
var ErrPlaybackActive = errors.New("cannot fire during playback")

// liveCues plays cues outside of playback
type liveCues interface {
	Play(ct core.CueType, at r3.Vec) bool
}

// Launcher recycles a fixed pool of tracked projectiles
// Idle projectiles are parked outside the world with simulation off
type Launcher struct {
	world *physics.World
	rw    *engine.Rewinder
	cues  liveCues

	pool   []core.Entity
	parked []r3.Vec
	next   int

	Origin r3.Vec
	fired  int
}

// NewLauncher pre-spawns size projectiles, parks them and registers them with rw
func NewLauncher(world *physics.World, rw *engine.Rewinder, cues liveCues, size int, origin r3.Vec) (*Launcher, error) {
	if size < 1 {
		return nil, fmt.Errorf("launcher pool size %d must be positive", size)
	}

	l := &Launcher{
		world:  world,
		rw:     rw,
		cues:   cues,
		pool:   make([]core.Entity, 0, size),
		parked: make([]r3.Vec, 0, size),
		Origin: origin,
	}

	for i := 0; i < size; i++ {
		// Spread the parking lot below the floor so parked bodies never touch
		at := r3.Vec{X: float64(i) * 4 * projectileRadius, Y: world.Bounds.Min.Y - 100}
		e := world.Spawn(core.At(at), projectileRadius)
		world.SetSimulated(e, false)
		if err := rw.Register(e); err != nil {
			return nil, fmt.Errorf("launcher: %w", err)
		}
		l.pool = append(l.pool, e)
		l.parked = append(l.parked, at)
	}
	return l, nil
}

// Fire launches the next pooled projectile from Origin toward dir
// The launch is injected into history so playback snaps to it instead of blending from the parking spot
func (l *Launcher) Fire(dir r3.Vec) (core.Entity, error) {
	if l.rw.IsInPlayback() {
		return core.NoEntity, ErrPlaybackActive
	}
	if r3.Norm(dir) < vmath.Epsilon {
		dir = r3.Vec{X: 1, Y: 1}
	}
	dir = r3.Unit(dir)

	e := l.pool[l.next]
	l.next = (l.next + 1) % len(l.pool)

	pose := core.At(l.Origin)
	pose.LinearVelocity = r3.Scale(projectileSpeed, dir)
	pose.AngularVelocity = r3.Vec{Z: -projectileSpin}

	l.world.SetPose(e, pose, true)
	l.world.SetSimulated(e, true)

	if err := l.rw.InjectDiscontinuity(e); err != nil {
		return core.NoEntity, fmt.Errorf("fire %v: %w", e, err)
	}
	if l.cues != nil {
		l.cues.Play(core.CueFire, l.Origin)
	}

	l.fired++
	log.Printf("fired %v toward (%.2f, %.2f)", e, dir.X, dir.Y)
	return e, nil
}

// Repark disables simulation for projectiles restored to their parking spot
// Called after leaving playback, which re-enables every tracked body
func (l *Launcher) Repark() int {
	n := 0
	for i, e := range l.pool {
		p, ok := l.world.Pose(e)
		if !ok {
			continue
		}
		if vmath.V3ApproxEqual(p.Position, l.parked[i], vmath.Epsilon) {
			l.world.SetSimulated(e, false)
			n++
		}
	}
	return n
}

// IsProjectile reports whether e belongs to the pool
func (l *Launcher) IsProjectile(e core.Entity) bool {
	for _, p := range l.pool {
		if p == e {
			return true
		}
	}
	return false
}

// Fired returns the number of launches
func (l *Launcher) Fired() int {
	return l.fired
}
