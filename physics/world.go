package physics

import (
	"math"

	"github.com/lixenwraith/vi-rewind/core"
	"gonum.org/v1/gonum/spatial/r3"
)

// minCellSize bounds the broadphase grid resolution for tiny bodies
const minCellSize = 0.5

// StandardGravity in world units per second squared
var StandardGravity = r3.Vec{Y: -9.81}

// World owns a set of spheres inside an axis-aligned box with the floor at Bounds.Min.Y
// Handles are generation-checked: a destroyed slot may be reused but old handles stay invalid
type World struct {
	Gravity r3.Vec
	Bounds  r3.Box

	bodies []Body
	free   []uint32
	count  int

	contacts uint64

	grid       *SpatialGrid
	gridBox    r3.Box
	overflow   []uint32
	overflowed []bool
}

// NewWorld creates an empty world with standard gravity
func NewWorld(bounds r3.Box) *World {
	return &World{
		Gravity: StandardGravity,
		Bounds:  bounds,
		bodies:  make([]Body, 0, 32),
	}
}

// Spawn adds a simulated sphere of unit mass and returns its handle
func (w *World) Spawn(pose core.Pose, radius float64) core.Entity {
	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.bodies))
		w.bodies = append(w.bodies, Body{})
	}

	b := &w.bodies[idx]
	gen := b.generation + 1
	*b = Body{
		Pose:       pose,
		Radius:     radius,
		Mass:       1,
		Material:   DefaultMaterial,
		Simulated:  true,
		generation: gen,
		alive:      true,
	}
	w.count++
	return core.NewEntity(idx, gen)
}

// Destroy removes e, returns false for stale handles
func (w *World) Destroy(e core.Entity) bool {
	b, ok := w.Body(e)
	if !ok {
		return false
	}
	b.alive = false
	w.free = append(w.free, e.Index())
	w.count--
	return true
}

// Body returns the live body for e
func (w *World) Body(e core.Entity) (*Body, bool) {
	idx := e.Index()
	if e == core.NoEntity || int(idx) >= len(w.bodies) {
		return nil, false
	}
	b := &w.bodies[idx]
	if !b.alive || b.generation != e.Generation() {
		return nil, false
	}
	return b, true
}

// Exists reports whether e refers to a live body
func (w *World) Exists(e core.Entity) bool {
	_, ok := w.Body(e)
	return ok
}

// Pose returns e's kinematic state
func (w *World) Pose(e core.Entity) (core.Pose, bool) {
	b, ok := w.Body(e)
	if !ok {
		return core.Pose{}, false
	}
	return b.Pose, true
}

// SetPose overwrites e's kinematic state
// A teleport also drops resting contact so the next step re-evaluates it
func (w *World) SetPose(e core.Entity, p core.Pose, teleport bool) {
	b, ok := w.Body(e)
	if !ok {
		return
	}
	b.Pose = p
	if teleport {
		b.Grounded = false
	}
}

// SetSimulated grants or revokes the world's authority over e
func (w *World) SetSimulated(e core.Entity, enabled bool) {
	if b, ok := w.Body(e); ok {
		b.Simulated = enabled
	}
}

// IsSimulated reports whether Step moves e
func (w *World) IsSimulated(e core.Entity) bool {
	b, ok := w.Body(e)
	return ok && b.Simulated
}

// Len returns the number of live bodies
func (w *World) Len() int {
	return w.count
}

// Contacts returns the number of body-body collisions resolved so far
func (w *World) Contacts() uint64 {
	return w.contacts
}

// Each visits every live body
func (w *World) Each(fn func(e core.Entity, b *Body)) {
	for i := range w.bodies {
		b := &w.bodies[i]
		if b.alive {
			fn(core.NewEntity(uint32(i), b.generation), b)
		}
	}
}

// Step advances every simulated body by dt seconds
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	// One step of gravity must not keep a resting body bouncing
	rest := RestSpeed + math.Abs(w.Gravity.Y)*dt

	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.Dynamic() {
			continue
		}
		accel := w.Gravity
		if b.Grounded && accel.Y < 0 {
			accel.Y = 0
		}
		Integrate(b, accel, dt)
		ReflectFloor(b, w.Bounds.Min.Y, rest)
		ReflectWalls(b, w.Bounds)
		ReflectCeiling(b, w.Bounds)
	}

	w.collide()
}

// collide resolves sphere contacts found through the grid broadphase
// Non-simulated bodies act as immovable obstacles
func (w *World) collide() {
	w.broadphase()

	g := w.grid
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			for _, i := range g.GetAllAt(x, y) {
				g.Neighbors(x, y, func(j uint32) {
					if j > i {
						w.tryPair(i, j)
					}
				})
			}
		}
	}

	// Bodies the grid could not hold are tested against everything
	for _, i := range w.overflow {
		for j := range w.bodies {
			j := uint32(j)
			if j == i || (w.overflowed[j] && j < i) {
				continue
			}
			w.tryPair(i, j)
		}
	}
}

// broadphase buckets live bodies into the grid, sized to the largest radius
func (w *World) broadphase() {
	maxR := 0.0
	for i := range w.bodies {
		if w.bodies[i].alive {
			maxR = max(maxR, w.bodies[i].Radius)
		}
	}
	size := max(2*maxR, minCellSize)
	if w.grid == nil || w.grid.CellSize != size || w.gridBox != w.Bounds {
		w.grid = NewSpatialGrid(w.Bounds, size)
		w.gridBox = w.Bounds
	} else {
		w.grid.Clear()
	}

	w.overflow = w.overflow[:0]
	if cap(w.overflowed) < len(w.bodies) {
		w.overflowed = make([]bool, len(w.bodies))
	}
	w.overflowed = w.overflowed[:len(w.bodies)]
	clear(w.overflowed)

	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.alive {
			continue
		}
		x, y, inside := w.grid.CellOf(b.Pose.Position)
		if inside && w.grid.Add(uint32(i), x, y) {
			continue
		}
		// Static bodies outside the box cannot reach a dynamic one, which is always kept inside
		if inside || b.Dynamic() {
			w.overflow = append(w.overflow, uint32(i))
			w.overflowed[i] = true
		}
	}
}

func (w *World) tryPair(i, j uint32) {
	a, b := &w.bodies[i], &w.bodies[j]
	if !a.alive || !b.alive || (!a.Dynamic() && !b.Dynamic()) {
		return
	}
	if Overlapping(a, b) {
		w.resolve(a, b)
	}
}

// resolve treats a body the world does not own this frame as infinitely heavy
func (w *World) resolve(a, b *Body) {
	massA, massB := a.Mass, b.Mass
	if !a.Simulated {
		a.Mass = 0
	}
	if !b.Simulated {
		b.Mass = 0
	}
	SeparateOverlap(a, b)
	if ElasticCollision(a, b) {
		a.Grounded, b.Grounded = false, false
		w.contacts++
	}
	a.Mass, b.Mass = massA, massB
}
