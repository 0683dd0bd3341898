package engine

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/lixenwraith/vi-rewind/config"
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/status"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// testInterval makes Seek seconds map to index*0.1
const testInterval = 100 * time.Millisecond

type setCall struct {
	e        core.Entity
	pose     core.Pose
	teleport bool
}

// fakeSolver is a scripted solver: poses only change when the test or the rewinder sets them
type fakeSolver struct {
	next      uint32
	poses     map[core.Entity]core.Pose
	simulated map[core.Entity]bool
	sets      []setCall
}

func newFakeSolver() *fakeSolver {
	return &fakeSolver{
		next:      1,
		poses:     make(map[core.Entity]core.Pose),
		simulated: make(map[core.Entity]bool),
	}
}

func (f *fakeSolver) spawn(x float64) core.Entity {
	e := core.NewEntity(f.next, 1)
	f.next++
	f.poses[e] = core.At(r3.Vec{X: x})
	f.simulated[e] = true
	return e
}

func (f *fakeSolver) moveTo(e core.Entity, x float64) {
	p := f.poses[e]
	p.Position = r3.Vec{X: x}
	p.LinearVelocity = r3.Vec{X: x / 10}
	f.poses[e] = p
}

func (f *fakeSolver) destroy(e core.Entity) {
	delete(f.poses, e)
	delete(f.simulated, e)
}

func (f *fakeSolver) x(e core.Entity) float64 {
	return f.poses[e].Position.X
}

func (f *fakeSolver) Exists(e core.Entity) bool {
	_, ok := f.poses[e]
	return ok
}

func (f *fakeSolver) Pose(e core.Entity) (core.Pose, bool) {
	p, ok := f.poses[e]
	return p, ok
}

func (f *fakeSolver) SetPose(e core.Entity, p core.Pose, teleport bool) {
	if _, ok := f.poses[e]; !ok {
		return
	}
	f.poses[e] = p
	f.sets = append(f.sets, setCall{e: e, pose: p, teleport: teleport})
}

func (f *fakeSolver) SetSimulated(e core.Entity, enabled bool) {
	if _, ok := f.poses[e]; ok {
		f.simulated[e] = enabled
	}
}

type fakeCues struct {
	playing bool
	latch   bool // stay "playing" after a cue starts
	played  []r3.Vec
}

func (c *fakeCues) PlayCue(at r3.Vec) bool {
	c.played = append(c.played, at)
	c.playing = c.latch
	return true
}

func (c *fakeCues) IsCuePlaying() bool {
	return c.playing
}

type fakePause struct {
	paused bool
}

func (p *fakePause) IsPaused() bool {
	return p.paused
}

type harness struct {
	rw       *Rewinder
	solver   *fakeSolver
	cues     *fakeCues
	pause    *fakePause
	blocked  []bool
	status   *status.Registry
	logBuf   *bytes.Buffer
	capacity int
}

func newHarness(t *testing.T, capacity int) *harness {
	t.Helper()
	return newHarnessWith(t, &config.Config{
		SampleInterval:     testInterval,
		RecordingWindow:    time.Duration(capacity) * testInterval,
		InterpolationSpeed: 4,
	})
}

func newHarnessWith(t *testing.T, cfg *config.Config) *harness {
	t.Helper()
	h := &harness{
		solver:   newFakeSolver(),
		cues:     &fakeCues{},
		pause:    &fakePause{},
		status:   status.NewRegistry(),
		logBuf:   &bytes.Buffer{},
		capacity: cfg.Capacity(),
	}
	rw, err := New(cfg, h.solver, Hooks{
		Pause:    h.pause,
		Movement: MovementBlockerFunc(func(b bool) { h.blocked = append(h.blocked, b) }),
		Cues:     h.cues,
		Status:   h.status,
		Logger:   log.New(h.logBuf, "", 0),
	})
	require.NoError(t, err)
	h.rw = rw
	return h
}

// track spawns and registers an object at x
func (h *harness) track(t *testing.T, x float64) core.Entity {
	t.Helper()
	e := h.solver.spawn(x)
	require.NoError(t, h.rw.Register(e))
	return e
}

// recordPositions moves e to each x and samples once per value
func (h *harness) recordPositions(e core.Entity, xs ...float64) {
	for _, x := range xs {
		h.solver.moveTo(e, x)
		h.rw.SampleTick()
	}
}

// historyX returns recorded X per slot, -1 for empty slots
func (h *harness) historyX(t *testing.T, e core.Entity) []float64 {
	t.Helper()
	snaps, err := h.rw.History(e)
	require.NoError(t, err)
	out := make([]float64, len(snaps))
	for i, s := range snaps {
		if s.IsEmpty() {
			out[i] = -1
			continue
		}
		out[i] = s.Pose.Position.X
	}
	return out
}
