package engine

import (
	"github.com/lixenwraith/vi-rewind/core"
	"gonum.org/v1/gonum/spatial/r3"
)

// Solver is the live physics solver that owns object transforms
// The rewinder reads poses from it while recording and writes poses back during playback
type Solver interface {
	// Exists reports whether the handle still names a live object (generation check)
	Exists(e core.Entity) bool
	// Pose returns the live kinematic state; ok is false for unknown objects
	Pose(e core.Entity) (p core.Pose, ok bool)
	// SetPose overwrites the kinematic state; teleport skips any solver-side sweep or smoothing
	SetPose(e core.Entity, p core.Pose, teleport bool)
	// SetSimulated grants or revokes solver authority over the object
	SetSimulated(e core.Entity, enabled bool)
}

// PauseSource reports whether the whole simulation is paused
type PauseSource interface {
	IsPaused() bool
}

// MovementBlocker receives the input-blocking signal on every mode transition
type MovementBlocker interface {
	SetMovementBlocked(blocked bool)
}

// CuePlayer is the audio collaborator; at most one PlayCue per playback frame
type CuePlayer interface {
	// PlayCue requests one cue at a world location, returns true if it started
	PlayCue(at r3.Vec) bool
	// IsCuePlaying reports whether a previously started cue is still audible
	IsCuePlaying() bool
}

// MovementBlockerFunc adapts a function to MovementBlocker
type MovementBlockerFunc func(blocked bool)

// SetMovementBlocked implements MovementBlocker
func (f MovementBlockerFunc) SetMovementBlocked(blocked bool) {
	f(blocked)
}
