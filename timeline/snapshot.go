package timeline

import (
	"github.com/lixenwraith/vi-rewind/core"
)

// Snapshot is one recorded instant of one tracked object
// The zero value is an empty slot: skipped by playback, never blended toward
type Snapshot struct {
	Pose core.Pose

	// Discontinuity marks a sample applied verbatim (teleport) instead of blended
	Discontinuity bool
	// EmitCue requests one audio cue when playback applies this sample
	EmitCue bool

	filled bool
}

// Sample builds a regular recorded sample
func Sample(p core.Pose) Snapshot {
	return Snapshot{Pose: p, filled: true}
}

// Marker builds an injected event sample: teleport on playback and emit a cue
func Marker(p core.Pose) Snapshot {
	return Snapshot{Pose: p, Discontinuity: true, EmitCue: true, filled: true}
}

// IsEmpty reports whether the slot was never written or has been invalidated
func (s Snapshot) IsEmpty() bool {
	return !s.filled
}
