package engine

import (
	"fmt"

	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/timeline"
)

// InjectDiscontinuity overwrites e's most recently committed sample with its current live state
// The sample is marked to teleport and emit a cue on playback, so an out-of-band change
// (spawn, reset, launch) is replayed as a snap instead of being blended away
// No-op before the first sample has been recorded
func (r *Rewinder) InjectDiscontinuity(e core.Entity) error {
	tl, ok := r.registry.Timeline(e)
	if !ok {
		return fmt.Errorf("inject %v: %w", e, ErrUnknownObject)
	}
	if !r.live(e) {
		return fmt.Errorf("inject %v: %w", e, ErrStaleObject)
	}

	index := r.writeIndex - 1
	if index < 0 {
		return nil
	}

	pose, ok := r.solver.Pose(e)
	if !ok {
		return fmt.Errorf("inject %v: %w", e, ErrStaleObject)
	}
	if err := tl.Write(index, timeline.Marker(pose)); err != nil {
		return fmt.Errorf("inject %v: %w", e, err)
	}
	return nil
}
