package engine

import (
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/timeline"
)

// SampleTick records every tracked object's live state at the shared write cursor
// Invoked on the fixed sample period; does nothing while paused or in playback
func (r *Rewinder) SampleTick() {
	if r.mode == core.ModePlaying {
		return
	}
	if r.pause != nil && r.pause.IsPaused() {
		return
	}

	// Evict before writing so the cursor never points past the last slot
	// All timelines shift together to keep index i the same instant everywhere
	if r.writeIndex > r.capacity-1 {
		r.registry.Each(func(_ core.Entity, tl *timeline.Timeline) {
			tl.EvictOldest()
		})
		r.writeIndex = r.capacity - 1
		r.statEvictions.Add(1)
		if !r.wrapped {
			r.wrapped = true
			r.logf("history full, evicting oldest samples")
		}
	}

	r.registry.Each(func(e core.Entity, tl *timeline.Timeline) {
		if !r.live(e) {
			return
		}
		pose, ok := r.solver.Pose(e)
		if !ok {
			r.statSkipped.Add(1)
			return
		}
		if err := tl.Write(r.writeIndex, timeline.Sample(pose)); err != nil {
			r.statSkipped.Add(1)
			return
		}
	})

	r.writeIndex++
	r.statSamples.Add(1)
	r.statWriteIndex.Store(int64(r.writeIndex))
}
