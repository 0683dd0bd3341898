package engine

import (
	"math"

	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/timeline"
)

// EnterPlayback switches Recording -> Playing
// Revokes solver authority, snaps every object to its oldest retained sample and blocks movement input
func (r *Rewinder) EnterPlayback() {
	if r.mode == core.ModePlaying {
		return
	}

	r.registry.Each(func(e core.Entity, tl *timeline.Timeline) {
		if !r.live(e) {
			return
		}
		r.solver.SetSimulated(e, false)

		// Playback starts at the oldest instant, applied as a teleport
		if s := tl.At(0); !s.IsEmpty() {
			r.solver.SetPose(e, s.Pose, true)
		}
	})

	if r.movement != nil {
		r.movement.SetMovementBlocked(true)
	}

	r.mode = core.ModePlaying
	r.paused = false
	r.readIndex = 0
	r.alpha = 0
	r.publish()

	r.logf("playback: %d tracked, %d samples", r.registry.Len(), r.writeIndex)
}

// ExitPlayback switches Playing -> Recording
// Restores solver authority and discards every sample at or after the read cursor,
// so recording resumes from the instant playback stopped at
func (r *Rewinder) ExitPlayback() {
	if r.mode != core.ModePlaying {
		return
	}

	cleared := 0
	r.registry.Each(func(e core.Entity, tl *timeline.Timeline) {
		if !r.live(e) {
			return
		}
		r.solver.SetSimulated(e, true)
		cleared += tl.Truncate(r.readIndex)
	})

	resumeAt := r.readIndex
	r.writeIndex = r.readIndex
	r.readIndex = 0
	r.alpha = 0
	r.mode = core.ModeRecording
	r.paused = false

	if r.movement != nil {
		r.movement.SetMovementBlocked(false)
	}
	r.publish()

	r.logf("recording: resumed at %d, %d future samples discarded", resumeAt, cleared)
}

// SetPlayback enters or exits playback
func (r *Rewinder) SetPlayback(enable bool) {
	if enable {
		r.EnterPlayback()
	} else {
		r.ExitPlayback()
	}
}

// TogglePlayback flips the mode and returns true if now playing
func (r *Rewinder) TogglePlayback() bool {
	r.SetPlayback(r.mode != core.ModePlaying)
	return r.mode == core.ModePlaying
}

// SetPaused sets the playback pause flag; ignored while recording
func (r *Rewinder) SetPaused(paused bool) {
	if r.mode != core.ModePlaying {
		return
	}
	r.paused = paused
	r.statPaused.Store(paused)
}

// Seek targets the recorded instant nearest to seconds from the oldest retained sample
// Returns false and leaves the cursor untouched when that instant holds no data
func (r *Rewinder) Seek(seconds float64) bool {
	if math.IsNaN(seconds) {
		return false
	}
	// Clamp before converting; out-of-range floats have no defined int value
	f := math.Round(seconds / r.sampleInterval.Seconds())
	f = max(0, min(f, float64(r.capacity-1)))
	return r.SeekIndex(int(f))
}

// SeekIndex targets recorded instant index, clamped to [0, capacity-1]
// Resets blend progress even when the index is unchanged
func (r *Rewinder) SeekIndex(index int) bool {
	if index < 0 {
		index = 0
	}
	if index > r.capacity-1 {
		index = r.capacity - 1
	}
	if !r.populated(index) {
		return false
	}

	r.readIndex = index
	r.alpha = 0
	r.statReadIndex.Store(int64(index))
	r.statAlpha.Store(0)
	return true
}

// Step moves the read cursor by delta populated instants, returns false at either end
func (r *Rewinder) Step(delta int) bool {
	if delta == 0 {
		return false
	}
	dir := 1
	if delta < 0 {
		dir = -1
		delta = -delta
	}

	target := r.readIndex
	for moved, i := 0, r.readIndex+dir; moved < delta && i >= 0 && i < r.capacity; i += dir {
		if r.populated(i) {
			target = i
			moved++
		}
	}
	if target == r.readIndex {
		return false
	}
	return r.SeekIndex(target)
}

// populated reports whether any tracked timeline holds a sample at index within the recorded range
func (r *Rewinder) populated(index int) bool {
	if index < 0 || index >= r.writeIndex || index >= r.capacity {
		return false
	}
	found := false
	r.registry.Each(func(_ core.Entity, tl *timeline.Timeline) {
		if !found && !tl.At(index).IsEmpty() {
			found = true
		}
	})
	return found
}
