package engine

import (
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/timeline"
	"gonum.org/v1/gonum/spatial/r3"
)

// PlaybackTick drives every tracked object toward its snapshot at the read cursor
// Invoked every rendered frame; does nothing unless playing and unpaused
func (r *Rewinder) PlaybackTick(dt float64) {
	if r.mode != core.ModePlaying || r.paused {
		return
	}
	if dt < 0 {
		dt = 0
	}

	r.alpha += dt * r.interpSpeed
	if r.alpha > 1 {
		r.alpha = 1
	}

	var (
		cue   bool
		cueAt r3.Vec
	)

	r.registry.Each(func(e core.Entity, tl *timeline.Timeline) {
		if !r.live(e) {
			return
		}
		s, err := tl.Read(r.readIndex)
		if err != nil {
			r.statSkipped.Add(1)
			return
		}
		if s.IsEmpty() {
			return
		}

		if s.Discontinuity {
			r.solver.SetPose(e, s.Pose, true)
		} else {
			current, ok := r.solver.Pose(e)
			if !ok {
				r.statSkipped.Add(1)
				return
			}
			r.solver.SetPose(e, current.Blend(s.Pose, r.alpha), false)
		}

		if s.EmitCue && !cue {
			cue = true
			cueAt = s.Pose.Position
		}
	})

	// One cue per frame regardless of how many objects flagged it
	if cue && r.cues != nil && !r.cues.IsCuePlaying() {
		if r.cues.PlayCue(cueAt) {
			r.statCues.Add(1)
		}
	}

	if r.autoAdvance && r.alpha >= 1 {
		r.Step(1)
	}

	r.statAlpha.Store(r.alpha)
}
