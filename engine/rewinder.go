package engine

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lixenwraith/vi-rewind/config"
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/status"
	"github.com/lixenwraith/vi-rewind/timeline"
)

var (
	// ErrUnknownObject is returned for operations on an object absent from the registry
	ErrUnknownObject = errors.New("object is not tracked")
	// ErrStaleObject is returned when the solver no longer knows the handle
	ErrStaleObject = errors.New("object no longer exists")
	// ErrNilSolver is returned by New without a solver
	ErrNilSolver = errors.New("solver is required")
)

// Hooks bundles the optional collaborators of a Rewinder
// Nil members are skipped
type Hooks struct {
	Pause    PauseSource
	Movement MovementBlocker
	Cues     CuePlayer
	Status   *status.Registry
	Logger   *log.Logger
}

// Rewinder records tracked objects into lock-step timelines and replays them
// All methods must be called from the simulation goroutine; see Scheduler.Do for cross-goroutine access
type Rewinder struct {
	sampleInterval time.Duration
	interpSpeed    float64
	autoAdvance    bool
	capacity       int

	session uuid.UUID
	logger  *log.Logger

	solver   Solver
	pause    PauseSource
	movement MovementBlocker
	cues     CuePlayer

	registry *Registry

	// Mode controller state
	mode   core.Mode
	paused bool

	// Shared cursors: writeIndex is the next slot to record, readIndex the playback target
	writeIndex int
	readIndex  int
	alpha      float64
	wrapped    bool

	// Cached metric pointers
	statSamples    *atomic.Int64
	statEvictions  *atomic.Int64
	statWriteIndex *atomic.Int64
	statReadIndex  *atomic.Int64
	statTracked    *atomic.Int64
	statSkipped    *atomic.Int64
	statCues       *atomic.Int64
	statAlpha      *status.AtomicFloat
	statPlaying    *atomic.Bool
	statPaused     *atomic.Bool
	statMode       *status.AtomicString
}

// New validates cfg and builds a Rewinder in Recording mode
// Invalid configuration is fatal: no engine is returned
func New(cfg *config.Config, solver Solver, hooks Hooks) (*Rewinder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rewinder: %w", err)
	}
	if solver == nil {
		return nil, fmt.Errorf("rewinder: %w", ErrNilSolver)
	}

	reg := hooks.Status
	if reg == nil {
		reg = status.NewRegistry()
	}
	logger := hooks.Logger
	if logger == nil {
		logger = log.Default()
	}

	capacity := cfg.Capacity()
	r := &Rewinder{
		sampleInterval: cfg.SampleInterval,
		interpSpeed:    cfg.InterpolationSpeed,
		autoAdvance:    cfg.AutoAdvance,
		capacity:       capacity,
		session:        uuid.New(),
		logger:         logger,
		solver:         solver,
		pause:          hooks.Pause,
		movement:       hooks.Movement,
		cues:           hooks.Cues,
		registry:       NewRegistry(capacity),
		mode:           core.ModeRecording,

		statSamples:    reg.Ints.Get("rewind.samples"),
		statEvictions:  reg.Ints.Get("rewind.evictions"),
		statWriteIndex: reg.Ints.Get("rewind.write_index"),
		statReadIndex:  reg.Ints.Get("rewind.read_index"),
		statTracked:    reg.Ints.Get("rewind.tracked"),
		statSkipped:    reg.Ints.Get("rewind.skipped"),
		statCues:       reg.Ints.Get("rewind.cues"),
		statAlpha:      reg.Floats.Get("rewind.alpha"),
		statPlaying:    reg.Bools.Get("rewind.playing"),
		statPaused:     reg.Bools.Get("rewind.paused"),
		statMode:       reg.Strings.Get("rewind.mode"),
	}
	r.publish()

	r.logf("created: capacity=%d interval=%v speed=%.2f", capacity, cfg.SampleInterval, cfg.InterpolationSpeed)
	return r, nil
}

func (r *Rewinder) logf(format string, args ...any) {
	r.logger.Printf("[rewind %s] "+format, append([]any{r.session.String()[:8]}, args...)...)
}

// publish refreshes cursor and mode gauges
func (r *Rewinder) publish() {
	r.statWriteIndex.Store(int64(r.writeIndex))
	r.statReadIndex.Store(int64(r.readIndex))
	r.statTracked.Store(int64(r.registry.Len()))
	r.statAlpha.Store(r.alpha)
	r.statPlaying.Store(r.mode == core.ModePlaying)
	r.statPaused.Store(r.paused)
	r.statMode.Store(r.mode.String())
}

// live checks e against the solver and drops it from tracking if destroyed
func (r *Rewinder) live(e core.Entity) bool {
	if r.solver.Exists(e) {
		return true
	}
	if r.registry.Remove(e) {
		r.statSkipped.Add(1)
		r.statTracked.Store(int64(r.registry.Len()))
		r.logf("pruned destroyed object %v", e)
	}
	return false
}

// Register starts tracking e with an empty timeline of the current capacity
// Registering an already tracked object keeps its history
func (r *Rewinder) Register(e core.Entity) error {
	if !r.solver.Exists(e) {
		return fmt.Errorf("register %v: %w", e, ErrStaleObject)
	}
	_, added, err := r.registry.Add(e)
	if err != nil {
		return fmt.Errorf("register %v: %w", e, err)
	}
	if added {
		// The player drives every tracked object while playing
		if r.mode == core.ModePlaying {
			r.solver.SetSimulated(e, false)
		}
		r.statTracked.Store(int64(r.registry.Len()))
		r.logf("tracking %v (%d tracked)", e, r.registry.Len())
	}
	return nil
}

// Deregister stops tracking e and discards its history
func (r *Rewinder) Deregister(e core.Entity) error {
	if !r.registry.Remove(e) {
		return fmt.Errorf("deregister %v: %w", e, ErrUnknownObject)
	}
	r.statTracked.Store(int64(r.registry.Len()))
	r.logf("untracked %v (%d tracked)", e, r.registry.Len())
	return nil
}

// IsTracked reports whether e is registered
func (r *Rewinder) IsTracked(e core.Entity) bool {
	return r.registry.Has(e)
}

// Tracked returns the tracked objects in registration order
func (r *Rewinder) Tracked() []core.Entity {
	return r.registry.Entities()
}

// History returns a copy of e's timeline, oldest first
func (r *Rewinder) History(e core.Entity) ([]timeline.Snapshot, error) {
	tl, ok := r.registry.Timeline(e)
	if !ok {
		return nil, fmt.Errorf("history %v: %w", e, ErrUnknownObject)
	}
	return tl.Snapshots(), nil
}

// SnapshotAt returns e's snapshot at recorded instant index
func (r *Rewinder) SnapshotAt(e core.Entity, index int) (timeline.Snapshot, error) {
	tl, ok := r.registry.Timeline(e)
	if !ok {
		return timeline.Snapshot{}, fmt.Errorf("snapshot %v: %w", e, ErrUnknownObject)
	}
	return tl.Read(index)
}

// FrameAt returns every tracked object's snapshot at recorded instant index
func (r *Rewinder) FrameAt(index int) (map[core.Entity]timeline.Snapshot, error) {
	if index < 0 || index >= r.capacity {
		return nil, fmt.Errorf("frame %d of %d: %w", index, r.capacity, timeline.ErrOutOfRange)
	}
	frame := make(map[core.Entity]timeline.Snapshot, r.registry.Len())
	r.registry.Each(func(e core.Entity, tl *timeline.Timeline) {
		frame[e] = tl.At(index)
	})
	return frame, nil
}

// Close discards every timeline
func (r *Rewinder) Close() {
	r.registry.Clear()
	r.publish()
	r.logf("closed")
}

// Session returns the recording session id
func (r *Rewinder) Session() uuid.UUID {
	return r.session
}

// Capacity returns the number of samples each timeline holds
func (r *Rewinder) Capacity() int {
	return r.capacity
}

// SampleInterval returns the recording period
func (r *Rewinder) SampleInterval() time.Duration {
	return r.sampleInterval
}

// Window returns the span of time the timelines can hold
func (r *Rewinder) Window() time.Duration {
	return time.Duration(r.capacity) * r.sampleInterval
}

// Mode returns the current mode
func (r *Rewinder) Mode() core.Mode {
	return r.mode
}

// IsInPlayback reports whether the player drives tracked objects
func (r *Rewinder) IsInPlayback() bool {
	return r.mode == core.ModePlaying
}

// IsPlaybackPaused reports the playback pause flag
func (r *Rewinder) IsPlaybackPaused() bool {
	return r.paused
}

// WriteIndex returns the shared recording cursor
func (r *Rewinder) WriteIndex() int {
	return r.writeIndex
}

// ReadIndex returns the playback target index
func (r *Rewinder) ReadIndex() int {
	return r.readIndex
}

// Alpha returns blend progress toward the playback target
func (r *Rewinder) Alpha() float64 {
	return r.alpha
}

// RecordedDuration returns how much history is currently populated
func (r *Rewinder) RecordedDuration() time.Duration {
	return time.Duration(r.writeIndex) * r.sampleInterval
}

// ReadPosition returns the playback target as time from the oldest retained sample
func (r *Rewinder) ReadPosition() time.Duration {
	return time.Duration(r.readIndex) * r.sampleInterval
}
