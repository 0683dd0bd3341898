package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/status"
)

const (
	// DefaultFrameInterval is the host frame period (~60 FPS)
	DefaultFrameInterval = 16 * time.Millisecond
	// maxCatchUpSamples bounds sample ticks fired by one long frame; older backlog is dropped
	maxCatchUpSamples = 2
	commandQueueSize  = 64
)

// SchedulerConfig configures the host loop around a Rewinder
type SchedulerConfig struct {
	FrameInterval time.Duration
	Provider      TimeProvider

	// OnFrame runs before the rewinder ticks while the clock is running (physics step)
	OnFrame func(dt time.Duration)
	// AfterFrame runs at the end of every frame, paused or not (render)
	AfterFrame func()

	Status *status.Registry
}

// Scheduler turns host frames into the rewinder's fixed-period sample tick and per-frame playback tick
// Every rewinder call happens on the scheduler's goroutine; other goroutines submit work through Do
type Scheduler struct {
	rw       *Rewinder
	clock    *PausableClock
	provider TimeProvider

	sampleInterval time.Duration
	frameInterval  time.Duration
	sinceSample    time.Duration
	primed         bool

	onFrame    func(dt time.Duration)
	afterFrame func()

	commands chan func(*Rewinder)

	frameCount  atomic.Uint64
	sampleCount atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	statFrames *atomic.Int64
}

// NewScheduler wires a rewinder to a pausable clock
func NewScheduler(rw *Rewinder, clock *PausableClock, cfg SchedulerConfig) *Scheduler {
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}
	if cfg.Provider == nil {
		cfg.Provider = SystemTime{}
	}
	if cfg.Status == nil {
		cfg.Status = status.NewRegistry()
	}
	if clock == nil {
		clock = NewPausableClockWith(cfg.Provider)
	}

	return &Scheduler{
		rw:             rw,
		clock:          clock,
		provider:       cfg.Provider,
		sampleInterval: rw.SampleInterval(),
		frameInterval:  cfg.FrameInterval,
		onFrame:        cfg.OnFrame,
		afterFrame:     cfg.AfterFrame,
		commands:       make(chan func(*Rewinder), commandQueueSize),
		stopChan:       make(chan struct{}),
		statFrames:     cfg.Status.Ints.Get("engine.frames"),
	}
}

// Do queues fn to run on the simulation goroutine at the start of the next frame
// Returns false if the queue is full or the scheduler has stopped
func (s *Scheduler) Do(fn func(*Rewinder)) bool {
	select {
	case <-s.stopChan:
		return false
	default:
	}
	select {
	case s.commands <- fn:
		return true
	default:
		return false
	}
}

func (s *Scheduler) drain() {
	for {
		select {
		case fn := <-s.commands:
			fn(s.rw)
		default:
			return
		}
	}
}

// Advance runs one host frame of length dt
// The first running frame fires a sample immediately, then one per sample interval
func (s *Scheduler) Advance(dt time.Duration) {
	s.drain()

	if !s.clock.IsPaused() {
		if s.onFrame != nil {
			s.onFrame(dt)
		}

		if !s.primed {
			s.primed = true
			s.sample()
		} else {
			s.sinceSample += dt
		}

		fired := 0
		for s.sinceSample >= s.sampleInterval {
			s.sinceSample -= s.sampleInterval
			if fired == maxCatchUpSamples {
				s.sinceSample %= s.sampleInterval
				break
			}
			s.sample()
			fired++
		}

		s.rw.PlaybackTick(dt.Seconds())
	}

	if s.afterFrame != nil {
		s.afterFrame()
	}

	s.statFrames.Store(int64(s.frameCount.Add(1)))
}

func (s *Scheduler) sample() {
	s.rw.SampleTick()
	s.sampleCount.Add(1)
}

// Start launches the frame loop on its own goroutine
func (s *Scheduler) Start() {
	if s.running.CompareAndSwap(false, true) {
		s.wg.Add(1)
		core.Go(s.loop)
	}
}

// Stop halts the frame loop and waits for the in-flight frame
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.running.CompareAndSwap(true, false) {
			s.wg.Wait()
		}
	})
}

// Done is closed when Stop is called
func (s *Scheduler) Done() <-chan struct{} {
	return s.stopChan
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	last := s.provider.Now()
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			now := s.provider.Now()
			dt := now.Sub(last)
			last = now

			// Clamp hitches (debugger, suspend) to a few frames
			if dt > 4*s.frameInterval {
				dt = 4 * s.frameInterval
			}
			s.Advance(dt)
		}
	}
}

// Clock returns the pausable clock consulted by the loop
func (s *Scheduler) Clock() *PausableClock {
	return s.clock
}

// Frames returns the number of frames advanced
func (s *Scheduler) Frames() uint64 {
	return s.frameCount.Load()
}

// Samples returns the number of sample ticks fired
func (s *Scheduler) Samples() uint64 {
	return s.sampleCount.Load()
}
