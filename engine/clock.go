package engine

import (
	"sync"
	"time"
)

// TimeProvider supplies wall-clock readings to the clock and scheduler
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads the monotonic system clock
type SystemTime struct{}

func (SystemTime) Now() time.Time { return time.Now() }

// ManualTime is a TimeProvider that only moves when told to
// Drives the scheduler deterministically in tests and headless runs
type ManualTime struct {
	mu  sync.RWMutex
	now time.Time
}

func NewManualTime(start time.Time) *ManualTime {
	return &ManualTime{now: start}
}

func (m *ManualTime) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the reading forward by d
func (m *ManualTime) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// PausableClock is simulation time that stands still while the host is paused
// Nothing is recorded while it is paused
type PausableClock struct {
	mu       sync.Mutex
	provider TimeProvider
	start    time.Time
	paused   bool
	pausedAt time.Time
	frozen   time.Duration // completed pauses
}

// NewPausableClock creates a running clock on the system time
func NewPausableClock() *PausableClock {
	return NewPausableClockWith(SystemTime{})
}

// NewPausableClockWith creates a running clock reading provider
func NewPausableClockWith(provider TimeProvider) *PausableClock {
	return &PausableClock{provider: provider, start: provider.Now()}
}

// Elapsed returns simulation time since creation, excluding pauses
func (c *PausableClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.provider.Now()
	if c.paused {
		now = c.pausedAt
	}
	return now.Sub(c.start) - c.frozen
}

// Paused returns cumulative pause time including a pause in progress
func (c *PausableClock) Paused() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return c.frozen + c.provider.Now().Sub(c.pausedAt)
	}
	return c.frozen
}

// Pause freezes simulation time, no-op when already paused
func (c *PausableClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		c.paused = true
		c.pausedAt = c.provider.Now()
	}
}

// Resume restarts simulation time, no-op when running
func (c *PausableClock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		c.paused = false
		c.frozen += c.provider.Now().Sub(c.pausedAt)
	}
}

// Toggle flips the pause state and reports whether the clock is now paused
func (c *PausableClock) Toggle() bool {
	c.mu.Lock()
	paused := c.paused
	c.mu.Unlock()
	if paused {
		c.Resume()
		return false
	}
	c.Pause()
	return true
}

func (c *PausableClock) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}
