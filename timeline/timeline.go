// Package timeline implements the fixed-capacity per-object snapshot history
package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned for an index outside [0, capacity)
	ErrOutOfRange = errors.New("timeline index out of range")
	// ErrInvalidCapacity is returned when constructing a timeline with capacity < 1
	ErrInvalidCapacity = errors.New("timeline capacity must be positive")
)

// Timeline is a fixed-length ring of snapshots addressed by logical index
// Logical index 0 is always the oldest retained instant
// Not safe for concurrent use; owned by the engine's simulation goroutine
type Timeline struct {
	slots []Snapshot
	head  int // Physical position of logical index 0
}

// New allocates a timeline whose slots are all empty
func New(capacity int) (*Timeline, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	return &Timeline{slots: make([]Snapshot, capacity)}, nil
}

// Capacity returns the fixed number of slots
func (t *Timeline) Capacity() int {
	return len(t.slots)
}

func (t *Timeline) physical(index int) int {
	return (t.head + index) % len(t.slots)
}

func (t *Timeline) inRange(index int) bool {
	return index >= 0 && index < len(t.slots)
}

// Write overwrites the slot at index
func (t *Timeline) Write(index int, s Snapshot) error {
	if !t.inRange(index) {
		return fmt.Errorf("write %d of %d: %w", index, len(t.slots), ErrOutOfRange)
	}
	t.slots[t.physical(index)] = s
	return nil
}

// Read returns the snapshot at index
func (t *Timeline) Read(index int) (Snapshot, error) {
	if !t.inRange(index) {
		return Snapshot{}, fmt.Errorf("read %d of %d: %w", index, len(t.slots), ErrOutOfRange)
	}
	return t.slots[t.physical(index)], nil
}

// At returns the snapshot at index, or an empty snapshot when out of range
func (t *Timeline) At(index int) Snapshot {
	if !t.inRange(index) {
		return Snapshot{}
	}
	return t.slots[t.physical(index)]
}

// EvictOldest drops logical slot 0, shifts the rest down and appends an empty slot
// O(1): the freed physical slot becomes the new tail
func (t *Timeline) EvictOldest() {
	t.slots[t.head] = Snapshot{}
	t.head = (t.head + 1) % len(t.slots)
}

// Truncate empties every slot from index to the end and returns how many were filled
// Index is clamped to [0, capacity]
func (t *Timeline) Truncate(from int) int {
	if from < 0 {
		from = 0
	}
	cleared := 0
	for i := from; i < len(t.slots); i++ {
		p := t.physical(i)
		if t.slots[p].filled {
			cleared++
		}
		t.slots[p] = Snapshot{}
	}
	return cleared
}

// Count returns the number of non-empty slots
func (t *Timeline) Count() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].filled {
			n++
		}
	}
	return n
}

// Snapshots returns a copy of all slots, oldest first
func (t *Timeline) Snapshots() []Snapshot {
	out := make([]Snapshot, len(t.slots))
	for i := range out {
		out[i] = t.slots[t.physical(i)]
	}
	return out
}

// Reset empties every slot and rewinds the ring
func (t *Timeline) Reset() {
	clear(t.slots)
	t.head = 0
}
