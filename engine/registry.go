package engine

import (
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/timeline"
)

// Registry maps each tracked object to its timeline
// Every entry's timeline has the registry's capacity; iteration follows registration order
type Registry struct {
	capacity  int
	timelines map[core.Entity]*timeline.Timeline
	order     []core.Entity
}

// NewRegistry creates an empty registry whose timelines hold capacity samples
func NewRegistry(capacity int) *Registry {
	return &Registry{
		capacity:  capacity,
		timelines: make(map[core.Entity]*timeline.Timeline),
		order:     make([]core.Entity, 0, 16),
	}
}

// Add tracks e with a fresh, empty timeline
// Returns false without touching the existing history if e is already tracked
func (r *Registry) Add(e core.Entity) (*timeline.Timeline, bool, error) {
	if tl, ok := r.timelines[e]; ok {
		return tl, false, nil
	}
	tl, err := timeline.New(r.capacity)
	if err != nil {
		return nil, false, err
	}
	r.timelines[e] = tl
	r.order = append(r.order, e)
	return tl, true, nil
}

// Remove stops tracking e and discards its timeline, returns false if absent
func (r *Registry) Remove(e core.Entity) bool {
	if _, ok := r.timelines[e]; !ok {
		return false
	}
	delete(r.timelines, e)
	for i, tracked := range r.order {
		if tracked == e {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Timeline returns the timeline for e
func (r *Registry) Timeline(e core.Entity) (*timeline.Timeline, bool) {
	tl, ok := r.timelines[e]
	return tl, ok
}

// Has reports whether e is tracked
func (r *Registry) Has(e core.Entity) bool {
	_, ok := r.timelines[e]
	return ok
}

// Len returns the number of tracked objects
func (r *Registry) Len() int {
	return len(r.order)
}

// Capacity returns the per-object timeline length
func (r *Registry) Capacity() int {
	return r.capacity
}

// Entities returns the tracked objects in registration order
func (r *Registry) Entities() []core.Entity {
	out := make([]core.Entity, len(r.order))
	copy(out, r.order)
	return out
}

// Each visits every tracked object over a copy of the key set
// fn may remove entries; removed entries not yet visited are skipped
func (r *Registry) Each(fn func(e core.Entity, tl *timeline.Timeline)) {
	for _, e := range r.Entities() {
		tl, ok := r.timelines[e]
		if !ok {
			continue
		}
		fn(e, tl)
	}
}

// Clear drops every entry
func (r *Registry) Clear() {
	clear(r.timelines)
	r.order = r.order[:0]
}
