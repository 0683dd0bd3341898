package core

import "fmt"

// Entity is a generation-checked handle to a simulated object
// Low 32 bits address the owning slot, high 32 bits carry the slot generation
// A destroyed slot bumps its generation, so stale handles fail existence checks
type Entity uint64

// NoEntity is the zero handle, never issued by a solver
const NoEntity Entity = 0

// NewEntity packs slot index and generation into a handle
func NewEntity(index, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index
func (e Entity) Index() uint32 {
	return uint32(e)
}

// Generation returns the slot generation the handle was issued for
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

func (e Entity) String() string {
	return fmt.Sprintf("e%d.%d", e.Index(), e.Generation())
}
