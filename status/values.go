package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 stored as its IEEE bits; the zero value reads 0
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

func (f *AtomicFloat) Load() float64 { return math.Float64frombits(f.bits.Load()) }

// Add applies delta with a CAS loop and returns the new value
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// MaxStringLen bounds labels stored in an AtomicString
const MaxStringLen = 32

// AtomicString holds a short label such as the current rewind mode
type AtomicString struct {
	v atomic.Value
}

// Store replaces the label, cut to MaxStringLen bytes
func (s *AtomicString) Store(v string) {
	if len(v) > MaxStringLen {
		v = v[:MaxStringLen]
	}
	s.v.Store(v)
}

func (s *AtomicString) Load() string {
	v, _ := s.v.Load().(string)
	return v
}
