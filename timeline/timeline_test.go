package timeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lixenwraith/vi-rewind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func sampleAt(x float64) Snapshot {
	return Sample(core.At(r3.Vec{X: x}))
}

func positions(t *testing.T, tl *Timeline) []float64 {
	t.Helper()
	var xs []float64
	for _, s := range tl.Snapshots() {
		if s.IsEmpty() {
			xs = append(xs, -1)
			continue
		}
		xs = append(xs, s.Pose.Position.X)
	}
	return xs
}

func TestNewTimelineAllEmpty(t *testing.T) {
	tl, err := New(8)
	require.NoError(t, err)

	assert.Equal(t, 8, tl.Capacity())
	assert.Equal(t, 0, tl.Count())
	for i := 0; i < tl.Capacity(); i++ {
		s, err := tl.Read(i)
		require.NoError(t, err)
		assert.True(t, s.IsEmpty(), "slot %d", i)
	}
}

func TestNewTimelineRejectsNonPositiveCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		tl, err := New(c)
		assert.Nil(t, tl)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	}
}

func TestReadWriteOutOfRange(t *testing.T) {
	tl, err := New(3)
	require.NoError(t, err)

	assert.ErrorIs(t, tl.Write(3, sampleAt(1)), ErrOutOfRange)
	assert.ErrorIs(t, tl.Write(-1, sampleAt(1)), ErrOutOfRange)

	_, err = tl.Read(3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = tl.Read(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.True(t, tl.At(99).IsEmpty())
	assert.True(t, tl.At(-5).IsEmpty())
}

func TestWriteReadRoundTrip(t *testing.T) {
	tl, err := New(4)
	require.NoError(t, err)

	want := Marker(core.Pose{
		Position:        r3.Vec{X: 1, Y: 2, Z: 3},
		LinearVelocity:  r3.Vec{X: -1},
		AngularVelocity: r3.Vec{Z: 0.5},
	})
	require.NoError(t, tl.Write(2, want))

	got, err := tl.Read(2)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(Snapshot{})); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, got.Discontinuity)
	assert.True(t, got.EmitCue)
	assert.False(t, got.IsEmpty())
}

func TestEvictOldestShiftsAndAppendsEmpty(t *testing.T) {
	tl, err := New(5)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, tl.Write(i, sampleAt(float64(i))))
	}

	tl.EvictOldest()
	assert.Equal(t, []float64{1, 2, 3, 4, -1}, positions(t, tl))

	require.NoError(t, tl.Write(4, sampleAt(5)))
	tl.EvictOldest()
	require.NoError(t, tl.Write(4, sampleAt(6)))
	assert.Equal(t, []float64{2, 3, 4, 5, 6}, positions(t, tl))
}

func TestEvictWrapsManyTimes(t *testing.T) {
	tl, err := New(3)
	require.NoError(t, err)

	// Write-then-evict cycle far past capacity keeps the newest samples oldest-first
	for i := 0; i < 3; i++ {
		require.NoError(t, tl.Write(i, sampleAt(float64(i))))
	}
	for i := 3; i < 20; i++ {
		tl.EvictOldest()
		require.NoError(t, tl.Write(2, sampleAt(float64(i))))
	}
	assert.Equal(t, []float64{17, 18, 19}, positions(t, tl))
}

func TestTruncate(t *testing.T) {
	tl, err := New(5)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		require.NoError(t, tl.Write(i, sampleAt(float64(i))))
	}

	assert.Equal(t, 3, tl.Truncate(2))
	assert.Equal(t, []float64{0, 1, -1, -1, -1}, positions(t, tl))
	assert.Equal(t, 0, tl.Truncate(4))
	assert.Equal(t, 2, tl.Truncate(-3))
	assert.Equal(t, 0, tl.Count())
}

func TestTruncateAfterWrap(t *testing.T) {
	tl, err := New(4)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, tl.Write(i, sampleAt(float64(i))))
	}
	tl.EvictOldest()
	require.NoError(t, tl.Write(3, sampleAt(4)))

	tl.Truncate(1)
	assert.Equal(t, []float64{1, -1, -1, -1}, positions(t, tl))
}

func TestReset(t *testing.T) {
	tl, err := New(3)
	require.NoError(t, err)
	require.NoError(t, tl.Write(0, sampleAt(1)))
	tl.EvictOldest()

	tl.Reset()
	assert.Equal(t, 0, tl.Count())
	require.NoError(t, tl.Write(0, sampleAt(9)))
	assert.Equal(t, []float64{9, -1, -1}, positions(t, tl))
}

func TestZeroSnapshotIsEmpty(t *testing.T) {
	var s Snapshot
	assert.True(t, s.IsEmpty())
	assert.False(t, Sample(core.IdentityPose()).IsEmpty())
	assert.False(t, Sample(core.IdentityPose()).Discontinuity)
}
