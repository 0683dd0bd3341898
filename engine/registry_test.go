package engine

import (
	"testing"

	"github.com/lixenwraith/vi-rewind/core"
	"github.com/lixenwraith/vi-rewind/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AddIsIdempotent(t *testing.T) {
	r := NewRegistry(4)
	e := core.NewEntity(1, 1)

	tl, added, err := r.Add(e)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 4, tl.Capacity())

	again, added, err := r.Add(e)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Same(t, tl, again)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_InvalidCapacity(t *testing.T) {
	r := NewRegistry(0)
	_, _, err := r.Add(core.NewEntity(1, 1))
	assert.ErrorIs(t, err, timeline.ErrInvalidCapacity)
	assert.Zero(t, r.Len())
}

func TestRegistry_OrderAndRemove(t *testing.T) {
	r := NewRegistry(2)
	a, b, c := core.NewEntity(1, 1), core.NewEntity(2, 1), core.NewEntity(3, 1)
	for _, e := range []core.Entity{a, b, c} {
		_, _, err := r.Add(e)
		require.NoError(t, err)
	}

	assert.Equal(t, []core.Entity{a, b, c}, r.Entities())
	assert.True(t, r.Remove(b))
	assert.False(t, r.Remove(b))
	assert.Equal(t, []core.Entity{a, c}, r.Entities())
	assert.False(t, r.Has(b))
}

func TestRegistry_GenerationDistinguishesHandles(t *testing.T) {
	r := NewRegistry(2)
	old := core.NewEntity(7, 1)
	reused := core.NewEntity(7, 2)

	_, _, err := r.Add(old)
	require.NoError(t, err)
	assert.False(t, r.Has(reused))
}

func TestRegistry_EachToleratesRemoval(t *testing.T) {
	r := NewRegistry(2)
	a, b, c := core.NewEntity(1, 1), core.NewEntity(2, 1), core.NewEntity(3, 1)
	for _, e := range []core.Entity{a, b, c} {
		_, _, err := r.Add(e)
		require.NoError(t, err)
	}

	var visited []core.Entity
	r.Each(func(e core.Entity, _ *timeline.Timeline) {
		visited = append(visited, e)
		if e == a {
			r.Remove(b)
		}
	})

	assert.Equal(t, []core.Entity{a, c}, visited)
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry(2)
	_, _, err := r.Add(core.NewEntity(1, 1))
	require.NoError(t, err)

	r.Clear()
	assert.Zero(t, r.Len())
	assert.Empty(t, r.Entities())
}
