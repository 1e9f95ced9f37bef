// Copyright 2025 Daniel Toske. All rights reserved.

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtoske/stage/linear"
)

func TestBoundsOf(t *testing.T) {
	assert.Equal(t, Bounds{}, BoundsOf(nil))

	b := BoundsOf([]linear.V3{{1, 1, 1}, {3, 5, 7}, {-1, 0, 1}})
	assert.Equal(t, linear.V3{1, 2.5, 4}, b.Center)
	assert.Equal(t, linear.V3{2, 2.5, 3}, b.Extents)
	assert.InDelta(t, b.Extents.Len(), b.Radius, 1e-6)

	// A single position is a degenerate box around it.
	b = BoundsOf([]linear.V3{{2, -3, 4}})
	assert.Equal(t, linear.V3{2, -3, 4}, b.Center)
	assert.Equal(t, linear.V3{}, b.Extents)
	assert.Equal(t, float32(0), b.Radius)
}

func TestStoresAppend(t *testing.T) {
	var s Stores
	require.Equal(t, 0, s.Len())

	i := s.Append(CullEntry{}, DrawEntry{Mesh: 1})
	assert.Equal(t, 0, i)
	i = s.Append(CullEntry{}, DrawEntry{Mesh: 2})
	assert.Equal(t, 1, i)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, len(s.CullData()), len(s.DrawData()))

	d, err := s.Draw(1)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Mesh)
	c, err := s.Cull(0)
	require.NoError(t, err)
	assert.Equal(t, CullEntry{}, *c)
}

func TestStoresRemove(t *testing.T) {
	var s Stores
	for m := 0; m < 4; m++ {
		s.Append(CullEntry{Bounds: Bounds{Radius: float32(m)}}, DrawEntry{Mesh: m})
	}

	// Removing an interior entry moves the trailing one into it.
	moved, err := s.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, 3, moved)
	require.Equal(t, 3, s.Len())
	d, _ := s.Draw(1)
	assert.Equal(t, 3, d.Mesh)
	c, _ := s.Cull(1)
	assert.Equal(t, float32(3), c.Bounds.Radius)
	assert.Equal(t, len(s.CullData()), len(s.DrawData()))

	// Removing the last entry moves nothing.
	moved, err = s.Remove(2)
	require.NoError(t, err)
	assert.Equal(t, -1, moved)
	require.Equal(t, 2, s.Len())
}

func TestStoresIndexRange(t *testing.T) {
	var s Stores
	s.Append(CullEntry{}, DrawEntry{})

	for _, i := range []int{-1, 1, 100} {
		_, err := s.Cull(i)
		assert.ErrorIs(t, err, ErrIndex)
		_, err = s.Draw(i)
		assert.ErrorIs(t, err, ErrIndex)
		_, err = s.Remove(i)
		assert.ErrorIs(t, err, ErrIndex)
	}
}
