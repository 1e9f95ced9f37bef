// Copyright 2025 Daniel Toske. All rights reserved.

// Package render implements the flat per-drawable stores consumed
// by renderers, the synchronizer that keeps them consistent with
// the transform hierarchy, and the frustum culler that selects the
// visible subset.
//
// The cull store and the draw store are index-aligned: entry i of
// one describes the same drawable as entry i of the other. Stores
// only grow or shrink in direct response to drawable registration,
// which is owned by a single external subsystem per Stores value.
// Like the node graph, a Stores value is not meant for concurrent
// use.
package render

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/dtoske/stage/linear"
)

const prefix = "render: "

// ErrIndex indicates access to a drawable index that is out of
// range of the stores.
var ErrIndex = errors.New(prefix + "index out of range")

// Bounds is an axis-aligned bounding box in a drawable's local
// space, stored as center and half-extents, with the radius of
// the enclosing sphere.
type Bounds struct {
	Center  linear.V3
	Extents linear.V3
	Radius  float32
}

// BoundsOf derives the bounds of a set of positions.
// Zero positions yield zero bounds.
func BoundsOf(positions []linear.V3) Bounds {
	if len(positions) == 0 {
		return Bounds{}
	}
	min, max := positions[0], positions[0]
	for _, p := range positions[1:] {
		for i := range p {
			min[i] = math32.Min(min[i], p[i])
			max[i] = math32.Max(max[i], p[i])
		}
	}
	var b Bounds
	b.Center.Add(&max, &min)
	b.Center.Scale(0.5, &b.Center)
	b.Extents.Sub(&max, &min)
	b.Extents.Scale(0.5, &b.Extents)
	b.Radius = b.Extents.Len()
	return b
}

// CullEntry is the per-drawable data the frustum culler reads.
// World is a copy of the owning node's world transform, refreshed
// by Sync; it going stale past one frame is a caller bug, not a
// supported state.
type CullEntry struct {
	World  linear.M4
	Bounds Bounds
}

// DrawEntry is the per-drawable data a renderer reads.
// Transform duplicates CullEntry.World so that draw submission
// never reaches back into the cull store. Mesh and Material are
// opaque identifiers owned by the registering subsystem.
type DrawEntry struct {
	Transform   linear.M4
	Mesh        int
	Material    int
	FirstIndex  uint32
	IndexCount  uint32
	Transparent bool
}

// Stores is an index-aligned pair of cull and draw arrays.
// len(cull) == len(draw) holds at all times.
type Stores struct {
	cull []CullEntry
	draw []DrawEntry
}

// Len returns the number of drawable entries.
func (s *Stores) Len() int { return len(s.cull) }

// Append adds a drawable to both stores and returns its index.
func (s *Stores) Append(c CullEntry, d DrawEntry) int {
	s.cull = append(s.cull, c)
	s.draw = append(s.draw, d)
	return len(s.cull) - 1
}

// Remove swap-removes the drawable at index i from both stores.
// It returns the former index of the entry that now occupies i,
// or -1 when i held the last entry. The caller owns any reverse
// index mapping and must repair it for the moved entry.
func (s *Stores) Remove(i int) (moved int, err error) {
	if i < 0 || i >= len(s.cull) {
		return -1, ErrIndex
	}
	last := len(s.cull) - 1
	moved = -1
	if i < last {
		s.cull[i] = s.cull[last]
		s.draw[i] = s.draw[last]
		moved = last
	}
	s.cull = s.cull[:last]
	s.draw = s.draw[:last]
	return moved, nil
}

// Cull returns a pointer to the cull entry at index i.
func (s *Stores) Cull(i int) (*CullEntry, error) {
	if i < 0 || i >= len(s.cull) {
		return nil, ErrIndex
	}
	return &s.cull[i], nil
}

// Draw returns a pointer to the draw entry at index i.
func (s *Stores) Draw(i int) (*DrawEntry, error) {
	if i < 0 || i >= len(s.draw) {
		return nil, ErrIndex
	}
	return &s.draw[i], nil
}

// CullData returns the cull store as a slice.
// The slice aliases the store and is valid until the next
// Append or Remove.
func (s *Stores) CullData() []CullEntry { return s.cull }

// DrawData returns the draw store as a slice.
// The slice aliases the store and is valid until the next
// Append or Remove.
func (s *Stores) DrawData() []DrawEntry { return s.draw }
