// Copyright 2025 Daniel Toske. All rights reserved.

package render

import (
	"cmp"
	"slices"

	"github.com/dtoske/stage/linear"
)

// SortOpaque sorts a visible-index list so that draws sharing
// render state end up adjacent: by material, then mesh, then
// first index. indices must hold valid indices into draws.
func SortOpaque(indices []int, draws []DrawEntry) {
	slices.SortFunc(indices, func(a, b int) int {
		da, db := &draws[a], &draws[b]
		if c := cmp.Compare(da.Material, db.Material); c != 0 {
			return c
		}
		if c := cmp.Compare(da.Mesh, db.Mesh); c != 0 {
			return c
		}
		return cmp.Compare(da.FirstIndex, db.FirstIndex)
	})
}

// SortBackToFront sorts a visible-index list by descending
// view-space depth, farthest drawable first, which is the order
// blending requires. Depth is taken from the translation of each
// draw transform.
func SortBackToFront(indices []int, draws []DrawEntry, view *linear.M4) {
	slices.SortFunc(indices, func(a, b int) int {
		return cmp.Compare(viewZ(view, &draws[a]), viewZ(view, &draws[b]))
	})
}

// viewZ returns the view-space z of a draw transform's origin.
// View space looks down -z, so smaller values are farther away.
func viewZ(view *linear.M4, d *DrawEntry) float32 {
	p := d.Transform[3]
	var v linear.V4
	v.Mul(view, &p)
	return v[2]
}
