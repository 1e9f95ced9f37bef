// Copyright 2025 Daniel Toske. All rights reserved.

package render

import (
	"github.com/chewxy/math32"
	"github.com/dtoske/stage/linear"
)

// Plane is a view-space frustum plane: a unit normal and the
// signed distance of the plane from the origin along it. Points
// with a non-negative signed distance are on the visible side.
type Plane struct {
	Normal linear.V3
	D      float32
}

// Left, right, bottom, top, near and far planes, in the order
// FrustumOf produces them.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
	NumPlanes
)

// FrustumOf extracts the six clip planes of a projection matrix,
// with normals normalized to unit length. The planes are expressed
// in view space, so culling needs each object transform combined
// with the view matrix once rather than with every plane.
//
// The extraction is a pure function of proj. It only needs to run
// again when the projection changes, e.g. on a viewport resize;
// Frustum caches it on that condition.
func FrustumOf(proj *linear.M4) [NumPlanes]Plane {
	row := func(i int) linear.V4 {
		return linear.V4{proj[0][i], proj[1][i], proj[2][i], proj[3][i]}
	}
	w := row(3)
	var planes [NumPlanes]Plane
	for i := 0; i < NumPlanes; i++ {
		var v linear.V4
		r := row(i / 2)
		if i%2 == 0 {
			v.Add(&w, &r)
		} else {
			v.Sub(&w, &r)
		}
		p := Plane{Normal: linear.V3{v[0], v[1], v[2]}, D: v[3]}
		if l := p.Normal.Len(); l > 0 {
			p.Normal.Scale(1/l, &p.Normal)
			p.D /= l
		}
		planes[i] = p
	}
	return planes
}

// Frustum caches the planes extracted from a projection matrix.
// The zero value is ready for use.
type Frustum struct {
	proj   linear.M4
	planes [NumPlanes]Plane
	valid  bool
}

// Planes returns the planes of proj, re-extracting them only when
// proj differs from the previous call.
// The returned array aliases the cache and must not be mutated.
func (f *Frustum) Planes(proj *linear.M4) *[NumPlanes]Plane {
	if !f.valid || f.proj != *proj {
		f.planes = FrustumOf(proj)
		f.proj = *proj
		f.valid = true
	}
	return &f.planes
}

// inFrustum reports whether the bounds of e, taken to view space,
// intersect the frustum.
//
// The view-space extents come from the element-wise absolute value
// of the rotation/scale part of the object-to-view transform. This
// over-approximates the box under rotation, which is the accepted
// trade-off for a constant-time test per plane; bounds this test
// accepts may still be outside the exact frustum, but never the
// other way around.
func inFrustum(e *CullEntry, planes *[NumPlanes]Plane, view *linear.M4) bool {
	var ov linear.M4
	ov.Mul(view, &e.World)

	c := linear.V4{e.Bounds.Center[0], e.Bounds.Center[1], e.Bounds.Center[2], 1}
	c.Mul(&ov, &c)

	var rs linear.M3
	rs.UpperLeft(&ov)
	rs.Abs(&rs)
	var ext linear.V3
	ext.Mul(&rs, &e.Bounds.Extents)

	for i := range planes {
		p := &planes[i]
		r := ext[0]*math32.Abs(p.Normal[0]) +
			ext[1]*math32.Abs(p.Normal[1]) +
			ext[2]*math32.Abs(p.Normal[2])
		d := p.Normal[0]*c[0] + p.Normal[1]*c[1] + p.Normal[2]*c[2] + p.D
		if d+r < 0 {
			return false
		}
	}
	return true
}

// Visible appends to dst the index of every cull entry whose
// bounds intersect the frustum and returns the extended slice.
// dst is reset first, so a slice can be reused across frames.
// Output order is ascending by index.
func Visible(dst []int, planes *[NumPlanes]Plane, view *linear.M4, cull []CullEntry) []int {
	dst = dst[:0]
	for i := range cull {
		if inFrustum(&cull[i], planes, view) {
			dst = append(dst, i)
		}
	}
	return dst
}
