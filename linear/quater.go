// Copyright 2025 Daniel Toske. All rights reserved.

package linear

import (
	"github.com/chewxy/math32"
)

// Q is a quaternion of float32.
type Q struct {
	V V3
	R float32
}

// I makes q an identity quaternion.
func (q *Q) I() { *q = Q{R: 1} }

// Mul sets q to contain l ⋅ r.
func (q *Q) Mul(l, r *Q) {
	var v, w V3
	v.Scale(r.R, &l.V)
	w.Scale(l.R, &r.V)
	v.Add(&v, &w)
	w.Cross(&l.V, &r.V)
	d := l.V.Dot(&r.V)
	q.V.Add(&v, &w)
	q.R = l.R*r.R - d
}

// Rotate makes q a rotation of angle radians about the
// given axis. axis need not be normalized.
func (q *Q) Rotate(angle float32, axis *V3) {
	var a V3
	a.Norm(axis)
	s, c := math32.Sincos(angle / 2)
	q.V.Scale(s, &a)
	q.R = c
}
