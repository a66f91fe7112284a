package core

import "math"

// ONB is an orthonormal basis whose W axis is aligned with a chosen direction
type ONB struct {
	U, V, W Vec3
}

// NewONB builds a basis around n, which need not be normalized
func NewONB(n Vec3) ONB {
	w := n.Normalize()
	a := NewVec3(1, 0, 0)
	if math.Abs(w.X) > 0.9 {
		a = NewVec3(0, 1, 0)
	}
	v := w.Cross(a).Normalize()
	u := w.Cross(v)
	return ONB{U: u, V: v, W: w}
}

// Transform maps local coordinates into world space
func (b ONB) Transform(local Vec3) Vec3 {
	return b.U.Multiply(local.X).Add(b.V.Multiply(local.Y)).Add(b.W.Multiply(local.Z))
}
