package core

import "math"

// Mat4 is a row-major 4×4 affine transform acting on column vectors
type Mat4 struct {
	M [4][4]float64
}

// Identity returns the identity transform
func Identity() Mat4 {
	return Mat4{M: [4][4]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}}
}

// ScaleMatrix returns a non-uniform scale
func ScaleMatrix(s Vec3) Mat4 {
	m := Identity()
	m.M[0][0], m.M[1][1], m.M[2][2] = s.X, s.Y, s.Z
	return m
}

// TranslationMatrix returns a translation by t
func TranslationMatrix(t Vec3) Mat4 {
	m := Identity()
	m.M[0][3], m.M[1][3], m.M[2][3] = t.X, t.Y, t.Z
	return m
}

// RotationYMatrix returns a right-handed rotation about +Y by the given angle in degrees
func RotationYMatrix(degrees float64) Mat4 {
	rad := degrees * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	m := Identity()
	m.M[0][0], m.M[0][2] = c, s
	m.M[2][0], m.M[2][2] = -s, c
	return m
}

// Mul returns a·b, the transform that applies b first and then a
func (a Mat4) Mul(b Mat4) Mat4 {
	var r Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += a.M[row][k] * b.M[k][col]
			}
			r.M[row][col] = sum
		}
	}
	return r
}

// TransformPoint applies the transform to a point (w = 1)
func (a Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		X: a.M[0][0]*p.X + a.M[0][1]*p.Y + a.M[0][2]*p.Z + a.M[0][3],
		Y: a.M[1][0]*p.X + a.M[1][1]*p.Y + a.M[1][2]*p.Z + a.M[1][3],
		Z: a.M[2][0]*p.X + a.M[2][1]*p.Y + a.M[2][2]*p.Z + a.M[2][3],
	}
}
