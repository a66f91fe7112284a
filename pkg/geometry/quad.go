package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Quad represents a parallelogram spanned by two edges from a corner
type Quad struct {
	Corner   core.Vec3 // Starting corner
	U        core.Vec3 // First edge vector
	V        core.Vec3 // Second edge vector
	Normal   core.Vec3 // Unit normal (U × V normalized)
	D        float64   // Plane offset: Normal·P = D
	W        core.Vec3 // (U×V)/|U×V|², maps planar offsets to edge coordinates
	Area     float64
	Material material.Material
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, material material.Material) *Quad {
	n := u.Cross(v)
	normal := n.Normalize()

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		D:        normal.Dot(corner),
		W:        n.Multiply(1.0 / n.LengthSquared()),
		Area:     n.Length(),
		Material: material,
	}
}

// Hit tests if a ray intersects with the quad.
// Edge coordinates are accepted on the half-open range [0, 1).
func (q *Quad) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	denominator := q.Normal.Dot(ray.Direction)
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	t := (q.D - q.Normal.Dot(ray.Origin)) / denominator
	if t <= tMin || t >= tMax {
		return nil, false
	}

	intersection := ray.At(t)
	planarOffset := intersection.Subtract(q.Corner)
	alpha := q.W.Dot(planarOffset.Cross(q.V))
	beta := q.W.Dot(q.U.Cross(planarOffset))
	if alpha < 0 || alpha >= 1 || beta < 0 || beta >= 1 {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		Ray:      ray,
		T:        t,
		Point:    intersection,
		UV:       core.NewVec2(alpha, beta),
		Material: q.Material,
	}
	hitRecord.SetFaceNormal(ray, q.Normal)

	return hitRecord, true
}

// BoundingBox returns the padded bounds of the four corners
func (q *Quad) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	).Expand(1e-4)
}

// PDFValue converts the uniform area density 1/Area into solid angle from origin
func (q *Quad) PDFValue(origin, direction core.Vec3) float64 {
	hit, ok := q.Hit(core.NewRay(origin, direction), hitEpsilon, math.Inf(1), nil)
	if !ok {
		return 0
	}
	return areaPDF(hit, direction, q.Area)
}

// Random draws a direction toward a uniformly chosen point on the quad
func (q *Quad) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	s := sampler.Get2D()
	point := q.Corner.Add(q.U.Multiply(s.X)).Add(q.V.Multiply(s.Y))
	return point.Subtract(origin)
}
