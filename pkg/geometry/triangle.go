package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Triangle is a single flat triangle with a cached normal and barycentric denominator
type Triangle struct {
	P1, P2, P3  core.Vec3
	Normal      core.Vec3
	denominator float64 // Normal·(e1×e2), twice the area
	Material    material.Material
}

// NewTriangle creates a triangle; the winding P1→P2→P3 defines the front face
func NewTriangle(p1, p2, p3 core.Vec3, material material.Material) *Triangle {
	t := &Triangle{P1: p1, P2: p2, P3: p3, Material: material}
	t.updateNormal()
	return t
}

func (t *Triangle) updateNormal() {
	cross := t.P2.Subtract(t.P1).Cross(t.P3.Subtract(t.P1))
	t.Normal = cross.Normalize()
	t.denominator = t.Normal.Dot(cross)
}

// Transform moves the vertices by m and refreshes the cached normal
func (t *Triangle) Transform(m core.Mat4) {
	t.P1 = m.TransformPoint(t.P1)
	t.P2 = m.TransformPoint(t.P2)
	t.P3 = m.TransformPoint(t.P3)
	t.updateNormal()
}

// Centroid returns the average of the three vertices
func (t *Triangle) Centroid() core.Vec3 {
	return t.P1.Add(t.P2).Add(t.P3).Multiply(1.0 / 3.0)
}

// Area returns the triangle's surface area
func (t *Triangle) Area() float64 {
	return 0.5 * t.denominator
}

// Barycentric returns the weights of P2 and P3 for a point on the triangle's plane
func (t *Triangle) Barycentric(point core.Vec3) (c1, c2 float64) {
	toP1 := t.P1.Subtract(point)
	c1 = t.Normal.Dot(t.P3.Subtract(point).Cross(toP1)) / t.denominator
	c2 = t.Normal.Dot(toP1.Cross(t.P2.Subtract(point))) / t.denominator
	return c1, c2
}

// Hit tests if a ray intersects with the triangle
func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	if t.denominator == 0 {
		return nil, false // Degenerate triangle
	}
	denominator := t.Normal.Dot(ray.Direction)
	if math.Abs(denominator) < 1e-12 {
		return nil, false
	}

	distance := t.Normal.Dot(t.P1.Subtract(ray.Origin)) / denominator
	if distance <= tMin || distance >= tMax {
		return nil, false
	}

	point := ray.At(distance)
	c1, c2 := t.Barycentric(point)
	if c1 < 0 || c2 < 0 || c1+c2 > 1 {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		Ray:      ray,
		T:        distance,
		Point:    point,
		UV:       core.NewVec2(c1, c2),
		Material: t.Material,
	}
	hitRecord.SetFaceNormal(ray, t.Normal)

	return hitRecord, true
}

// BoundingBox returns the padded bounds of the three vertices
func (t *Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.P1, t.P2, t.P3).Expand(1e-4)
}

// PDFValue converts the uniform area density into solid angle from origin
func (t *Triangle) PDFValue(origin, direction core.Vec3) float64 {
	hit, ok := t.Hit(core.NewRay(origin, direction), hitEpsilon, math.Inf(1), nil)
	if !ok {
		return 0
	}
	return areaPDF(hit, direction, t.Area())
}

// Random draws a direction toward a uniformly chosen point on the triangle
func (t *Triangle) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	s := sampler.Get2D()
	r := math.Sqrt(s.X)
	b1 := r * (1 - s.Y)
	b2 := r * s.Y
	point := t.P1.Add(t.P2.Subtract(t.P1).Multiply(b1)).Add(t.P3.Subtract(t.P1).Multiply(b2))
	return point.Subtract(origin)
}
