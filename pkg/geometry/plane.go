package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Plane represents an infinite plane, or a disk when Radius is positive
type Plane struct {
	Point    core.Vec3 // A point on the plane, the disk center when clipped
	Normal   core.Vec3 // Unit normal
	Radius   float64   // Zero means unbounded
	Material material.Material
	basis    core.ONB
}

// NewPlane creates a new infinite plane
func NewPlane(point, normal core.Vec3, material material.Material) *Plane {
	n := normal.Normalize()
	return &Plane{
		Point:    point,
		Normal:   n,
		Material: material,
		basis:    core.NewONB(n),
	}
}

// NewDisk creates a plane clipped to a disk of the given radius around point
func NewDisk(point, normal core.Vec3, radius float64, material material.Material) *Plane {
	p := NewPlane(point, normal, material)
	p.Radius = radius
	return p
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)
	if math.Abs(denominator) < 1e-8 {
		return nil, false // Ray is parallel to the plane
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t <= tMin || t >= tMax {
		return nil, false
	}

	point := ray.At(t)
	offset := point.Subtract(p.Point)
	if p.Radius > 0 && offset.Length() > p.Radius {
		return nil, false
	}

	hitRecord := &material.HitRecord{
		Ray:      ray,
		T:        t,
		Point:    point,
		UV:       core.NewVec2(offset.Dot(p.basis.U), offset.Dot(p.basis.V)),
		Material: p.Material,
	}
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}

// BoundingBox returns an infinite box for unbounded planes and the disk bounds otherwise
func (p *Plane) BoundingBox() core.AABB {
	if p.Radius <= 0 {
		inf := math.Inf(1)
		return core.NewAABB(core.Splat(-inf), core.Splat(inf))
	}
	// Per-axis half extent of a disk: r·sqrt(1 - n²)
	extent := core.NewVec3(
		p.Radius*math.Sqrt(math.Max(0, 1-p.Normal.X*p.Normal.X)),
		p.Radius*math.Sqrt(math.Max(0, 1-p.Normal.Y*p.Normal.Y)),
		p.Radius*math.Sqrt(math.Max(0, 1-p.Normal.Z*p.Normal.Z)),
	)
	return core.NewAABB(p.Point.Subtract(extent), p.Point.Add(extent)).Expand(1e-4)
}

// PDFValue returns the disk's solid-angle density; unbounded planes cannot be sampled
func (p *Plane) PDFValue(origin, direction core.Vec3) float64 {
	if p.Radius <= 0 {
		return 0
	}
	hit, ok := p.Hit(core.NewRay(origin, direction), hitEpsilon, math.Inf(1), nil)
	if !ok {
		return 0
	}
	return areaPDF(hit, direction, math.Pi*p.Radius*p.Radius)
}

// Random draws a direction toward a uniform point on the disk, or along the normal when unbounded
func (p *Plane) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	if p.Radius <= 0 {
		return p.Normal.Negate()
	}
	d := core.RandomInUnitDisk(sampler).Multiply(p.Radius)
	point := p.Point.Add(p.basis.U.Multiply(d.X)).Add(p.basis.V.Multiply(d.Y))
	return point.Subtract(origin)
}
