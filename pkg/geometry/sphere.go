package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere shape. Its center moves linearly over ray time [0,1).
type Sphere struct {
	Center   core.Ray // Center at time 0 plus motion over one time unit
	Radius   float64
	Material material.Material
}

// NewSphere creates a new stationary sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   core.NewRay(center, core.Vec3{}),
		Radius:   radius,
		Material: material,
	}
}

// NewMovingSphere creates a sphere that moves from center0 at time 0 to center1 at time 1
func NewMovingSphere(center0, center1 core.Vec3, radius float64, material material.Material) *Sphere {
	return &Sphere{
		Center:   core.NewRay(center0, center1.Subtract(center0)),
		Radius:   radius,
		Material: material,
	}
}

// IsMoving reports whether the sphere has motion blur
func (s *Sphere) IsMoving() bool {
	return s.Center.Direction != (core.Vec3{})
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	center := s.Center.At(ray.Time)
	oc := ray.Origin.Subtract(center)

	// Quadratic equation coefficients: at² + 2ht + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		Ray:      ray,
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	outwardNormal := hitRecord.Point.Subtract(center).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)
	hitRecord.UV = SphereUV(outwardNormal)

	return hitRecord, true
}

// SphereUV maps a unit direction to equirectangular texture coordinates
func SphereUV(d core.Vec3) core.Vec2 {
	u := 0.5 + math.Atan2(d.X, d.Z)/(2*math.Pi)
	v := 0.5 - math.Asin(math.Max(-1, math.Min(1, d.Y)))/math.Pi
	return core.NewVec2(u, v)
}

// BoundingBox returns the axis-aligned bounding box swept over the motion
func (s *Sphere) BoundingBox() core.AABB {
	radius := core.Splat(s.Radius)
	start := s.Center.Origin
	end := s.Center.At(1)
	box0 := core.NewAABB(start.Subtract(radius), start.Add(radius))
	box1 := core.NewAABB(end.Subtract(radius), end.Add(radius))
	return box0.Union(box1)
}

// PDFValue returns the uniform cone density subtended by a stationary sphere
func (s *Sphere) PDFValue(origin, direction core.Vec3) float64 {
	if s.IsMoving() {
		return 0
	}
	if _, ok := s.Hit(core.NewRay(origin, direction), hitEpsilon, math.Inf(1), nil); !ok {
		return 0
	}

	distanceSquared := s.Center.Origin.Subtract(origin).LengthSquared()
	if distanceSquared <= s.Radius*s.Radius {
		return 1.0 / (4 * math.Pi)
	}
	cosThetaMax := math.Sqrt(1 - s.Radius*s.Radius/distanceSquared)
	solidAngle := 2 * math.Pi * (1 - cosThetaMax)
	return 1.0 / solidAngle
}

// Random draws a direction uniformly inside the cone subtended by the sphere
func (s *Sphere) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	toCenter := s.Center.Origin.Subtract(origin)
	distanceSquared := toCenter.LengthSquared()
	if distanceSquared <= s.Radius*s.Radius {
		return core.RandomUnitVector(sampler)
	}
	cosThetaMax := math.Sqrt(1 - s.Radius*s.Radius/distanceSquared)
	basis := core.NewONB(toCenter)
	return basis.Transform(core.SampleCone(cosThetaMax, sampler.Get2D()))
}
