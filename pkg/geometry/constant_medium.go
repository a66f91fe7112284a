package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ConstantMedium fills a closed boundary with a homogeneous scattering volume
type ConstantMedium struct {
	Boundary      Shape
	PhaseFunction material.Material
	negInvDensity float64
}

// NewConstantMedium creates smoke or fog of the given density and albedo inside boundary
func NewConstantMedium(boundary Shape, density float64, albedo core.Vec3) *ConstantMedium {
	return NewTexturedConstantMedium(boundary, density, material.NewSolidColor(albedo))
}

// NewTexturedConstantMedium creates a medium whose phase function albedo comes from a texture
func NewTexturedConstantMedium(boundary Shape, density float64, albedo material.ColorSource) *ConstantMedium {
	return &ConstantMedium{
		Boundary:      boundary,
		PhaseFunction: material.NewTexturedIsotropic(albedo),
		negInvDensity: -1.0 / density,
	}
}

// Hit finds where the ray enters and leaves the boundary and scatters somewhere
// in between with exponentially distributed free path length drawn from sampler
func (c *ConstantMedium) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	enter, ok := c.Boundary.Hit(ray, math.Inf(-1), math.Inf(1), sampler)
	if !ok {
		return nil, false
	}
	exit, ok := c.Boundary.Hit(ray, enter.T+0.0001, math.Inf(1), sampler)
	if !ok {
		return nil, false
	}

	t1, t2 := enter.T, exit.T
	if t1 < tMin {
		t1 = tMin
	}
	if t2 > tMax {
		t2 = tMax
	}
	if t1 >= t2 {
		return nil, false
	}
	if t1 < 0 {
		t1 = 0
	}

	rayLength := ray.Direction.Length()
	distanceInsideBoundary := (t2 - t1) * rayLength
	hitDistance := c.negInvDensity * math.Log(1-sampler.Get1D())
	if hitDistance > distanceInsideBoundary {
		return nil, false
	}

	t := t1 + hitDistance/rayLength
	if t <= tMin || t >= tMax {
		return nil, false
	}
	return &material.HitRecord{
		Ray:       ray,
		T:         t,
		Point:     ray.At(t),
		Normal:    core.NewVec3(1, 0, 0), // Arbitrary
		FrontFace: true,
		Material:  c.PhaseFunction,
	}, true
}

// BoundingBox returns the boundary's bounds
func (c *ConstantMedium) BoundingBox() core.AABB {
	return c.Boundary.BoundingBox()
}

// PDFValue delegates to the boundary
func (c *ConstantMedium) PDFValue(origin, direction core.Vec3) float64 {
	return c.Boundary.PDFValue(origin, direction)
}

// Random delegates to the boundary
func (c *ConstantMedium) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return c.Boundary.Random(origin, sampler)
}
