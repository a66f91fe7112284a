package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Hit returns the closest intersection with t strictly inside (tMin, tMax).
	// Surfaces ignore sampler; volumes draw their scattering distance from it.
	Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool)
	BoundingBox() core.AABB

	// PDFValue is the solid-angle density of hitting the shape from origin along direction.
	// Shapes that cannot be importance sampled return 0.
	PDFValue(origin, direction core.Vec3) float64

	// Random draws a direction from origin toward the shape
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// hitEpsilon offsets the rays cast when evaluating light densities
const hitEpsilon = 0.001

// areaPDF converts an area density of 1/area at a hit into solid angle from origin
func areaPDF(hit *material.HitRecord, direction core.Vec3, area float64) float64 {
	distanceSquared := hit.T * hit.T * direction.LengthSquared()
	cosine := direction.Normalize().Dot(hit.Normal)
	if cosine < 0 {
		cosine = -cosine
	}
	if cosine < 1e-8 || area <= 0 {
		return 0
	}
	return distanceSquared / (cosine * area)
}
