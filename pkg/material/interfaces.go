package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Material decides how light leaves a surface point
type Material interface {
	// Scatter samples an outgoing ray. It returns false when the path is absorbed.
	Scatter(hit *HitRecord, sampler core.Sampler) (ScatterResult, bool)

	// Emitted returns radiance emitted at the hit point
	Emitted(hit *HitRecord) core.Vec3

	// ScatteringPDF returns the density of the material's own lobe for the scattered ray
	ScatteringPDF(hit *HitRecord, scattered core.Ray) float64
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The sampled outgoing ray
	Attenuation core.Vec3 // Color attenuation
	PDF         pdf.PDF   // Sampling density, nil for delta (specular) lobes
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterResult) IsSpecular() bool {
	return s.PDF == nil
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Ray       core.Ray  // The ray that produced the hit
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, always facing against the ray
	T         float64   // Parameter t along the ray
	UV        core.Vec2 // Surface coordinates for texturing
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}

// NewHitRecord fills in a hit from the ray, distance and outward normal
func NewHitRecord(ray core.Ray, t float64, outwardNormal core.Vec3, mat Material) *HitRecord {
	hit := &HitRecord{
		Ray:      ray,
		T:        t,
		Point:    ray.At(t),
		Material: mat,
	}
	hit.SetFaceNormal(ray, outwardNormal)
	return hit
}

// nonEmissive supplies the zero emission shared by every material except lights
type nonEmissive struct{}

// Emitted returns black
func (nonEmissive) Emitted(hit *HitRecord) core.Vec3 {
	return core.Vec3{}
}
