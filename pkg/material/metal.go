package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	nonEmissive
	Albedo   ColorSource // Metal color
	Fuzzness float64     // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material with a solid color
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	return NewTexturedMetal(NewSolidColor(albedo), fuzzness)
}

// NewTexturedMetal creates a metal whose tint comes from a texture
func NewTexturedMetal(albedo ColorSource, fuzzness float64) *Metal {
	// Clamp fuzzness to valid range
	if fuzzness > 1.0 {
		fuzzness = 1.0
	}
	if fuzzness < 0.0 {
		fuzzness = 0.0
	}
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}
}

// Scatter reflects the ray about the normal and perturbs it by the fuzz radius
func (m *Metal) Scatter(hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	reflected := hit.Ray.Direction.Normalize().Reflect(hit.Normal)
	if m.Fuzzness > 0 {
		reflected = reflected.Add(core.RandomUnitVector(sampler).Multiply(m.Fuzzness))
	}

	scattered := core.NewRayAt(hit.Point, reflected.Normalize(), hit.Ray.Time)

	// Fuzz can push the ray under the surface; that path is absorbed
	if scattered.Direction.Dot(hit.Normal) <= 0 {
		return ScatterResult{}, false
	}

	return ScatterResult{
		Scattered:   scattered,
		Attenuation: m.Albedo.Evaluate(hit.UV, hit.Point),
	}, true
}

// ScatteringPDF is zero, a mirror lobe is a delta distribution
func (m *Metal) ScatteringPDF(hit *HitRecord, scattered core.Ray) float64 {
	return 0
}
