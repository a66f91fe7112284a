package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Isotropic is the phase function of a participating medium: it scatters uniformly in all directions
type Isotropic struct {
	nonEmissive
	Albedo ColorSource
}

// NewIsotropic creates an isotropic phase function with a solid color
func NewIsotropic(albedo core.Vec3) *Isotropic {
	return &Isotropic{Albedo: NewSolidColor(albedo)}
}

// NewTexturedIsotropic creates an isotropic phase function with a texture
func NewTexturedIsotropic(albedo ColorSource) *Isotropic {
	return &Isotropic{Albedo: albedo}
}

// Scatter picks a uniformly random direction over the whole sphere
func (i *Isotropic) Scatter(hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	density := pdf.NewSphere()
	return ScatterResult{
		Scattered:   core.NewRayAt(hit.Point, density.Generate(sampler), hit.Ray.Time),
		Attenuation: i.Albedo.Evaluate(hit.UV, hit.Point),
		PDF:         density,
	}, true
}

// ScatteringPDF returns the constant 1/4π
func (i *Isotropic) ScatteringPDF(hit *HitRecord, scattered core.Ray) float64 {
	return 1.0 / (4.0 * math.Pi)
}
