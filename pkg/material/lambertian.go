package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	nonEmissive
	Albedo ColorSource // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with a solid color
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedoTexture ColorSource) *Lambertian {
	return &Lambertian{Albedo: albedoTexture}
}

// Scatter draws a cosine-weighted direction about the normal
func (l *Lambertian) Scatter(hit *HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	density := pdf.NewCosine(hit.Normal)
	direction := density.Generate(sampler)
	if direction.NearZero() {
		direction = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRayAt(hit.Point, direction.Normalize(), hit.Ray.Time),
		Attenuation: l.Albedo.Evaluate(hit.UV, hit.Point),
		PDF:         density,
	}, true
}

// ScatteringPDF returns max(0, cos θ)/π
func (l *Lambertian) ScatteringPDF(hit *HitRecord, scattered core.Ray) float64 {
	cosTheta := hit.Normal.Dot(scattered.Direction.Normalize())
	return math.Max(0, cosTheta) / math.Pi
}
