package integrator

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Hits closer than this are treated as self-intersection
const shadowEpsilon = 0.001

// PathTracer implements unidirectional path tracing with optional light importance sampling
type PathTracer struct {
	maxDepth int
}

// NewPathTracer creates a path tracer that follows at most config.MaxDepth segments
func NewPathTracer(config scene.SamplingConfig) *PathTracer {
	return &PathTracer{maxDepth: config.MaxDepth}
}

// MaxDepth returns the recursion limit
func (pt *PathTracer) MaxDepth() int {
	return pt.maxDepth
}

// RayColor computes the color for a single camera ray. The scene must be preprocessed.
func (pt *PathTracer) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler) core.Vec3 {
	return pt.rayColor(ray, s, pt.maxDepth, sampler)
}

func (pt *PathTracer) rayColor(ray core.Ray, s *scene.Scene, depth int, sampler core.Sampler) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := s.Hit(ray, shadowEpsilon, math.Inf(1), sampler)
	if !isHit {
		return s.Background.Evaluate(ray.Direction)
	}

	scatter, didScatter := hit.Material.Scatter(hit, sampler)
	if !didScatter {
		return hit.Material.Emitted(hit)
	}

	// Pure material sampling: no light to aim for, or a delta lobe that cannot be mixed
	if s.Light == nil || scatter.IsSpecular() {
		return scatter.Attenuation.MultiplyVec(pt.rayColor(scatter.Scattered, s, depth-1, sampler))
	}

	return pt.sampleMixture(hit, scatter, s, depth, sampler)
}

// sampleMixture draws the next direction from an even mixture of the light and
// material densities and weights the recursive estimate by their ratio
func (pt *PathTracer) sampleMixture(hit *material.HitRecord, scatter material.ScatterResult, s *scene.Scene, depth int, sampler core.Sampler) core.Vec3 {
	mixture := pdf.NewMixture(pdf.NewHittable(s.Light, hit.Point), scatter.PDF)

	scattered := core.NewRayAt(hit.Point, mixture.Generate(sampler), hit.Ray.Time)
	density := mixture.Value(scattered.Direction)
	if density <= 0 || math.IsNaN(density) {
		return core.Vec3{}
	}

	weight := hit.Material.ScatteringPDF(hit, scattered) / density
	incoming := pt.rayColor(scattered, s, depth-1, sampler)
	return scatter.Attenuation.MultiplyVec(incoming).Multiply(weight)
}
