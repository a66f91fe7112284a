// Package pdf provides the direction densities used for importance sampling.
package pdf

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PDF can evaluate a density over directions (solid-angle measure) and draw from it
type PDF interface {
	Value(direction core.Vec3) float64
	Generate(sampler core.Sampler) core.Vec3
}

// Target is anything that can be importance sampled from a point, usually a light shape
type Target interface {
	PDFValue(origin, direction core.Vec3) float64
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// Cosine is the cos θ/π density about a surface normal
type Cosine struct {
	basis core.ONB
}

// NewCosine creates a cosine density about normal
func NewCosine(normal core.Vec3) *Cosine {
	return &Cosine{basis: core.NewONB(normal)}
}

// Value returns max(0, cos θ)/π
func (c *Cosine) Value(direction core.Vec3) float64 {
	cosTheta := direction.Normalize().Dot(c.basis.W)
	return math.Max(0, cosTheta/math.Pi)
}

// Generate draws a cosine-weighted direction in the hemisphere about the normal
func (c *Cosine) Generate(sampler core.Sampler) core.Vec3 {
	return c.basis.Transform(core.RandomCosineDirection(sampler))
}

// Sphere is the uniform density over all directions
type Sphere struct{}

// NewSphere creates a uniform sphere density
func NewSphere() *Sphere {
	return &Sphere{}
}

// Value returns 1/4π
func (s *Sphere) Value(direction core.Vec3) float64 {
	return 1.0 / (4.0 * math.Pi)
}

// Generate draws a uniform unit direction
func (s *Sphere) Generate(sampler core.Sampler) core.Vec3 {
	return core.RandomUnitVector(sampler)
}

// Hittable targets a shape as seen from a fixed origin
type Hittable struct {
	target Target
	origin core.Vec3
}

// NewHittable creates a density that samples target from origin
func NewHittable(target Target, origin core.Vec3) *Hittable {
	return &Hittable{target: target, origin: origin}
}

// Value returns the target's solid-angle density toward direction
func (h *Hittable) Value(direction core.Vec3) float64 {
	return h.target.PDFValue(h.origin, direction)
}

// Generate draws a direction from origin toward the target
func (h *Hittable) Generate(sampler core.Sampler) core.Vec3 {
	return h.target.Random(h.origin, sampler)
}

// Mixture blends two densities with equal weight
type Mixture struct {
	first, second PDF
}

// NewMixture creates a 50/50 mixture of first and second
func NewMixture(first, second PDF) *Mixture {
	return &Mixture{first: first, second: second}
}

// Value returns the average of both densities
func (m *Mixture) Value(direction core.Vec3) float64 {
	return 0.5*m.first.Value(direction) + 0.5*m.second.Value(direction)
}

// Generate flips a fair coin to pick which density draws the direction
func (m *Mixture) Generate(sampler core.Sampler) core.Vec3 {
	if sampler.Get1D() < 0.5 {
		return m.first.Generate(sampler)
	}
	return m.second.Generate(sampler)
}
