package pdf

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

// coneTarget stands in for a light: a cone of directions about +Y
type coneTarget struct {
	cosMax float64
}

func (c coneTarget) PDFValue(origin, direction core.Vec3) float64 {
	if direction.Normalize().Y < c.cosMax {
		return 0
	}
	return 1.0 / (2 * math.Pi * (1 - c.cosMax))
}

func (c coneTarget) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	basis := core.NewONB(core.NewVec3(0, 1, 0))
	return basis.Transform(core.SampleCone(c.cosMax, sampler.Get2D()))
}

// integrateOverSphere estimates ∫ p(ω) dω by uniform sphere sampling
func integrateOverSphere(p PDF, sampler core.Sampler, n int) float64 {
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += p.Value(core.RandomUnitVector(sampler))
	}
	return sum * 4 * math.Pi / float64(n)
}

func TestCosine_Unbiased(t *testing.T) {
	sampler := core.NewSeededSampler(42)
	normal := core.NewVec3(0.2, 1, -0.4).Normalize()
	p := NewCosine(normal)

	// f(ω) = 3cos²θ/2π integrates to one over the hemisphere
	f := func(d core.Vec3) float64 {
		c := math.Max(0, d.Dot(normal))
		return 3 * c * c / (2 * math.Pi)
	}

	const n = 100000
	sum := 0.0
	for i := 0; i < n; i++ {
		d := p.Generate(sampler)
		sum += f(d) / p.Value(d)
	}

	estimate := sum / n
	if math.Abs(estimate-1) > 0.01 {
		t.Errorf("Expected estimator mean ≈ 1, got %f", estimate)
	}
}

func TestCosine_ZeroBelowSurface(t *testing.T) {
	p := NewCosine(core.NewVec3(0, 0, 1))
	if v := p.Value(core.NewVec3(0, 0, -1)); v != 0 {
		t.Errorf("Expected zero density below the surface, got %f", v)
	}
	if v := p.Value(core.NewVec3(0, 0, 1)); math.Abs(v-1/math.Pi) > 1e-12 {
		t.Errorf("Expected 1/π along the normal, got %f", v)
	}
}

func TestDensities_IntegrateToOne(t *testing.T) {
	cone := coneTarget{cosMax: math.Cos(0.6)}
	tests := []struct {
		name string
		pdf  PDF
	}{
		{"Cosine", NewCosine(core.NewVec3(1, 1, 0))},
		{"Sphere", NewSphere()},
		{"Hittable", NewHittable(cone, core.Vec3{})},
		{"Mixture of cosine and sphere", NewMixture(NewCosine(core.NewVec3(0, 1, 0)), NewSphere())},
		{"Mixture of light and cosine", NewMixture(NewHittable(cone, core.Vec3{}), NewCosine(core.NewVec3(0, 0, 1)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integral := integrateOverSphere(tt.pdf, core.NewSeededSampler(7), 200000)
			if math.Abs(integral-1) > 0.03 {
				t.Errorf("Expected density to integrate to 1, got %f", integral)
			}
		})
	}
}

func TestMixture_SamplesBothComponents(t *testing.T) {
	sampler := core.NewSeededSampler(1)
	cone := coneTarget{cosMax: math.Cos(0.1)}
	m := NewMixture(NewHittable(cone, core.Vec3{}), NewCosine(core.NewVec3(0, 0, 1)))

	inCone := 0
	const n = 10000
	for i := 0; i < n; i++ {
		if m.Generate(sampler).Normalize().Y >= cone.cosMax {
			inCone++
		}
	}

	// Half the draws come from the cone; the cosine lobe rarely lands inside it
	fraction := float64(inCone) / n
	if fraction < 0.45 || fraction > 0.56 {
		t.Errorf("Expected about half of the samples in the cone, got %f", fraction)
	}
}

func TestMixture_ValueIsAverage(t *testing.T) {
	a := NewSphere()
	b := NewCosine(core.NewVec3(0, 1, 0))
	m := NewMixture(a, b)

	d := core.NewVec3(0, 1, 0)
	expected := 0.5*a.Value(d) + 0.5*b.Value(d)
	if math.Abs(m.Value(d)-expected) > 1e-12 {
		t.Errorf("Expected %f, got %f", expected, m.Value(d))
	}
}
