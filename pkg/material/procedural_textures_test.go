package material

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestChecker_Parity(t *testing.T) {
	even := core.NewVec3(1, 1, 1)
	odd := core.NewVec3(0, 0, 0)
	checker := NewSolidChecker(0.5, even, odd)

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"origin cell", core.NewVec3(0.1, 0.1, 0.1), even},
		{"one step in x", core.NewVec3(0.6, 0.1, 0.1), odd},
		{"two steps", core.NewVec3(0.6, 0.6, 0.1), even},
		{"negative coordinates floor down", core.NewVec3(-0.1, 0.1, 0.1), odd},
		{"three steps", core.NewVec3(0.6, 0.6, 0.6), odd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Evaluate(core.Vec2{}, tt.point); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPerlin_NoiseBounds(t *testing.T) {
	perlin := NewPerlin(rand.New(rand.NewSource(11)))
	sampler := core.NewSeededSampler(5)

	for i := 0; i < 2000; i++ {
		p := core.RandomInRange(sampler, -20, 20)
		n := perlin.Noise(p)
		if math.IsNaN(n) || math.Abs(n) > 1.8 {
			t.Fatalf("Noise out of range at %v: %f", p, n)
		}
		if turb := perlin.Turbulence(p, 7); turb < 0 {
			t.Fatalf("Turbulence should be non-negative, got %f", turb)
		}
	}
}

func TestPerlin_ZeroAtLatticePoints(t *testing.T) {
	p := NewPerlin(rand.New(rand.NewSource(8)))
	for _, point := range []core.Vec3{{}, core.NewVec3(3, -2, 7), core.NewVec3(-5, 5, 1)} {
		if n := p.Noise(point); math.Abs(n) > 1e-12 {
			t.Errorf("Gradient noise should vanish at lattice point %v, got %f", point, n)
		}
	}
}

func TestNoiseTexture_RangeAndDeterminism(t *testing.T) {
	a := NewNoiseTexture(4, rand.New(rand.NewSource(5)))
	b := NewNoiseTexture(4, rand.New(rand.NewSource(5)))
	sampler := core.NewSeededSampler(2)

	for i := 0; i < 500; i++ {
		p := core.RandomInRange(sampler, -10, 10)
		ca := a.Evaluate(core.Vec2{}, p)
		if ca.X < 0 || ca.X > 1 || ca.X != ca.Y || ca.Y != ca.Z {
			t.Fatalf("Noise colour out of range or not grey: %v", ca)
		}
		if cb := b.Evaluate(core.Vec2{}, p); cb != ca {
			t.Fatalf("Same seed should give the same texture: %v vs %v", ca, cb)
		}
	}
}
