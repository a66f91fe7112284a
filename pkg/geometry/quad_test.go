package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestQuad_HalfOpenEdges(t *testing.T) {
	// Unit quad in the XY plane at z=0
	quad := NewQuad(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)
	down := core.NewVec3(0, 0, -1)

	tests := []struct {
		name      string
		x, y      float64
		expectHit bool
	}{
		{"center", 0.5, 0.5, true},
		{"origin corner included", 0, 0, true},
		{"lower u edge included", 0, 0.5, true},
		{"upper u edge excluded", 1, 0.5, false},
		{"upper v edge excluded", 0.5, 1, false},
		{"outside", 1.5, 0.5, false},
		{"negative", -0.01, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(tt.x, tt.y, 1), down)
			hit, ok := quad.Hit(ray, 0.001, math.Inf(1), nil)
			if ok != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, ok)
			}
			if ok && (math.Abs(hit.UV.X-tt.x) > 1e-9 || math.Abs(hit.UV.Y-tt.y) > 1e-9) {
				t.Errorf("Expected UV (%f,%f), got %v", tt.x, tt.y, hit.UV)
			}
		})
	}
}

func TestQuad_ParallelRayMisses(t *testing.T) {
	quad := NewQuad(core.Vec3{}, core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)
	ray := core.NewRay(core.NewVec3(0.5, 0.5, 0), core.NewVec3(1, 0, 0))
	if _, ok := quad.Hit(ray, 0.001, math.Inf(1), nil); ok {
		t.Error("Expected parallel ray to miss")
	}
}

func TestQuad_Area(t *testing.T) {
	quad := NewQuad(core.Vec3{}, core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 3), nil)
	if math.Abs(quad.Area-6) > 1e-12 {
		t.Errorf("Expected area 6, got %f", quad.Area)
	}
}

func TestQuad_SolidAngleIntegratesToOne(t *testing.T) {
	// The density of directions toward a quad integrates to one over the sphere
	quad := NewQuad(core.NewVec3(-1, 3, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), nil)
	origin := core.Vec3{}
	sampler := core.NewSeededSampler(11)

	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += quad.PDFValue(origin, core.RandomUnitVector(sampler))
	}
	integral := sum * 4 * math.Pi / n
	if math.Abs(integral-1) > 0.05 {
		t.Errorf("Expected integral ≈ 1, got %f", integral)
	}

	// Sampled directions always land on the quad
	for i := 0; i < 1000; i++ {
		d := quad.Random(origin, sampler)
		if quad.PDFValue(origin, d) <= 0 {
			t.Fatalf("Sampled direction %v misses the quad", d)
		}
	}
}
