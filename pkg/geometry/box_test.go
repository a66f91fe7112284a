package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestBox_OutwardNormals(t *testing.T) {
	box := NewBox(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1), nil)
	if box.TriangleCount() != 12 {
		t.Fatalf("Expected 12 triangles, got %d", box.TriangleCount())
	}

	tests := []struct {
		name   string
		origin core.Vec3
		normal core.Vec3
	}{
		{"+X", core.NewVec3(5, 0.1, 0.2), core.NewVec3(1, 0, 0)},
		{"-X", core.NewVec3(-5, 0.1, 0.2), core.NewVec3(-1, 0, 0)},
		{"+Y", core.NewVec3(0.1, 5, 0.2), core.NewVec3(0, 1, 0)},
		{"-Y", core.NewVec3(0.1, -5, 0.2), core.NewVec3(0, -1, 0)},
		{"+Z", core.NewVec3(0.1, 0.2, 5), core.NewVec3(0, 0, 1)},
		{"-Z", core.NewVec3(0.1, 0.2, -5), core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, tt.origin.Negate())
			hit, ok := box.Hit(ray, 0.001, math.Inf(1), nil)
			if !ok {
				t.Fatal("Expected hit")
			}
			if !hit.FrontFace {
				t.Error("Expected outside hits to be front facing")
			}
			if hit.Normal.Subtract(tt.normal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.normal, hit.Normal)
			}
			if math.Abs(hit.T-0.8) > 1e-9 {
				t.Errorf("Expected t=0.8, got %f", hit.T)
			}
		})
	}
}

func TestBox_CornerOrder(t *testing.T) {
	a := NewBox(core.NewVec3(1, 2, 3), core.NewVec3(-1, -2, -3), nil)
	b := NewBox(core.NewVec3(-1, -2, -3), core.NewVec3(1, 2, 3), nil)
	if a.BoundingBox() != b.BoundingBox() {
		t.Errorf("Expected corner order not to matter: %v vs %v", a.BoundingBox(), b.BoundingBox())
	}
}
