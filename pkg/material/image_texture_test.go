package material

import (
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestImageTexture_NearestAndWrap(t *testing.T) {
	// 2x2: red, green / blue, white
	pixels := []float32{
		1, 0, 0, 0, 1, 0,
		0, 0, 1, 1, 1, 1,
	}
	tex := NewImageTexture(2, 2, pixels)

	tests := []struct {
		name     string
		uv       core.Vec2
		expected core.Vec3
	}{
		{"Top left", core.NewVec2(0.1, 0.1), core.NewVec3(1, 0, 0)},
		{"Top right", core.NewVec2(0.9, 0.1), core.NewVec3(0, 1, 0)},
		{"Bottom left", core.NewVec2(0.1, 0.9), core.NewVec3(0, 0, 1)},
		{"Bottom right", core.NewVec2(0.9, 0.9), core.NewVec3(1, 1, 1)},
		{"Wraps past one", core.NewVec2(1.1, 0.1), core.NewVec3(1, 0, 0)},
		{"Exactly one wraps to zero", core.NewVec2(1.0, 1.0), core.NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tex.Evaluate(tt.uv, core.Vec3{}); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
