package camera

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func near(a, b core.Vec3) bool {
	return a.Subtract(b).Length() < 1e-9
}

func TestCamera_Defaults(t *testing.T) {
	c := NewCamera(DefaultConfig())
	if c.Height() != 720 || c.Width() != 1280 {
		t.Errorf("Expected 1280x720, got %dx%d", c.Width(), c.Height())
	}
	if !near(c.Forward(), core.NewVec3(0, 0, -1)) {
		t.Errorf("Expected forward -Z, got %v", c.Forward())
	}
}

func TestCamera_GetRay_CenterAndCorners(t *testing.T) {
	config := DefaultConfig()
	config.ImageHeight = 100
	config.AspectRatio = 1
	c := NewCamera(config)
	sampler := core.NewSeededSampler(1)

	// Default viewport: height 2·tan(45°)·1 = 2, so corners sit at (±1, ±1, -1)
	tests := []struct {
		name string
		u, v float64
		want core.Vec3
	}{
		{"center", 50, 50, core.NewVec3(0, 0, -1).Normalize()},
		{"upper left", 0, 0, core.NewVec3(-1, 1, -1).Normalize()},
		{"lower right", 100, 100, core.NewVec3(1, -1, -1).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := c.GetRay(tt.u, tt.v, sampler)
			if !near(ray.Origin, core.Vec3{}) {
				t.Errorf("Pinhole ray should start at the camera, got %v", ray.Origin)
			}
			if !near(ray.Direction, tt.want) {
				t.Errorf("Expected direction %v, got %v", tt.want, ray.Direction)
			}
			if ray.Time < 0 || ray.Time >= 1 {
				t.Errorf("Expected time in [0,1), got %f", ray.Time)
			}
		})
	}
}

func TestCamera_FieldOfView(t *testing.T) {
	config := DefaultConfig()
	config.ImageHeight = 100
	config.AspectRatio = 1
	config.VFov = 60
	c := NewCamera(config)

	top := c.GetRay(50, 0, core.NewSeededSampler(1))
	angle := math.Acos(top.Direction.Dot(c.Forward())) * 180 / math.Pi

	// The top edge sits half the vertical field of view above the axis
	expected := 30.0
	if math.Abs(angle-expected) > 1e-6 {
		t.Errorf("Expected top edge at %f degrees, got %f", expected, angle)
	}
}

func TestCamera_Defocus(t *testing.T) {
	config := DefaultConfig()
	config.ImageHeight = 100
	config.FocusDistance = 4
	config.DefocusAngle = 10
	c := NewCamera(config)
	sampler := core.NewSeededSampler(2)

	radius := 4 * math.Tan(5*math.Pi/180)
	focusPoint := core.NewVec3(0, 0, -4)
	moved := false
	for i := 0; i < 200; i++ {
		ray := c.GetRay(float64(c.Width())/2, 50, sampler)
		if ray.Origin.Length() > radius+1e-9 {
			t.Fatalf("Lens sample %v outside radius %f", ray.Origin, radius)
		}
		if ray.Origin.Length() > 1e-6 {
			moved = true
		}
		// Every lens ray converges on the same point of the focus plane
		distance := focusPoint.Subtract(ray.Origin).Length()
		if ray.At(distance).Subtract(focusPoint).Length() > 1e-6 {
			t.Fatalf("Expected ray from %v to pass through %v", ray.Origin, focusPoint)
		}
	}
	if !moved {
		t.Error("Expected defocus to jitter the ray origin")
	}
}

func TestCamera_Change(t *testing.T) {
	c := NewCamera(DefaultConfig())
	c.Change(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	ray := c.GetRay(float64(c.Width())/2, float64(c.Height())/2, core.NewSeededSampler(1))
	if !near(ray.Origin, core.NewVec3(0, 0, 5)) {
		t.Errorf("Expected origin to move, got %v", ray.Origin)
	}
	if !near(ray.Direction, core.NewVec3(0, 0, -1)) {
		t.Errorf("Expected center ray toward the target, got %v", ray.Direction)
	}
}

func TestMergeConfig(t *testing.T) {
	merged := MergeConfig(DefaultConfig(), Config{VFov: 40, Center: core.NewVec3(1, 2, 3)})
	if merged.VFov != 40 || !near(merged.Center, core.NewVec3(1, 2, 3)) {
		t.Errorf("Expected overrides applied, got %+v", merged)
	}
	if merged.ImageHeight != 720 || merged.AspectRatio != 16.0/9.0 {
		t.Errorf("Expected defaults kept, got %+v", merged)
	}
}
