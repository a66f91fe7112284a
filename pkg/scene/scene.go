package scene

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *camera.Camera
	CameraConfig   camera.Config
	Shapes         []geometry.Shape // Objects in the scene
	Light          geometry.Shape   // Optional shape sampled for direct lighting
	Background     Background
	SamplingConfig SamplingConfig
	World          *geometry.BVH // Acceleration structure built by Preprocess
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Requested rays per pixel, rounded up to a perfect square
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig matches the defaults of a freshly created scene
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50}
}

// Background is what rays that leave the scene see
type Background struct {
	Color core.Vec3          // Used when Image is nil
	Image *loaders.ImageData // Equirectangular environment map
}

// DefaultSky is the background of a scene that sets none
var DefaultSky = core.NewVec3(0.5, 0.7, 1.0)

// Evaluate returns the background radiance seen along direction
func (b Background) Evaluate(direction core.Vec3) core.Vec3 {
	if b.Image == nil || b.Image.Width == 0 || b.Image.Height == 0 {
		return b.Color
	}
	uv := geometry.SphereUV(direction.Normalize())
	x := wrap(int(uv.X*float64(b.Image.Width)), b.Image.Width)
	y := min(max(int(uv.Y*float64(b.Image.Height)), 0), b.Image.Height-1)
	return b.Image.At(x, y)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// New creates an empty scene with the default camera, sky and sampling settings
func New(cameraConfig camera.Config) *Scene {
	return &Scene{
		Camera:         camera.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		Background:     Background{Color: DefaultSky},
		SamplingConfig: DefaultSamplingConfig(),
	}
}

// Add appends shapes to the scene
func (s *Scene) Add(shapes ...geometry.Shape) {
	s.Shapes = append(s.Shapes, shapes...)
}

// Preprocess prepares the scene for rendering by building the world BVH
func (s *Scene) Preprocess() error {
	s.World = geometry.NewBVH(s.Shapes)
	if s.Camera == nil {
		s.Camera = camera.NewCamera(s.CameraConfig)
	}
	return nil
}

// Hit intersects the world BVH; Preprocess must have run
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return s.World.Hit(ray, tMin, tMax, sampler)
}

// PrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) PrimitiveCount() int {
	count := 0
	for _, shape := range s.Shapes {
		count += countPrimitives(shape)
	}
	return count
}

// countPrimitives counts primitives in a single shape, handling complex objects
func countPrimitives(shape geometry.Shape) int {
	switch obj := shape.(type) {
	case *geometry.TriangleMesh:
		return obj.TriangleCount()
	case *geometry.ConstantMedium:
		return countPrimitives(obj.Boundary)
	case *geometry.List:
		count := 0
		for _, member := range obj.Shapes {
			count += countPrimitives(member)
		}
		return count
	default:
		return 1
	}
}

// SetImageSize resizes the output image and rebuilds the camera. A zero
// width keeps the aspect ratio; a zero height derives it from the width.
func (s *Scene) SetImageSize(width, height int) {
	config := s.CameraConfig
	switch {
	case width > 0 && height > 0:
		config.ImageHeight = height
		config.AspectRatio = float64(width) / float64(height)
	case height > 0:
		config.ImageHeight = height
	case width > 0:
		config.ImageHeight = max(1, int(math.Round(float64(width)/config.AspectRatio)))
	default:
		return
	}
	s.CameraConfig = config
	s.Camera = camera.NewCamera(config)
}
