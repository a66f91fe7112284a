package scene

import (
	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Cornell box dimensions (standard 555x555x555 units)
const boxSize = 555.0

func cornellCamera(opts Options) camera.Config {
	config := camera.DefaultConfig()
	config.Center = core.NewVec3(278, 278, -800) // Position camera outside the box looking in
	config.LookAt = core.NewVec3(278, 278, 0)    // Look at the center of the box
	config.AspectRatio = 1.0
	config.VFov = 40.0
	return camera.MergeConfig(config, opts.Camera)
}

// addCornellWalls adds the five walls; floor may be nil for the default white
func addCornellWalls(s *Scene, floor material.Material) {
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewVec3(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewVec3(0.12, 0.45, 0.15))
	if floor == nil {
		floor = white
	}

	s.Add(
		// Right wall (green) - YZ plane at x=boxSize
		geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green),
		// Left wall (red) - YZ plane at x=0
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), red),
		// Floor - XZ plane at y=0
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), floor),
		// Ceiling (white) - XZ plane at y=boxSize
		geometry.NewQuad(core.NewVec3(boxSize, boxSize, boxSize), core.NewVec3(-boxSize, 0, 0), core.NewVec3(0, 0, -boxSize), white),
		// Back wall (white) - XY plane at z=boxSize
		geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, boxSize, 0), white),
	)
}

// unitBox returns a mesh cube spanning [-0.5, 0.5] on every axis
func unitBox(mat material.Material) *geometry.TriangleMesh {
	return geometry.NewBox(core.Splat(-0.5), core.Splat(0.5), mat)
}

// NewCornellScene creates a Cornell box with a glass sphere and a tall rotated block.
// The ceiling light and the sphere are both importance sampled.
func NewCornellScene(opts Options) (*Scene, error) {
	s := New(cornellCamera(opts))
	s.Background = Background{Color: core.Vec3{}}
	s.SamplingConfig.SamplesPerPixel = 1000

	addCornellWalls(s, nil)

	lightCorner := core.NewVec3(343, 554, 332)
	lightU := core.NewVec3(-130, 0, 0)
	lightV := core.NewVec3(0, 0, -105)
	s.Add(geometry.NewQuad(lightCorner, lightU, lightV, material.NewDiffuseLight(core.Splat(15))))

	sphereCenter := core.NewVec3(190, 90, 190)
	s.Add(geometry.NewSphere(sphereCenter, 90, material.NewDielectric(1.5)))

	block := unitBox(material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73)))
	block.Transforms(
		core.ScaleMatrix(core.NewVec3(160, 320, 160)),
		core.RotationYMatrix(15),
		core.TranslationMatrix(core.NewVec3(340, 160, 360)),
	)
	s.Add(block)

	// Sampling targets carry no material; only their geometry matters
	s.Light = geometry.NewList(
		geometry.NewQuad(lightCorner, lightU, lightV, nil),
		geometry.NewSphere(sphereCenter, 90, nil),
	)

	return s, nil
}

// NewCornellSmokeScene creates a Cornell box holding a dark and a light smoke block
func NewCornellSmokeScene(opts Options) (*Scene, error) {
	s := New(cornellCamera(opts))
	s.Background = Background{Color: core.Vec3{}}

	addCornellWalls(s, nil)

	lightCorner := core.NewVec3(113, 554, 127)
	lightU := core.NewVec3(330, 0, 0)
	lightV := core.NewVec3(0, 0, 305)
	s.Add(geometry.NewQuad(lightCorner, lightU, lightV, material.NewDiffuseLight(core.Splat(7))))

	short := unitBox(nil).Transforms(
		core.ScaleMatrix(core.NewVec3(160, 160, 160)),
		core.RotationYMatrix(-15),
		core.TranslationMatrix(core.NewVec3(210, 80, 180)),
	)
	tall := unitBox(nil).Transforms(
		core.ScaleMatrix(core.NewVec3(160, 320, 160)),
		core.RotationYMatrix(15),
		core.TranslationMatrix(core.NewVec3(340, 160, 360)),
	)
	s.Add(
		geometry.NewConstantMedium(short, 0.01, core.Splat(0)),
		geometry.NewConstantMedium(tall, 0.01, core.Splat(1)),
	)

	return s, nil
}
