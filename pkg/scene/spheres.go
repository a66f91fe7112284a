package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

func randomColor(random *rand.Rand, lo, hi float64) core.Vec3 {
	return core.NewVec3(
		lo+(hi-lo)*random.Float64(),
		lo+(hi-lo)*random.Float64(),
		lo+(hi-lo)*random.Float64(),
	)
}

func spheresCamera(opts Options) camera.Config {
	config := camera.DefaultConfig()
	config.Center = core.NewVec3(13, 2, 3)
	config.LookAt = core.NewVec3(0, 0, 0)
	config.VFov = 20
	config.DefocusAngle = 0.6
	config.FocusDistance = 10
	return camera.MergeConfig(config, opts.Camera)
}

// addSphereField scatters small spheres over a 22x22 grid and adds the three
// large feature spheres. When bounce is set, diffuse spheres move upward.
func addSphereField(s *Scene, random *rand.Rand, bounce bool) {
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMat := random.Float64()
			center := core.NewVec3(
				float64(a)+0.9*random.Float64(),
				0.2,
				float64(b)+0.9*random.Float64(),
			)

			switch {
			case chooseMat < 0.8:
				albedo := randomColor(random, 0, 1).MultiplyVec(randomColor(random, 0, 1))
				sphereMaterial := material.NewLambertian(albedo)
				if bounce {
					center2 := center.Add(core.NewVec3(0, 0.5*random.Float64(), 0))
					s.Add(geometry.NewMovingSphere(center, center2, 0.2, sphereMaterial))
				} else {
					s.Add(geometry.NewSphere(center, 0.2, sphereMaterial))
				}
			case chooseMat < 0.95:
				albedo := randomColor(random, 0.5, 1)
				fuzz := 0.5 * random.Float64()
				s.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				s.Add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1.0, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1.0, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1.0, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)
}

// NewSpheresScene creates the random sphere field on a grey ground plane
func NewSpheresScene(opts Options) (*Scene, error) {
	s := New(spheresCamera(opts))
	s.SamplingConfig.SamplesPerPixel = 25

	s.Add(geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), material.NewLambertian(core.Splat(0.5))))
	addSphereField(s, opts.random(), false)
	return s, nil
}

// NewBouncingScene creates the sphere field with motion-blurred diffuse spheres
func NewBouncingScene(opts Options) (*Scene, error) {
	s := New(spheresCamera(opts))

	ground := material.NewTexturedLambertian(material.NewSolidChecker(0.32, core.NewVec3(0.2, 0.3, 0.1), core.Splat(0.9)))
	s.Add(geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), ground))
	addSphereField(s, opts.random(), true)
	return s, nil
}

// NewCheckersScene creates the bouncing sphere field over a checkered metal floor
func NewCheckersScene(opts Options) (*Scene, error) {
	s := New(spheresCamera(opts))
	s.SamplingConfig.SamplesPerPixel = 500

	if opts.BackgroundPath != "" {
		background, err := loadBackground(opts.BackgroundPath)
		if err != nil {
			return nil, err
		}
		s.Background = background
	}

	checker := material.NewSolidChecker(0.32, core.NewVec3(0.2, 0.3, 0.1), core.Splat(0.9))
	s.Add(geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), material.NewTexturedMetal(checker, 0.05)))
	addSphereField(s, opts.random(), true)
	return s, nil
}

// NewDefocusScene creates three spheres, one a hollow glass bubble, seen through a wide lens
func NewDefocusScene(opts Options) (*Scene, error) {
	config := camera.DefaultConfig()
	config.Center = core.NewVec3(-2, 2, 1)
	config.LookAt = core.NewVec3(0, 0, -1)
	config.VFov = 20
	config.DefocusAngle = 10
	config.FocusDistance = 3.4
	s := New(camera.MergeConfig(config, opts.Camera))

	s.Add(
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.4, material.NewDielectric(1.0/1.5)),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewPlane(core.NewVec3(0, -0.5, -1), core.NewVec3(0, 1, 0), material.NewLambertian(core.NewVec3(0.8, 0.8, 0))),
	)
	return s, nil
}

// NewFuzzedMetalScene places a diffuse sphere between a lightly and a heavily fuzzed metal one
func NewFuzzedMetalScene(opts Options) (*Scene, error) {
	s := New(camera.MergeConfig(camera.DefaultConfig(), opts.Camera))

	s.Add(
		geometry.NewPlane(core.NewVec3(0, -0.5, -1), core.NewVec3(0, 1, 0), material.NewLambertian(core.NewVec3(0.8, 0.8, 0))),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.3)),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)),
	)
	return s, nil
}
