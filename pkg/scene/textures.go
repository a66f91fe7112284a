package scene

import (
	"fmt"
	"path/filepath"

	"github.com/df07/go-pathtracer/pkg/camera"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

func loadBackground(location string) (Background, error) {
	image, err := loaders.LoadImage(location)
	if err != nil {
		return Background{}, fmt.Errorf("background: %w", err)
	}
	return Background{Color: DefaultSky, Image: image}, nil
}

// NewPerlinScene creates a marble sphere resting on a marble ground plane
func NewPerlinScene(opts Options) (*Scene, error) {
	config := camera.DefaultConfig()
	config.Center = core.NewVec3(13, 2, 3)
	config.LookAt = core.NewVec3(0, 0, 0)
	config.VFov = 20
	s := New(camera.MergeConfig(config, opts.Camera))

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, opts.random()))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
		geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), marble),
	)
	return s, nil
}

// NewSimpleLightScene lights the marble scene with a quad and a sphere lamp in the dark
func NewSimpleLightScene(opts Options) (*Scene, error) {
	config := camera.DefaultConfig()
	config.Center = core.NewVec3(26, 3, 6)
	config.LookAt = core.NewVec3(0, 2, 0)
	config.VFov = 20
	s := New(camera.MergeConfig(config, opts.Camera))
	s.Background = Background{Color: core.Vec3{}}

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, opts.random()))
	lamp := material.NewDiffuseLight(core.Splat(4))

	panel := geometry.NewQuad(core.NewVec3(3, 1, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), lamp)
	bulb := geometry.NewSphere(core.NewVec3(0, 7, 0), 2, lamp)
	s.Add(
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
		geometry.NewPlane(core.Vec3{}, core.NewVec3(0, 1, 0), marble),
		panel,
		bulb,
	)
	s.Light = geometry.NewList(panel, bulb)
	return s, nil
}

// NewEarthScene wraps an equirectangular earth map around a sphere.
// It fails when the texture is missing from the asset directory.
func NewEarthScene(opts Options) (*Scene, error) {
	s := New(camera.MergeConfig(camera.DefaultConfig(), opts.Camera))

	location := opts.EarthTexture
	if location == "" {
		location = filepath.Join(opts.AssetDir, "earthmap.jpg")
	}
	image, err := loaders.LoadImage(location)
	if err != nil {
		return nil, fmt.Errorf("earth texture: %w", err)
	}

	globe := material.NewTexturedLambertian(image.Linearize().Texture())
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, globe))
	return s, nil
}

// NewQuadsScene creates five coloured quads facing the camera from different sides
func NewQuadsScene(opts Options) (*Scene, error) {
	config := camera.DefaultConfig()
	config.AspectRatio = 1
	config.Center = core.NewVec3(0, 0, 9)
	config.LookAt = core.NewVec3(0, 0, 0)
	config.VFov = 80
	s := New(camera.MergeConfig(config, opts.Camera))

	s.Add(
		geometry.NewQuad(core.NewVec3(-3, -2, 5), core.NewVec3(0, 0, -4), core.NewVec3(0, 4, 0), material.NewLambertian(core.NewVec3(1, 0.2, 0.2))),
		geometry.NewQuad(core.NewVec3(-2, -2, 0), core.NewVec3(4, 0, 0), core.NewVec3(0, 4, 0), material.NewLambertian(core.NewVec3(0.2, 1, 0.2))),
		geometry.NewQuad(core.NewVec3(3, -2, 1), core.NewVec3(0, 0, 4), core.NewVec3(0, 4, 0), material.NewLambertian(core.NewVec3(0.2, 0.2, 1))),
		geometry.NewQuad(core.NewVec3(-2, 3, 1), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, 4), material.NewLambertian(core.NewVec3(1, 0.5, 0))),
		geometry.NewQuad(core.NewVec3(-2, -3, 5), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, -4), material.NewLambertian(core.NewVec3(0.2, 0.8, 0.8))),
	)
	return s, nil
}
