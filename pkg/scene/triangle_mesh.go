package scene

import (
	"path/filepath"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// defaultMesh is looked up in the asset directory when no mesh path is given
const defaultMesh = "dragon.obj"

// NewMeshScene places an OBJ or PLY model inside a Cornell box.
// The model is normalized to a unit height before it is scaled into the box.
func NewMeshScene(opts Options) (*Scene, error) {
	location := opts.MeshPath
	if location == "" {
		location = filepath.Join(opts.AssetDir, defaultMesh)
	}

	mesh, err := loaders.LoadMesh(location, material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73)))
	if err != nil {
		return nil, err
	}

	s := New(cornellCamera(opts))
	s.SamplingConfig.SamplesPerPixel = 200
	s.Background = Background{Color: core.Vec3{}}

	light := geometry.NewQuad(
		core.NewVec3(343, 554, 332),
		core.NewVec3(-130, 0, 0),
		core.NewVec3(0, 0, -105),
		material.NewDiffuseLight(core.Splat(15)),
	)
	addCornellWalls(s, nil)
	s.Add(light)

	s.Add(fitMesh(mesh, 320).Transforms(
		core.RotationYMatrix(-60),
		core.TranslationMatrix(core.NewVec3(278, 160, 278)),
	))
	s.Light = light
	return s, nil
}

// fitMesh centres mesh on the origin and scales it so its tallest side is height
func fitMesh(mesh *geometry.TriangleMesh, height float64) *geometry.TriangleMesh {
	box := mesh.BoundingBox()
	size := box.Size()
	extent := max(size.X, size.Y, size.Z)
	if extent <= 0 {
		return mesh
	}
	return mesh.Transforms(
		core.TranslationMatrix(mesh.Center().Negate()),
		core.ScaleMatrix(core.Splat(height/extent)),
	)
}
