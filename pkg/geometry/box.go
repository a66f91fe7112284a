package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// NewBox creates an axis-aligned box spanning two opposite corners as a
// 12-triangle mesh with outward-facing windings
func NewBox(a, b core.Vec3, material material.Material) *TriangleMesh {
	lo := a.Min(b)
	hi := a.Max(b)

	// Define the 8 corners
	corners := [8]core.Vec3{
		core.NewVec3(lo.X, lo.Y, lo.Z), // 0: left-bottom-back
		core.NewVec3(hi.X, lo.Y, lo.Z), // 1: right-bottom-back
		core.NewVec3(hi.X, hi.Y, lo.Z), // 2: right-top-back
		core.NewVec3(lo.X, hi.Y, lo.Z), // 3: left-top-back
		core.NewVec3(lo.X, lo.Y, hi.Z), // 4: left-bottom-front
		core.NewVec3(hi.X, lo.Y, hi.Z), // 5: right-bottom-front
		core.NewVec3(hi.X, hi.Y, hi.Z), // 6: right-top-front
		core.NewVec3(lo.X, hi.Y, hi.Z), // 7: left-top-front
	}

	// Each face is listed counter-clockwise when seen from outside
	faces := [6][4]int{
		{4, 5, 6, 7}, // Front (Z+)
		{1, 0, 3, 2}, // Back (Z-)
		{0, 4, 7, 3}, // Left (X-)
		{5, 1, 2, 6}, // Right (X+)
		{7, 6, 2, 3}, // Top (Y+)
		{0, 1, 5, 4}, // Bottom (Y-)
	}

	triangles := make([]Triangle, 0, 12)
	for _, f := range faces {
		triangles = append(triangles,
			*NewTriangle(corners[f[0]], corners[f[1]], corners[f[2]], material),
			*NewTriangle(corners[f[0]], corners[f[2]], corners[f[3]], material),
		)
	}

	return NewTriangleMeshFromTriangles(triangles)
}
