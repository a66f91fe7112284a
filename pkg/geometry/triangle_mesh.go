package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// TriangleMesh represents a collection of triangles with efficient ray intersection.
// It owns a flat SAH BVH that is rebuilt whenever the mesh is transformed.
type TriangleMesh struct {
	triangles []Triangle
	bvh       meshBVH
}

// NewTriangleMesh creates a new triangle mesh from vertices and face indices
// vertices: array of 3D points
// faces: array of triangle indices (each group of 3 indices forms a triangle)
// material: material for all triangles
func NewTriangleMesh(vertices []core.Vec3, faces []int, material material.Material) (*TriangleMesh, error) {
	if len(faces)%3 != 0 {
		return nil, fmt.Errorf("face indices must be a multiple of 3, got %d", len(faces))
	}

	triangles := make([]Triangle, len(faces)/3)
	for i := range triangles {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, index := range [3]int{i0, i1, i2} {
			if index < 0 || index >= len(vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of bounds (%d vertices)", i, index, len(vertices))
			}
		}
		triangles[i] = *NewTriangle(vertices[i0], vertices[i1], vertices[i2], material)
	}

	return NewTriangleMeshFromTriangles(triangles), nil
}

// NewTriangleMeshFromTriangles builds a mesh that takes ownership of triangles
func NewTriangleMeshFromTriangles(triangles []Triangle) *TriangleMesh {
	mesh := &TriangleMesh{triangles: triangles}
	mesh.bvh.build(mesh.triangles)
	return mesh
}

// Hit returns the closest triangle hit found by traversing the BVH
func (tm *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	return tm.bvh.hit(tm.triangles, ray, tMin, tMax, sampler)
}

// hitLinear tests every triangle without the BVH
func (tm *TriangleMesh) hitLinear(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestT := tMax
	for i := range tm.triangles {
		if hit, ok := tm.triangles[i].Hit(ray, tMin, closestT, sampler); ok {
			closest = hit
			closestT = hit.T
		}
	}
	return closest, closest != nil
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	if len(tm.bvh.nodes) == 0 {
		return core.EmptyAABB()
	}
	return tm.bvh.nodes[0].bounds
}

// PDFValue averages the triangles' densities
func (tm *TriangleMesh) PDFValue(origin, direction core.Vec3) float64 {
	if len(tm.triangles) == 0 {
		return 0
	}
	sum := 0.0
	for i := range tm.triangles {
		sum += tm.triangles[i].PDFValue(origin, direction)
	}
	return sum / float64(len(tm.triangles))
}

// Random picks a triangle uniformly and samples a direction toward it
func (tm *TriangleMesh) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	if len(tm.triangles) == 0 {
		return core.NewVec3(0, 1, 0)
	}
	i := int(sampler.Get1D() * float64(len(tm.triangles)))
	if i >= len(tm.triangles) {
		i = len(tm.triangles) - 1
	}
	return tm.triangles[i].Random(origin, sampler)
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// Triangles returns the mesh triangles in their original order
func (tm *TriangleMesh) Triangles() []Triangle {
	return tm.triangles
}

// NodeCount returns how many BVH nodes the last build used
func (tm *TriangleMesh) NodeCount() int {
	return tm.bvh.nodesUsed
}

// Transforms applies the matrices in order and rebuilds the BVH once
func (tm *TriangleMesh) Transforms(matrices ...core.Mat4) *TriangleMesh {
	combined := core.Identity()
	for _, m := range matrices {
		combined = m.Mul(combined)
	}
	return tm.Transform(combined)
}

// Transform applies m to every vertex and rebuilds the BVH
func (tm *TriangleMesh) Transform(m core.Mat4) *TriangleMesh {
	for i := range tm.triangles {
		tm.triangles[i].Transform(m)
	}
	tm.bvh.build(tm.triangles)
	return tm
}

// Scale scales the mesh about the origin
func (tm *TriangleMesh) Scale(s core.Vec3) *TriangleMesh {
	return tm.Transform(core.ScaleMatrix(s))
}

// RotateY rotates the mesh about the Y axis by degrees
func (tm *TriangleMesh) RotateY(degrees float64) *TriangleMesh {
	return tm.Transform(core.RotationYMatrix(degrees))
}

// Translate moves the mesh by offset
func (tm *TriangleMesh) Translate(offset core.Vec3) *TriangleMesh {
	return tm.Transform(core.TranslationMatrix(offset))
}

// Center returns the centroid of the mesh bounds
func (tm *TriangleMesh) Center() core.Vec3 {
	box := tm.BoundingBox()
	if !box.IsValid() {
		return core.Vec3{}
	}
	return box.Center()
}

// MeshStats summarizes the shape of the mesh BVH
type MeshStats struct {
	Triangles  int
	Nodes      int
	Leaves     int
	MaxDepth   int
	MaxLeaf    int
	AvgLeaf    float64
	SAHCost   float64
}

// Stats walks the BVH and reports its structure
func (tm *TriangleMesh) Stats() MeshStats {
	stats := MeshStats{Triangles: len(tm.triangles), Nodes: tm.bvh.nodesUsed}
	if len(tm.bvh.nodes) == 0 {
		return stats
	}
	tm.bvh.collectStats(0, 1, &stats)
	if stats.Leaves > 0 {
		stats.AvgLeaf = float64(stats.Triangles) / float64(stats.Leaves)
	}
	if rootArea := tm.bvh.nodes[0].bounds.SurfaceArea(); rootArea > 0 {
		stats.SAHCost /= rootArea
	} else {
		stats.SAHCost = math.NaN()
	}
	return stats
}
