package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func randomTriangles(seed int64, n int) []Triangle {
	sampler := core.NewSeededSampler(seed)
	triangles := make([]Triangle, n)
	for i := range triangles {
		center := core.RandomInRange(sampler, -10, 10)
		triangles[i] = *NewTriangle(
			center.Add(core.RandomInRange(sampler, -1, 1)),
			center.Add(core.RandomInRange(sampler, -1, 1)),
			center.Add(core.RandomInRange(sampler, -1, 1)),
			nil,
		)
	}
	return triangles
}

func TestTriangleMesh_Creation(t *testing.T) {
	// Create a simple quad mesh (2 triangles)
	vertices := []core.Vec3{
		core.NewVec3(0, 0, 0), // 0
		core.NewVec3(1, 0, 0), // 1
		core.NewVec3(1, 1, 0), // 2
		core.NewVec3(0, 1, 0), // 3
	}

	faces := []int{
		0, 1, 2, // first triangle
		0, 2, 3, // second triangle
	}

	mesh, err := NewTriangleMesh(vertices, faces, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if mesh.TriangleCount() != 2 {
		t.Errorf("Expected 2 triangles, got %d", mesh.TriangleCount())
	}

	bbox := mesh.BoundingBox()
	if bbox.Min.X > 0 || bbox.Max.X < 1 || bbox.Max.Y < 1 {
		t.Errorf("Bounding box %v does not cover the mesh", bbox)
	}
}

func TestTriangleMesh_InvalidFaces(t *testing.T) {
	vertices := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0)}

	tests := []struct {
		name  string
		faces []int
	}{
		{"not a multiple of three", []int{0, 1}},
		{"index out of range", []int{0, 1, 3}},
		{"negative index", []int{0, -1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTriangleMesh(vertices, tt.faces, nil); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestTriangleMesh_NodeCount(t *testing.T) {
	for _, n := range []int{1, 2, 3, 17, 500} {
		mesh := NewTriangleMeshFromTriangles(randomTriangles(int64(n), n))
		if len(mesh.bvh.nodes) != 2*n-1 {
			t.Errorf("n=%d: expected %d allocated nodes, got %d", n, 2*n-1, len(mesh.bvh.nodes))
		}
		if mesh.NodeCount() > 2*n-1 || mesh.NodeCount()%2 != 1 {
			t.Errorf("n=%d: unexpected used node count %d", n, mesh.NodeCount())
		}

		// Leaves partition the index permutation exactly once
		seen := make([]bool, n)
		for i := 0; i < mesh.NodeCount(); i++ {
			node := mesh.bvh.nodes[i]
			if !node.isLeaf() {
				continue
			}
			for _, index := range mesh.bvh.indices[node.first : node.first+node.count] {
				if seen[index] {
					t.Fatalf("n=%d: triangle %d appears in two leaves", n, index)
				}
				seen[index] = true
			}
		}
		for i, ok := range seen {
			if !ok {
				t.Fatalf("n=%d: triangle %d not reachable from any leaf", n, i)
			}
		}
	}
}

func TestTriangleMesh_BVHMatchesBruteForce(t *testing.T) {
	mesh := NewTriangleMeshFromTriangles(randomTriangles(42, 400))
	sampler := core.NewSeededSampler(7)

	hits := 0
	for i := 0; i < 2000; i++ {
		origin := core.RandomInRange(sampler, -15, 15)
		target := core.RandomInRange(sampler, -10, 10)
		ray := core.NewRay(origin, target.Subtract(origin))

		bvhHit, bvhOk := mesh.Hit(ray, 0.001, math.Inf(1), nil)
		linearHit, linearOk := mesh.hitLinear(ray, 0.001, math.Inf(1), nil)

		if bvhOk != linearOk {
			t.Fatalf("ray %d: BVH hit=%v, brute force hit=%v", i, bvhOk, linearOk)
		}
		if !bvhOk {
			continue
		}
		hits++
		if math.Abs(bvhHit.T-linearHit.T) > 1e-9 {
			t.Fatalf("ray %d: BVH t=%f, brute force t=%f", i, bvhHit.T, linearHit.T)
		}
	}

	if hits < 100 {
		t.Errorf("Expected the test rays to hit the mesh often, got %d hits", hits)
	}
}

func TestTriangleMesh_RespectsInterval(t *testing.T) {
	mesh := NewTriangleMeshFromTriangles(randomTriangles(3, 200))
	sampler := core.NewSeededSampler(8)

	for i := 0; i < 500; i++ {
		origin := core.RandomInRange(sampler, -15, 15)
		ray := core.NewRay(origin, core.RandomUnitVector(sampler))
		tMin, tMax := 0.5, 5.0
		if hit, ok := mesh.Hit(ray, tMin, tMax, nil); ok && (hit.T <= tMin || hit.T >= tMax) {
			t.Fatalf("Hit t=%f outside (%f, %f)", hit.T, tMin, tMax)
		}
	}
}

func TestTriangleMesh_Empty(t *testing.T) {
	mesh := NewTriangleMeshFromTriangles(nil)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	if _, ok := mesh.Hit(ray, 0.001, math.Inf(1), nil); ok {
		t.Error("Expected empty mesh to never be hit")
	}
	if mesh.PDFValue(core.Vec3{}, core.NewVec3(0, 0, -1)) != 0 {
		t.Error("Expected zero density for an empty mesh")
	}
}

func TestTriangleMesh_TransformCommutativity(t *testing.T) {
	scale := core.NewVec3(2, 0.5, 3)
	offset := core.NewVec3(10, -4, 1)

	stepwise := NewTriangleMeshFromTriangles(randomTriangles(12, 50))
	stepwise.Scale(scale).Translate(offset)

	chained := NewTriangleMeshFromTriangles(randomTriangles(12, 50))
	chained.Transforms(core.ScaleMatrix(scale), core.TranslationMatrix(offset))

	combined := NewTriangleMeshFromTriangles(randomTriangles(12, 50))
	combined.Transform(core.TranslationMatrix(offset).Mul(core.ScaleMatrix(scale)))

	near := func(a, b core.Vec3) bool { return a.Subtract(b).Length() < 1e-9 }
	for i := range stepwise.Triangles() {
		s := stepwise.Triangles()[i]
		for _, other := range []*TriangleMesh{chained, combined} {
			o := other.Triangles()[i]
			if !near(s.P1, o.P1) || !near(s.P2, o.P2) || !near(s.P3, o.P3) {
				t.Fatalf("Triangle %d differs: %v vs %v", i, s, o)
			}
			if !near(s.Normal, o.Normal) {
				t.Fatalf("Triangle %d normal differs", i)
			}
		}
	}

	// Same triangles means the same hits
	sampler := core.NewSeededSampler(4)
	for i := 0; i < 200; i++ {
		origin := core.RandomInRange(sampler, -40, 40)
		ray := core.NewRay(origin, offset.Subtract(origin))
		a, aok := stepwise.Hit(ray, 0.001, math.Inf(1), nil)
		b, bok := combined.Hit(ray, 0.001, math.Inf(1), nil)
		if aok != bok || (aok && math.Abs(a.T-b.T) > 1e-9) {
			t.Fatalf("ray %d: hits differ after equivalent transforms", i)
		}
	}
}

func TestTriangleMesh_RotateY(t *testing.T) {
	mesh := NewBox(core.NewVec3(1, 0, -0.5), core.NewVec3(3, 1, 0.5), nil)
	mesh.RotateY(90)

	// A box spanning x in [1,3] rotated 90° about Y spans z in [-3,-1]
	box := mesh.BoundingBox()
	if math.Abs(box.Min.Z+3) > 1e-3 || math.Abs(box.Max.Z+1) > 1e-3 {
		t.Errorf("Unexpected rotated bounds %v", box)
	}
}

func TestTriangleMesh_Stats(t *testing.T) {
	mesh := NewTriangleMeshFromTriangles(randomTriangles(1, 300))
	stats := mesh.Stats()
	if stats.Triangles != 300 || stats.Leaves == 0 || stats.MaxDepth < 2 {
		t.Errorf("Unexpected stats %+v", stats)
	}
	if stats.MaxLeaf > 300 || stats.AvgLeaf <= 0 {
		t.Errorf("Unexpected leaf sizes %+v", stats)
	}
}
