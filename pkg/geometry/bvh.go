package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode represents a node in the world Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Multiple shapes for leaf nodes (nil for internal nodes)
}

// BVH is a pointer-based hierarchy over whole shapes. Shapes with infinite
// bounds (unbounded planes) are kept aside and tested linearly.
type BVH struct {
	Root      *BVHNode
	unbounded []Shape
	shapes    []Shape
}

// Leaf threshold: if we have this many or fewer shapes, store them in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	bvh := &BVH{shapes: shapes}

	var bounded []Shape
	for _, shape := range shapes {
		if isUnbounded(shape.BoundingBox()) {
			bvh.unbounded = append(bvh.unbounded, shape)
		} else {
			bounded = append(bounded, shape)
		}
	}

	if len(bounded) > 0 {
		bvh.Root = buildBVH(bounded)
	}
	return bvh
}

func isUnbounded(box core.AABB) bool {
	size := box.Size()
	return math.IsInf(size.X, 0) || math.IsInf(size.Y, 0) || math.IsInf(size.Z, 0)
}

// buildBVH recursively builds the BVH using median splits along the longest axis
func buildBVH(shapes []Shape) *BVHNode {
	boundingBox := shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		boundingBox = boundingBox.Union(shape.BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	axis := boundingBox.LongestAxis()
	lo, hi := boundingBox.Min.Axis(axis), boundingBox.Max.Axis(axis)
	if hi <= lo {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}
	splitPos := (lo + hi) * 0.5

	var leftShapes, rightShapes []Shape
	for _, shape := range shapes {
		if shape.BoundingBox().Center().Axis(axis) < splitPos {
			leftShapes = append(leftShapes, shape)
		} else {
			rightShapes = append(rightShapes, shape)
		}
	}

	// Ensure we don't create empty partitions
	if len(leftShapes) == 0 || len(rightShapes) == 0 {
		return &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(leftShapes),
		Right:       buildBVH(rightShapes),
	}
}

// Hit tests if a ray intersects any shape in the BVH
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax

	for _, shape := range bvh.unbounded {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar, sampler); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}

	if bvh.Root != nil {
		if hit, ok := bvh.hitNode(bvh.Root, ray, tMin, closestSoFar, sampler); ok {
			closest = hit
		}
	}

	return closest, closest != nil
}

// hitNode recursively tests ray intersection with BVH nodes
func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	if _, ok := node.BoundingBox.HitDistance(ray, tMin, tMax); !ok {
		return nil, false
	}

	if node.Shapes != nil {
		var closest *material.HitRecord
		closestSoFar := tMax
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray, tMin, closestSoFar, sampler); ok {
				closest = hit
				closestSoFar = hit.T
			}
		}
		return closest, closest != nil
	}

	leftHit, hitLeft := bvh.hitNode(node.Left, ray, tMin, tMax, sampler)
	closestSoFar := tMax
	if hitLeft {
		closestSoFar = leftHit.T
	}
	if rightHit, hitRight := bvh.hitNode(node.Right, ray, tMin, closestSoFar, sampler); hitRight {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the bounds of every shape, infinite if any is unbounded
func (bvh *BVH) BoundingBox() core.AABB {
	box := core.EmptyAABB()
	for _, shape := range bvh.shapes {
		box = box.Union(shape.BoundingBox())
	}
	return box
}

// PDFValue averages member densities
func (bvh *BVH) PDFValue(origin, direction core.Vec3) float64 {
	return averagePDF(bvh.shapes, origin, direction)
}

// Random samples a uniformly chosen member
func (bvh *BVH) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return randomMember(bvh.shapes, origin, sampler)
}

// BVHStats describes the shape of the world hierarchy
type BVHStats struct {
	Shapes      int
	Unbounded   int
	Nodes       int
	Leaves      int
	MaxDepth    int
	MaxLeafSize int
}

// Stats walks the hierarchy and reports its structure
func (bvh *BVH) Stats() BVHStats {
	stats := BVHStats{Shapes: len(bvh.shapes), Unbounded: len(bvh.unbounded)}
	if bvh.Root != nil {
		collectStats(bvh.Root, 1, &stats)
	}
	return stats
}

func collectStats(node *BVHNode, depth int, stats *BVHStats) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	if node.Shapes != nil {
		stats.Leaves++
		if len(node.Shapes) > stats.MaxLeafSize {
			stats.MaxLeafSize = len(node.Shapes)
		}
		return
	}
	collectStats(node.Left, depth+1, stats)
	collectStats(node.Right, depth+1, stats)
}
