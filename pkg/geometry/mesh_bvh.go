package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

const (
	splitCandidates = 8      // Split positions tried per axis
	leafSize        = 2      // Nodes with this many triangles or fewer become leaves
	nodePadding     = 0.0001 // Padding added to every node's bounds
)

// bvhNode is either a leaf (count > 0) referencing indices[first:first+count],
// or an interior node whose children live at nodes[first] and nodes[first+1].
type bvhNode struct {
	bounds core.AABB
	first  int
	count  int
}

func (n *bvhNode) isLeaf() bool {
	return n.count > 0
}

func (n *bvhNode) cost() float64 {
	return float64(n.count) * n.bounds.SurfaceArea()
}

// meshBVH is a flat binary tree over a mesh's triangles. Triangle data is never
// reordered; the build permutes indices instead.
type meshBVH struct {
	nodes     []bvhNode
	indices   []int
	centroids []core.Vec3
	nodesUsed int
}

func (b *meshBVH) build(triangles []Triangle) {
	n := len(triangles)
	if n == 0 {
		*b = meshBVH{}
		return
	}

	b.nodes = make([]bvhNode, 2*n-1)
	b.indices = make([]int, n)
	b.centroids = make([]core.Vec3, n)
	for i := range triangles {
		b.indices[i] = i
		b.centroids[i] = triangles[i].Centroid()
	}

	b.nodes[0] = bvhNode{first: 0, count: n}
	b.nodesUsed = 1
	b.updateBounds(triangles, 0)
	b.subdivide(triangles, 0)
}

func (b *meshBVH) updateBounds(triangles []Triangle, nodeIndex int) {
	node := &b.nodes[nodeIndex]
	bounds := core.EmptyAABB()
	for _, index := range b.indices[node.first : node.first+node.count] {
		t := &triangles[index]
		bounds = bounds.Grow(t.P1).Grow(t.P2).Grow(t.P3)
	}
	node.bounds = bounds.Expand(nodePadding)
}

func (b *meshBVH) subdivide(triangles []Triangle, nodeIndex int) {
	node := b.nodes[nodeIndex]
	if node.count <= leafSize {
		return
	}

	axis, position, cost := b.findBestSplit(triangles, &node)
	if cost >= node.cost() {
		return
	}

	// Two-pointer partition of the index range by centroid
	i := node.first
	j := node.first + node.count - 1
	for i <= j {
		if b.centroids[b.indices[i]].Axis(axis) < position {
			i++
		} else {
			b.indices[i], b.indices[j] = b.indices[j], b.indices[i]
			j--
		}
	}

	leftCount := i - node.first
	if leftCount == 0 || leftCount == node.count {
		return
	}

	left := b.nodesUsed
	right := left + 1
	b.nodesUsed += 2

	b.nodes[left] = bvhNode{first: node.first, count: leftCount}
	b.nodes[right] = bvhNode{first: i, count: node.count - leftCount}
	b.nodes[nodeIndex].first = left
	b.nodes[nodeIndex].count = 0

	b.updateBounds(triangles, left)
	b.updateBounds(triangles, right)
	b.subdivide(triangles, left)
	b.subdivide(triangles, right)
}

// findBestSplit evaluates evenly spaced planes inside the node bounds on each axis
func (b *meshBVH) findBestSplit(triangles []Triangle, node *bvhNode) (axis int, position, cost float64) {
	cost = math.Inf(1)
	for a := 0; a < 3; a++ {
		lo := node.bounds.Min.Axis(a)
		extent := node.bounds.Max.Axis(a) - lo
		if extent <= 0 {
			continue
		}
		step := extent / (splitCandidates + 2)
		for i := 1; i <= splitCandidates; i++ {
			candidate := lo + float64(i)*step
			c, ok := b.evaluateSAH(triangles, node, a, candidate)
			if ok && c < cost {
				axis, position, cost = a, candidate, c
			}
		}
	}
	return axis, position, cost
}

// evaluateSAH returns leftCount·leftArea + rightCount·rightArea for a split plane
func (b *meshBVH) evaluateSAH(triangles []Triangle, node *bvhNode, axis int, position float64) (float64, bool) {
	left, right := core.EmptyAABB(), core.EmptyAABB()
	leftCount, rightCount := 0, 0
	for _, index := range b.indices[node.first : node.first+node.count] {
		t := &triangles[index]
		if b.centroids[index].Axis(axis) < position {
			left = left.Grow(t.P1).Grow(t.P2).Grow(t.P3)
			leftCount++
		} else {
			right = right.Grow(t.P1).Grow(t.P2).Grow(t.P3)
			rightCount++
		}
	}

	cost := float64(leftCount)*left.SurfaceArea() + float64(rightCount)*right.SurfaceArea()
	return cost, cost > 0
}

// hit walks the tree with an explicit stack, visiting the nearer child first
func (b *meshBVH) hit(triangles []Triangle, ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	if len(b.nodes) == 0 {
		return nil, false
	}
	if _, ok := b.nodes[0].bounds.HitDistance(ray, tMin, tMax); !ok {
		return nil, false
	}

	var closest *material.HitRecord
	closestT := tMax

	var stackBuf [64]int
	stack := append(stackBuf[:0], 0)

	for len(stack) > 0 {
		node := &b.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if node.isLeaf() {
			for _, index := range b.indices[node.first : node.first+node.count] {
				if hit, ok := triangles[index].Hit(ray, tMin, closestT, sampler); ok {
					closest = hit
					closestT = hit.T
				}
			}
			continue
		}

		left, right := node.first, node.first+1
		leftT, hitLeft := b.nodes[left].bounds.HitDistance(ray, tMin, closestT)
		rightT, hitRight := b.nodes[right].bounds.HitDistance(ray, tMin, closestT)

		switch {
		case hitLeft && hitRight:
			if leftT > rightT {
				stack = append(stack, left, right)
			} else {
				stack = append(stack, right, left)
			}
		case hitLeft:
			stack = append(stack, left)
		case hitRight:
			stack = append(stack, right)
		}
	}

	return closest, closest != nil
}

func (b *meshBVH) collectStats(nodeIndex, depth int, stats *MeshStats) {
	node := &b.nodes[nodeIndex]
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}
	if node.isLeaf() {
		stats.Leaves++
		if node.count > stats.MaxLeaf {
			stats.MaxLeaf = node.count
		}
		stats.SAHCost += node.cost()
		return
	}
	b.collectStats(node.first, depth+1, stats)
	b.collectStats(node.first+1, depth+1, stats)
}
