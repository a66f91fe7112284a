package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// List is a flat collection of shapes tested one after another
type List struct {
	Shapes []Shape
}

// NewList creates a list from shapes
func NewList(shapes ...Shape) *List {
	return &List{Shapes: shapes}
}

// Add appends a shape to the list
func (l *List) Add(shape Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Hit returns the closest hit among all shapes
func (l *List) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	var closest *material.HitRecord
	closestSoFar := tMax
	for _, shape := range l.Shapes {
		if hit, ok := shape.Hit(ray, tMin, closestSoFar, sampler); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}
	return closest, closest != nil
}

// BoundingBox returns the union of every member's bounds
func (l *List) BoundingBox() core.AABB {
	box := core.EmptyAABB()
	for _, shape := range l.Shapes {
		box = box.Union(shape.BoundingBox())
	}
	return box
}

// PDFValue averages member densities uniformly
func (l *List) PDFValue(origin, direction core.Vec3) float64 {
	return averagePDF(l.Shapes, origin, direction)
}

// Random samples a uniformly chosen member
func (l *List) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	return randomMember(l.Shapes, origin, sampler)
}

func averagePDF(shapes []Shape, origin, direction core.Vec3) float64 {
	if len(shapes) == 0 {
		return 0
	}
	weight := 1.0 / float64(len(shapes))
	sum := 0.0
	for _, shape := range shapes {
		sum += weight * shape.PDFValue(origin, direction)
	}
	return sum
}

func randomMember(shapes []Shape, origin core.Vec3, sampler core.Sampler) core.Vec3 {
	if len(shapes) == 0 {
		return core.NewVec3(0, 1, 0)
	}
	i := int(sampler.Get1D() * float64(len(shapes)))
	if i >= len(shapes) {
		i = len(shapes) - 1
	}
	return shapes[i].Random(origin, sampler)
}
