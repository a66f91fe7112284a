package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns an inverted box that any Grow call will replace
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: NewVec3(inf, inf, inf),
		Max: NewVec3(-inf, -inf, -inf),
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	box := EmptyAABB()
	for _, point := range points {
		box = box.Grow(point)
	}
	return box
}

// Grow returns the box extended to contain point
func (aabb AABB) Grow(point Vec3) AABB {
	return AABB{Min: aabb.Min.Min(point), Max: aabb.Max.Max(point)}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{Min: aabb.Min.Min(other.Min), Max: aabb.Max.Max(other.Max)}
}

// Hit tests if a ray intersects with this AABB using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	_, ok := aabb.slabs(ray, tMin, tMax)
	return ok
}

// HitDistance returns the entry distance of the ray into the box.
// The box is rejected when it lies entirely behind tMin or starts beyond closest.
func (aabb AABB) HitDistance(ray Ray, tMin, closest float64) (float64, bool) {
	near, ok := aabb.slabs(ray, math.Inf(-1), math.Inf(1))
	if !ok {
		return 0, false
	}
	far := aabb.exit(ray)
	if far <= tMin || near >= closest {
		return 0, false
	}
	return near, true
}

// slabs clips [tMin, tMax] against the three slabs and returns the entry distance
func (aabb AABB) slabs(ray Ray, tMin, tMax float64) (float64, bool) {
	for axis := 0; axis < 3; axis++ {
		min := aabb.Min.Axis(axis)
		max := aabb.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// Ray parallel to this slab
		if math.Abs(direction) < 1e-12 {
			if origin < min || origin > max {
				return 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (min - origin) * invDirection
		t2 := (max - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}

// exit returns the distance at which the ray leaves the box
func (aabb AABB) exit(ray Ray) float64 {
	far := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		direction := ray.Direction.Axis(axis)
		if math.Abs(direction) < 1e-12 {
			continue
		}
		invDirection := 1.0 / direction
		t1 := (aabb.Min.Axis(axis) - ray.Origin.Axis(axis)) * invDirection
		t2 := (aabb.Max.Axis(axis) - ray.Origin.Axis(axis)) * invDirection
		far = math.Min(far, math.Max(t1, t2))
	}
	return far
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB, zero for an empty box
func (aabb AABB) SurfaceArea() float64 {
	if !aabb.IsValid() {
		return 0
	}
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := Splat(amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
