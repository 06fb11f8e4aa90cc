package core

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec3
}

// NewAABB creates an AABB from two corner points, normalizing min/max per axis.
func NewAABB(a, b Vec3) AABB {
	return AABB{
		Min: Vec3{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: Vec3{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// Union returns the smallest AABB containing both boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y), Z: math.Min(b.Min.Z, other.Min.Z)},
		Max: Vec3{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y), Z: math.Max(b.Max.Z, other.Max.Z)},
	}
}

// Include grows the box to also contain p.
func (b AABB) Include(p Vec3) AABB {
	return b.Union(AABB{Min: p, Max: p})
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Multiply(0.5)
}

// Diagonal returns Max - Min.
func (b AABB) Diagonal() Vec3 {
	return b.Max.Subtract(b.Min)
}

// Axis identifies one of the three coordinate axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Component returns v's coordinate along axis.
func (a Axis) Component(v Vec3) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// LargestAxis returns the axis with the greatest extent, used by both the
// shape BVH and the point k-d tree to choose a balanced split axis.
func (b AABB) LargestAxis() Axis {
	d := b.Diagonal()
	if d.X > d.Y && d.X > d.Z {
		return AxisX
	}
	if d.Y > d.Z {
		return AxisY
	}
	return AxisZ
}

// Hit tests whether the ray intersects the box within [tMin, tMax], using the
// slab method with a reciprocal-direction fast path.
func (b AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := AxisX; axis <= AxisZ; axis++ {
		invD := 1.0 / axis.Component(ray.Direction)
		t0 := (axis.Component(b.Min) - axis.Component(ray.Origin)) * invD
		t1 := (axis.Component(b.Max) - axis.Component(ray.Origin)) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMax <= tMin {
			return false
		}
	}
	return true
}

// SurfaceArea returns the surface area of the box, or 0 for an inverted box.
func (b AABB) SurfaceArea() float64 {
	d := b.Diagonal()
	if d.X < 0 || d.Y < 0 || d.Z < 0 {
		return 0
	}
	return 2 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}
