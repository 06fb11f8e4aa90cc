package geometry

import (
	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
)

const leafThreshold = 8

// BVHNode is one node of a bounding volume hierarchy: either an interior
// node with two children, or a leaf holding a handful of shapes tested
// by linear scan.
type BVHNode struct {
	BoundingBox core.AABB
	Left, Right *BVHNode
	Shapes      []Shape
}

// BVH accelerates ray/shape intersection over a fixed shape set.
type BVH struct {
	Root              *BVHNode
	FiniteWorldCenter core.Vec3
	FiniteWorldRadius float64
}

// NewBVH builds a BVH over shapes by splitting each node at the spatial
// midpoint of its bound's longest axis, recursing until a node holds
// leafThreshold shapes or fewer (or a split would leave one side empty).
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{}
	}
	cp := make([]Shape, len(shapes))
	copy(cp, shapes)

	center, radius := finiteWorldBounds(cp)
	return &BVH{
		Root:              buildBVH(cp),
		FiniteWorldCenter: center,
		FiniteWorldRadius: radius,
	}
}

func buildBVH(shapes []Shape) *BVHNode {
	bound := shapes[0].BoundingBox()
	for _, s := range shapes[1:] {
		bound = bound.Union(s.BoundingBox())
	}

	if len(shapes) <= leafThreshold {
		return &BVHNode{BoundingBox: bound, Shapes: shapes}
	}

	axis := bound.LargestAxis()
	min, max := axisExtent(bound, axis)
	if max <= min {
		return &BVHNode{BoundingBox: bound, Shapes: shapes}
	}
	splitPos := (min + max) * 0.5

	var left, right []Shape
	for _, s := range shapes {
		if axis.Component(s.BoundingBox().Center()) < splitPos {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &BVHNode{BoundingBox: bound, Shapes: shapes}
	}

	return &BVHNode{
		BoundingBox: bound,
		Left:        buildBVH(left),
		Right:       buildBVH(right),
	}
}

func axisExtent(b core.AABB, axis core.Axis) (min, max float64) {
	return axis.Component(b.Min), axis.Component(b.Max)
}

// Hit finds the closest shape intersection along ray within [tMin, tMax].
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return hitNode(bvh.Root, ray, tMin, tMax)
}

func hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	if node.Shapes != nil {
		var closest *material.HitRecord
		closestSoFar := tMax
		hitAny := false
		for _, s := range node.Shapes {
			if hit, ok := s.Hit(ray, tMin, closestSoFar); ok {
				hitAny = true
				closestSoFar = hit.T
				closest = hit
			}
		}
		return closest, hitAny
	}

	var closest *material.HitRecord
	closestSoFar := tMax
	hitAny := false
	if node.Left != nil {
		if hit, ok := hitNode(node.Left, ray, tMin, closestSoFar); ok {
			hitAny, closestSoFar, closest = true, hit.T, hit
		}
	}
	if node.Right != nil {
		if hit, ok := hitNode(node.Right, ray, tMin, closestSoFar); ok {
			hitAny, closest = true, hit
		}
	}
	return closest, hitAny
}

// finiteWorldBounds computes the scene's finite extent (skipping shapes
// with very large bounds, e.g. ground planes) for infinite-light PDF
// and sampling calculations.
func finiteWorldBounds(shapes []Shape) (core.Vec3, float64) {
	var bound core.AABB
	has := false
	for _, s := range shapes {
		b := s.BoundingBox()
		d := b.Diagonal()
		if d.X > 1e5 || d.Y > 1e5 || d.Z > 1e5 {
			continue
		}
		if !has {
			bound, has = b, true
		} else {
			bound = bound.Union(b)
		}
	}
	if !has {
		return core.Vec3{}, 0
	}
	center := bound.Center()
	radius := bound.Max.Subtract(center).Length()
	return center, radius
}
