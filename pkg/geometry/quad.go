package geometry

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
)

// Quad is a parallelogram defined by a corner and two edge vectors,
// used both as ordinary geometry and as the shape behind area lights.
type Quad struct {
	Corner   core.Vec3
	U, V     core.Vec3
	Normal   core.Vec3
	Material material.Material
	d        float64
	w        core.Vec3
}

func NewQuad(corner, u, v core.Vec3, mat material.Material) *Quad {
	normal := u.Cross(v).Normalize()
	d := normal.Dot(corner)
	cross := u.Cross(v)
	w := normal.Multiply(1 / normal.Dot(cross))
	return &Quad{Corner: corner, U: u, V: v, Normal: normal, Material: mat, d: d, w: w}
}

// Area returns the surface area of the quad, used to convert emitted
// radiance into power for light-power sampling.
func (q *Quad) Area() float64 { return q.U.Cross(q.V).Length() }

func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	denom := ray.Direction.Dot(q.Normal)
	if math.Abs(denom) < 1e-8 {
		return nil, false
	}
	t := (q.d - ray.Origin.Dot(q.Normal)) / denom
	if t < tMin || t > tMax {
		return nil, false
	}

	point := ray.At(t)
	hv := point.Subtract(q.Corner)
	alpha := q.w.Dot(hv.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hv))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return nil, false
	}

	hit := &material.HitRecord{T: t, Point: point, Material: q.Material}
	hit.SetFaceNormal(ray, q.Normal)
	return hit, true
}

func (q *Quad) BoundingBox() core.AABB {
	corners := []core.Vec3{
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	}
	bound := core.NewAABB(corners[0], corners[1])
	for _, c := range corners[2:] {
		bound = bound.Include(c)
	}
	// inflate a hair so perfectly axis-aligned quads (zero thickness) still
	// have a non-degenerate bounding box for the BVH/AABB slab test.
	const epsilon = 1e-4
	pad := core.NewVec3(epsilon, epsilon, epsilon)
	return core.NewAABB(bound.Min.Subtract(pad), bound.Max.Add(pad))
}

// SamplePoint draws a uniform random point on the quad from two [0,1)
// numbers, used by area-light sampling.
func (q *Quad) SamplePoint(u, v float64) core.Vec3 {
	return q.Corner.Add(q.U.Multiply(u)).Add(q.V.Multiply(v))
}
