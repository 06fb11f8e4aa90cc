package integrator

import (
	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
)

type fixedSampler struct{ u1, u2, v2 float64 }

func (s fixedSampler) Get1D() float64            { return s.u1 }
func (s fixedSampler) Get2D() (float64, float64) { return s.u2, s.v2 }

// planeIntersect hits a single infinite plane through the origin with
// the given normal and material.
func planeIntersect(normal core.Vec3, mat material.Material) Intersect {
	return func(ray core.Ray, tMin float64) (material.HitRecord, bool) {
		denom := ray.Direction.Dot(normal)
		if denom >= 0 {
			return material.HitRecord{}, false
		}
		t := -ray.Origin.Dot(normal) / denom
		if t < tMin {
			return material.HitRecord{}, false
		}
		point := ray.Origin.Add(ray.Direction.Multiply(t))
		hit := material.HitRecord{Point: point, T: t, Material: mat}
		hit.SetFaceNormal(ray, normal)
		return hit, true
	}
}

func noIntersect(ray core.Ray, tMin float64) (material.HitRecord, bool) {
	return material.HitRecord{}, false
}

func blackBackground(ray core.Ray) core.Vec3 { return core.Vec3{} }

func neverOccluded(ray core.Ray, maxDist float64) bool { return false }
