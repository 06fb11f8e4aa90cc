package volume

import (
	"github.com/yafaray-go/yafaray/pkg/core"
)

// UniformRegion is a participating medium with constant absorption,
// scattering and emission coefficients everywhere inside its bound, zero
// outside. Grounded on volume_region/volume_uniform.h; the simplest
// concrete Region and the one the integrator tests exercise directly.
type UniformRegion struct {
	bound  core.AABB
	sigA   core.Vec3
	sigS   core.Vec3
	le     core.Vec3
	g      float64
}

func NewUniformRegion(bound core.AABB, sigmaA, sigmaS, emission core.Vec3, g float64) *UniformRegion {
	return &UniformRegion{bound: bound, sigA: sigmaA, sigS: sigmaS, le: emission, g: g}
}

func (u *UniformRegion) SigmaA(p, dir core.Vec3) core.Vec3   { return u.sigA }
func (u *UniformRegion) SigmaS(p, dir core.Vec3) core.Vec3   { return u.sigS }
func (u *UniformRegion) Emission(p, dir core.Vec3) core.Vec3 { return u.le }
func (u *UniformRegion) Bound() core.AABB                    { return u.bound }

func (u *UniformRegion) Phase(wl, ws core.Vec3) float64 {
	return HenyeyGreenstein(u.g, wl.Dot(ws))
}

// Tau is exact for a uniform medium: optical thickness is sigmaT times the
// distance the ray spends crossing the bound, independent of step/offset.
func (u *UniformRegion) Tau(ray core.Ray, step, offset float64) core.Vec3 {
	enter, leave, crossed := u.CrossBound(ray)
	if !crossed {
		return core.Vec3{}
	}
	dist := leave - enter
	if dist < 0 {
		dist = 0
	}
	return sigmaT(u, core.Vec3{}, core.Vec3{}).Multiply(dist)
}

// CrossBound intersects ray against the region's AABB using the slab
// method, returning the entry/exit distances along the ray.
func (u *UniformRegion) CrossBound(ray core.Ray) (enter, leave float64, crossed bool) {
	return crossAABB(u.bound, ray)
}

func crossAABB(b core.AABB, ray core.Ray) (enter, leave float64, crossed bool) {
	tMin, tMax := -1e10, 1e10
	axes := [3]core.Axis{core.AxisX, core.AxisY, core.AxisZ}
	for _, axis := range axes {
		d := axis.Component(ray.Direction)
		o := axis.Component(ray.Origin)
		lo := axis.Component(b.Min)
		hi := axis.Component(b.Max)
		if d == 0 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}
		invD := 1 / d
		t0 := (lo - o) * invD
		t1 := (hi - o) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax <= tMin {
			return 0, 0, false
		}
	}
	return tMin, tMax, true
}
