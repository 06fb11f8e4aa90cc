// Package volume implements the volume integrators (Module G): the
// contracts a participating-media region is sampled through, plus the
// Emission, SingleScatter and Sky integrators that consume one.
package volume

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
)

// Region is the external collaborator a volume integrator samples against:
// a participating medium with spatially varying absorption/scattering
// coefficients and emission, bounded by an AABB. Density evaluation itself
// (exponential falloff, 3D grid, procedural noise) lives outside this
// package; an integrator only needs these seven operations.
type Region interface {
	SigmaA(p, dir core.Vec3) core.Vec3
	SigmaS(p, dir core.Vec3) core.Vec3
	Emission(p, dir core.Vec3) core.Vec3
	// Tau returns the optical thickness integrated along ray, starting
	// sample offset into the first step (for jittered ray marching).
	Tau(ray core.Ray, step, offset float64) core.Vec3
	// CrossBound intersects ray against the region's bound, returning the
	// entry/exit distances and whether the ray crosses it at all.
	CrossBound(ray core.Ray) (enter, leave float64, crossed bool)
	Bound() core.AABB
	// Phase evaluates the Henyey-Greenstein phase function between the
	// direction from the light (wl) and the scattering direction (ws).
	Phase(wl, ws core.Vec3) float64
}

func sigmaT(r Region, p, dir core.Vec3) core.Vec3 {
	return r.SigmaA(p, dir).Add(r.SigmaS(p, dir))
}

// HenyeyGreenstein evaluates the standard single-lobe phase function with
// asymmetry parameter g in (-1,1). g=0 is isotropic.
func HenyeyGreenstein(g float64, cosTheta float64) float64 {
	denom := 1 + g*g - 2*g*cosTheta
	if denom <= 0 {
		return 0
	}
	return (1 - g*g) / (4 * math.Pi * math.Pow(denom, 1.5))
}

func expColor(c core.Vec3) core.Vec3 {
	return core.NewVec3(math.Exp(-c.X), math.Exp(-c.Y), math.Exp(-c.Z))
}
