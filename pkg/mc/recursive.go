package mc

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
)

// RecursiveRaytrace extends a path past a specular or glossy scattering
// event: it draws one scattering direction from hit.Material, traces it
// through Core.Trace, and weights the result by the material's
// attenuation. Grounded on recursiveRaytrace, which sums contributions
// from dispersive, glossy and specular branches selected by BSDF flags.
// This codebase's narrower Material contract (pkg/material.Material) has
// no BsdfFlags bitmask and no dispersive (wavelength-dependent) material,
// so the three branches collapse to one: any ScatterResult with PDF<=0
// (IsSpecular) is resampled GlossySamples times and averaged, giving
// variance reduction for fuzzed Metal while perfect mirrors and
// Dielectric (whose Scatter already makes its own reflect-or-refract
// choice per call) just retrace the same direction more than once.
// Non-delta (PDF>0) scattering, such as a Lambertian bounce, gets a
// single importance-sampled continuation through continueNonDelta.
func (c *Core) RecursiveRaytrace(rayIn core.Ray, hit material.HitRecord, wo core.Vec3, state RayState, sampler core.Sampler) (core.Vec3, float64) {
	if state.atDepthLimit() {
		return core.Vec3{}, 1
	}
	scatter, ok := hit.Material.Scatter(rayIn, hit, sampler)
	if !ok {
		return core.Vec3{}, 0
	}
	if !scatter.IsSpecular() {
		return c.continueNonDelta(scatter, hit, state, sampler)
	}

	samples := c.GlossySamples
	if samples < 1 {
		samples = 1
	}
	var col core.Vec3
	var alphaSum float64
	for i := 0; i < samples; i++ {
		s := scatter
		if i > 0 {
			var resampled bool
			s, resampled = hit.Material.Scatter(rayIn, hit, sampler)
			if !resampled {
				continue
			}
		}
		radiance, alpha := c.Trace(s.Scattered, state.Descend(), sampler)
		col = col.Add(radiance.MultiplyVec(s.Attenuation))
		alphaSum += alpha
	}
	inv := 1.0 / float64(samples)
	return col.Multiply(inv), alphaSum * inv
}

// continueNonDelta handles a non-delta ScatterResult reaching
// RecursiveRaytrace (a Lambertian hit, which PathTracer sends here on
// every bounce): a single importance-sampled continuation, weighted the
// usual Monte Carlo way by attenuation*cosTheta/pdf.
func (c *Core) continueNonDelta(scatter material.ScatterResult, hit material.HitRecord, state RayState, sampler core.Sampler) (core.Vec3, float64) {
	if scatter.PDF <= 1e-6 {
		return core.Vec3{}, 0
	}
	cosTheta := math.Abs(scatter.Scattered.Direction.Dot(hit.Normal))
	radiance, alpha := c.Trace(scatter.Scattered, state.Descend(), sampler)
	return radiance.MultiplyVec(scatter.Attenuation).Multiply(cosTheta / scatter.PDF), alpha
}
