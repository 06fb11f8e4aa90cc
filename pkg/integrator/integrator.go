// Package integrator implements the surface integrators: the light
// transport algorithms that turn a camera ray into a color by driving
// pkg/mc's Monte-Carlo core and, where a technique needs them,
// pkg/prepass's photon maps. Grounded on the teacher's pkg/integrator
// (a PathTracer and a Bidirectional integrator for a simpler,
// single-strategy light transport model) and generalized to the fuller
// integrator taxonomy: DirectLight, PathTracer, PhotonMapper (+ final
// gather), SPPM, Bidirectional and Debug, all behind one
// SurfaceIntegrator interface.
package integrator

import (
	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
	"github.com/yafaray-go/yafaray/pkg/mc"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
)

// Intersect finds the closest hit along ray within [tMin, +inf). The
// same function-type decoupling pattern as pkg/volume.ShadowTest and
// pkg/prepass.Intersect: integrators never import pkg/scene directly.
type Intersect func(ray core.Ray, tMin float64) (material.HitRecord, bool)

// Background evaluates the environment's radiance for a ray that
// escaped the scene entirely.
type Background func(ray core.Ray) core.Vec3

// SurfaceIntegrator is the contract every light-transport algorithm in
// this package implements: a preprocessing step that runs once per
// render (building photon maps, light power distributions, and so on)
// and the per-ray integration call the tiled driver invokes for every
// sample.
type SurfaceIntegrator interface {
	// Preprocess runs once before the first tile is rendered.
	Preprocess(rc *rendercontrol.Control) error
	// Integrate returns the radiance arriving along ray and its alpha
	// (1 if the ray hit geometry, 0 if it escaped to the background).
	Integrate(ray core.Ray, state mc.RayState, sampler core.Sampler) (core.Vec3, float64)
}

// emittedLight returns a hit's own emission, or the zero color if its
// material doesn't implement material.Emitter. Grounded on
// getEmittedLight's identical material.Emitter-or-nothing dispatch.
func emittedLight(ray core.Ray, hit material.HitRecord) core.Vec3 {
	if e, ok := hit.Material.(material.Emitter); ok {
		return e.Emit(ray)
	}
	return core.Vec3{}
}

// isSpecularMaterial probes a material's PDF-returned isDelta flag with
// placeholder directions to decide, without consuming a sampler draw,
// whether this hit should continue via specular recursion. Every
// material in this codebase (Lambertian, Metal, Dielectric, Emissive)
// returns a constant isDelta independent of the directions passed in,
// the same way the teacher's flag check costs no randomness.
func isSpecularMaterial(hit material.HitRecord) bool {
	_, isDelta := hit.Material.PDF(hit.Normal, hit.Normal, hit.Normal)
	return isDelta
}
