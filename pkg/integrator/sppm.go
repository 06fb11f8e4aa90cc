package integrator

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
	"github.com/yafaray-go/yafaray/pkg/mc"
	"github.com/yafaray-go/yafaray/pkg/photon"
	"github.com/yafaray-go/yafaray/pkg/prepass"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
)

// HitPoint is the per-pixel statistics stochastic progressive photon
// mapping refines pass over pass: a shrinking search radius, the
// running photon count and flux it has accumulated so far, and the
// direct-lighting term computed once and held constant across passes.
// Grounded on SppmIntegrator::HitPoint
// (original_source/include/integrator/surface/integrator_sppm.h).
// Ownership is left to the caller rather than stored inside SPPM
// itself: SPPM's photon map is shared scene-wide state but HitPoint is
// per-pixel state, and this package has no per-pixel storage of its
// own. The tiled driver in pkg/driver keeps no HitPoints and calls only
// Integrate, so a render through it gets Integrate's single-pass
// estimate with no radius refinement.
type HitPoint struct {
	Radius2          float64
	AccPhotonCount   float64
	AccPhotonFlux    core.Vec3
	ConstantRadiance core.Vec3
	RadiusSet        bool
}

// SPPM implements stochastic progressive photon mapping: each pass
// reshoots a fresh photon batch (NextPass) and GatherPass refines every
// pixel's persistent HitPoint against it using the Hachisuka/Jensen
// radius-reduction formula. Grounded on SppmIntegrator
// (original_source/src/integrator/surface/integrator_photon_mapping.cc
// shares its diffuseWorker/photon-shooting machinery; the per-pixel
// refine formula itself is this package's reading of
// integrator_sppm.h's HitPoint/GatherInfo fields, since the matching
// .cc wasn't part of the retrieved source set). SPPM deliberately does
// not use pkg/photon's k-d tree lookup through a hash grid
// (HashGrid in the teacher): photon.Map.Gather already does a
// bounded k-nearest lookup over the same k-d tree every other package
// in this codebase shares, so a second spatial index is not built
// here; see DESIGN.md for why that's a reasonable substitution rather
// than a dropped feature.
type SPPM struct {
	MC         *mc.Core
	Intersect  Intersect
	Background Background
	Prepass    *prepass.Core
	Config     prepass.Config

	// Alpha controls how aggressively the search radius shrinks each
	// pass (0.7 is the value the original SPPM paper recommends).
	Alpha       float64
	SearchCount int

	diffuse          *photon.Map
	caustic          *photon.Map
	totalPhotonsShot int
}

// NewSPPM wires the collaborators an SPPM integrator needs.
func NewSPPM(mcCore *mc.Core, intersect Intersect, background Background, pre *prepass.Core, cfg prepass.Config, alpha float64, searchCount int) *SPPM {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.7
	}
	return &SPPM{MC: mcCore, Intersect: intersect, Background: background, Prepass: pre, Config: cfg, Alpha: alpha, SearchCount: searchCount}
}

// Preprocess shoots the first photon pass. SurfaceIntegrator's
// single-shot Preprocess/Integrate contract doesn't model SPPM's
// multi-pass refinement on its own; refinement takes a caller that runs
// NextPass and then GatherPass for each pixel once per AA pass (see
// GatherPass's doc comment). pkg/driver does not; it calls Integrate.
func (s *SPPM) Preprocess(rc *rendercontrol.Control) error {
	s.MC.Trace = s.Integrate
	return s.NextPass(rc)
}

// NextPass reshoots this pass's photon batch into fresh diffuse/caustic
// maps, replacing the previous pass's maps entirely (SPPM photon-shoots
// anew every pass rather than accumulating a single ever-growing map).
func (s *SPPM) NextPass(rc *rendercontrol.Control) error {
	result := s.Prepass.ShootPhotons(s.Config, rc)
	result.Diffuse.UpdateTree(rc, s.Prepass.Logger)
	result.Caustic.UpdateTree(rc, s.Prepass.Logger)
	s.diffuse = result.Diffuse
	s.caustic = result.Caustic
	s.totalPhotonsShot += s.Config.NumPhotons
	return nil
}

// Integrate is a single-pass fallback (direct lighting plus one static
// gather against the current photon maps, no radius refinement) for
// callers that only need SurfaceIntegrator's stateless shape; it does
// not refine a HitPoint across passes. Driving SPPM properly means
// calling GatherPass once per AA pass with a HitPoint persisted by the
// caller across those passes.
func (s *SPPM) Integrate(ray core.Ray, state mc.RayState, sampler core.Sampler) (core.Vec3, float64) {
	hit, ok := s.Intersect(ray, s.MC.RayEpsilon)
	if !ok {
		return s.Background(ray), 0
	}
	col := emittedLight(ray, hit)
	wo := ray.Direction.Negate()
	col = col.Add(s.MC.EstimateAllDirectLight(hit, wo, sampler))
	col = col.Add(s.density(s.caustic, hit))
	col = col.Add(s.density(s.diffuse, hit))
	return col, 1
}

// GatherPass refines hp in place against this pass's diffuse map and
// returns the pixel's current best radiance estimate. Grounded on
// HitPoint's radius_2_/acc_photon_count_/acc_photon_flux_ fields and
// the standard progressive photon mapping update:
//
//	N' = N + alpha*M
//	R'^2 = R^2 * N'/(N + M)
//	flux' = (flux + newPhotonContribution) * R'^2/R^2
func (s *SPPM) GatherPass(hp *HitPoint, ray core.Ray, sampler core.Sampler) core.Vec3 {
	hit, ok := s.Intersect(ray, s.MC.RayEpsilon)
	if !ok {
		return s.Background(ray)
	}
	if !hp.RadiusSet {
		hp.Radius2 = s.initialRadius2()
		hp.RadiusSet = true
		hp.ConstantRadiance = emittedLight(ray, hit)
		wo := ray.Direction.Negate()
		hp.ConstantRadiance = hp.ConstantRadiance.Add(s.MC.EstimateAllDirectLight(hit, wo, sampler))
		hp.ConstantRadiance = hp.ConstantRadiance.Add(s.density(s.caustic, hit))
	}

	if s.diffuse == nil || !s.diffuse.Ready() {
		return hp.ConstantRadiance
	}
	found, _ := s.diffuse.Gather(hit.Point, s.searchCount(), hp.Radius2)

	var newFlux core.Vec3
	var newCount float64
	for _, f := range found {
		if f.Photon.Dir.Dot(hit.Normal) <= 0 {
			continue
		}
		brdf := hit.Material.EvaluateBRDF(ray.Direction.Negate(), f.Photon.Dir, hit.Normal)
		newFlux = newFlux.Add(brdf.MultiplyVec(f.Photon.Color))
		newCount++
	}

	if newCount > 0 {
		newTotal := hp.AccPhotonCount + s.Alpha*newCount
		ratio := newTotal / (hp.AccPhotonCount + newCount)
		hp.Radius2 = hp.Radius2 * ratio
		hp.AccPhotonFlux = hp.AccPhotonFlux.Add(newFlux).Multiply(ratio)
		hp.AccPhotonCount = newTotal
	}

	if s.totalPhotonsShot == 0 || hp.Radius2 <= 0 {
		return hp.ConstantRadiance
	}
	density := hp.AccPhotonFlux.Multiply(1 / (math.Pi * hp.Radius2 * float64(s.totalPhotonsShot)))
	return hp.ConstantRadiance.Add(density)
}

func (s *SPPM) density(m *photon.Map, hit material.HitRecord) core.Vec3 {
	if m == nil || !m.Ready() || m.NPaths() == 0 {
		return core.Vec3{}
	}
	found, usedSqRadius := m.Gather(hit.Point, s.searchCount(), s.initialRadius2())
	if len(found) == 0 || usedSqRadius <= 0 {
		return core.Vec3{}
	}
	var sum core.Vec3
	for _, f := range found {
		if f.Photon.Dir.Dot(hit.Normal) <= 0 {
			continue
		}
		sum = sum.Add(f.Photon.Color)
	}
	return sum.Multiply(1 / (float64(m.NPaths()) * math.Pi * usedSqRadius))
}

func (s *SPPM) searchCount() int {
	if s.SearchCount <= 0 {
		return 100
	}
	return s.SearchCount
}

// initialRadius2 is a fixed fallback initial search radius; a full
// implementation derives this per-scene from average photon spacing
// (ds_radius_/initial_factor_ in the teacher), deferred here since it
// needs scene-extent information this package doesn't have access to.
func (s *SPPM) initialRadius2() float64 {
	return 0.01
}
