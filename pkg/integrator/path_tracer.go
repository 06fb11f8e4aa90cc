package integrator

import (
	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/mc"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
)

// PathTracer implements full global illumination: every hit's own
// emission, one direct-lighting estimate, and, unlike DirectLight, one
// importance-sampled diffuse continuation per bounce (in addition to
// the specular continuation DirectLight already has), with Russian
// roulette past MinBounces. Grounded on the teacher's
// PathTracingIntegrator (pkg/integrator/path_tracing.go:
// rayColorRecursive/calculateDiffuseColor/ApplyRussianRoulette), adapted
// to this codebase's mc.Core for the actual light-sampling math instead
// of path_tracing.go's inlined CalculateDirectLighting/
// CalculateIndirectLighting.
type PathTracer struct {
	MC         *mc.Core
	Intersect  Intersect
	Background Background
	Caustics   *CausticLookup

	// MinBounces is the bounce count past which Russian roulette may
	// terminate a path, mirroring RussianRouletteMinBounces.
	MinBounces int
}

// NewPathTracer wires the Monte-Carlo core and scene collaborators a
// PathTracer integrator needs. caustics may be nil.
func NewPathTracer(mcCore *mc.Core, intersect Intersect, background Background, caustics *CausticLookup, minBounces int) *PathTracer {
	return &PathTracer{MC: mcCore, Intersect: intersect, Background: background, Caustics: caustics, MinBounces: minBounces}
}

func (p *PathTracer) Preprocess(rc *rendercontrol.Control) error {
	p.MC.Trace = p.Integrate
	return nil
}

func (p *PathTracer) Integrate(ray core.Ray, state mc.RayState, sampler core.Sampler) (core.Vec3, float64) {
	hit, ok := p.Intersect(ray, p.MC.RayEpsilon)
	if !ok {
		return p.Background(ray), 0
	}

	col := emittedLight(ray, hit)
	wo := ray.Direction.Negate()
	col = col.Add(p.MC.EstimateAllDirectLight(hit, wo, sampler))
	if p.Caustics != nil {
		col = col.Add(p.Caustics.Estimate(hit))
	}

	kill, compensation := p.russianRoulette(state, sampler)
	if kill {
		return col, 1
	}

	indirect, _ := p.MC.RecursiveRaytrace(ray, hit, wo, state, sampler)
	return col.Add(indirect.Multiply(compensation)), 1
}

// russianRoulette decides whether to stop extending the path past
// state.Depth, and if not, the energy-conserving compensation factor
// (1/survival) the surviving continuation must be scaled by so the
// estimator stays unbiased. Grounded on ApplyRussianRoulette, simplified
// to a fixed survival probability rather than one scaled by the running
// path throughput (this integrator has no throughput accumulator of its
// own: mc.Core.RecursiveRaytrace already folds each bounce's
// attenuation/pdf weight into its own return value instead of threading
// a multiplicative throughput argument through the call chain, so there
// is no running luminance to read here).
func (p *PathTracer) russianRoulette(state mc.RayState, sampler core.Sampler) (kill bool, compensation float64) {
	if state.Depth < p.MinBounces {
		return false, 1
	}
	const survival = 0.75
	if sampler.Get1D() >= survival {
		return true, 0
	}
	return false, 1 / survival
}
