// Package mc implements the Monte-Carlo surface shading core shared by
// every surface integrator: direct light estimation with multiple
// importance sampling, recursive raytracing through specular/glossy
// scattering events, and ambient occlusion. It is grounded on
// integrator_montecarlo.h/.cc and stays decoupled from pkg/scene: the
// scene's shadow test and the recursive-trace continuation are both
// passed in as function values.
package mc

import (
	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/lights"
)

// ShadowTest reports whether anything blocks ray within [0, maxDist].
// Kept as a function type, matching volume.ShadowTest, so this package
// doesn't need to import pkg/scene.
type ShadowTest func(ray core.Ray, maxDist float64) bool

// TraceFunc continues a ray into the scene and returns the radiance
// gathered along it plus its alpha contribution. A surface integrator
// supplies its own top-level radiance function here, closing the
// recursion back through whatever integrator drives the main loop; the
// sampler passed along is the one the recursive caller draws from.
type TraceFunc func(ray core.Ray, state RayState, sampler core.Sampler) (radiance core.Vec3, alpha float64)

// RayState is the small, cheap-to-copy bundle of recursion bookkeeping
// threaded through RecursiveRaytrace. Every recursive call receives its
// own copy (never a shared pointer) so sibling glossy resamples can't
// stomp on each other's depth counters, matching the pass-by-value ray_level/additional_depth
// parameters in recursiveRaytrace.
type RayState struct {
	Depth           int
	MaxDepth        int
	AdditionalDepth int
}

// Descend returns a copy of s with Depth incremented, the only mutation
// a recursive call is allowed to make before handing state to the next
// level down.
func (s RayState) Descend() RayState {
	s.Depth++
	return s
}

func (s RayState) atDepthLimit() bool {
	return s.Depth > s.MaxDepth+s.AdditionalDepth
}

// Core bundles the lights and collaborators every estimator needs:
// the visible light list and its power-weighted sampler for
// EstimateOneDirectLight, a shadow test, and the recursive trace
// continuation RecursiveRaytrace calls back into.
type Core struct {
	Lights       []lights.Light
	LightSampler *lights.Sampler
	Occluded     ShadowTest
	Trace        TraceFunc
	// GlossySamples is how many times RecursiveRaytrace resamples a
	// non-delta-but-specular-branch material (a fuzzed Metal) to reduce
	// variance, mirroring initial_ray_samples_glossy_. Materials with no
	// randomness in their Scatter (Fuzz==0, Dielectric) simply retrace
	// the same direction GlossySamples times; harmless, if wasteful.
	GlossySamples int
	RayEpsilon    float64
}

func New(lightList []lights.Light, occluded ShadowTest, trace TraceFunc) *Core {
	return &Core{
		Lights:        lightList,
		LightSampler:  lights.NewSampler(lightList),
		Occluded:      occluded,
		Trace:         trace,
		GlossySamples: 8,
		RayEpsilon:    1e-4,
	}
}
