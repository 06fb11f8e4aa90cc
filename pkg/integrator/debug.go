package integrator

import (
	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/mc"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
)

// DebugProperty selects which surface property Debug visualizes,
// matching DebugIntegrator::SurfaceProperties.
type DebugProperty int

const (
	DebugNormal DebugProperty = iota
	DebugDepth
)

// Debug renders a surface property directly as a color instead of
// performing any light transport, used to visualize normals or depth
// for scene debugging. Grounded on DebugIntegrator
// (original_source/include/integrator/surface/integrator_debug.h),
// reduced to the two properties (N, and a depth variant standing in for
// DPdU/DPdV/Nu/Nv/DSdU/DSdV, none of which this codebase's HitRecord
// carries - there is no surface parameterization/tangent-space data
// outside the shading normal here).
type Debug struct {
	Intersect  Intersect
	Background Background
	Property   DebugProperty
	// DepthRange normalizes DebugDepth's raw hit distance into [0,1];
	// distances beyond it clamp to white.
	DepthRange float64
}

// NewDebug wires the scene collaborators a Debug integrator needs.
func NewDebug(intersect Intersect, background Background, property DebugProperty, depthRange float64) *Debug {
	if depthRange <= 0 {
		depthRange = 100
	}
	return &Debug{Intersect: intersect, Background: background, Property: property, DepthRange: depthRange}
}

func (d *Debug) Preprocess(rc *rendercontrol.Control) error { return nil }

func (d *Debug) Integrate(ray core.Ray, state mc.RayState, sampler core.Sampler) (core.Vec3, float64) {
	hit, ok := d.Intersect(ray, 1e-4)
	if !ok {
		return d.Background(ray), 0
	}

	switch d.Property {
	case DebugDepth:
		t := hit.T / d.DepthRange
		if t > 1 {
			t = 1
		}
		return core.NewVec3(t, t, t), 1
	default:
		// map each [-1,1] normal component into [0,1], the standard
		// normal-visualization remap.
		n := hit.Normal
		return core.NewVec3(0.5*(n.X+1), 0.5*(n.Y+1), 0.5*(n.Z+1)), 1
	}
}
