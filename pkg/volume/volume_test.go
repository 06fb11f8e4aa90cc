package volume

import (
	"math"
	"testing"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/lights"
)

func unitBoxRegion(sigA, sigS, le core.Vec3) *UniformRegion {
	bound := core.NewAABB(core.NewVec3(-1, -1, -1), core.NewVec3(1, 1, 1))
	return NewUniformRegion(bound, sigA, sigS, le, 0)
}

func TestCrossAABBMissesOutsideRay(t *testing.T) {
	r := unitBoxRegion(core.Vec3{}, core.Vec3{}, core.Vec3{})
	ray := core.NewRay(core.NewVec3(10, 10, 10), core.NewVec3(1, 0, 0))
	if _, _, crossed := r.CrossBound(ray); crossed {
		t.Errorf("ray far from the box should not cross it")
	}
}

func TestCrossAABBHitsThroughCenter(t *testing.T) {
	r := unitBoxRegion(core.Vec3{}, core.Vec3{}, core.Vec3{})
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))
	enter, leave, crossed := r.CrossBound(ray)
	if !crossed {
		t.Fatalf("ray through the box center should cross it")
	}
	if math.Abs(enter-4) > 1e-9 || math.Abs(leave-6) > 1e-9 {
		t.Errorf("expected enter=4 leave=6 for a unit box centered at origin, got %v %v", enter, leave)
	}
}

func TestUniformRegionTauScalesWithPathLength(t *testing.T) {
	r := unitBoxRegion(core.NewVec3(0.5, 0.5, 0.5), core.Vec3{}, core.Vec3{})
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))
	tau := r.Tau(ray, 0.1, 0)
	want := 0.5 * 2 // sigmaA * path length through the box (2 units)
	if math.Abs(tau.X-want) > 1e-9 {
		t.Errorf("expected tau.X=%v, got %v", want, tau.X)
	}
}

func TestEmissionIntegratorZeroOutsideRegion(t *testing.T) {
	r := unitBoxRegion(core.Vec3{}, core.Vec3{}, core.NewVec3(1, 1, 1))
	integ := NewEmissionIntegrator(r, 0.1)
	ray := core.NewRay(core.NewVec3(10, 10, 10), core.NewVec3(1, 0, 0))
	radiance, alpha := integ.Integrate(ray, nil)
	if alpha != 0 || radiance != (core.Vec3{}) {
		t.Errorf("expected zero contribution for a ray that misses the region, got %+v alpha=%v", radiance, alpha)
	}
}

func TestEmissionIntegratorPositiveThroughEmittingRegion(t *testing.T) {
	r := unitBoxRegion(core.Vec3{}, core.Vec3{}, core.NewVec3(1, 1, 1))
	integ := NewEmissionIntegrator(r, 0.1)
	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))
	radiance, alpha := integ.Integrate(ray, nil)
	if alpha != 1 {
		t.Errorf("expected alpha=1 for a ray entering the region, got %v", alpha)
	}
	if radiance.X <= 0 {
		t.Errorf("expected positive accumulated emission, got %+v", radiance)
	}
}

func TestSingleScatterGathersUnoccludedLight(t *testing.T) {
	r := unitBoxRegion(core.Vec3{}, core.NewVec3(0.5, 0.5, 0.5), core.Vec3{})
	light := lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(50, 50, 50))
	never := func(ray core.Ray, maxDist float64) bool { return false }
	integ := NewSingleScatterIntegrator(r, []lights.Light{light}, never, 0.2, false, false)

	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))
	radiance, alpha := integ.Integrate(ray, nil)
	if alpha != 1 {
		t.Fatalf("expected alpha=1 crossing the region")
	}
	if radiance.X <= 0 {
		t.Errorf("expected positive in-scattered radiance from an unoccluded light, got %+v", radiance)
	}
}

func TestSingleScatterOccludedLightContributesNothing(t *testing.T) {
	r := unitBoxRegion(core.Vec3{}, core.NewVec3(0.5, 0.5, 0.5), core.Vec3{})
	light := lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(50, 50, 50))
	always := func(ray core.Ray, maxDist float64) bool { return true }
	integ := NewSingleScatterIntegrator(r, []lights.Light{light}, always, 0.2, false, false)

	ray := core.NewRay(core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0))
	radiance, _ := integ.Integrate(ray, nil)
	if radiance != (core.Vec3{}) {
		t.Errorf("expected zero in-scatter when every shadow ray is occluded, got %+v", radiance)
	}
}

func TestSingleScatterAttenuationGridMatchesDirectAtSampleSites(t *testing.T) {
	r := unitBoxRegion(core.Vec3{}, core.NewVec3(0.1, 0.1, 0.1), core.Vec3{})
	light := lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(50, 50, 50))
	never := func(ray core.Ray, maxDist float64) bool { return false }
	integ := NewSingleScatterIntegrator(r, []lights.Light{light}, never, 0.2, false, true)
	integ.Preprocess(1)

	if integ.attGrid == nil {
		t.Fatalf("expected Preprocess to build the attenuation grid when Optimize is set")
	}
	direct := integ.attenuationAtPoint(core.Vec3{}, light)
	cached := integ.attGrid.attenuation(core.Vec3{}, light)
	if math.Abs(direct-cached) > 0.3 {
		t.Errorf("grid-cached attenuation should roughly track direct evaluation near a lattice point: direct=%v cached=%v", direct, cached)
	}
}

func TestHenyeyGreensteinIsotropicIsUniform(t *testing.T) {
	v := HenyeyGreenstein(0, 1)
	want := 1 / (4 * math.Pi)
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("isotropic phase function should be 1/4pi regardless of angle, got %v want %v", v, want)
	}
	v2 := HenyeyGreenstein(0, -1)
	if math.Abs(v-v2) > 1e-9 {
		t.Errorf("isotropic phase function should not depend on angle: %v vs %v", v, v2)
	}
}

func TestSkyIntegratorTransmittanceWithinUnitRange(t *testing.T) {
	bg := func(dir core.Vec3) core.Vec3 { return core.NewVec3(1, 1, 1) }
	sky := NewSkyIntegrator(bg, 50, 1, 1, 3)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))
	tr := sky.Transmittance(ray, nil)
	if tr.X < 0 || tr.X > 1 {
		t.Errorf("transmittance should stay within [0,1], got %v", tr.X)
	}
}

func TestSkyIntegratorIntegrateNonNegative(t *testing.T) {
	bg := func(dir core.Vec3) core.Vec3 { return core.NewVec3(1, 1, 1) }
	sky := NewSkyIntegrator(bg, 50, 1, 1, 3)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))
	radiance, alpha := sky.Integrate(ray, nil)
	if alpha != 1 {
		t.Errorf("sky integrator should report alpha=1, got %v", alpha)
	}
	if radiance.X < 0 || radiance.Y < 0 || radiance.Z < 0 {
		t.Errorf("expected non-negative inscattered radiance, got %+v", radiance)
	}
}

func TestMieScatterMonotonicDecreaseAtKnownKnots(t *testing.T) {
	if mieScatter(0) <= mieScatter(5*math.Pi/180) {
		t.Errorf("mie phase should decrease moving away from the forward direction in this range")
	}
}
