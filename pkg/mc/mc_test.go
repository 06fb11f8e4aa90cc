package mc

import (
	"math"
	"testing"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/lights"
	"github.com/yafaray-go/yafaray/pkg/material"
)

type fixedSampler struct{ u1, u2, v2 float64 }

func (s fixedSampler) Get1D() float64            { return s.u1 }
func (s fixedSampler) Get2D() (float64, float64) { return s.u2, s.v2 }

func flatHit(point, normal core.Vec3, mat material.Material) material.HitRecord {
	return material.HitRecord{Point: point, Normal: normal, T: 1, FrontFace: true, Material: mat}
}

func TestEstimateAllDirectLightSumsUnoccludedLights(t *testing.T) {
	l1 := lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(10, 10, 10))
	l2 := lights.NewPointLight(core.NewVec3(5, 0, 0), core.NewVec3(10, 10, 10))
	never := func(ray core.Ray, maxDist float64) bool { return false }
	c := New([]lights.Light{l1, l2}, never, nil)

	hit := flatHit(core.Vec3{}, core.NewVec3(0, 1, 0), material.NewLambertian(core.NewVec3(1, 1, 1)))
	col := c.EstimateAllDirectLight(hit, core.NewVec3(0, 1, 0), fixedSampler{0.5, 0.5, 0.5})
	if col.X <= 0 {
		t.Errorf("expected positive direct lighting contribution, got %+v", col)
	}
}

func TestDiracLightOccludedContributesNothing(t *testing.T) {
	l := lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(10, 10, 10))
	always := func(ray core.Ray, maxDist float64) bool { return true }
	c := New([]lights.Light{l}, always, nil)

	hit := flatHit(core.Vec3{}, core.NewVec3(0, 1, 0), material.NewLambertian(core.NewVec3(1, 1, 1)))
	col := c.diracLight(l, hit, core.NewVec3(0, 1, 0))
	if col != (core.Vec3{}) {
		t.Errorf("expected zero contribution from an occluded delta light, got %+v", col)
	}
}

func TestEstimateOneDirectLightScalesByInverseProbability(t *testing.T) {
	l1 := lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(10, 10, 10))
	l2 := lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(10, 10, 10))
	never := func(ray core.Ray, maxDist float64) bool { return false }
	c := New([]lights.Light{l1, l2}, never, nil)

	hit := flatHit(core.Vec3{}, core.NewVec3(0, 1, 0), material.NewLambertian(core.NewVec3(1, 1, 1)))
	one := c.EstimateOneDirectLight(hit, core.NewVec3(0, 1, 0), fixedSampler{0.1, 0.5, 0.5})
	all := c.EstimateAllDirectLight(hit, core.NewVec3(0, 1, 0), fixedSampler{0.5, 0.5, 0.5})
	// two identical equal-power lights: the one-light estimator (scaled by
	// 1/probability=2) should land close to the two-light sum.
	if math.Abs(one.X-all.X) > 1e-9 {
		t.Errorf("expected EstimateOneDirectLight to match EstimateAllDirectLight for two identical lights, got %v vs %v", one.X, all.X)
	}
}

func TestRecursiveRaytraceStopsAtDepthLimit(t *testing.T) {
	c := New(nil, nil, func(ray core.Ray, state RayState, sampler core.Sampler) (core.Vec3, float64) {
		t.Fatalf("Trace should not be called once the depth limit is reached")
		return core.Vec3{}, 0
	})
	hit := flatHit(core.Vec3{}, core.NewVec3(0, 1, 0), material.NewDielectric(1.5))
	state := RayState{Depth: 6, MaxDepth: 5}
	col, alpha := c.RecursiveRaytrace(core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), hit, core.NewVec3(0, 1, 0), state, fixedSampler{0.5, 0.5, 0.5})
	if col != (core.Vec3{}) || alpha != 1 {
		t.Errorf("expected zero radiance and alpha=1 past the depth limit, got %+v %v", col, alpha)
	}
}

func TestRecursiveRaytraceSpecularReflectsThroughTrace(t *testing.T) {
	called := false
	c := New(nil, nil, func(ray core.Ray, state RayState, sampler core.Sampler) (core.Vec3, float64) {
		called = true
		return core.NewVec3(1, 1, 1), 1
	})
	c.GlossySamples = 1
	hit := flatHit(core.Vec3{}, core.NewVec3(0, 1, 0), material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0))
	rayIn := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))
	col, alpha := c.RecursiveRaytrace(rayIn, hit, core.NewVec3(0, 1, 0), RayState{Depth: 0, MaxDepth: 5}, fixedSampler{0.5, 0.5, 0.5})
	if !called {
		t.Fatalf("expected Trace to be invoked for a specular bounce")
	}
	if col.X <= 0 || alpha != 1 {
		t.Errorf("expected positive reflected radiance with alpha=1, got %+v %v", col, alpha)
	}
}

func TestAmbientOcclusionFullyOccludedIsZero(t *testing.T) {
	always := func(ray core.Ray, maxDist float64) bool { return true }
	c := New(nil, always, nil)
	hit := flatHit(core.Vec3{}, core.NewVec3(0, 1, 0), material.NewLambertian(core.NewVec3(1, 1, 1)))
	ao := c.AmbientOcclusion(hit, 16, 1, fixedSampler{0.3, 0.3, 0.7})
	if ao != 0 {
		t.Errorf("expected zero visibility when every ray is occluded, got %v", ao)
	}
}

func TestAmbientOcclusionFullyVisibleIsOne(t *testing.T) {
	never := func(ray core.Ray, maxDist float64) bool { return false }
	c := New(nil, never, nil)
	hit := flatHit(core.Vec3{}, core.NewVec3(0, 1, 0), material.NewLambertian(core.NewVec3(1, 1, 1)))
	ao := c.AmbientOcclusion(hit, 16, 1, fixedSampler{0.3, 0.3, 0.7})
	if ao != 1 {
		t.Errorf("expected full visibility when nothing occludes, got %v", ao)
	}
}

func TestPowerHeuristicFavorsLowerVariancePdf(t *testing.T) {
	w := powerHeuristic(2, 1)
	if w <= 0.5 {
		t.Errorf("the larger pdf should receive more than half the weight, got %v", w)
	}
	if math.Abs(powerHeuristic(1, 1)-0.5) > 1e-9 {
		t.Errorf("equal pdfs should split weight evenly, got %v", powerHeuristic(1, 1))
	}
}
