package integrator

import (
	"testing"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/lights"
	"github.com/yafaray-go/yafaray/pkg/material"
	"github.com/yafaray-go/yafaray/pkg/mc"
	"github.com/yafaray-go/yafaray/pkg/prepass"
)

func TestPhotonMapperPreprocessThenIntegrateProducesRadiance(t *testing.T) {
	l := lights.NewPointLight(core.NewVec3(0, 5, 0), core.NewVec3(80, 80, 80))
	lambertian := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.8))
	intersect := planeIntersect(core.NewVec3(0, 1, 0), lambertian)

	mcCore := mc.New([]lights.Light{l}, neverOccluded, nil)
	pre := prepass.New([]lights.Light{l}, prepass.Intersect(intersect), nil)
	cfg := prepass.Config{NumPhotons: 500, MaxBounces: 2, Threads: 2}

	pm := NewPhotonMapper(mcCore, intersect, blackBackground, pre, cfg, 0, 50, 2)
	if err := pm.Preprocess(nil); err != nil {
		t.Fatalf("unexpected Preprocess error: %v", err)
	}

	ray := core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, -1, 0))
	col, alpha := pm.Integrate(ray, mc.RayState{MaxDepth: 3}, fixedSampler{0.3, 0.4, 0.6})
	if alpha != 1 {
		t.Fatalf("expected alpha=1, got %v", alpha)
	}
	if col.X <= 0 {
		t.Errorf("expected positive radiance from direct lighting plus the photon-map diffuse estimate, got %+v", col)
	}
}

func TestPhotonMapperBackgroundOnMiss(t *testing.T) {
	bg := func(ray core.Ray) core.Vec3 { return core.NewVec3(5, 5, 5) }
	mcCore := mc.New(nil, neverOccluded, nil)
	pre := prepass.New(nil, prepass.Intersect(noIntersect), nil)
	pm := NewPhotonMapper(mcCore, noIntersect, bg, pre, prepass.Config{NumPhotons: 10, Threads: 1}, 0, 10, 1)
	if err := pm.Preprocess(nil); err != nil {
		t.Fatalf("unexpected Preprocess error: %v", err)
	}

	col, alpha := pm.Integrate(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), mc.RayState{MaxDepth: 3}, fixedSampler{0.5, 0.5, 0.5})
	if col != core.NewVec3(5, 5, 5) || alpha != 0 {
		t.Errorf("expected background color and alpha=0 on miss, got %+v %v", col, alpha)
	}
}
