package integrator

import (
	"testing"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
	"github.com/yafaray-go/yafaray/pkg/mc"
)

func TestDebugNormalMapsUnitNormalIntoZeroOneRange(t *testing.T) {
	lambertian := material.NewLambertian(core.NewVec3(1, 1, 1))
	intersect := planeIntersect(core.NewVec3(0, 1, 0), lambertian)
	d := NewDebug(intersect, blackBackground, DebugNormal, 0)

	ray := core.NewRay(core.NewVec3(0, 3, 0), core.NewVec3(0, -1, 0))
	col, alpha := d.Integrate(ray, mc.RayState{}, fixedSampler{0.5, 0.5, 0.5})
	if alpha != 1 {
		t.Fatalf("expected alpha=1 on a hit, got %v", alpha)
	}
	want := core.NewVec3(0.5, 1, 0.5)
	if col != want {
		t.Errorf("expected the upward normal (0,1,0) to map to %+v, got %+v", want, col)
	}
}

func TestDebugDepthClampsBeyondRange(t *testing.T) {
	lambertian := material.NewLambertian(core.NewVec3(1, 1, 1))
	intersect := planeIntersect(core.NewVec3(0, 1, 0), lambertian)
	d := NewDebug(intersect, blackBackground, DebugDepth, 1) // range smaller than the hit distance

	ray := core.NewRay(core.NewVec3(0, 10, 0), core.NewVec3(0, -1, 0))
	col, _ := d.Integrate(ray, mc.RayState{}, fixedSampler{0.5, 0.5, 0.5})
	if col != core.NewVec3(1, 1, 1) {
		t.Errorf("expected depth past DepthRange to clamp to white, got %+v", col)
	}
}

func TestDebugBackgroundOnMiss(t *testing.T) {
	bg := func(ray core.Ray) core.Vec3 { return core.NewVec3(2, 2, 2) }
	d := NewDebug(noIntersect, bg, DebugNormal, 0)
	col, alpha := d.Integrate(core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0)), mc.RayState{}, fixedSampler{0.5, 0.5, 0.5})
	if col != core.NewVec3(2, 2, 2) || alpha != 0 {
		t.Errorf("expected background color and alpha=0 on miss, got %+v %v", col, alpha)
	}
}
