package scene

import (
	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/geometry"
	"github.com/yafaray-go/yafaray/pkg/lights"
	"github.com/yafaray-go/yafaray/pkg/material"
)

// Scene owns the accelerated shape set, the light sampler, and the
// camera a render operates against. It is built once and read-only
// afterwards, so it can be shared across worker goroutines.
type Scene struct {
	BVH          *geometry.BVH
	Lights       []lights.Light
	LightSampler *lights.Sampler
	Camera       *Camera
	Background   core.Vec3 // radiance returned for rays that escape the scene
}

// New builds a Scene from a flat shape list and light list.
func New(shapes []geometry.Shape, lightList []lights.Light, camera *Camera, background core.Vec3) *Scene {
	return &Scene{
		BVH:          geometry.NewBVH(shapes),
		Lights:       lightList,
		LightSampler: lights.NewSampler(lightList),
		Camera:       camera,
		Background:   background,
	}
}

// Hit finds the closest shape intersection along ray within [tMin, tMax].
func (s *Scene) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	return s.BVH.Hit(ray, tMin, tMax)
}

// WorldRadius returns the BVH's finite scene radius (0 without a BVH).
// The render command scales the debug integrator's depth range by it.
func (s *Scene) WorldRadius() float64 {
	if s.BVH == nil {
		return 0
	}
	return s.BVH.FiniteWorldRadius
}
