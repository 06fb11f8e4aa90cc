// Package prepass implements the photon-shooting prepass (Module I): a
// worker pool of goroutines that trace photon paths from a power-
// weighted light selection into diffuse and caustic photon.Map
// instances, with Russian-roulette path termination. Grounded on
// PhotonIntegrator::diffuseWorker in
// original_source/src/integrator/surface/integrator_photon_mapping.cc,
// adapted to this codebase's lights.Light/material.Material contracts.
package prepass

import (
	"sync"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/lights"
	"github.com/yafaray-go/yafaray/pkg/material"
	"github.com/yafaray-go/yafaray/pkg/photon"
	"github.com/yafaray-go/yafaray/pkg/qmc"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
)

// Intersect finds the closest hit along ray within [tMin, +inf), the
// external collaborator a scene's BVH implements (scene.Scene.Hit called
// with tMax=+Inf). Kept as a function type so this package doesn't
// depend on pkg/scene, the same pattern as volume.ShadowTest.
type Intersect func(ray core.Ray, tMin float64) (material.HitRecord, bool)

// Config controls one photon-shooting pass.
type Config struct {
	NumPhotons int
	MaxBounces int
	Threads    int
	RayEpsilon float64
}

// Core bundles the lights a photon path is emitted from and the scene
// collaborator it bounces against.
type Core struct {
	Lights    []lights.Light
	Intersect Intersect
	Logger    core.Logger
}

func New(lightList []lights.Light, intersect Intersect, logger core.Logger) *Core {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Core{Lights: lightList, Intersect: intersect, Logger: logger}
}

// Result is what one ShootPhotons call produces: a diffuse map (photons
// whose most recent bounce was not specular) and a caustic map
// (photons deposited immediately after a specular bounce), matching the
// diffuse/caustic split PhotonIntegrator builds two separate PhotonMaps
// for.
type Result struct {
	Diffuse *photon.Map
	Caustic *photon.Map
}

// ShootPhotons runs cfg.Threads goroutines, each shooting
// ceil(cfg.NumPhotons/cfg.Threads) paths (so the total can exceed
// NumPhotons by up to Threads-1) and merging its local photon batch into
// the shared maps under their lock. Grounded on diffuseWorker's
// n_diffuse_photons_thread partitioning (each thread owns a contiguous
// Halton index range, `curr + nPerThread*threadID`, so the sequence
// stays low-discrepancy and the indices shot are fixed for a given
// thread count).
func (c *Core) ShootPhotons(cfg Config, rc *rendercontrol.Control) Result {
	diffuseMap := photon.New("diffuse", cfg.Threads)
	causticMap := photon.New("caustic", cfg.Threads)
	if cfg.NumPhotons <= 0 || len(c.Lights) == 0 {
		return Result{Diffuse: diffuseMap, Caustic: causticMap}
	}
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	maxBounces := cfg.MaxBounces
	if maxBounces <= 0 {
		maxBounces = 5
	}
	rayEpsilon := cfg.RayEpsilon
	if rayEpsilon <= 0 {
		rayEpsilon = 1e-4
	}

	powers := make([]float64, len(c.Lights))
	for i, l := range c.Lights {
		powers[i] = l.Power()
	}
	lightPDF := qmc.NewPdf1D(powers)

	perThread := 1 + (cfg.NumPhotons-1)/threads
	var wg sync.WaitGroup
	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func(threadID int) {
			defer wg.Done()
			c.shootWorker(threadID, perThread, cfg.NumPhotons, lightPDF, maxBounces, rayEpsilon, diffuseMap, causticMap, rc)
		}(t)
	}
	wg.Wait()
	return Result{Diffuse: diffuseMap, Caustic: causticMap}
}
