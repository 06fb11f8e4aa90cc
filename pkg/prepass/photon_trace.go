package prepass

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/material"
	"github.com/yafaray-go/yafaray/pkg/photon"
	"github.com/yafaray-go/yafaray/pkg/qmc"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
)

// pathSampler is a low-discrepancy Sampler seeded from a photon path's
// Halton index, one scrambled radical-inverse dimension per Get1D/Get2D
// call. Grounded on diffuseWorker's per-bounce
// Halton::lowDiscrepancySampling(dim, haltoncurr) calls: each bounce
// consumes the next few dimensions of the same haltoncurr sequence
// rather than drawing from a PRNG, so two runs over the same photon
// count retrace identical paths.
type pathSampler struct {
	index uint32
	dim   uint32
}

func newPathSampler(haltonIndex uint32) *pathSampler {
	return &pathSampler{index: haltonIndex}
}

func (s *pathSampler) Get1D() float64 {
	s.dim++
	return qmc.RiS(s.index, s.dim)
}

func (s *pathSampler) Get2D() (float64, float64) {
	return s.Get1D(), s.Get1D()
}

// shootWorker traces this thread's contiguous slice of photon paths,
// accumulating local diffuse/caustic batches before merging them into
// the shared maps a single time, matching diffuseWorker's
// local_diffuse_photons buffering.
func (c *Core) shootWorker(threadID, perThread, totalPhotons int, lightPDF *qmc.Pdf1D, maxBounces int, rayEpsilon float64, diffuseMap, causticMap *photon.Map, rc *rendercontrol.Control) {
	numLights := len(c.Lights)
	var localDiffuse, localCaustic []photon.Photon
	paths := 0

	for i := 0; i < perThread; i++ {
		if rc != nil && rc.Canceled() {
			break
		}
		haltonCurr := uint32(i + perThread*threadID)
		paths++

		sL := float64(haltonCurr) / float64(totalPhotons)
		lightIdx, density := lightPDF.DSample(sL, c.Logger)
		if lightIdx < 0 || lightIdx >= numLights {
			continue
		}
		probability := density / float64(numLights)
		if probability <= 0 {
			continue
		}

		sampler := newPathSampler(haltonCurr)
		light := c.Lights[lightIdx]
		emission := light.SampleEmission(sampler)
		if emission.PDF <= 0 {
			continue
		}
		cosTheta := math.Abs(emission.Normal.Dot(emission.Direction))
		pcol := emission.Radiance.Multiply(cosTheta / (emission.PDF * probability))
		if pcol.IsZero() {
			continue
		}

		c.tracePath(pcol, emission.Point, emission.Direction, sampler, maxBounces, rayEpsilon, &localDiffuse, &localCaustic)
	}

	if len(localDiffuse) > 0 || paths > 0 {
		diffuseMap.Lock()
		diffuseMap.Append(localDiffuse, paths)
		diffuseMap.Unlock()
	}
	if len(localCaustic) > 0 {
		causticMap.Lock()
		causticMap.Append(localCaustic, paths)
		causticMap.Unlock()
	}
}

// tracePath bounces one photon from origin along dir until it's
// absorbed, escapes the scene, or exceeds maxBounces, depositing into
// diffuse or caustic depending on whether the immediately preceding
// bounce was specular. Grounded on diffuseWorker's intersect/deposit/
// scatter loop, with scatterPhoton's absorption replaced by an explicit
// Russian-roulette survival test on Material.Scatter's own
// Attenuation/PDF (this codebase has no separate photon-scattering BSDF
// entry point).
func (c *Core) tracePath(pcol core.Vec3, origin, dir core.Vec3, sampler core.Sampler, maxBounces int, rayEpsilon float64, localDiffuse, localCaustic *[]photon.Photon) {
	ray := core.NewRay(origin, dir)
	causticPhoton := false

	for bounce := 0; ; bounce++ {
		hit, ok := c.Intersect(ray, rayEpsilon)
		if !ok {
			return
		}
		if d, isDiffuse := hit.Material.(material.DiffuseReflector); isDiffuse && d.IsDiffuse() {
			p := photon.Photon{Pos: hit.Point, Dir: ray.Direction.Negate(), Color: pcol}
			if causticPhoton {
				*localCaustic = append(*localCaustic, p)
			} else {
				*localDiffuse = append(*localDiffuse, p)
			}
		}
		if bounce >= maxBounces {
			return
		}

		scatter, ok := hit.Material.Scatter(ray, hit, sampler)
		if !ok {
			return
		}

		var weight core.Vec3
		if scatter.IsSpecular() {
			weight = scatter.Attenuation
		} else if scatter.PDF > 1e-6 {
			cosTheta := scatter.Scattered.Direction.Dot(hit.Normal)
			if cosTheta < 0 {
				cosTheta = 0
			}
			weight = scatter.Attenuation.Multiply(cosTheta / scatter.PDF)
		} else {
			return
		}

		survival := weight.Max()
		if survival <= 0 {
			return
		}
		if survival > 1 {
			survival = 1
		}
		if sampler.Get1D() >= survival {
			return // absorbed by Russian roulette
		}
		pcol = pcol.MultiplyVec(weight).Multiply(1 / survival)

		causticPhoton = scatter.IsSpecular()
		ray = core.NewRay(hit.Point, scatter.Scattered.Direction)
	}
}
