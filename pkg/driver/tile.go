package driver

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/film"
	"github.com/yafaray-go/yafaray/pkg/qmc"
)

// renderTile iterates every pixel in task.Tile, adjusts its sample count by
// the pixel's recorded matSampleFactor, shoots one ray per sample through a
// jittered (dx,dy) pixel offset, traces it through the integrator, and
// deposits the result into the film. Grounded on
// TiledIntegrator::renderTile: the adaptive-skip check, the
// matSampleFactor read-and-round, and the per-pixel Halton restart by
// pixel hash all mirror that function; lens sampling is omitted since this
// codebase's Camera has no aperture.
func (d *Driver) renderTile(task tileTask) error {
	t := task.Tile
	for y := t.Y; y < t.Y+t.H; y++ {
		if d.canceled() {
			return nil
		}
		for x := t.X; x < t.X+t.W; x++ {
			if task.Adaptive && !d.Film.DoMoreSamples(x, y) {
				continue
			}

			matFactor := d.Film.SamplingFactor(x, y)
			if d.Config.ResampleBackground && matFactor > 0 && matFactor < 1 {
				matFactor = 1
			}
			nSamples := task.TargetSamples
			if matFactor != 1 {
				nSamples = int(math.Round(float64(task.TargetSamples) * matFactor))
			}
			if nSamples <= 0 {
				continue
			}

			d.samplePixel(x, y, nSamples, task.PassNumber, &t)
		}
	}
	return nil
}

func (d *Driver) samplePixel(x, y, nSamples, passNumber int, tile *film.Tile) {
	offset := qmc.NewPixelSamplingData(x, y, 0, 0).Offset
	multiPass := passNumber > 0

	for i := 0; i < nSamples; i++ {
		dx, dy := pixelOffset(uint32(i), offset, multiPass)
		sampler := newPixelSampler(uint32(i), offset)

		gx := float64(d.Film.CX0+x) + dx
		gy := float64(d.Film.CY0+y) + dy
		s := gx / float64(d.Config.CameraWidth)
		t := 1 - gy/float64(d.Config.CameraHeight)
		ray := d.Scene.Camera.GetRay(s, t)

		col, alpha := d.Integrator.Integrate(ray, d.rayState(), sampler)
		colors := map[film.LayerType]film.Color{
			film.LayerCombined: {R: col.X, G: col.Y, B: col.Z},
		}
		if d.Config.EnableDepthLayers {
			d.addDepthSample(ray, x, y, dx, dy, tile)
		}
		_ = alpha
		d.Film.AddSample(x, y, dx, dy, tile, colors)
	}
}

// addDepthSample intersects ray directly (bypassing the integrator, which
// has no notion of a depth layer) to deposit z-depth-norm/z-depth-abs.
func (d *Driver) addDepthSample(ray core.Ray, x, y int, dx, dy float64, tile *film.Tile) {
	hit, ok := d.Scene.Hit(ray, 1e-4, math.Inf(1))
	if !ok {
		return
	}
	norm := 0.0
	if d.invDepthRange > 0 {
		norm = 1 - (hit.T-d.minDepth)*d.invDepthRange
	}
	d.Film.AddSample(x, y, dx, dy, tile, map[film.LayerType]film.Color{
		film.LayerZDepthNorm: {R: norm, G: norm, B: norm},
		film.LayerZDepthAbs:  {R: hit.T, G: hit.T, B: hit.T},
	})
}

// pixelOffset returns the (dx,dy) jitter for sample i within a pixel,
// scrambled by the pixel's hash offset so neighbouring pixels don't share
// phase. multiPass selects the progressive-render sequence (scrambled
// Halton base (2,3), stable across a pixel's passes so early samples from
// earlier passes remain valid as prefixes of the full sequence) vs the
// single-pass sequence (Larcher-Pillichshammer, lower discrepancy for a
// one-shot fixed sample count but not incrementally extensible).
func pixelOffset(i, seed uint32, multiPass bool) (dx, dy float64) {
	if multiPass {
		return qmc.RiVdC(i, seed), qmc.RiS(i, seed)
	}
	return qmc.RiLP(i, seed), qmc.RiLP(i, seed^0x9e3779b9)
}

// pixelSampler draws every non-footprint random number (material/light
// sampling inside the integrator) from a scrambled base-3 radical inverse
// keyed by sample index and pixel offset, one incrementing dimension per
// call. Grounded on prepass.pathSampler, the same pattern applied to
// photon paths instead of camera samples.
type pixelSampler struct {
	index uint32
	seed  uint32
	dim   uint32
}

func newPixelSampler(index, seed uint32) *pixelSampler {
	return &pixelSampler{index: index, seed: seed}
}

func (s *pixelSampler) Get1D() float64 {
	s.dim++
	return qmc.RiS(s.index, s.seed+s.dim)
}

func (s *pixelSampler) Get2D() (float64, float64) {
	return s.Get1D(), s.Get1D()
}
