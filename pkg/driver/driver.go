// Package driver implements the tiled AA-pass render loop (Module K): a
// sequence of progressively heavier passes, each split into tiles and
// rendered by a pool of worker goroutines, with adaptive resampling
// feedback between passes. Grounded on the teacher's
// pkg/renderer/{progressive,tile_renderer,worker_pool}.go for the
// goroutine-pool-over-a-tile-channel shape, generalized to the
// resample-threshold feedback loop and matSampleFactor-adjusted per-pixel
// sample counts from integrator_tiled.cc's TiledIntegrator::render/renderPass.
package driver

import (
	"math"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/film"
	"github.com/yafaray-go/yafaray/pkg/integrator"
	"github.com/yafaray-go/yafaray/pkg/mc"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
	"github.com/yafaray-go/yafaray/pkg/scene"
)

// Config holds the driver's knobs that aren't already carried by the
// film's AaNoiseParams (tile size, worker count, max bounce depth, and
// which extra layers to compute alongside combined).
type Config struct {
	TileSize   int
	Threads    int
	MaxDepth   int
	TileOrder  film.TileOrder
	Seed       int64

	// EnableDepthLayers runs PrecalcDepths and deposits z-depth-norm and
	// z-depth-abs samples alongside combined. Skipped by default since it
	// costs one extra scene intersection per sample.
	EnableDepthLayers bool

	// ResampleBackground raises any matSampleFactor below 1 to 1, in every
	// pass and at every pixel; renderTile does not tell background pixels
	// apart from others for this check.
	ResampleBackground bool

	// CameraWidth/CameraHeight are the full camera resolution the film's
	// Width/Height x CX0/CY0 region is cropped from. Both default to the
	// film's own Width/Height (the common case: the film covers the whole
	// image, no crop-render region).
	CameraWidth, CameraHeight int
}

// Driver owns one render: a scene, a film to accumulate into, a
// preprocessed surface integrator, and a cooperative-cancellation handle.
type Driver struct {
	Scene      *scene.Scene
	Film       *film.Film
	Integrator integrator.SurfaceIntegrator
	Control    *rendercontrol.Control
	Logger     core.Logger
	Config     Config

	minDepth, invDepthRange float64
}

// New builds a Driver. Control may be nil, in which case cancellation is
// never observed and progress fields are never reported.
func New(sc *scene.Scene, f *film.Film, integ integrator.SurfaceIntegrator, control *rendercontrol.Control, logger core.Logger, cfg Config) *Driver {
	if cfg.TileSize <= 0 {
		cfg.TileSize = 32
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 5
	}
	if cfg.CameraWidth <= 0 {
		cfg.CameraWidth = f.Width
	}
	if cfg.CameraHeight <= 0 {
		cfg.CameraHeight = f.Height
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Driver{Scene: sc, Film: f, Integrator: integ, Control: control, Logger: logger, Config: cfg}
}

// Render runs the full AA-pass sequence: precalcDepths if configured,
// preprocess the integrator, then one pass at aa.SamplesFirstPass
// followed by aa.Passes-1 incremental passes, each scaling its sample
// count by aa.SampleMultiplier and feeding film.NextPass's resampled-pixel
// count back into the adaptive-AA threshold. Returns after the last pass
// completes or the render is canceled.
func (d *Driver) Render() error {
	if d.Control != nil {
		d.Control.SetStarted()
		defer d.Control.SetFinished()
	}

	if d.Config.EnableDepthLayers {
		d.minDepth, d.invDepthRange = PrecalcDepths(d.Scene, d.Film.Width, d.Film.Height)
	}

	if err := d.Integrator.Preprocess(d.Control); err != nil {
		return err
	}

	aa := d.Film.GetAaNoiseParams()
	if d.Control != nil {
		d.Control.SetTotalPasses(aa.Passes)
	}

	thresholdChanged := true
	resampledFloor := int(math.Floor(aa.ResampleFloor * float64(d.Film.Width*d.Film.Height)))

	for pass := 0; pass < aa.Passes; pass++ {
		if d.canceled() {
			return nil
		}

		adaptive := pass > 0
		var resampled int
		if adaptive {
			resampled = d.Film.NextPass(true)
			if resampled < resampledFloor && !thresholdChanged {
				d.Logger.Debugf("pass %d: %d resampled pixels below floor %d, skipping\n", pass, resampled, resampledFloor)
				thresholdChanged = false
				continue
			}
		} else {
			d.Film.NextPass(false)
		}

		targetSamples := samplesForPass(aa, pass)
		if d.Control != nil {
			d.Control.SetCurrentPass(pass + 1)
		}
		d.Logger.Infof("pass %d: %d samples/pixel (adaptive=%v)\n", pass, targetSamples, adaptive)

		if err := d.RenderPass(pass, targetSamples, adaptive); err != nil {
			return err
		}

		if adaptive && resampled > 0 {
			shrink := 1 - 0.1*math.Min(8, float64(resampledFloor)/float64(resampled))
			aa.Threshold *= shrink
			d.Film.SetAaNoiseParams(aa)
			thresholdChanged = true
		} else {
			thresholdChanged = false
		}
	}

	return nil
}

// samplesForPass returns the incremental (per-pass, not cumulative) sample
// count for pass, matching spec.md's "pass 0 uses samples samples/pixel;
// later passes use inc_samples * sampleMultiplier^k".
func samplesForPass(aa film.AaNoiseParams, pass int) int {
	if pass == 0 {
		return aa.SamplesFirstPass
	}
	mul := math.Pow(aa.SampleMultiplier, float64(pass-1))
	return int(math.Ceil(float64(aa.IncrementalSamples) * mul))
}

func (d *Driver) canceled() bool {
	return d.Control != nil && d.Control.Canceled()
}

// rayState returns the root RayState every primary ray starts recursion
// with.
func (d *Driver) rayState() mc.RayState {
	return mc.RayState{MaxDepth: d.Config.MaxDepth}
}
