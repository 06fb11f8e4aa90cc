package film

import (
	"image"
	"image/color"
	"math"
	"sync"
)

// DetectionMode selects how nextPass turns neighbourhood noise into a
// needs-more-samples decision.
type DetectionMode int

const (
	DetectionFlat DetectionMode = iota
	DetectionLinear
	DetectionCurve
)

// AaNoiseParams is the adaptive-antialiasing configuration passed through
// from scene setup to both the tiled driver (pass/sample counts) and the
// film (threshold-based resampling decisions).
type AaNoiseParams struct {
	Passes              int
	SamplesFirstPass     int
	IncrementalSamples   int
	SampleMultiplier     float64
	LightSampleMultiplier float64
	IndirectSampleMultiplier float64
	ResampleFloor        float64 // fraction of pixels, e.g. 0.01 for 1%
	Detection            DetectionMode
	Threshold            float64
	DarkDetectionFactor  float64
	VarianceEdgeSize     int
	Clamp                float64
	IndirectClamp        float64
}

// Tile is one rectangular region of the image handed out by a Splitter.
// SafeX0..SafeY1 bound the tile's own pixels. AddSample writes without
// the film's lock only to pixels at least the filter radius inside that
// rectangle, which no filter tap from a neighbouring tile's samples can
// reach; every other write takes the lock, since a neighbouring tile's
// thread may be splatting into the same pixels concurrently.
type Tile struct {
	ID                 int
	X, Y, W, H         int
	SafeX0, SafeX1     int
	SafeY0, SafeY1     int
}

func (t *Tile) inSafeRegion(x, y int) bool {
	return x >= t.SafeX0 && x < t.SafeX1 && y >= t.SafeY0 && y < t.SafeY1
}

// Film accumulates rendered samples into per-layer (colour, weight)
// buffers plus a shared weight buffer, an adaptive-AA flag buffer, and
// optional density-estimation and sampling-factor debug buffers.
type Film struct {
	mu sync.Mutex

	Width, Height int
	CX0, CY0      int
	TileSize      int

	layers map[LayerType]*layerBuffer
	filter *filterTable

	sharedWeight []float64
	flags        []bool

	densityEnabled  bool
	density         *layerBuffer
	numDensitySamples int

	samplingFactor []float64

	aa AaNoiseParams

	areaCount, completedCount int
}

// New builds a film sized width x height with the requested layer set and
// reconstruction filter. Layers not in want are never allocated.
func New(width, height, cx0, cy0, tileSize int, want []LayerType, filt FilterType, filterWidth float64) *Film {
	f := &Film{
		Width: width, Height: height,
		CX0: cx0, CY0: cy0,
		TileSize:       tileSize,
		layers:         make(map[LayerType]*layerBuffer, len(want)),
		filter:         newFilterTable(filt, filterWidth),
		sharedWeight:   make([]float64, width*height),
		flags:          make([]bool, width*height),
		samplingFactor: make([]float64, width*height),
	}
	hasCombined := false
	for _, lt := range want {
		f.layers[lt] = newLayerBuffer(width, height)
		if lt == LayerCombined {
			hasCombined = true
		}
	}
	if !hasCombined {
		f.layers[LayerCombined] = newLayerBuffer(width, height)
	}
	return f
}

// SetDensityEstimation enables or disables the light-density buffer used
// by bidirectional/SPPM light-image accumulation.
func (f *Film) SetDensityEstimation(enable bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.densityEnabled = enable
	if enable && f.density == nil {
		f.density = newLayerBuffer(f.Width, f.Height)
	}
}

func (f *Film) SetNumDensitySamples(n int) { f.numDensitySamples = n }

func (f *Film) SetAaNoiseParams(aa AaNoiseParams) { f.aa = aa }

func (f *Film) index(x, y int) int { return y*f.Width + x }

// AddSample splats one sample's per-layer colours across the reconstruction
// filter's support, centred at pixel (x,y) offset by (dx,dy) within the
// pixel. Writes outside the tile's safe region, or within the filter
// radius of its edge, take the film lock; writes deeper inside it don't,
// since the caller guarantees exclusive tile ownership.
func (f *Film) AddSample(x, y int, dx, dy float64, tile *Tile, colors map[LayerType]Color) {
	width := f.filter.width
	r := int(math.Ceil(width))
	for oy := -r; oy <= r; oy++ {
		py := y + oy
		if py < 0 || py >= f.Height {
			continue
		}
		wy := f.filter.weight(float64(oy) - dy + 0.5)
		if wy == 0 {
			continue
		}
		for ox := -r; ox <= r; ox++ {
			px := x + ox
			if px < 0 || px >= f.Width {
				continue
			}
			wx := f.filter.weight(float64(ox) - dx + 0.5)
			if wx == 0 {
				continue
			}
			w := wx * wy
			needsLock := tile == nil || !tile.inSafeRegion(px, py) ||
				px < tile.SafeX0+r || px >= tile.SafeX1-r || py < tile.SafeY0+r || py >= tile.SafeY1-r
			if needsLock {
				f.mu.Lock()
			}
			for lt, c := range colors {
				buf, ok := f.layers[lt]
				if !ok {
					continue
				}
				buf.add(px, py, c, w)
			}
			f.sharedWeight[f.index(px, py)] += w
			if needsLock {
				f.mu.Unlock()
			}
		}
	}
}

// AddDensitySample records a light-path contribution for density
// estimation (bidirectional / SPPM light image). No-op if disabled.
func (f *Film) AddDensitySample(c Color, x, y int, dx, dy float64, tile *Tile) {
	if !f.densityEnabled {
		return
	}
	needsLock := tile == nil || !tile.inSafeRegion(x, y)
	if needsLock {
		f.mu.Lock()
		defer f.mu.Unlock()
	}
	f.density.add(x, y, c, 1)
}

// GetWeight returns the shared sample weight accumulated at (x,y).
func (f *Film) GetWeight(x, y int) float64 {
	return f.sharedWeight[f.index(x, y)]
}

// DoMoreSamples reports whether (x,y) was flagged by the last NextPass
// call for another round of adaptive sampling.
func (f *Film) DoMoreSamples(x, y int) bool {
	return f.flags[f.index(x, y)]
}

// Layer returns the normalized colour at (x,y) for the named layer, or
// zero if that layer wasn't requested.
func (f *Film) Layer(lt LayerType, x, y int) Color {
	buf, ok := f.layers[lt]
	if !ok {
		return Color{}
	}
	return buf.normalized(x, y)
}

// darkThresholdCurveInterpolate scales the noise threshold down in dark
// regions, where noise is visually more noticeable relative to signal,
// according to the configured DarkDetectionFactor.
func (f *Film) darkThresholdCurveInterpolate(brightness float64) float64 {
	if f.aa.Detection != DetectionCurve || f.aa.DarkDetectionFactor <= 0 {
		return f.aa.Threshold
	}
	const darkLimit = 1.0
	t := brightness / darkLimit
	if t > 1 {
		t = 1
	}
	scale := f.aa.DarkDetectionFactor + (1-f.aa.DarkDetectionFactor)*t
	return f.aa.Threshold * scale
}

// NextPass recomputes the needs-more-samples flag buffer ahead of the next
// AA pass and returns how many pixels were flagged. Pixels with zero
// accumulated weight are always flagged; flags are only ever set within
// the flag buffer (never read back into colour buffers).
func (f *Film) NextPass(adaptiveAA bool) int {
	f.areaCount = 0
	f.completedCount = 0
	flagged := 0
	combined := f.layers[LayerCombined]
	edge := f.aa.VarianceEdgeSize
	if edge <= 0 {
		edge = 3
	}
	half := edge / 2

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i := f.index(x, y)
			if f.sharedWeight[i] <= 0 {
				f.flags[i] = true
				flagged++
				continue
			}
			if !adaptiveAA {
				f.flags[i] = false
				continue
			}
			center := combined.normalized(x, y)
			var maxDiff float64
			for ny := y - half; ny <= y+half; ny++ {
				if ny < 0 || ny >= f.Height {
					continue
				}
				for nx := x - half; nx <= x+half; nx++ {
					if nx < 0 || nx >= f.Width {
						continue
					}
					c := combined.normalized(nx, ny)
					d := center.Sub(c)
					if v := math.Abs(d.R); v > maxDiff {
						maxDiff = v
					}
					if v := math.Abs(d.G); v > maxDiff {
						maxDiff = v
					}
					if v := math.Abs(d.B); v > maxDiff {
						maxDiff = v
					}
				}
			}
			threshold := f.aa.Threshold
			if f.aa.Detection == DetectionCurve {
				threshold = f.darkThresholdCurveInterpolate(center.MaxChannel())
			}
			if maxDiff > threshold {
				f.flags[i] = true
				flagged++
			} else {
				f.flags[i] = false
			}
		}
	}
	return flagged
}

// SetSamplingFactor records the per-pixel sample-count multiplier the
// driver's adaptive AA pass should apply on the following pass, read back
// from a debug-property pass over the sampling-factor layer. Locking
// follows AddSample's safe-region rule.
func (f *Film) SetSamplingFactor(x, y int, factor float64, tile *Tile) {
	needsLock := tile == nil || !tile.inSafeRegion(x, y)
	if needsLock {
		f.mu.Lock()
		defer f.mu.Unlock()
	}
	f.samplingFactor[f.index(x, y)] = factor
}

// SamplingFactor returns the last recorded per-pixel sample multiplier, or
// 1 if none has been recorded yet (pixel not sampled, or no prior pass).
func (f *Film) SamplingFactor(x, y int) float64 {
	v := f.samplingFactor[f.index(x, y)]
	if v <= 0 {
		return 1
	}
	return v
}

// GetAaNoiseParams returns the adaptive-AA configuration last set by
// SetAaNoiseParams, so the driver can read the current threshold back
// before shrinking it for the next pass.
func (f *Film) GetAaNoiseParams() AaNoiseParams { return f.aa }

// FinishArea marks a tile complete, for progress reporting by the driver.
func (f *Film) FinishArea(tile *Tile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completedCount++
}

// Image renders the named layer to an 8-bit RGBA image, gamma-correcting
// and clamping the normalized float colour the way vec3ToColor does for
// the teacher's raytracer before a final PNG write.
func (f *Film) Image(lt LayerType, gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	if gamma <= 0 {
		gamma = 1
	}
	invGamma := 1 / gamma
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.Layer(lt, x, y)
			r := gammaClamp(c.R, invGamma)
			g := gammaClamp(c.G, invGamma)
			b := gammaClamp(c.B, invGamma)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

func gammaClamp(v, invGamma float64) uint8 {
	if v < 0 {
		v = 0
	}
	v = math.Pow(v, invGamma)
	if v > 1 {
		v = 1
	}
	return uint8(255*v + 0.5)
}

// Clear resets every buffer to zero, for a fresh render.
func (f *Film) Clear() {
	for _, buf := range f.layers {
		buf.clear()
	}
	for i := range f.sharedWeight {
		f.sharedWeight[i] = 0
	}
	for i := range f.flags {
		f.flags[i] = false
	}
	if f.density != nil {
		f.density.clear()
	}
}
