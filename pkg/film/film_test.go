package film

import "testing"

func TestAddSampleAccumulatesAtPixelCenter(t *testing.T) {
	f := New(4, 4, 0, 0, 4, []LayerType{LayerCombined}, FilterBox, 1.0)
	f.AddSample(2, 2, 0, 0, nil, map[LayerType]Color{LayerCombined: {R: 1, G: 1, B: 1}})

	c := f.Layer(LayerCombined, 2, 2)
	if c.R != 1 || c.G != 1 || c.B != 1 {
		t.Errorf("expected full-weight sample at its own pixel, got %+v", c)
	}
}

func TestAddSampleSkipsUnrequestedLayers(t *testing.T) {
	f := New(4, 4, 0, 0, 4, []LayerType{LayerCombined}, FilterBox, 1.0)
	f.AddSample(1, 1, 0, 0, nil, map[LayerType]Color{
		LayerCombined: {R: 1},
		LayerDiffuse:  {R: 5},
	})
	if got := f.Layer(LayerDiffuse, 1, 1); got != (Color{}) {
		t.Errorf("expected unallocated diffuse layer to read as zero, got %+v", got)
	}
}

func TestNextPassFlagsZeroWeightPixels(t *testing.T) {
	f := New(2, 2, 0, 0, 2, []LayerType{LayerCombined}, FilterBox, 1.0)
	f.AddSample(0, 0, 0, 0, nil, map[LayerType]Color{LayerCombined: {R: 1, G: 1, B: 1}})

	f.NextPass(true)
	if !f.DoMoreSamples(1, 1) {
		t.Errorf("pixel with zero accumulated weight must always be flagged")
	}
}

func TestNextPassUnflagsUniformImage(t *testing.T) {
	f := New(4, 4, 0, 0, 4, []LayerType{LayerCombined}, FilterBox, 1.0)
	f.aa = AaNoiseParams{Threshold: 0.05, VarianceEdgeSize: 3}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			f.AddSample(x, y, 0, 0, nil, map[LayerType]Color{LayerCombined: {R: 0.5, G: 0.5, B: 0.5}})
		}
	}
	f.NextPass(true)
	if f.DoMoreSamples(1, 1) {
		t.Errorf("uniform image with weight everywhere shouldn't be flagged for resampling")
	}
}

func TestNextPassNonAdaptiveNeverFlagsSampledPixels(t *testing.T) {
	f := New(2, 2, 0, 0, 2, []LayerType{LayerCombined}, FilterBox, 1.0)
	f.AddSample(0, 0, 0, 0, nil, map[LayerType]Color{LayerCombined: {R: 1}})
	f.AddSample(1, 1, 0, 0, nil, map[LayerType]Color{LayerCombined: {R: 1}})
	f.NextPass(false)
	if f.DoMoreSamples(0, 0) || f.DoMoreSamples(1, 1) {
		t.Errorf("non-adaptive pass should not flag pixels that were sampled")
	}
}

func TestAddDensitySampleNoOpWhenDisabled(t *testing.T) {
	f := New(2, 2, 0, 0, 2, []LayerType{LayerCombined}, FilterBox, 1.0)
	f.AddDensitySample(Color{R: 1}, 0, 0, 0, 0, nil)
}

func TestClearResetsBuffers(t *testing.T) {
	f := New(2, 2, 0, 0, 2, []LayerType{LayerCombined}, FilterBox, 1.0)
	f.AddSample(0, 0, 0, 0, nil, map[LayerType]Color{LayerCombined: {R: 1}})
	f.Clear()
	if got := f.Layer(LayerCombined, 0, 0); got != (Color{}) {
		t.Errorf("expected zeroed buffer after Clear, got %+v", got)
	}
	if f.GetWeight(0, 0) != 0 {
		t.Errorf("expected zeroed weight after Clear")
	}
}

func TestSamplingFactorDefaultsToOne(t *testing.T) {
	f := New(2, 2, 0, 0, 2, []LayerType{LayerCombined}, FilterBox, 1.0)
	if got := f.SamplingFactor(0, 0); got != 1 {
		t.Errorf("expected default sampling factor 1, got %v", got)
	}
	f.SetSamplingFactor(0, 0, 2.5, nil)
	if got := f.SamplingFactor(0, 0); got != 2.5 {
		t.Errorf("expected 2.5 after SetSamplingFactor, got %v", got)
	}
}

func TestGetAaNoiseParamsRoundTrips(t *testing.T) {
	f := New(2, 2, 0, 0, 2, []LayerType{LayerCombined}, FilterBox, 1.0)
	want := AaNoiseParams{Passes: 3, Threshold: 0.05}
	f.SetAaNoiseParams(want)
	if got := f.GetAaNoiseParams(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestImageProducesFullyOpaquePixels(t *testing.T) {
	f := New(2, 2, 0, 0, 2, []LayerType{LayerCombined}, FilterBox, 1.0)
	f.AddSample(0, 0, 0, 0, nil, map[LayerType]Color{LayerCombined: {R: 1, G: 1, B: 1}})
	img := f.Image(LayerCombined, 2.2)
	c := img.RGBAAt(0, 0)
	if c.A != 255 {
		t.Errorf("expected fully opaque pixel, got alpha %d", c.A)
	}
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("expected white sample to map to 255,255,255, got %+v", c)
	}
	if img.RGBAAt(1, 1).R != 0 {
		t.Errorf("expected unsampled pixel to be black, got %+v", img.RGBAAt(1, 1))
	}
}
