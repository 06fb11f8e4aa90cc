package params

import "testing"

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestToLinearSRGBBlackAndWhiteAreFixedPoints(t *testing.T) {
	black := ToLinear(ColorSpaceSRGB, [3]float64{0, 0, 0}, 0)
	if black != ([3]float64{0, 0, 0}) {
		t.Errorf("expected black to stay black, got %v", black)
	}
	white := ToLinear(ColorSpaceSRGB, [3]float64{1, 1, 1}, 0)
	for i, c := range white {
		if !approxEqual(c, 1, 1e-9) {
			t.Errorf("channel %d: expected white to stay ~1, got %v", i, c)
		}
	}
}

func TestToLinearRawGammaAppliesExponent(t *testing.T) {
	out := ToLinear(ColorSpaceRawGamma, [3]float64{0.5, 0.5, 0.5}, 2.2)
	for i, c := range out {
		if c >= 0.5 {
			t.Errorf("channel %d: expected gamma decode to darken midtone, got %v", i, c)
		}
	}
}

func TestToLinearLinearRGBIsIdentity(t *testing.T) {
	in := [3]float64{0.2, 0.4, 0.8}
	out := ToLinear(ColorSpaceLinearRGB, in, 0)
	if out != in {
		t.Errorf("expected identity, got %v", out)
	}
}

func TestToLinearXYZD65MapsD65WhiteNearUnity(t *testing.T) {
	out := ToLinear(ColorSpaceXYZD65, [3]float64{0.9505, 1.0, 1.089}, 0)
	for i, c := range out {
		if !approxEqual(c, 1, 0.02) {
			t.Errorf("channel %d: expected D65 white to map near 1, got %v", i, c)
		}
	}
}
