package params

import "math"

// ColorSpace names the input encoding a color-valued parameter may carry,
// per spec §6's colour-space handling for texture/background color
// parameters. Every ToLinear implementation returns straight linear RGB
// in [0,1]-ish range (not clamped, since HDR inputs can exceed 1).
type ColorSpace int

const (
	ColorSpaceLinearRGB ColorSpace = iota
	ColorSpaceSRGB
	ColorSpaceRawGamma
	ColorSpaceXYZD65
)

// ToLinear converts rgb (already in the space's own channel order) to
// linear RGB. gamma is only used by ColorSpaceRawGamma.
func ToLinear(space ColorSpace, rgb [3]float64, gamma float64) [3]float64 {
	switch space {
	case ColorSpaceSRGB:
		return [3]float64{srgbToLinear(rgb[0]), srgbToLinear(rgb[1]), srgbToLinear(rgb[2])}
	case ColorSpaceRawGamma:
		if gamma <= 0 {
			gamma = 1
		}
		return [3]float64{
			math.Pow(rgb[0], gamma),
			math.Pow(rgb[1], gamma),
			math.Pow(rgb[2], gamma),
		}
	case ColorSpaceXYZD65:
		return xyzD65ToLinearRGB(rgb)
	default:
		return rgb
	}
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// xyzD65ToLinearRGB applies the standard CIE XYZ (D65 white point) to
// linear sRGB primaries matrix.
func xyzD65ToLinearRGB(xyz [3]float64) [3]float64 {
	x, y, z := xyz[0], xyz[1], xyz[2]
	return [3]float64{
		3.2404542*x - 1.5371385*y - 0.4985314*z,
		-0.9692660*x + 1.8760108*y + 0.0415560*z,
		0.0556434*x - 0.2040259*y + 1.0572252*z,
	}
}
