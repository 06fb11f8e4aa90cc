package film

import "math"

// FilterType selects the reconstruction filter used to splat a sample's
// contribution across neighbouring pixels.
type FilterType int

const (
	FilterBox FilterType = iota
	FilterGauss
	FilterMitchell
	FilterLanczos
)

const filterTableSize = 32

// filterTable is a tabulated, radially symmetric reconstruction filter
// evaluated once at film construction and reused for every AddSample call.
// width is in pixels (the filter support is [-width, width] on each axis);
// scale maps a tap's distance from the sample into a table index.
type filterTable struct {
	width float64
	scale float64
	table [filterTableSize]float64
}

func newFilterTable(kind FilterType, width float64) *filterTable {
	ft := &filterTable{width: width}
	if width <= 0 {
		width = 1
		ft.width = 1
	}
	ft.scale = float64(filterTableSize) / width
	eval := filterFunc(kind)
	for i := 0; i < filterTableSize; i++ {
		d := (float64(i) + 0.5) / ft.scale
		ft.table[i] = eval(d, width)
	}
	return ft
}

// weight returns the filter weight for a tap at distance d (in pixels)
// from the sample location, along one axis.
func (ft *filterTable) weight(d float64) float64 {
	ad := math.Abs(d)
	if ad >= ft.width {
		return 0
	}
	idx := int(ad * ft.scale)
	if idx >= filterTableSize {
		idx = filterTableSize - 1
	}
	return ft.table[idx]
}

func filterFunc(kind FilterType) func(d, width float64) float64 {
	switch kind {
	case FilterGauss:
		return gaussFilter
	case FilterMitchell:
		return mitchellFilter
	case FilterLanczos:
		return lanczosFilter
	default:
		return boxFilter
	}
}

func boxFilter(d, width float64) float64 {
	if math.Abs(d) > width {
		return 0
	}
	return 1
}

// gaussFilter is the classic alpha=2 Gaussian reconstruction filter with
// the tail at the support edge subtracted off so it reaches zero there.
func gaussFilter(d, width float64) float64 {
	const alpha = 2.0
	expEdge := math.Exp(-alpha * width * width)
	v := math.Exp(-alpha*d*d) - expEdge
	if v < 0 {
		return 0
	}
	return v
}

// mitchellFilter is the Mitchell-Netravali filter with the standard
// B=1/3, C=1/3 parameterization, scaled to the configured support width.
func mitchellFilter(d, width float64) float64 {
	const b = 1.0 / 3.0
	const c = 1.0 / 3.0
	x := math.Abs(d) / width * 2
	if x > 2 {
		return 0
	}
	var v float64
	if x < 1 {
		v = (12-9*b-6*c)*x*x*x + (-18+12*b+6*c)*x*x + (6 - 2*b)
	} else {
		v = (-b-6*c)*x*x*x + (6*b+30*c)*x*x + (-12*b-48*c)*x + (8*b + 24*c)
	}
	return v / 6
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	x *= math.Pi
	return math.Sin(x) / x
}

// lanczosFilter is a windowed sinc with a tau=2 Lanczos window.
func lanczosFilter(d, width float64) float64 {
	x := math.Abs(d) / width
	if x > 1 {
		return 0
	}
	return sinc(x) * sinc(x*2)
}
