package qmc

import (
	"sort"

	"github.com/yafaray-go/yafaray/pkg/core"
)

// Pdf1D holds a 1-D probability distribution function built by rectangular
// integration over a non-negative step function, along with its CDF, so
// that uniform samples can be mapped back into the distribution.
type Pdf1D struct {
	fn       []float64
	cdf      []float64 // len(fn)+1
	integral float64
}

// NewPdf1D builds the CDF for f by uniform-width rectangular integration.
// Requires sum(f) > 0 (an all-zero function has no valid inverse-CDF
// sample and is a construction error for callers, e.g. zero scene power).
func NewPdf1D(f []float64) *Pdf1D {
	n := len(f)
	cdf := make([]float64, n+1)
	fn := make([]float64, n)
	copy(fn, f)

	delta := 1.0 / float64(n)
	c := 0.0
	for i := 1; i <= n; i++ {
		c += fn[i-1] * delta
		cdf[i] = c
	}
	integral := c
	if integral > 0 {
		for i := 1; i <= n; i++ {
			cdf[i] /= integral
		}
	}
	return &Pdf1D{fn: fn, cdf: cdf, integral: integral}
}

// Integral returns the un-normalized integral of f over [0,1].
func (p *Pdf1D) Integral() float64 { return p.integral }

// Count returns the number of steps in f.
func (p *Pdf1D) Count() int { return len(p.fn) }

// Sample maps u in [0,1] to a continuous position in [0, n] and the pdf at
// that position. Per the open question in the renderer's design notes,
// callers should draw u from (1e-36, 1) rather than [0,1) to avoid landing
// below cdf[0]; if that does happen anyway this logs an error on every
// such call (when logger is non-nil) and clamps u to cdf[0], returning
// position 0, rather than panicking.
func (p *Pdf1D) Sample(u float64, logger core.Logger) (x, pdf float64) {
	index, ok := p.lowerBoundIndex(u)
	if !ok {
		if logger != nil {
			logger.Errorf("qmc: Pdf1D.Sample index out of bounds for u=%v, clamping to 0", u)
		}
		index = 0
		u = p.cdf[0]
	}
	delta := 0.0
	if denom := p.cdf[index+1] - p.cdf[index]; denom > 0 {
		delta = (u - p.cdf[index]) / denom
	}
	pdf = 0
	if p.integral > 0 {
		pdf = p.fn[index] / p.integral
	}
	return float64(index) + delta, pdf
}

// DSample is the discrete counterpart of Sample: it returns the bin index
// itself rather than a continuous position within it, used to pick a light
// (or a photon-shooting worker's starting light) from a power distribution.
func (p *Pdf1D) DSample(u float64, logger core.Logger) (index int, pdf float64) {
	if u == 0 {
		pdf = 0
		if p.integral > 0 {
			pdf = p.fn[0] / p.integral
		}
		return 0, pdf
	}
	index, ok := p.lowerBoundIndex(u)
	if !ok {
		if logger != nil {
			logger.Errorf("qmc: Pdf1D.DSample index out of bounds for u=%v, clamping to 0", u)
		}
		index = 0
	}
	pdf = 0
	if p.integral > 0 {
		pdf = p.fn[index] / p.integral
	}
	return index, pdf
}

// lowerBoundIndex finds i such that cdf[i] <= u < cdf[i+1], mirroring
// std::lower_bound(cdf, cdf+n+1, u) - 1 from the reference implementation.
func (p *Pdf1D) lowerBoundIndex(u float64) (int, bool) {
	n := len(p.cdf)
	pos := sort.Search(n, func(i int) bool { return p.cdf[i] >= u })
	index := pos - 1
	if index < 0 {
		return 0, false
	}
	if index >= len(p.fn) {
		index = len(p.fn) - 1
	}
	return index, true
}
