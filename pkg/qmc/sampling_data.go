package qmc

import "math"

// PixelSamplingData carries the per-pixel decorrelation state a sample
// needs: which sample index within the pixel this is, a hash-derived
// offset so neighbouring pixels don't share QMC phase, and a time value
// for motion-blur style sampling.
type PixelSamplingData struct {
	SampleIndex int
	Offset      uint32
	Time        float64
}

// NewPixelSamplingData derives decorrelated sampling state for pixel (x,y).
func NewPixelSamplingData(x, y, sampleIndex int, timeSample float64) PixelSamplingData {
	return PixelSamplingData{
		SampleIndex: sampleIndex,
		Offset:      pixelHash(x, y),
		Time:        timeSample,
	}
}

// pixelHash is a small integer hash so Offset decorrelates neighbouring
// pixels without needing a per-pixel RNG stream.
func pixelHash(x, y int) uint32 {
	h := uint32(x)*73856093 ^ uint32(y)*19349663
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	return h
}

// RayDivision splits a single pixel sample's QMC budget across recursive
// bounces so that stratification survives recursion: division is how many
// ways the current dimension is split, offset selects this call's slice,
// and the two decorrelation floats reseed child Halton streams distinctly
// from the parent.
type RayDivision struct {
	Division int
	Offset   int
	Decorrelation1,
	Decorrelation2 float64
}

// NewRayDivision returns the root division: the whole sample budget, no
// offset, zero decorrelation.
func NewRayDivision() RayDivision {
	return RayDivision{Division: 1, Offset: 0}
}

// Split partitions this division into n children and returns the i-th,
// carrying forward decorrelation so grandchildren remain distinguishable.
func (d RayDivision) Split(i, n int) RayDivision {
	return RayDivision{
		Division:       d.Division * n,
		Offset:         d.Offset*n + i,
		Decorrelation1: math.Mod(d.Decorrelation1+golden(i), 1),
		Decorrelation2: math.Mod(d.Decorrelation2+golden(i+1), 1),
	}
}

// golden returns the i-th term of the additive recurrence based on the
// golden ratio, a standard way to generate a well-distributed irrational
// decorrelation sequence without storing state.
func golden(i int) float64 {
	const phi = 0.6180339887498949
	return math.Mod(float64(i)*phi, 1)
}
