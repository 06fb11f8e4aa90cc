package qmc

import (
	"math"
	"testing"
)

func TestHaltonDeterministic(t *testing.T) {
	a := NewHalton(2)
	b := NewHalton(2)
	for i := 0; i < 100; i++ {
		va, vb := a.Next(), b.Next()
		if va != vb {
			t.Fatalf("halton sequence not deterministic at step %d: %v != %v", i, va, vb)
		}
		if va < 0 || va > 1 {
			t.Fatalf("halton value out of range: %v", va)
		}
	}
}

func TestHaltonSetStartMatchesReplay(t *testing.T) {
	h := NewHalton(3)
	var want float64
	for i := 0; i < 17; i++ {
		want = h.Next()
	}

	h2 := NewHalton(3)
	h2.SetStart(16) // jump to the 17th value (0-indexed from v0)
	got := h2.Next()

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("SetStart(16).Next() = %v, want %v", got, want)
	}
}

func TestVanDerCorputBase2(t *testing.T) {
	// VdC(1) in base 2 should be 0.5, VdC(2) should be 0.25
	if got := VanDerCorput(1); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("VanDerCorput(1) = %v, want 0.5", got)
	}
	if got := VanDerCorput(2); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("VanDerCorput(2) = %v, want 0.25", got)
	}
}

func TestRiVdCInRange(t *testing.T) {
	for i := uint32(0); i < 1000; i++ {
		v := RiVdC(i, 12345)
		if v < 0 || v >= 1 {
			t.Fatalf("RiVdC(%d) out of [0,1): %v", i, v)
		}
	}
}

func TestHalton2DDiscrepancyBound(t *testing.T) {
	// Cheap proxy for the analytic discrepancy bound: the 2-D (base 2,3)
	// Halton point set should fill a coarse grid roughly evenly.
	const n = 1024
	const grid = 16
	hx, hy := NewHalton(2), NewHalton(3)
	counts := make([]int, grid*grid)
	for i := 0; i < n; i++ {
		x, y := hx.Next(), hy.Next()
		gx := min(grid-1, int(x*grid))
		gy := min(grid-1, int(y*grid))
		counts[gy*grid+gx]++
	}
	expected := float64(n) / float64(grid*grid)
	for _, c := range counts {
		if math.Abs(float64(c)-expected) > expected*6+6 {
			t.Errorf("halton 2D bucket count %d far from expected %v (poor equidistribution)", c, expected)
		}
	}
}
