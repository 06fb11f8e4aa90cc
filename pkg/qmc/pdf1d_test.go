package qmc

import (
	"math"
	"math/rand"
	"testing"

	"github.com/yafaray-go/yafaray/pkg/core"
)

func TestPdf1DRecoversHistogram(t *testing.T) {
	f := []float64{1, 2, 3, 4}
	pdf := NewPdf1D(f)

	rng := rand.New(rand.NewSource(1))
	const n = 1_000_00
	counts := make([]int, len(f))
	for i := 0; i < n; i++ {
		u := minScrambled + rng.Float64()*(1-minScrambled)
		x, p := pdf.Sample(u, nil)
		if p <= 0 {
			t.Fatalf("expected positive pdf, got %v", p)
		}
		idx := int(math.Floor(x))
		if idx < 0 || idx >= len(f) {
			t.Fatalf("sample x=%v out of range", x)
		}
		counts[idx]++
	}

	total := 0.0
	for _, v := range f {
		total += v
	}
	for i, c := range counts {
		want := float64(n) * f[i] / total
		if math.Abs(float64(c)-want) > want*0.05+50 {
			t.Errorf("bucket %d count %d far from expected %v", i, c, want)
		}
	}
}

func TestPdf1DOutOfRangeClampsToZero(t *testing.T) {
	pdf := NewPdf1D([]float64{1, 1})
	x, p := pdf.Sample(-0.5, core.NopLogger{})
	if x < 0 {
		t.Errorf("expected clamped index >= 0, got x=%v", x)
	}
	if p <= 0 {
		t.Errorf("expected a valid pdf after clamping, got %v", p)
	}
}

func TestPdf1DDSample(t *testing.T) {
	pdf := NewPdf1D([]float64{0, 0, 5})
	idx, p := pdf.DSample(0.999, nil)
	if idx != 2 {
		t.Errorf("expected index 2 for the only nonzero bucket, got %d", idx)
	}
	if p <= 0 {
		t.Errorf("expected positive pdf, got %v", p)
	}
}
