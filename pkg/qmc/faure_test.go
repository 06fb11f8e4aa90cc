package qmc

import "testing"

func TestFaurePermutationIsBijection(t *testing.T) {
	for _, b := range []int{2, 3, 5, 7, 11, 16, 23, 37, 64, 101, 229} {
		perm := faurePermutation(b)
		if len(perm) != b {
			t.Fatalf("faurePermutation(%d) has length %d, want %d", b, len(perm), b)
		}
		seen := make([]bool, b)
		for _, v := range perm {
			if v < 0 || v >= b || seen[v] {
				t.Fatalf("faurePermutation(%d) is not a bijection: %v", b, perm)
			}
			seen[v] = true
		}
	}
}

func TestFaureHaltonRange(t *testing.T) {
	for dim := 0; dim < 60; dim++ {
		for n := uint64(0); n < 50; n++ {
			v := FaureHalton(dim, n)
			if v < minScrambled || v > 1 {
				t.Fatalf("FaureHalton(%d,%d) = %v out of range", dim, n, v)
			}
		}
	}
}

func TestFaureHaltonDeterministic(t *testing.T) {
	a := FaureHalton(5, 123)
	b := FaureHalton(5, 123)
	if a != b {
		t.Errorf("FaureHalton not deterministic: %v != %v", a, b)
	}
}
