package pkdtree

import (
	"math/rand"
	"sort"
	"testing"
)

func TestNthElementMatchesSortedOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(200)
		data := make([]int, n)
		for i := range data {
			data[i] = rng.Intn(1000)
		}
		k := rng.Intn(n)

		want := append([]int(nil), data...)
		sort.Ints(want)

		got := append([]int(nil), data...)
		nthElement(got, k, func(a, b int) bool { return a < b })

		if got[k] != want[k] {
			t.Fatalf("trial %d: nthElement(%d) = %d, want %d (n=%d)", trial, k, got[k], want[k], n)
		}
		for i := 0; i < k; i++ {
			if got[i] > got[k] {
				t.Fatalf("trial %d: element %d=%d greater than pivot %d", trial, i, got[i], got[k])
			}
		}
		for i := k + 1; i < n; i++ {
			if got[i] < got[k] {
				t.Fatalf("trial %d: element %d=%d less than pivot %d", trial, i, got[i], got[k])
			}
		}
	}
}

func TestNthElementSingleAndPair(t *testing.T) {
	a := []int{42}
	nthElement(a, 0, func(x, y int) bool { return x < y })
	if a[0] != 42 {
		t.Fatalf("single-element nthElement mutated value: %v", a)
	}

	b := []int{5, 3}
	nthElement(b, 0, func(x, y int) bool { return x < y })
	if b[0] != 3 {
		t.Fatalf("expected smaller element at index 0, got %v", b)
	}
}
