package pkdtree

// nthElement partially sorts s in place so that s[k] holds the element
// that would be there in a full sort by less, every element before k
// compares less-or-equal to it, and every element after compares
// greater-or-equal. Equivalent to C++'s std::nth_element; implemented
// as quickselect with a median-of-three pivot and a single-index
// (Lomuto-style) partition, since the standard library has no
// order-statistic primitive.
func nthElement[T any](s []T, k int, less func(a, b T) bool) {
	lo, hi := 0, len(s)-1
	for lo < hi {
		p := partition(s, lo, hi, less)
		switch {
		case k == p:
			return
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
}

func partition[T any](s []T, lo, hi int, less func(a, b T) bool) int {
	mid := lo + (hi-lo)/2
	medianOfThree(s, lo, mid, hi, less)
	pivot := s[mid]
	s[mid], s[hi-1] = s[hi-1], s[mid]

	store := lo
	for i := lo; i < hi-1; i++ {
		if less(s[i], pivot) {
			s[i], s[store] = s[store], s[i]
			store++
		}
	}
	s[store], s[hi-1] = s[hi-1], s[store]
	return store
}

func medianOfThree[T any](s []T, a, b, c int, less func(x, y T) bool) {
	if less(s[b], s[a]) {
		s[a], s[b] = s[b], s[a]
	}
	if less(s[c], s[b]) {
		s[b], s[c] = s[c], s[b]
	}
	if less(s[b], s[a]) {
		s[a], s[b] = s[b], s[a]
	}
}
