package film

import (
	"math/rand"
	"sort"
)

// TileOrder selects how a Splitter enumerates tiles.
type TileOrder int

const (
	TileOrderLinear TileOrder = iota
	TileOrderCentreFirst
	TileOrderRandom
)

// Splitter divides a width x height image region into blockSize x blockSize
// tiles (the last row/column may be smaller) and enumerates them in the
// configured order. Built once per pass; GetArea is safe for concurrent
// callers since regions is read-only after construction.
type Splitter struct {
	regions []Tile
}

// NewSplitter builds a splitter over the region [x0,y0) sized w x h,
// split into blockSize tiles. seed controls TileOrderRandom's permutation;
// pass the same seed to get a deterministic enumeration.
func NewSplitter(w, h, x0, y0, blockSize int, order TileOrder, seed int64) *Splitter {
	var regions []Tile
	id := 0
	for y := y0; y < y0+h; y += blockSize {
		th := blockSize
		if y+th > y0+h {
			th = y0 + h - y
		}
		for x := x0; x < x0+w; x += blockSize {
			tw := blockSize
			if x+tw > x0+w {
				tw = x0 + w - x
			}
			regions = append(regions, Tile{
				ID: id, X: x, Y: y, W: tw, H: th,
				SafeX0: x, SafeX1: x + tw,
				SafeY0: y, SafeY1: y + th,
			})
			id++
		}
	}

	switch order {
	case TileOrderCentreFirst:
		cx, cy := x0+w/2, y0+h/2
		sort.SliceStable(regions, func(i, j int) bool {
			return sqDistToCentre(regions[i], cx, cy) < sqDistToCentre(regions[j], cx, cy)
		})
	case TileOrderRandom:
		rng := rand.New(rand.NewSource(seed))
		rng.Shuffle(len(regions), func(i, j int) { regions[i], regions[j] = regions[j], regions[i] })
	}

	return &Splitter{regions: regions}
}

func sqDistToCentre(t Tile, cx, cy int) int {
	dx := t.X + t.W/2 - cx
	dy := t.Y + t.H/2 - cy
	return dx*dx + dy*dy
}

// Empty reports whether the splitter has no tiles, e.g. a zero-area image.
func (s *Splitter) Empty() bool { return len(s.regions) == 0 }

// Size returns the total number of tiles.
func (s *Splitter) Size() int { return len(s.regions) }

// GetArea returns the n-th tile in enumeration order, or false if n is out
// of range.
func (s *Splitter) GetArea(n int) (Tile, bool) {
	if n < 0 || n >= len(s.regions) {
		return Tile{}, false
	}
	return s.regions[n], true
}
