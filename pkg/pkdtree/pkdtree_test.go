package pkdtree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/yafaray-go/yafaray/pkg/core"
)

type pointItem struct {
	pos core.Vec3
	id  int
}

func (p pointItem) Position() core.Vec3 { return p.pos }

func randomItems(rng *rand.Rand, n int) []pointItem {
	items := make([]pointItem, n)
	for i := range items {
		items[i] = pointItem{
			pos: core.NewVec3(rng.Float64()*10-5, rng.Float64()*10-5, rng.Float64()*10-5),
			id:  i,
		}
	}
	return items
}

func bruteForceKNN(items []pointItem, p core.Vec3, k int) []int {
	type distID struct {
		dist float64
		id   int
	}
	all := make([]distID, len(items))
	for i, it := range items {
		all[i] = distID{it.pos.Subtract(p).LengthSquared(), it.id}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].dist < all[j].dist })
	if k > len(all) {
		k = len(all)
	}
	ids := make([]int, k)
	for i := 0; i < k; i++ {
		ids[i] = all[i].id
	}
	sort.Ints(ids)
	return ids
}

func TestBuildEmptyIsNoOp(t *testing.T) {
	tree := Build[pointItem](nil, 4, nil, core.NopLogger{}, "test")
	if !tree.Empty() {
		t.Fatalf("expected empty tree for empty input")
	}
	maxDist := 1e9
	tree.Lookup(core.NewVec3(0, 0, 0), &maxDist, func(item pointItem, d float64, m *float64) {
		t.Fatalf("lookup on empty tree should never invoke proc")
	})
}

func TestBuildSingleLeaf(t *testing.T) {
	items := []pointItem{{pos: core.NewVec3(1, 2, 3), id: 0}}
	tree := Build(items, 1, nil, core.NopLogger{}, "test")

	found := 0
	maxDist := 1e9
	tree.Lookup(core.NewVec3(1, 2, 3), &maxDist, func(item pointItem, d float64, m *float64) {
		found++
		if item.id != 0 {
			t.Errorf("expected id 0, got %d", item.id)
		}
	})
	if found != 1 {
		t.Errorf("expected exactly one visit, got %d", found)
	}
}

func TestLookupMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	items := randomItems(rng, 500)
	tree := Build(items, 4, nil, core.NopLogger{}, "test")

	for trial := 0; trial < 20; trial++ {
		p := core.NewVec3(rng.Float64()*10-5, rng.Float64()*10-5, rng.Float64()*10-5)

		const k = 8
		want := bruteForceKNN(items, p, k)

		type found struct {
			id   int
			dist float64
		}
		var results []found
		maxDist := 1e18
		tree.Lookup(p, &maxDist, func(item pointItem, d float64, m *float64) {
			results = append(results, found{item.id, d})
		})

		sort.Slice(results, func(i, j int) bool { return results[i].dist < results[j].dist })
		if len(results) < k {
			t.Fatalf("trial %d: unbounded lookup found only %d items, want >= %d", trial, len(results), k)
		}
		got := make([]int, k)
		for i := 0; i < k; i++ {
			got[i] = results[i].id
		}
		sort.Ints(got)
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("trial %d: nearest-%d mismatch\nwant=%v\ngot=%v", trial, k, want, got)
			}
		}
	}
}

func TestLookupShrinksRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	items := randomItems(rng, 300)
	tree := Build(items, 2, nil, core.NopLogger{}, "test")

	p := core.NewVec3(0, 0, 0)
	maxDist := 1e18
	nearest := -1
	nearestDist := maxDist
	tree.Lookup(p, &maxDist, func(item pointItem, d float64, m *float64) {
		if d < nearestDist {
			nearestDist = d
			nearest = item.id
			*m = d // shrink the search radius to the best distance found so far
		}
	})

	want := bruteForceKNN(items, p, 1)
	if len(want) != 1 || want[0] != nearest {
		t.Errorf("shrinking-radius lookup found id %d, brute force nearest is %v", nearest, want)
	}
}

func TestParallelBuildMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(123))
	items := randomItems(rng, 1000)

	treeSeq := Build(append([]pointItem(nil), items...), 1, nil, core.NopLogger{}, "seq")
	treePar := Build(append([]pointItem(nil), items...), 8, nil, core.NopLogger{}, "par")

	p := core.NewVec3(1, 1, 1)
	const k = 5
	want := bruteForceKNN(items, p, k)

	for _, tree := range []*Tree[pointItem]{treeSeq, treePar} {
		type found struct {
			id   int
			dist float64
		}
		var results []found
		maxDist := 1e18
		tree.Lookup(p, &maxDist, func(item pointItem, d float64, m *float64) {
			results = append(results, found{item.id, d})
		})
		sort.Slice(results, func(i, j int) bool { return results[i].dist < results[j].dist })
		if len(results) < k {
			t.Fatalf("tree returned %d items, want >= %d", len(results), k)
		}
		got := make([]int, k)
		for i := 0; i < k; i++ {
			got[i] = results[i].id
		}
		sort.Ints(got)
		for i := range want {
			if want[i] != got[i] {
				t.Errorf("tree mismatch at thread count boundary: want=%v got=%v", want, got)
			}
		}
	}
}
