// Package photon implements the photon map: an append-only set of photon
// records plus the k-d tree used to query them by proximity. It is the
// storage layer the photon prepass writes into and the surface
// integrators read back out of during final gather and density estimation.
package photon

import (
	"container/heap"
	"sort"
	"sync"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/pkdtree"
	"github.com/yafaray-go/yafaray/pkg/rendercontrol"
)

// Photon is immutable once inserted into a Map.
type Photon struct {
	Pos   core.Vec3
	Dir   core.Vec3
	Color core.Vec3 // unnormalised flux, not a reflectance
}

// Position implements pkdtree.Positioner.
func (p *Photon) Position() core.Vec3 { return p.Pos }

// RadiancePoint is a final-gather-prepass record: a shading point the
// radiance map interpolates from. Mutated only by EliminatePhoton-style
// lookup callbacks during construction, then read-only.
type RadiancePoint struct {
	Pos    core.Vec3
	Normal core.Vec3 // face-forward
	Refl   core.Vec3
	Transm core.Vec3
	Use    bool
}

// Position implements pkdtree.Positioner.
func (r *RadiancePoint) Position() core.Vec3 { return r.Pos }

// FoundPhoton is one gather result: a borrowed photon and its squared
// distance to the query point. Comparison is total, ordered by distance.
type FoundPhoton struct {
	Photon      *Photon
	DistSquared float64
}

func (a FoundPhoton) Less(b FoundPhoton) bool { return a.DistSquared < b.DistSquared }

// Map is an append-only photon set plus an optional k-d tree. The tree
// exists if and only if Ready reports true; after Clear, Paths resets to
// zero and the tree is dropped. Gather and FindNearest require Ready.
type Map struct {
	mu      sync.Mutex
	photons []Photon
	paths   int
	name    string
	threads int

	tree  *pkdtree.Tree[*Photon]
	ready bool
}

// New returns an empty, unbuilt Map. name is used only in log messages;
// numThreadsPkdTree controls how many of the k-d tree build's top levels
// run in parallel.
func New(name string, numThreadsPkdTree int) *Map {
	if numThreadsPkdTree < 1 {
		numThreadsPkdTree = 1
	}
	return &Map{name: name, threads: numThreadsPkdTree}
}

// Lock/Unlock expose the mutex push and append are externally serialised
// through, so multiple photon-shooting workers can share one Map.
func (m *Map) Lock()   { m.mu.Lock() }
func (m *Map) Unlock() { m.mu.Unlock() }

// Push appends a single photon and marks the tree stale. Callers must
// hold the Map's lock (via Lock/Unlock) when shooting from multiple
// goroutines.
func (m *Map) Push(p Photon) {
	m.photons = append(m.photons, p)
	m.ready = false
}

// Append adds a batch of photons produced by pathsAdded emission paths,
// marking the tree stale.
func (m *Map) Append(photons []Photon, pathsAdded int) {
	m.photons = append(m.photons, photons...)
	m.paths += pathsAdded
	m.ready = false
}

// NPaths returns the number of emission paths that produced the photons
// currently stored, used to normalise flux into radiance.
func (m *Map) NPaths() int { return m.paths }

// NPhotons returns the number of stored photons.
func (m *Map) NPhotons() int { return len(m.photons) }

// Photons returns a copy of every stored photon, for tooling that
// inspects or re-exports a saved map rather than gathering against it.
func (m *Map) Photons() []Photon {
	out := make([]Photon, len(m.photons))
	copy(out, m.photons)
	return out
}

// Ready reports whether UpdateTree has built a tree over the current
// photon set with no Push/Append since.
func (m *Map) Ready() bool { return m.ready }

// UpdateTree builds the k-d tree over the current photon set.
func (m *Map) UpdateTree(control *rendercontrol.Control, logger core.Logger) {
	items := make([]*Photon, len(m.photons))
	for i := range m.photons {
		items[i] = &m.photons[i]
	}
	m.tree = pkdtree.Build(items, m.threads, control, logger, m.name)
	m.ready = true
}

// Clear drops the tree and all photons, resetting Paths to zero.
func (m *Map) Clear() {
	m.photons = nil
	m.paths = 0
	m.tree = nil
	m.ready = false
}

// gatherHeap is a bounded max-heap on DistSquared: largest distance at
// the root so a full heap can be shrunk by popping it when a closer
// photon arrives.
type gatherHeap []FoundPhoton

func (h gatherHeap) Len() int            { return len(h) }
func (h gatherHeap) Less(i, j int) bool  { return h[i].DistSquared > h[j].DistSquared }
func (h gatherHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *gatherHeap) Push(x any) { *h = append(*h, x.(FoundPhoton)) }
func (h *gatherHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Gather finds up to k nearest photons to p within sqRadius (squared),
// shrinking the search radius once k photons have been found so the
// k-d tree lookup prunes aggressively. Returns the found photons sorted
// nearest-first and the squared radius actually used (which may have
// shrunk below the input value). Requires Ready.
func (m *Map) Gather(p core.Vec3, k int, sqRadius float64) (found []FoundPhoton, usedSqRadius float64) {
	if !m.ready || m.tree == nil {
		return nil, sqRadius
	}

	h := make(gatherHeap, 0, k)
	maxDistSq := sqRadius
	m.tree.Lookup(p, &maxDistSq, func(ph *Photon, distSq float64, maxDist *float64) {
		if h.Len() < k {
			heap.Push(&h, FoundPhoton{Photon: ph, DistSquared: distSq})
			if h.Len() == k {
				*maxDist = h[0].DistSquared
			}
			return
		}
		if distSq < h[0].DistSquared {
			heap.Pop(&h)
			heap.Push(&h, FoundPhoton{Photon: ph, DistSquared: distSq})
			*maxDist = h[0].DistSquared
		}
	})

	result := make([]FoundPhoton, len(h))
	copy(result, h)
	sort.Slice(result, func(i, j int) bool { return result[i].Less(result[j]) })
	return result, maxDistSq
}

// FindNearest returns the nearest photon to p within dist whose
// direction has positive dot product with n (i.e. travelling roughly
// the same way as the surface faces), or nil if none qualifies.
// Requires Ready.
func (m *Map) FindNearest(p core.Vec3, n core.Vec3, dist float64) *Photon {
	if !m.ready || m.tree == nil {
		return nil
	}
	var nearest *Photon
	maxDistSq := dist * dist
	m.tree.Lookup(p, &maxDistSq, func(ph *Photon, distSq float64, maxDist *float64) {
		if ph.Dir.Dot(n) > 0 {
			nearest = ph
			*maxDist = distSq
		}
	})
	return nearest
}
